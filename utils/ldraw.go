package utils

import (
	"bytes"
	"fmt"

	"github.com/vosslab/hilbert-curve-brick/ldraw"
	"github.com/vosslab/hilbert-curve-brick/logger"
	"github.com/vosslab/hilbert-curve-brick/volume"
)

// LDrawBytes returns the LDraw model for v.
func LDrawBytes(v *volume.Volume, color int, title, filename string) ([]byte, error) {
	var buf bytes.Buffer
	if err := ldraw.Write(&buf, ldraw.Bricks(v), color, title, filename); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunLDraw tiles v with bricks and writes the model to outPath.
func RunLDraw(v *volume.Volume, outPath string, color int, title string, log *logger.Logger) error {
	defer log.Step("ldraw export")()
	bricks := ldraw.Bricks(v)
	if err := ldraw.WriteFile(outPath, bricks, color, title); err != nil {
		return fmt.Errorf("ldraw: %w", err)
	}
	log.Info("%d bricks from %d filled cells", len(bricks), v.Count())
	log.Saved(".ldr", outPath)
	return nil
}
