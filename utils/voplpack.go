package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vosslab/hilbert-curve-brick/logger"
	"github.com/vosslab/hilbert-curve-brick/volume"
	"github.com/vosslab/hilbert-curve-brick/vopl"
)

// BuildPack cuts v into 16³ chunks and encodes the non-empty ones into a
// pack. Chunks are encoded in parallel; entry order follows the y, x, z
// chunk walk.
func BuildPack(v *volume.Volume) (*vopl.Pack, error) {
	type item struct {
		name string
		data []byte
	}
	var origins [][3]int
	_ = v.Chunks(vopl.Width, func(ox, oy, oz int) error {
		origins = append(origins, [3]int{ox, oy, oz})
		return nil
	})
	if len(origins) == 0 {
		return nil, fmt.Errorf("voplpack: volume is empty")
	}

	items := make([]item, len(origins))
	var wg sync.WaitGroup
	for i, o := range origins {
		wg.Add(1)
		go func(i int, o [3]int) {
			defer wg.Done()
			grid := vopl.GridFrom(v, o[0], o[1], o[2])
			items[i] = item{name: vopl.ChunkName(o[0], o[1], o[2]), data: vopl.EncodeGrid(grid)}
		}(i, o)
	}
	wg.Wait()

	pack := vopl.NewPack()
	for _, it := range items {
		if err := pack.AddFile(it.name, it.data); err != nil {
			return nil, err
		}
	}
	return pack, nil
}

// VOPLPackBytes builds the pack for v and marshals it with the CDC layout.
func VOPLPackBytes(v *volume.Volume, comp vopl.PackCompression) ([]byte, error) {
	pack, err := BuildPack(v)
	if err != nil {
		return nil, err
	}
	return pack.MarshalEx(vopl.LayoutCDC, comp)
}

// RunVOPLPack writes v as a .voplpack file.
func RunVOPLPack(v *volume.Volume, outPath string, comp vopl.PackCompression, log *logger.Logger) error {
	defer log.Step("voplpack export")()
	data, err := VOPLPackBytes(v, comp)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("voplpack: %w", err)
	}
	log.Debug("%d×%d×%d volume, %s content", v.W, v.H, v.D, comp)
	log.Saved(".voplpack", outPath)
	return nil
}

// UnpackToDir writes every entry of a .voplpack as a standalone .vopl file
// in outputDir and returns the written paths.
func UnpackToDir(packFile, outputDir string) ([]string, error) {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return nil, err
	}
	pack, _, err := vopl.UnmarshalPack(data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(pack.Entries))
	var wg sync.WaitGroup
	errCh := make(chan error, len(pack.Entries))
	for i, e := range pack.Entries {
		paths[i] = filepath.Join(outputDir, filepath.Base(e.Name))
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := os.WriteFile(paths[i], pack.File(i), 0o644); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}
	return paths, nil
}
