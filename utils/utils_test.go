package utils

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vosslab/hilbert-curve-brick/config"
	"github.com/vosslab/hilbert-curve-brick/gradient"
	"github.com/vosslab/hilbert-curve-brick/hilbert"
	"github.com/vosslab/hilbert-curve-brick/logger"
	"github.com/vosslab/hilbert-curve-brick/render"
	"github.com/vosslab/hilbert-curve-brick/volume"
	"github.com/vosslab/hilbert-curve-brick/vopl"
)

func curveVolume(t *testing.T, d int) *volume.Volume {
	t.Helper()
	c, err := hilbert.Generate(d)
	if err != nil {
		t.Fatalf("Generate(%d) failed: %v", d, err)
	}
	return BuildVolume(c)
}

func TestRun_AllOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dimension = 2
	cfg.CellSize = 4
	cfg.OutputDir = filepath.Join(dir, "slices")
	cfg.VOPLPack = filepath.Join(dir, "curve.voplpack")
	cfg.GLB = filepath.Join(dir, "curve.glb")
	cfg.LDraw = filepath.Join(dir, "curve.ldr")

	paths, err := Run(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("wrote %d slices, want 2", len(paths))
	}
	for _, p := range []string{cfg.VOPLPack, cfg.GLB, cfg.LDraw} {
		fi, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing output %s: %v", p, err)
		}
		if fi.Size() == 0 {
			t.Fatalf("empty output %s", p)
		}
	}

	files, err := UnpackToDir(cfg.VOPLPack, filepath.Join(dir, "chunks"))
	if err != nil {
		t.Fatalf("UnpackToDir failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("unpacked %d chunks, want 1", len(files))
	}
	grid, err := vopl.LoadGrid(files[0])
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}
	if grid.Count() != 15 {
		t.Fatalf("chunk holds %d voxels, want 15", grid.Count())
	}
}

func TestRun_InvalidRange(t *testing.T) {
	cfg := config.Default()
	cfg.Dimension = 2
	cfg.Begin, cfg.End = 1, 3
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	if _, err := Run(context.Background(), cfg, nil); !errors.Is(err, render.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("output directory created on invalid range")
	}
}

func TestRun_NoPNGs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dimension = 4
	cfg.WritePNGs = false
	cfg.OutputDir = filepath.Join(dir, "unused")
	cfg.LDraw = filepath.Join(dir, "only.ldr")
	paths, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("slices written with PNGs disabled")
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("slice directory created with PNGs disabled")
	}
}

func TestBuildPack_Chunks(t *testing.T) {
	for _, tc := range []struct{ d, chunks int }{{8, 1}, {16, 8}} {
		v := curveVolume(t, tc.d)
		pack, err := BuildPack(v)
		if err != nil {
			t.Fatalf("BuildPack(%d) failed: %v", tc.d, err)
		}
		if len(pack.Entries) != tc.chunks {
			t.Fatalf("d=%d: %d entries, want %d", tc.d, len(pack.Entries), tc.chunks)
		}
		total := 0
		for i := range pack.Entries {
			g, err := pack.Grid(i)
			if err != nil {
				t.Fatalf("Grid(%d) failed: %v", i, err)
			}
			total += g.Count()
		}
		if total != v.Count() {
			t.Fatalf("d=%d: chunks hold %d voxels, volume has %d", tc.d, total, v.Count())
		}
	}
}

func TestVOPLPackBytes_RoundTrip(t *testing.T) {
	v := curveVolume(t, 8)
	data, err := VOPLPackBytes(v, vopl.PackCompZstd)
	if err != nil {
		t.Fatalf("VOPLPackBytes failed: %v", err)
	}
	pack, comp, err := vopl.UnmarshalPack(data)
	if err != nil {
		t.Fatalf("UnmarshalPack failed: %v", err)
	}
	if comp != vopl.PackCompZstd || pack.Entries[0].Name != "chunk_0_0_0.vopl" {
		t.Fatalf("unexpected pack: %v %q", comp, pack.Entries[0].Name)
	}
	g, err := pack.Grid(0)
	if err != nil {
		t.Fatal(err)
	}
	if g.At(1, 1, 1) != v.At(1, 1, 1) || g.At(1, 1, 1) == 0 {
		t.Fatalf("origin voxel lost in round trip")
	}
}

func TestBuildPack_Empty(t *testing.T) {
	if _, err := BuildPack(volume.New(4, 4, 4)); err == nil {
		t.Fatalf("expected error for an empty volume")
	}
}

func TestGLBBytes(t *testing.T) {
	grad, _ := gradient.ByName("rainbow")
	data, err := GLBBytes(curveVolume(t, 2), vopl.NewPalette(grad), Title(2))
	if err != nil {
		t.Fatalf("GLBBytes failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Fatalf("output is not binary glTF")
	}
	doc, err := BuildGLBDocument(curveVolume(t, 2), vopl.NewPalette(grad), "m")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 || len(doc.Scenes[0].Nodes) != 1 {
		t.Fatalf("unexpected document layout")
	}
	if _, err := GLBBytes(volume.New(2, 2, 2), vopl.NewPalette(grad), "empty"); err == nil {
		t.Fatalf("expected error for an empty volume")
	}
}

func TestLDrawBytes(t *testing.T) {
	data, err := LDrawBytes(curveVolume(t, 2), 15, Title(2), "hilbert2.ldr")
	if err != nil {
		t.Fatalf("LDrawBytes failed: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "0 FILE hilbert2.ldr\n0 Name: Hilbert curve 2x2x2\n") {
		t.Fatalf("unexpected header:\n%s", text)
	}
	if !strings.Contains(text, "\n1 15 ") {
		t.Fatalf("no brick lines:\n%s", text)
	}
}
