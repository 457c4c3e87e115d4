package vopl

import (
	"bytes"
	"errors"
	"image/color"
	"math/rand"
	"testing"

	"github.com/vosslab/hilbert-curve-brick/gradient"
)

func randomGrid(seed int64, fill float64) *VoxelGrid {
	rng := rand.New(rand.NewSource(seed))
	g := new(VoxelGrid)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			for z := 0; z < Depth; z++ {
				if rng.Float64() < fill {
					g[y][x][z] = uint8(1 + rng.Intn(63))
				}
			}
		}
	}
	return g
}

func TestMorton_RoundTrip(t *testing.T) {
	for _, p := range [][3]uint32{{0, 0, 0}, {1, 2, 3}, {15, 15, 15}, {1 << 20, 7, 99}} {
		m := Morton3D64(p[0], p[1], p[2])
		x, y, z := MortonDecode3D64(m)
		if x != p[0] || y != p[1] || z != p[2] {
			t.Fatalf("Morton round trip %v -> %d -> %d,%d,%d", p, m, x, y, z)
		}
	}
	if Morton3D64(1, 0, 0) != 1 || Morton3D64(0, 1, 0) != 2 || Morton3D64(0, 0, 1) != 4 {
		t.Fatalf("unexpected bit interleave")
	}
}

func TestMortonOrder_Permutation(t *testing.T) {
	seen := make([]bool, cells)
	for _, lin := range mortonOrder {
		if seen[lin] {
			t.Fatalf("linear index %d appears twice", lin)
		}
		seen[lin] = true
	}
	if mortonOrder[0] != 0 {
		t.Fatalf("rank 0 should be the origin voxel")
	}
}

func TestEncodings_RoundTrip(t *testing.T) {
	grids := map[string]*VoxelGrid{
		"empty":  new(VoxelGrid),
		"sparse": randomGrid(1, 0.02),
		"half":   randomGrid(2, 0.5),
		"full":   randomGrid(3, 1.1),
	}
	// a lone voxel with a Morton rank above 255
	far := new(VoxelGrid)
	far[15][15][15] = 42
	grids["far"] = far

	encoders := map[uint8]func(*VoxelGrid, uint8) []byte{
		encDense:   encodeDense,
		encSparse:  encodeSparse,
		encSparse2: encodeSparse2,
	}
	for name, g := range grids {
		for enc, fn := range encoders {
			got, err := decodePayload(enc, DefaultBPP, fn(g, DefaultBPP))
			if err != nil {
				t.Fatalf("%s enc %d: decode failed: %v", name, enc, err)
			}
			if *got != *g {
				t.Fatalf("%s enc %d: grid mismatch", name, enc)
			}
		}
		got, err := DecodeGrid(EncodeGrid(g))
		if err != nil {
			t.Fatalf("%s: DecodeGrid failed: %v", name, err)
		}
		if *got != *g {
			t.Fatalf("%s: best encoding round trip mismatch", name)
		}
	}
}

func TestBestEncoding_PrefersSmall(t *testing.T) {
	g := new(VoxelGrid)
	g[3][4][5] = 7
	best := bestEncoding(g, DefaultBPP)
	if len(best.payload) >= len(encodeDense(g, DefaultBPP)) {
		t.Fatalf("best payload %d bytes is not smaller than dense", len(best.payload))
	}
}

func TestSaveLoadGrid(t *testing.T) {
	path := t.TempDir() + "/chunk.vopl"
	g := randomGrid(4, 0.1)
	if err := SaveGrid(g, path); err != nil {
		t.Fatalf("SaveGrid failed: %v", err)
	}
	got, err := LoadGrid(path)
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}
	if *got != *g {
		t.Fatalf("loaded grid differs")
	}
}

func TestParseHeader_Errors(t *testing.T) {
	good := EncodeGrid(randomGrid(5, 0.1))
	hdr, _, payload, err := ParseHeader(good)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if hdr.W != Width || hdr.BPP != DefaultBPP || hdr.Pal != PaletteSize || int(hdr.PLen) != len(payload) {
		t.Fatalf("unexpected header %+v", hdr)
	}

	badMagic := append([]byte("XOPL"), good[4:]...)
	badVer := append([]byte(nil), good...)
	badVer[4] = 2
	short := good[:len(good)-1]
	for name, data := range map[string][]byte{"magic": badMagic, "version": badVer, "length": short, "tiny": good[:3]} {
		if _, err := DecodeGrid(data); !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: err = %v, want ErrFormat", name, err)
		}
	}
}

func testPack() *Pack {
	p := NewPack()
	for i := int64(0); i < 4; i++ {
		p.AddGrid(ChunkName(int(i)*Width, 0, 0), randomGrid(10+i, 0.3))
	}
	// a duplicate chunk to exercise dedup
	p.AddGrid("chunk_dup.vopl", randomGrid(10, 0.3))
	return p
}

func TestPack_RoundTrip(t *testing.T) {
	p := testPack()
	cases := []struct {
		layout  PackLayout
		comp    PackCompression
		version byte
	}{
		{LayoutRaw, PackCompNone, 1},
		{LayoutRaw, PackCompZlib, 1},
		{LayoutRaw, PackCompZstd, 2},
		{LayoutCDC, PackCompNone, 2},
		{LayoutCDC, PackCompZstd, 2},
	}
	for _, c := range cases {
		data, err := p.MarshalEx(c.layout, c.comp)
		if err != nil {
			t.Fatalf("MarshalEx(%d,%v) failed: %v", c.layout, c.comp, err)
		}
		if data[8] != c.version {
			t.Fatalf("layout %d %v: version %d, want %d", c.layout, c.comp, data[8], c.version)
		}
		got, comp, err := UnmarshalPack(data)
		if err != nil {
			t.Fatalf("UnmarshalPack(%d,%v) failed: %v", c.layout, c.comp, err)
		}
		if comp != c.comp || got.Header.BPP != p.Header.BPP || len(got.Entries) != len(p.Entries) {
			t.Fatalf("layout %d %v: header or entry count mismatch", c.layout, c.comp)
		}
		for i, e := range p.Entries {
			ge := got.Entries[i]
			if ge.Name != e.Name || ge.Enc != e.Enc || !bytes.Equal(ge.Payload, e.Payload) {
				t.Fatalf("layout %d %v: entry %d differs", c.layout, c.comp, i)
			}
			g, err := got.Grid(i)
			if err != nil {
				t.Fatalf("Grid(%d) failed: %v", i, err)
			}
			want, _ := p.Grid(i)
			if *g != *want {
				t.Fatalf("entry %d grid differs", i)
			}
		}
	}
}

func TestCDC_Dedup(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	blob := make([]byte, 40000)
	rng.Read(blob)
	one, _ := buildCDCIndex([]PackEntry{{Payload: blob}}, cdcTarget, cdcMin, cdcMax)
	two, seqs := buildCDCIndex([]PackEntry{{Payload: blob}, {Payload: blob}}, cdcTarget, cdcMin, cdcMax)
	if len(one) != len(two) {
		t.Fatalf("duplicate payload added blocks: %d vs %d", len(one), len(two))
	}
	if len(seqs[0]) != len(seqs[1]) {
		t.Fatalf("sequences differ")
	}
	for _, blk := range two {
		if len(blk) > cdcMax {
			t.Fatalf("block of %d bytes exceeds max", len(blk))
		}
	}
}

func TestPack_AddFile(t *testing.T) {
	p := NewPack()
	g := randomGrid(8, 0.2)
	if err := p.AddFile("a.vopl", EncodeGrid(g)); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if !bytes.Equal(p.File(0), EncodeGrid(g)) {
		t.Fatalf("File(0) does not rebuild the original bytes")
	}
	if err := p.AddFile("b.vopl", EncodeGridBPP(g, 8)); !errors.Is(err, ErrFormat) {
		t.Fatalf("mismatched bpp: err = %v", err)
	}
}

func TestUnmarshalPack_Errors(t *testing.T) {
	if _, _, err := UnmarshalPack([]byte("NOTAPACK..")); !errors.Is(err, ErrFormat) {
		t.Fatalf("bad magic: err = %v", err)
	}
	data, err := testPack().Marshal(PackCompNone)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := UnmarshalPack(data[:len(data)-10]); err == nil {
		t.Fatalf("truncated pack accepted")
	}
	bad := append([]byte(nil), data...)
	bad[9] = 9
	if _, _, err := UnmarshalPack(bad); !errors.Is(err, ErrFormat) {
		t.Fatalf("bad codec: err = %v", err)
	}
}

func TestGenerateMesh(t *testing.T) {
	one := new(VoxelGrid)
	one[0][0][0] = 1
	m := GenerateMesh(one)
	if m.Quads() != 6 || len(m.Vertices) != 24 {
		t.Fatalf("single voxel: %d quads, %d vertices", m.Quads(), len(m.Vertices))
	}

	bar := new(VoxelGrid)
	bar[0][0][0], bar[0][1][0], bar[0][2][0] = 3, 3, 3
	if q := GenerateMesh(bar).Quads(); q != 6 {
		t.Fatalf("merged bar: %d quads, want 6", q)
	}

	bar[0][1][0] = 4
	if q := GenerateMesh(bar).Quads(); q != 14 {
		t.Fatalf("striped bar: %d quads, want 14", q)
	}

	for _, v := range m.Vertices {
		for _, c := range v.Position {
			if c < 0 || c > 1 {
				t.Fatalf("vertex %v outside the unit voxel", v.Position)
			}
		}
	}
}

type box struct{ w, h, d int }

func (b box) Dims() (int, int, int) { return b.w, b.h, b.d }
func (b box) At(x, y, z int) uint8 {
	if x < 0 || y < 0 || z < 0 || x >= b.w || y >= b.h || z >= b.d {
		return 0
	}
	return 1
}

func TestGenerateMesh_AnySource(t *testing.T) {
	m := GenerateMesh(box{40, 3, 20})
	if m.Quads() != 6 {
		t.Fatalf("solid box: %d quads, want 6", m.Quads())
	}
	g := GridFrom(box{40, 3, 20}, 32, 0, 16)
	if g.Count() != 8*3*4 {
		t.Fatalf("GridFrom count = %d", g.Count())
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette(gradient.Even(color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 0, 0, 255}))
	if p[0] != "#00000000" {
		t.Fatalf("slot 0 = %s, want transparent", p[0])
	}
	if p[1] != "#000000ff" || p[PaletteSize-1] != "#ff0000ff" {
		t.Fatalf("ramp ends = %s, %s", p[1], p[PaletteSize-1])
	}
	rgba, err := p.RGBA(PaletteSize - 1)
	if err != nil {
		t.Fatalf("RGBA failed: %v", err)
	}
	if rgba != [4]float32{1, 0, 0, 1} {
		t.Fatalf("RGBA = %v", rgba)
	}
	if _, err := p.RGBA(PaletteSize); err == nil {
		t.Fatalf("slot %d accepted", PaletteSize)
	}
	half, err := ParseHexColor("#00ff0000")
	if err != nil || half != [4]float32{0, 1, 0, 0} {
		t.Fatalf("ParseHexColor = %v, %v", half, err)
	}
	if _, err := ParseHexColor("00ff00"); err == nil {
		t.Fatalf("missing # accepted")
	}
}
