package vopl

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// PackCompression indicates the compression used for the pack content section.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZlib PackCompression = 1
	PackCompZstd PackCompression = 2
)

// ParseCompression accepts "none", "zlib" or "zstd".
func ParseCompression(s string) (PackCompression, error) {
	switch s {
	case "none":
		return PackCompNone, nil
	case "zlib":
		return PackCompZlib, nil
	case "zstd", "":
		return PackCompZstd, nil
	}
	return PackCompNone, fmt.Errorf("unknown pack compression %q", s)
}

func (c PackCompression) String() string {
	switch c {
	case PackCompNone:
		return "none"
	case PackCompZlib:
		return "zlib"
	case PackCompZstd:
		return "zstd"
	}
	return fmt.Sprintf("PackCompression(%d)", uint8(c))
}

const (
	packMagic    = "VOPLPACK"
	packVersion1 = 1
	packVersion2 = 2
)

// PackLayout specifies how the content section encodes entries.
type PackLayout uint8

const (
	// LayoutRaw stores entries as independent payload blobs (v1).
	LayoutRaw PackLayout = 0
	// LayoutCDC stores a content-defined chunk dictionary and each entry as
	// a sequence of block references.
	LayoutCDC PackLayout = 1
)

// CDC block sizing.
const (
	cdcTarget = 4096
	cdcMin    = 2048
	cdcMax    = 16384
)

// PackEntry is one chunk payload inside a pack.
type PackEntry struct {
	Name    string
	Enc     uint8
	Payload []byte
}

// Pack holds the header shared by all entries and the entries themselves.
type Pack struct {
	Header  Header
	Entries []PackEntry
}

// NewPack returns an empty pack for DefaultBPP chunks.
func NewPack() *Pack {
	return &Pack{Header: DefaultHeader()}
}

// AddGrid encodes grid at the pack's BPP and appends it under name.
func (p *Pack) AddGrid(name string, grid *VoxelGrid) {
	_, enc, payload := encodeChunk(grid, p.Header.BPP)
	p.Entries = append(p.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
}

// AddFile appends a full .vopl file. Its header must match the pack's.
func (p *Pack) AddFile(name string, data []byte) error {
	hdr, enc, payload, err := ParseHeader(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !hdr.sameShape(p.Header) {
		return fmt.Errorf("%w: %s header differs from pack", ErrFormat, name)
	}
	p.Entries = append(p.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
	return nil
}

// Grid decodes entry i.
func (p *Pack) Grid(i int) (*VoxelGrid, error) {
	e := p.Entries[i]
	g, err := decodePayload(e.Enc, p.Header.BPP, e.Payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return g, nil
}

// File rebuilds entry i as a standalone .vopl file.
func (p *Pack) File(i int) []byte {
	e := p.Entries[i]
	return BuildFile(p.Header, e.Enc, e.Payload)
}

// Marshal encodes with the v1 raw layout.
func (p *Pack) Marshal(comp PackCompression) ([]byte, error) {
	return p.MarshalEx(LayoutRaw, comp)
}

// MarshalEx encodes the pack with the given layout and content codec. Raw
// layout with none or zlib stays a v1 pack; anything else is v2.
func (p *Pack) MarshalEx(layout PackLayout, comp PackCompression) ([]byte, error) {
	if p.Header.Ver != Version {
		return nil, fmt.Errorf("%w: pack header version %d", ErrFormat, p.Header.Ver)
	}
	version := uint8(packVersion2)
	if layout == LayoutRaw && (comp == PackCompNone || comp == PackCompZlib) {
		version = packVersion1
	}
	var content bytes.Buffer
	put := func(v any) { _ = binary.Write(&content, binary.LittleEndian, v) }
	putName := func(name string) error {
		if len(name) > math.MaxUint16 {
			return fmt.Errorf("%w: entry name too long: %.32s...", ErrFormat, name)
		}
		put(uint16(len(name)))
		content.WriteString(name)
		return nil
	}

	put(p.Header.Ver)
	put(p.Header.BPP)
	put(p.Header.W)
	put(p.Header.H)
	put(p.Header.D)
	put(p.Header.Pal)

	switch layout {
	case LayoutRaw:
		if version >= packVersion2 {
			put(uint8(LayoutRaw))
		}
		put(uint32(len(p.Entries)))
		for _, e := range p.Entries {
			if err := putName(e.Name); err != nil {
				return nil, err
			}
			put(e.Enc)
			put(uint32(len(e.Payload)))
			content.Write(e.Payload)
		}
	case LayoutCDC:
		put(uint8(LayoutCDC))
		put(uint32(cdcTarget))
		put(uint32(cdcMin))
		put(uint32(cdcMax))

		dict, sequences := buildCDCIndex(p.Entries, cdcTarget, cdcMin, cdcMax)
		put(uint32(len(dict)))
		for _, blk := range dict {
			put(uint32(len(blk)))
			content.Write(blk)
		}
		put(uint32(len(p.Entries)))
		for i, e := range p.Entries {
			if err := putName(e.Name); err != nil {
				return nil, err
			}
			put(e.Enc)
			put(uint32(len(e.Payload)))
			put(uint32(len(sequences[i])))
			for _, idx := range sequences[i] {
				put(uint32(idx))
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported layout %d", ErrFormat, layout)
	}

	var body []byte
	switch comp {
	case PackCompNone:
		body = content.Bytes()
	case PackCompZlib:
		var buf bytes.Buffer
		zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if _, err := zw.Write(content.Bytes()); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		body = buf.Bytes()
	case PackCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(content.Bytes(), nil)
		_ = enc.Close()
	default:
		return nil, fmt.Errorf("%w: unsupported compression %d", ErrFormat, comp)
	}

	var out bytes.Buffer
	out.Grow(len(packMagic) + 2 + len(body))
	out.WriteString(packMagic)
	out.WriteByte(version)
	out.WriteByte(uint8(comp))
	out.Write(body)
	return out.Bytes(), nil
}

// packReader reads little-endian fields and keeps the first error.
type packReader struct {
	r   *bytes.Reader
	err error
}

func (pr *packReader) read(v any) {
	if pr.err == nil {
		pr.err = binary.Read(pr.r, binary.LittleEndian, v)
	}
}

func (pr *packReader) bytes(n int) []byte {
	if pr.err != nil {
		return nil
	}
	if n > pr.r.Len() {
		pr.err = io.ErrUnexpectedEOF
		return nil
	}
	b := make([]byte, n)
	_, pr.err = io.ReadFull(pr.r, b)
	return b
}

func (pr *packReader) name() string {
	var n uint16
	pr.read(&n)
	return string(pr.bytes(int(n)))
}

// UnmarshalPack parses a .voplpack and reports the content codec it used.
func UnmarshalPack(data []byte) (*Pack, PackCompression, error) {
	if len(data) < len(packMagic)+2 || string(data[:len(packMagic)]) != packMagic {
		return nil, 0, fmt.Errorf("%w: missing VOPLPACK magic", ErrFormat)
	}
	version := data[8]
	comp := PackCompression(data[9])
	body := data[10:]
	switch comp {
	case PackCompNone:
	case PackCompZlib:
		b, err := zlibDecompress(body)
		if err != nil {
			return nil, 0, fmt.Errorf("vopl: inflate pack: %w", err)
		}
		body = b
	case PackCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		b, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("vopl: zstd pack: %w", err)
		}
		body = b
	default:
		return nil, 0, fmt.Errorf("%w: unsupported compression %d", ErrFormat, comp)
	}

	pr := &packReader{r: bytes.NewReader(body)}
	var hdr Header
	pr.read(&hdr.Ver)
	pr.read(&hdr.BPP)
	pr.read(&hdr.W)
	pr.read(&hdr.H)
	pr.read(&hdr.D)
	pr.read(&hdr.Pal)

	layout := LayoutRaw
	switch {
	case version >= packVersion2:
		var lb uint8
		pr.read(&lb)
		layout = PackLayout(lb)
	case version != packVersion1:
		return nil, 0, fmt.Errorf("%w: unsupported pack version %d", ErrFormat, version)
	}
	if pr.err != nil {
		return nil, 0, fmt.Errorf("vopl: pack header: %w", pr.err)
	}

	pack := &Pack{Header: hdr}
	switch layout {
	case LayoutRaw:
		var n uint32
		pr.read(&n)
		for i := uint32(0); i < n && pr.err == nil; i++ {
			var e PackEntry
			e.Name = pr.name()
			pr.read(&e.Enc)
			var plen uint32
			pr.read(&plen)
			e.Payload = pr.bytes(int(plen))
			pack.Entries = append(pack.Entries, e)
		}
	case LayoutCDC:
		var target, minSz, maxSz, nBlocks uint32
		pr.read(&target)
		pr.read(&minSz)
		pr.read(&maxSz)
		pr.read(&nBlocks)
		var blocks [][]byte
		for i := uint32(0); i < nBlocks && pr.err == nil; i++ {
			var blen uint32
			pr.read(&blen)
			blocks = append(blocks, pr.bytes(int(blen)))
		}
		var n uint32
		pr.read(&n)
		for i := uint32(0); i < n && pr.err == nil; i++ {
			var e PackEntry
			var rawLen, seqLen uint32
			e.Name = pr.name()
			pr.read(&e.Enc)
			pr.read(&rawLen)
			pr.read(&seqLen)
			payload := make([]byte, 0, rawLen)
			for j := uint32(0); j < seqLen && pr.err == nil; j++ {
				var idx uint32
				pr.read(&idx)
				if pr.err != nil {
					break
				}
				if int(idx) >= len(blocks) {
					return nil, 0, fmt.Errorf("%w: block index %d of %d", ErrFormat, idx, len(blocks))
				}
				payload = append(payload, blocks[idx]...)
				if uint64(len(payload)) > uint64(rawLen)+uint64(maxSz) {
					return nil, 0, fmt.Errorf("%w: CDC sequence overruns %s", ErrFormat, e.Name)
				}
			}
			if uint32(len(payload)) > rawLen {
				payload = payload[:rawLen]
			}
			e.Payload = payload
			pack.Entries = append(pack.Entries, e)
		}
	default:
		return nil, 0, fmt.Errorf("%w: unknown layout %d", ErrFormat, layout)
	}
	if pr.err != nil {
		return nil, 0, fmt.Errorf("vopl: pack entries: %w", pr.err)
	}
	return pack, comp, nil
}

// gearTable seeds the rolling hash deterministically from xxhash.
var gearTable = buildGear()

func buildGear() [256]uint64 {
	var gear [256]uint64
	seed := xxhash.Sum64String("vopl-cdc-gear-seed")
	for i := range gear {
		var b [16]byte
		binary.LittleEndian.PutUint64(b[:8], seed+uint64(i)*0x9E3779B185EBCA87)
		binary.LittleEndian.PutUint64(b[8:], ^(seed + uint64(i)*0xC2B2AE3D27D4EB4F))
		v := xxhash.Sum64(b[:])
		if v == 0 {
			v = 0x9E3779B185EBCA87
		}
		gear[i] = v
	}
	return gear
}

// buildCDCIndex cuts every payload at content-defined boundaries and returns
// the deduplicated block dictionary plus each entry's block sequence.
func buildCDCIndex(entries []PackEntry, target, minSz, maxSz int) ([][]byte, [][]int) {
	blocks := make([][]byte, 0, 256)
	index := make(map[uint64]int, 1024)
	seqs := make([][]int, len(entries))

	pow := 1 << int(math.Round(math.Log2(float64(target))))
	if pow <= 0 {
		pow = cdcTarget
	}
	mask := uint64(pow - 1)

	addBlock := func(b []byte) int {
		h := xxhash.Sum64(b)
		if idx, ok := index[h]; ok && bytes.Equal(blocks[idx], b) {
			return idx
		}
		idx := len(blocks)
		blocks = append(blocks, append([]byte(nil), b...))
		index[h] = idx
		return idx
	}

	for i, e := range entries {
		data := e.Payload
		var seq []int
		start := 0
		var h uint64
		for pos := 0; pos < len(data); pos++ {
			h = h<<1 + gearTable[data[pos]]
			if pos-start+1 < minSz {
				continue
			}
			if h&mask == 0 || pos-start+1 >= maxSz {
				seq = append(seq, addBlock(data[start:pos+1]))
				start = pos + 1
				h = 0
			}
		}
		if start < len(data) {
			seq = append(seq, addBlock(data[start:]))
		}
		seqs[i] = seq
	}
	return blocks, seqs
}
