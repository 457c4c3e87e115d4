package vopl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	magic      = "VOPL"
	Version    = 3
	HeaderSize = 16

	// DefaultBPP covers a 64-entry palette. Every chunk of one export uses
	// it so the headers stay packable.
	DefaultBPP  = 6
	PaletteSize = 64
)

// ErrFormat is returned for bytes that are not a well-formed VOPL file or pack.
var ErrFormat = errors.New("vopl: invalid format")

// Header holds the fields of a v3 .vopl header that are common to every
// chunk of a pack. The per-file encoding byte lives with each payload.
type Header struct {
	Ver  uint8
	BPP  uint8
	W    uint8
	H    uint8
	D    uint8
	Pal  uint16
	PLen uint32 // payload length, only set when parsing a full file
}

// DefaultHeader describes a 16³ chunk at DefaultBPP.
func DefaultHeader() Header {
	return Header{Ver: Version, BPP: DefaultBPP, W: Width, H: Height, D: Depth, Pal: PaletteSize}
}

// sameShape reports whether two headers can share a pack.
func (h Header) sameShape(o Header) bool {
	return h.BPP == o.BPP && h.W == o.W && h.H == o.H && h.D == o.D && h.Pal == o.Pal
}

// ParseHeader splits a full .vopl file into its header, encoding byte and
// payload.
func ParseHeader(data []byte) (Header, uint8, []byte, error) {
	var hdr Header
	if len(data) < HeaderSize || string(data[:4]) != magic {
		return hdr, 0, nil, fmt.Errorf("%w: missing VOPL magic", ErrFormat)
	}
	hdr.Ver = data[4]
	if hdr.Ver != Version {
		return hdr, 0, nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, hdr.Ver)
	}
	enc := data[5]
	hdr.BPP = data[6]
	hdr.W, hdr.H, hdr.D = data[7], data[8], data[9]
	hdr.Pal = binary.LittleEndian.Uint16(data[10:12])
	hdr.PLen = binary.LittleEndian.Uint32(data[12:16])
	if uint32(len(data)-HeaderSize) != hdr.PLen {
		return hdr, 0, nil, fmt.Errorf("%w: payload length %d, header says %d", ErrFormat, len(data)-HeaderSize, hdr.PLen)
	}
	return hdr, enc, data[HeaderSize:], nil
}

// BuildFile assembles a full .vopl file from common header fields and one
// chunk's encoding and payload.
func BuildFile(h Header, enc uint8, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(payload))
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, h.Ver)
	_ = binary.Write(&buf, binary.LittleEndian, enc)
	_ = binary.Write(&buf, binary.LittleEndian, h.BPP)
	_ = binary.Write(&buf, binary.LittleEndian, h.W)
	_ = binary.Write(&buf, binary.LittleEndian, h.H)
	_ = binary.Write(&buf, binary.LittleEndian, h.D)
	_ = binary.Write(&buf, binary.LittleEndian, h.Pal)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	_, _ = buf.Write(payload)
	return buf.Bytes()
}
