package vopl

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

const (
	encDense   = 0
	encSparse  = 1 // count + (12-bit rank, value) pairs
	encSparse2 = 3 // occupancy bitmap + nonzero values

	encZlib = 0x80

	indexBits  = 12
	bitmapSize = cells / 8
)

type encoded struct {
	encoding uint8
	payload  []byte
}

func encodeDense(grid *VoxelGrid, bpp uint8) []byte {
	bw := newBitWriter()
	for _, c := range flatten(grid) {
		bw.writeBits(uint64(c), bpp)
	}
	return bw.bytes()
}

func encodeSparse(grid *VoxelGrid, bpp uint8) []byte {
	bw := newBitWriter()
	stream := flatten(grid)
	count := 0
	for _, c := range stream {
		if c != 0 {
			count++
		}
	}
	bw.writeBits(uint64(count), 16)
	for i, c := range stream {
		if c == 0 {
			continue
		}
		bw.writeBits(uint64(i), indexBits)
		bw.writeBits(uint64(c), bpp)
	}
	return bw.bytes()
}

func encodeSparse2(grid *VoxelGrid, bpp uint8) []byte {
	stream := flatten(grid)
	out := make([]byte, bitmapSize, bitmapSize+cells)
	bw := newBitWriter()
	for i, v := range stream {
		if v != 0 {
			out[i>>3] |= 1 << (uint(i) & 7)
			bw.writeBits(uint64(v), bpp)
		}
	}
	return append(out, bw.bytes()...)
}

func zlibCompress(b []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

func zlibDecompress(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// bestEncoding tries every payload layout, raw and zlib'd, and keeps the
// smallest.
func bestEncoding(grid *VoxelGrid, bpp uint8) encoded {
	candidates := []encoded{
		{encoding: encDense, payload: encodeDense(grid, bpp)},
		{encoding: encSparse, payload: encodeSparse(grid, bpp)},
		{encoding: encSparse2, payload: encodeSparse2(grid, bpp)},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.payload) < len(best.payload) {
			best = c
		}
	}
	for _, c := range candidates {
		zb := zlibCompress(c.payload)
		if len(zb) < len(best.payload) {
			best = encoded{encoding: c.encoding | encZlib, payload: zb}
		}
	}
	return best
}

// decodePayload reverses bestEncoding for one chunk.
func decodePayload(encByte, bpp uint8, payload []byte) (*VoxelGrid, error) {
	if bpp < 1 || bpp > 8 {
		return nil, fmt.Errorf("%w: bpp %d", ErrFormat, bpp)
	}
	if encByte&encZlib != 0 {
		var err error
		payload, err = zlibDecompress(payload)
		if err != nil {
			return nil, fmt.Errorf("vopl: inflate payload: %w", err)
		}
	}
	stream := make([]uint8, cells)
	switch encByte &^ encZlib {
	case encDense:
		br := newBitReader(payload)
		for i := range stream {
			v, err := br.readBits(bpp)
			if err != nil {
				return nil, err
			}
			stream[i] = uint8(v)
		}
	case encSparse:
		br := newBitReader(payload)
		cnt, err := br.readBits(16)
		if err != nil {
			return nil, err
		}
		if cnt > cells {
			return nil, fmt.Errorf("%w: sparse count %d", ErrFormat, cnt)
		}
		for i := 0; i < int(cnt); i++ {
			idx, err := br.readBits(indexBits)
			if err != nil {
				return nil, err
			}
			col, err := br.readBits(bpp)
			if err != nil {
				return nil, err
			}
			stream[idx] = uint8(col)
		}
	case encSparse2:
		if len(payload) < bitmapSize {
			return nil, fmt.Errorf("%w: short occupancy bitmap", ErrFormat)
		}
		bitmap := payload[:bitmapSize]
		br := newBitReader(payload[bitmapSize:])
		for i := range stream {
			if (bitmap[i>>3]>>(uint(i)&7))&1 == 0 {
				continue
			}
			v, err := br.readBits(bpp)
			if err != nil {
				return nil, err
			}
			stream[i] = uint8(v)
		}
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrFormat, encByte)
	}
	grid := new(VoxelGrid)
	applyOrder(grid, stream)
	return grid, nil
}
