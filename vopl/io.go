package vopl

import "os"

// EncodeGrid returns grid as a complete .vopl file at DefaultBPP.
func EncodeGrid(grid *VoxelGrid) []byte {
	return EncodeGridBPP(grid, DefaultBPP)
}

// EncodeGridBPP encodes grid with bpp bits per voxel, clamped to 1..8.
func EncodeGridBPP(grid *VoxelGrid, bpp uint8) []byte {
	hdr, enc, payload := encodeChunk(grid, bpp)
	return BuildFile(hdr, enc, payload)
}

func encodeChunk(grid *VoxelGrid, bpp uint8) (Header, uint8, []byte) {
	bpp = min(max(bpp, 1), 8)
	best := bestEncoding(grid, bpp)
	hdr := DefaultHeader()
	hdr.BPP = bpp
	return hdr, best.encoding, best.payload
}

// DecodeGrid parses a .vopl file held in memory.
func DecodeGrid(data []byte) (*VoxelGrid, error) {
	hdr, enc, payload, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return decodePayload(enc, hdr.BPP, payload)
}

func SaveGrid(grid *VoxelGrid, filename string) error {
	return os.WriteFile(filename, EncodeGrid(grid), 0o644)
}

func LoadGrid(filename string) (*VoxelGrid, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodeGrid(data)
}
