package hilbert

// The walk descends one octree level per 3-bit index digit. Each level keeps
// the entry and exit corners of the current sub-cube; they encode the local
// rotation/reflection of the frame. Corner and digit values pack x in bit 2,
// y in bit 1 and z in bit 0.

const (
	dims    = 3
	mask    = 1<<dims - 1
	modulus = mask + 1
)

func grayEncode(v uint64) uint64 { return v ^ (v >> 1) }

func grayDecode(g uint64) uint64 {
	for shift := uint(1); ; shift <<= 1 {
		div := g >> shift
		g ^= div
		if div <= 1 {
			return g
		}
	}
}

// encodeTravel maps the digit-th octant of a sub-cube entered at start and
// left at end to its corner. The canonical Gray code travels the top bit; it
// is rotated so the walk travels the bit in which start and end differ.
func encodeTravel(start, end, digit uint64) uint64 {
	travel := start ^ end
	g := grayEncode(digit) * (travel * 2)
	return ((g | g/modulus) & mask) ^ start
}

// decodeTravel is the inverse of encodeTravel.
func decodeTravel(start, end, corner uint64) uint64 {
	travel := start ^ end
	rg := (corner ^ start) * (modulus / (travel * 2))
	return grayDecode((rg | rg/modulus) & mask)
}

// childFrame returns the entry and exit corners of the digit-th sub-cube.
func childFrame(start, end, digit uint64) (uint64, uint64) {
	var first uint64
	if digit > 0 {
		first = (digit - 1) &^ 1
	}
	last := (digit + 1) | 1
	if last > mask {
		last = mask
	}
	return encodeTravel(start, end, first), encodeTravel(start, end, last)
}

// rootFrame orients the whole cube so the walk starts at the origin and
// takes its first step along x, whatever the order. That makes the curve of
// order k a prefix of the curve of order k+1.
func rootFrame(order int) (uint64, uint64) {
	e := ((-order-1)%dims + dims) % dims
	return 0, 1 << uint(e)
}

// IndexToPoint maps a curve index in [0, 8^order) to its cell in a cube of
// side 2^order.
func IndexToPoint(index uint64, order int) Point {
	var p Point
	if order <= 0 {
		return p
	}
	start, end := rootFrame(order)
	for level := order - 1; level >= 0; level-- {
		digit := (index >> uint(dims*level)) & mask
		corner := encodeTravel(start, end, digit)
		p.X = p.X<<1 | int(corner>>2&1)
		p.Y = p.Y<<1 | int(corner>>1&1)
		p.Z = p.Z<<1 | int(corner&1)
		start, end = childFrame(start, end, digit)
	}
	return p
}

// PointToIndex is the inverse of IndexToPoint. Coordinates must lie in
// [0, 2^order).
func PointToIndex(p Point, order int) uint64 {
	if order <= 0 {
		return 0
	}
	var index uint64
	start, end := rootFrame(order)
	for level := order - 1; level >= 0; level-- {
		corner := uint64(p.X>>uint(level)&1)<<2 |
			uint64(p.Y>>uint(level)&1)<<1 |
			uint64(p.Z>>uint(level)&1)
		digit := decodeTravel(start, end, corner)
		index = index<<dims | digit
		start, end = childFrame(start, end, digit)
	}
	return index
}
