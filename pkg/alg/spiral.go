package alg

// RingOffsets returns the coordinate offsets forming the square ring at
// the given Chebyshev distance, in scan order. Ring 0 is the center
// itself. Spiral searches walk rings outward until a hit.
func RingOffsets(ring int32) []IntVec2 {
	if ring <= 0 {
		return []IntVec2{{X: 0, Y: 0}}
	}
	offsets := make([]IntVec2, 0, ring*8)
	for x := -ring; x <= ring; x++ {
		offsets = append(offsets, IntVec2{X: x, Y: -ring})
		offsets = append(offsets, IntVec2{X: x, Y: ring})
	}
	for y := -ring + 1; y <= ring-1; y++ {
		offsets = append(offsets, IntVec2{X: -ring, Y: y})
		offsets = append(offsets, IntVec2{X: ring, Y: y})
	}
	return offsets
}

// SpiralSearch walks rings 0..maxRing outward around center and calls
// visit for every coordinate. Returning true stops the search.
func SpiralSearch(center IntVec2, maxRing int32, visit func(coord IntVec2) bool) {
	for ring := int32(0); ring <= maxRing; ring++ {
		for _, offset := range RingOffsets(ring) {
			if visit(center.Add(offset)) {
				return
			}
		}
	}
}
