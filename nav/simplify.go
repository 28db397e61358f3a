package nav

// Simplify removes interior waypoints wherever the chord between the
// ends of a sliding window survives a line-of-sight check. segmentSize
// is the window span in waypoints, iterations bounds the number of full
// passes; a pass that removes nothing ends the loop early. The first
// and last waypoints are never removed.
func (p *Path) Simplify(segmentSize int, iterations int) {
	if segmentSize < 2 {
		segmentSize = 2
	}
	if iterations <= 0 {
		iterations = 1
	}
	for iter := 0; iter < iterations; iter++ {
		changed := false
		for i := 0; i+segmentSize < len(p.waypoints); i++ {
			head := p.waypoints[i]
			tail := p.waypoints[i+segmentSize]
			if !p.grid.LineOfSight(head.Cell, tail.Cell, p.creator) {
				continue
			}
			p.waypoints = append(p.waypoints[:i+1], p.waypoints[i+segmentSize:]...)
			changed = true
		}
		if !changed {
			break
		}
	}
}
