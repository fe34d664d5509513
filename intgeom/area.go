package intgeom

import "math"

// SignedArea is the shoelace (surveyor's) area of an implicitly closed ring.
// In a tile's y-down coordinate space exterior rings have a positive area.
// See https://en.wikipedia.org/wiki/Shoelace_formula
func SignedArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.
	p0 := ring[len(ring)-1]
	for _, p1 := range ring {
		sum += float64(p0[0])*float64(p1[1]) - float64(p1[0])*float64(p0[1])
		p0 = p1
	}
	return sum / 2
}

// Length is the euclidean length of a path
func Length(path []Point) float64 {
	l := 0.
	for i := 1; i < len(path); i++ {
		d := path[i].Sub(path[i-1])
		l += math.Hypot(float64(d[0]), float64(d[1]))
	}
	return l
}
