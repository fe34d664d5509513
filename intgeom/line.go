package intgeom

// Line has exactly two points
type Line [2][2]int64

// Point1 returns the first point in the line.
func (l Line) Point1() Point { return l[0] }

// Point2 returns the second point in the line.
func (l Line) Point2() Point { return l[1] }

// ClipTo clips the segment to the (closed) extent using Liang-Barsky.
// Ok is false when no part of the segment lies within the extent.
// Endpoints that already lie inside are returned untouched.
func (l Line) ClipTo(e Extent) (clipped Line, ok bool) {
	if e.IsEmpty() {
		return clipped, false
	}
	x0, y0 := float64(l[0][0]), float64(l[0][1])
	dx, dy := float64(l[1][0]-l[0][0]), float64(l[1][1]-l[0][1])
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - float64(e.MinX())},
		{dx, float64(e.MaxX()) - x0},
		{-dy, y0 - float64(e.MinY())},
		{dy, float64(e.MaxY()) - y0},
	}
	for _, edge := range edges {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return clipped, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return clipped, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return clipped, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	clipped = l
	if t0 > 0 {
		clipped[0] = e.Clamp(Point{FromGeomOrd(x0 + t0*dx), FromGeomOrd(y0 + t0*dy)})
	}
	if t1 < 1 {
		clipped[1] = e.Clamp(Point{FromGeomOrd(x0 + t1*dx), FromGeomOrd(y0 + t1*dy)})
	}
	return clipped, true
}
