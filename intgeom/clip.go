package intgeom

// ClipPoints keeps the points that lie within the half-open extent
func ClipPoints(pts []Point, e Extent) []Point {
	var kept []Point
	for _, pt := range pts {
		if e.ContainsPoint(pt) {
			kept = append(kept, pt)
		}
	}
	return kept
}

// ClipLineString clips a path to the closed extent.
// A path leaving and re-entering the extent is split into multiple parts.
// Parts that collapse to a single point are dropped.
func ClipLineString(path []Point, e Extent) [][]Point {
	if len(path) < 2 || e.IsEmpty() {
		return nil
	}
	bbox := ExtentOf(pointsAsXY(path)...)
	if e.ContainsExtent(bbox) {
		part := Dedupe(clonePath(path), false)
		if len(part) < 2 {
			return nil
		}
		return [][]Point{part}
	}
	if !e.Intersects(bbox) {
		return nil
	}

	var parts [][]Point
	var current []Point
	flush := func() {
		if len(current) > 1 {
			parts = append(parts, current)
		}
		current = nil
	}
	for i := 1; i < len(path); i++ {
		segment := Line{path[i-1], path[i]}
		clipped, ok := segment.ClipTo(e)
		if !ok {
			flush()
			continue
		}
		start, end := clipped.Point1(), clipped.Point2()
		if len(current) == 0 || current[len(current)-1] != start {
			flush()
			current = append(current, start)
		}
		if end != current[len(current)-1] {
			current = append(current, end)
		}
		if end != segment.Point2() {
			// left the extent
			flush()
		}
	}
	flush()
	return parts
}

// ClipRing clips a ring (implicitly closed, the first point is not repeated)
// to the closed extent using Sutherland-Hodgman. The winding order is kept.
// Nil is returned when less than three distinct vertices or no area remain.
func ClipRing(ring []Point, e Extent) []Point {
	if len(ring) < 3 || e.IsEmpty() {
		return nil
	}
	bbox := ExtentOf(pointsAsXY(ring)...)
	if !e.Intersects(bbox) {
		return nil
	}
	out := clonePath(ring)
	if !e.ContainsExtent(bbox) {
		out = clipRingEdge(out, func(p Point) bool { return p[0] >= e.MinX() }, func(a, b Point) Point { return intersectX(a, b, e.MinX()) })
		out = clipRingEdge(out, func(p Point) bool { return p[0] <= e.MaxX() }, func(a, b Point) Point { return intersectX(a, b, e.MaxX()) })
		out = clipRingEdge(out, func(p Point) bool { return p[1] >= e.MinY() }, func(a, b Point) Point { return intersectY(a, b, e.MinY()) })
		out = clipRingEdge(out, func(p Point) bool { return p[1] <= e.MaxY() }, func(a, b Point) Point { return intersectY(a, b, e.MaxY()) })
	}
	out = Dedupe(out, true)
	if len(out) < 3 || SignedArea(out) == 0 {
		return nil
	}
	return out
}

func clipRingEdge(ring []Point, inside func(Point) bool, intersect func(a, b Point) Point) []Point {
	if len(ring) == 0 {
		return nil
	}
	out := make([]Point, 0, len(ring)+4)
	prev := ring[len(ring)-1]
	for _, cur := range ring {
		switch {
		case inside(cur):
			if !inside(prev) {
				out = append(out, intersect(prev, cur))
			}
			out = append(out, cur)
		case inside(prev):
			out = append(out, intersect(prev, cur))
		}
		prev = cur
	}
	return out
}

func intersectX(a, b Point, x int64) Point {
	t := float64(x-a[0]) / float64(b[0]-a[0])
	return Point{x, FromGeomOrd(float64(a[1]) + t*float64(b[1]-a[1]))}
}

func intersectY(a, b Point, y int64) Point {
	t := float64(y-a[1]) / float64(b[1]-a[1])
	return Point{FromGeomOrd(float64(a[0]) + t*float64(b[0]-a[0])), y}
}

func pointsAsXY(pts []Point) [][2]int64 {
	xy := make([][2]int64, len(pts))
	for i, pt := range pts {
		xy[i] = pt
	}
	return xy
}

func clonePath(path []Point) []Point {
	c := make([]Point, len(path))
	copy(c, path)
	return c
}
