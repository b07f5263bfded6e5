// Package hitgrid is a uniform-grid spatial index over screen-space node
// points, used to answer hit tests without scanning every node.
package hitgrid

import "math"

// Point is a node centre in viewport-local pixels.
type Point struct {
	X, Y float64
}

// Grid buckets point indices by cell. It is immutable once built; hosts
// rebuild it whenever the transform settles.
type Grid struct {
	cell   float64
	radius float64
	points []Point
	cells  map[[2]int][]int
}

// Build indexes points. A point is hit when the query lies within
// radius of it. Points with NaN coordinates are skipped.
func Build(points []Point, radius float64) *Grid {
	if radius <= 0 {
		radius = 1
	}
	g := &Grid{
		cell:   radius * 2,
		radius: radius,
		points: points,
		cells:  make(map[[2]int][]int),
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		k := g.key(p.X, p.Y)
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *Grid) key(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / g.cell)), int(math.Floor(y / g.cell))}
}

// Lookup returns the topmost (highest index) point within radius of
// (x, y), or -1.
func (g *Grid) Lookup(x, y float64) int {
	if g == nil {
		return -1
	}
	k := g.key(x, y)
	best := -1
	r2 := g.radius * g.radius
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, i := range g.cells[[2]int{k[0] + dx, k[1] + dy}] {
				if i <= best {
					continue
				}
				p := g.points[i]
				ddx, ddy := p.X-x, p.Y-y
				if ddx*ddx+ddy*ddy <= r2 {
					best = i
				}
			}
		}
	}
	return best
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.points)
}
