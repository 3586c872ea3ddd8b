// Package hull computes the 3-D convex hull of a sampled point cloud via
// QuickHull, falling back to the axis-aligned bounding box as a 12-triangle
// mesh when the input is degenerate. Vector, cross-product, and normal math
// reuse github.com/go-gl/mathgl/mgl64, the same library the spatial package
// builds its rigid-body math on.
package hull

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidkin/rbd/errs"
)

// Result is a triangle mesh: Vertices is a flat x,y,z array and Triangles
// holds one [3]int vertex-index tuple per face, wound so cross(v1-v0,v2-v0)
// points outward.
type Result struct {
	Vertices  []float64
	Triangles [][3]int
}

type face struct {
	v       [3]int
	normal  mgl64.Vec3
	outside []int
	farIdx  int
	farDist float64
}

// Hull computes the convex hull of points. If the input is degenerate
// (fewer than 4 points, fewer than 4 distinct points among the six axial
// extrema, or the incremental algorithm collapses to nothing), it returns
// the axis-aligned bounding box as a 12-triangle mesh instead, along with
// a non-nil informational error. Four distinct extrema that are coplanar
// are not detected as degenerate.
func Hull(points []mgl64.Vec3) (Result, error) {
	if len(points) < 4 {
		return bboxMesh(points), &errs.ConvexHullDegenerate{Detail: "fewer than 4 input points"}
	}

	scale := boundingScale(points)
	eps := 1e-9 * scale

	seed, ok := seedTetrahedron(points)
	if !ok {
		return bboxMesh(points), &errs.ConvexHullDegenerate{Detail: "fewer than 4 unique extrema"}
	}

	faces := buildTetrahedron(points, seed)
	remaining := make([]int, 0, len(points))
	for i := range points {
		skip := false
		for _, s := range seed {
			if s == i {
				skip = true
				break
			}
		}
		if !skip {
			remaining = append(remaining, i)
		}
	}
	for fi := range faces {
		assignConflicts(points, &faces[fi], remaining, eps)
	}

	maxIter := 3 * len(points)
	for iter := 0; iter < maxIter; iter++ {
		fi := pickNextFace(faces)
		if fi < 0 {
			break
		}
		apex := faces[fi].farIdx

		visible := visibleSet(points, faces, fi, apex, eps)
		horizon := horizonEdges(faces, visible)

		orphans := make([]int, 0)
		for v := range visible {
			orphans = append(orphans, faces[v].outside...)
		}

		faces = removeFaces(faces, visible)

		newStart := len(faces)
		for _, e := range horizon {
			nf := face{v: [3]int{e[0], e[1], apex}}
			nf.normal = faceNormal(points, nf.v)
			faces = append(faces, nf)
		}
		for fi2 := newStart; fi2 < len(faces); fi2++ {
			assignConflicts(points, &faces[fi2], orphans, eps)
		}
	}

	if len(faces) == 0 {
		return bboxMesh(points), &errs.ConvexHullDegenerate{Detail: "hull collapsed during construction"}
	}
	return compactMesh(points, faces), nil
}

func boundingScale(points []mgl64.Vec3) float64 {
	b := computeBBox(points)
	d := b.Max.Sub(b.Min)
	s := math.Max(d.X(), math.Max(d.Y(), d.Z()))
	if s < 1e-12 {
		return 1
	}
	return s
}

// seedTetrahedron finds the 6 axial extrema and returns the first 4 unique
// point indices among them, or ok=false if fewer than 4 are unique.
func seedTetrahedron(points []mgl64.Vec3) ([4]int, bool) {
	extremaAxis := func(axis int, max bool) int {
		best := 0
		for i, p := range points {
			v := component(p, axis)
			bv := component(points[best], axis)
			if (max && v > bv) || (!max && v < bv) {
				best = i
			}
		}
		return best
	}
	candidates := []int{
		extremaAxis(0, false), extremaAxis(0, true),
		extremaAxis(1, false), extremaAxis(1, true),
		extremaAxis(2, false), extremaAxis(2, true),
	}

	var seed [4]int
	n := 0
	for _, c := range candidates {
		dup := false
		for i := 0; i < n; i++ {
			if pointsEqual(points[seed[i]], points[c]) {
				dup = true
				break
			}
		}
		if !dup {
			seed[n] = c
			n++
			if n == 4 {
				return seed, true
			}
		}
	}
	return seed, false
}

func component(v mgl64.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

func pointsEqual(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-12
}

func buildTetrahedron(points []mgl64.Vec3, seed [4]int) []face {
	var centroid mgl64.Vec3
	for _, s := range seed {
		centroid = centroid.Add(points[s])
	}
	centroid = centroid.Mul(0.25)

	combos := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	faces := make([]face, 4)
	for i, c := range combos {
		v := [3]int{seed[c[0]], seed[c[1]], seed[c[2]]}
		n := faceNormal(points, v)
		// orient outward: normal should point away from the tetrahedron centroid
		toCentroid := centroid.Sub(points[v[0]])
		if n.Dot(toCentroid) > 0 {
			v[1], v[2] = v[2], v[1]
			n = faceNormal(points, v)
		}
		faces[i] = face{v: v, normal: n}
	}
	return faces
}

func faceNormal(points []mgl64.Vec3, v [3]int) mgl64.Vec3 {
	e1 := points[v[1]].Sub(points[v[0]])
	e2 := points[v[2]].Sub(points[v[0]])
	n := e1.Cross(e2)
	if l := n.Len(); l > 1e-300 {
		return n.Mul(1 / l)
	}
	return n
}

func signedDistance(points []mgl64.Vec3, f *face, p int) float64 {
	return f.normal.Dot(points[p].Sub(points[f.v[0]]))
}

func assignConflicts(points []mgl64.Vec3, f *face, candidates []int, eps float64) {
	f.outside = f.outside[:0]
	f.farIdx = -1
	f.farDist = eps
	for _, p := range candidates {
		d := signedDistance(points, f, p)
		if d > eps {
			f.outside = append(f.outside, p)
			if d > f.farDist {
				f.farDist = d
				f.farIdx = p
			}
		}
	}
}

func pickNextFace(faces []face) int {
	best := -1
	bestDist := 0.0
	for i := range faces {
		if faces[i].farIdx >= 0 && faces[i].farDist > bestDist {
			best = i
			bestDist = faces[i].farDist
		}
	}
	return best
}

// visibleSet finds every face visible from apex, starting from seedFace and
// expanding via edge adjacency (two faces sharing two vertices) to any
// neighbor also visible from apex.
func visibleSet(points []mgl64.Vec3, faces []face, seedFace, apex int, eps float64) map[int]bool {
	visible := map[int]bool{seedFace: true}
	queue := []int{seedFace}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := range faces {
			if visible[i] {
				continue
			}
			if !shareEdge(faces[cur], faces[i]) {
				continue
			}
			if signedDistance(points, &faces[i], apex) > eps {
				visible[i] = true
				queue = append(queue, i)
			}
		}
	}
	return visible
}

func shareEdge(a, b face) bool {
	shared := 0
	for _, av := range a.v {
		for _, bv := range b.v {
			if av == bv {
				shared++
			}
		}
	}
	return shared >= 2
}

// horizonEdges returns the directed edges of the visible set that border a
// non-visible face (or no face at all), in the orientation stored on their
// owning visible face - the orientation new faces must preserve to stay
// outward-facing.
func horizonEdges(faces []face, visible map[int]bool) [][2]int {
	type edgeKey [2]int
	owner := make(map[edgeKey]int)
	for i, f := range faces {
		for e := 0; e < 3; e++ {
			a, b := f.v[e], f.v[(e+1)%3]
			owner[edgeKey{a, b}] = i
		}
	}

	var horizon [][2]int
	for i := range faces {
		if !visible[i] {
			continue
		}
		f := faces[i]
		for e := 0; e < 3; e++ {
			a, b := f.v[e], f.v[(e+1)%3]
			if owner2, ok := owner[edgeKey{b, a}]; !ok || !visible[owner2] {
				horizon = append(horizon, [2]int{a, b})
			}
		}
	}
	return horizon
}

func removeFaces(faces []face, remove map[int]bool) []face {
	out := make([]face, 0, len(faces)-len(remove))
	for i, f := range faces {
		if !remove[i] {
			out = append(out, f)
		}
	}
	return out
}

func compactMesh(points []mgl64.Vec3, faces []face) Result {
	remap := make(map[int]int)
	var verts []float64
	for _, f := range faces {
		for _, v := range f.v {
			if _, ok := remap[v]; !ok {
				remap[v] = len(verts) / 3
				p := points[v]
				verts = append(verts, p.X(), p.Y(), p.Z())
			}
		}
	}
	tris := make([][3]int, len(faces))
	for i, f := range faces {
		tris[i] = [3]int{remap[f.v[0]], remap[f.v[1]], remap[f.v[2]]}
	}
	return Result{Vertices: verts, Triangles: tris}
}

type bbox struct{ Min, Max mgl64.Vec3 }

func computeBBox(points []mgl64.Vec3) bbox {
	if len(points) == 0 {
		return bbox{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = mgl64.Vec3{math.Min(min.X(), p.X()), math.Min(min.Y(), p.Y()), math.Min(min.Z(), p.Z())}
		max = mgl64.Vec3{math.Max(max.X(), p.X()), math.Max(max.Y(), p.Y()), math.Max(max.Z(), p.Z())}
	}
	return bbox{Min: min, Max: max}
}

// bboxMesh returns the axis-aligned bounding box of points as a 12-triangle
// mesh, the engine's degenerate-hull fallback.
func bboxMesh(points []mgl64.Vec3) Result {
	b := computeBBox(points)
	lo, hi := b.Min, b.Max
	corners := [8]mgl64.Vec3{
		{lo.X(), lo.Y(), lo.Z()}, {hi.X(), lo.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()}, {lo.X(), hi.Y(), lo.Z()},
		{lo.X(), lo.Y(), hi.Z()}, {hi.X(), lo.Y(), hi.Z()},
		{hi.X(), hi.Y(), hi.Z()}, {lo.X(), hi.Y(), hi.Z()},
	}
	verts := make([]float64, 0, 24)
	for _, c := range corners {
		verts = append(verts, c.X(), c.Y(), c.Z())
	}
	// outward-wound triangles for each of the 6 faces of the box.
	tris := [][3]int{
		{0, 3, 2}, {0, 2, 1}, // bottom (z=lo), normal -z
		{4, 5, 6}, {4, 6, 7}, // top (z=hi), normal +z
		{0, 1, 5}, {0, 5, 4}, // front (y=lo), normal -y
		{3, 6, 2}, {3, 7, 6}, // back (y=hi), normal +y
		{0, 7, 3}, {0, 4, 7}, // left (x=lo), normal -x
		{1, 2, 6}, {1, 6, 5}, // right (x=hi), normal +x
	}
	return Result{Vertices: verts, Triangles: tris}
}
