package hull

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCubeCorners() []mgl64.Vec3 {
	return []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
}

// meshVolume computes the signed volume of a closed triangle mesh via the
// divergence-theorem triangle fan: V = (1/6) * sum(v0 . (v1 x v2)).
func meshVolume(res Result) float64 {
	vertex := func(i int) mgl64.Vec3 {
		return mgl64.Vec3{res.Vertices[3*i], res.Vertices[3*i+1], res.Vertices[3*i+2]}
	}
	vol := 0.0
	for _, tri := range res.Triangles {
		v0, v1, v2 := vertex(tri[0]), vertex(tri[1]), vertex(tri[2])
		vol += v0.Dot(v1.Cross(v2))
	}
	return vol / 6
}

func TestHullUnitCubeVertexAndTriangleCounts(t *testing.T) {
	res, err := Hull(unitCubeCorners())
	require.NoError(t, err)
	assert.Len(t, res.Vertices, 8*3)
	assert.Len(t, res.Triangles, 12)
}

func TestHullUnitCubeVolumeIsOne(t *testing.T) {
	res, err := Hull(unitCubeCorners())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, meshVolume(res), 1e-9)
}

func TestHullUnitCubeWithInteriorPointsIgnoresInteriorPoints(t *testing.T) {
	pts := unitCubeCorners()
	pts = append(pts, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.1, 0.1, 0.1})
	res, err := Hull(pts)
	require.NoError(t, err)
	assert.Len(t, res.Triangles, 12)
	assert.InDelta(t, 1.0, meshVolume(res), 1e-9)
}

func TestHullTrianglesAreOutwardWound(t *testing.T) {
	res, err := Hull(unitCubeCorners())
	require.NoError(t, err)
	vertex := func(i int) mgl64.Vec3 {
		return mgl64.Vec3{res.Vertices[3*i], res.Vertices[3*i+1], res.Vertices[3*i+2]}
	}
	centroid := mgl64.Vec3{}
	for i := 0; i < len(res.Vertices)/3; i++ {
		centroid = centroid.Add(vertex(i))
	}
	centroid = centroid.Mul(1.0 / float64(len(res.Vertices)/3))

	for _, tri := range res.Triangles {
		v0, v1, v2 := vertex(tri[0]), vertex(tri[1]), vertex(tri[2])
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		toCentroid := centroid.Sub(v0)
		assert.Less(t, normal.Dot(toCentroid), 0.0)
	}
}

func TestHullDegenerateFewerThanFourPointsFallsBackToBBox(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	res, err := Hull(pts)
	require.Error(t, err)
	assert.Len(t, res.Triangles, 12)
	assert.Len(t, res.Vertices, 8*3)
}

func TestHullDegenerateCoplanarPointsFallsBackToBBox(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0.5, 0.5, 0}}
	res, err := Hull(pts)
	require.Error(t, err)
	assert.Len(t, res.Triangles, 12)
}
