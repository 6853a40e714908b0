package model

import (
	"math"

	"github.com/acuview/meridian/common"
)

// MeshObject is a single named sub-object produced by the mesh text parser.
// Attribute slices hold an expanded, unindexed vertex stream in face order:
// three position floats per vertex, three normal floats per vertex when
// normals are present, two UV floats per vertex when texture coordinates are
// present. Normals and UVs are either empty or exactly parallel to Positions.
type MeshObject struct {
	// Name is the sub-object identifier from its `o` declaration.
	Name string

	// Material is the material-name tag from the most recent `usemtl` line.
	Material string

	// Positions holds vertex positions, 3 floats per vertex.
	Positions []float32

	// Normals holds vertex normals, 3 floats per vertex (may be empty).
	Normals []float32

	// UVs holds texture coordinates, 2 floats per vertex (may be empty).
	UVs []float32
}

// VertexCount returns the number of vertices in the expanded stream.
//
// Returns:
//   - int: vertex count
func (m *MeshObject) VertexCount() int {
	return len(m.Positions) / 3
}

// Bounds computes the axis-aligned bounding box of the object's positions.
// Returns zero vectors for an empty object.
//
// Returns:
//   - min: minimum corner of the bounding box
//   - max: maximum corner of the bounding box
func (m *MeshObject) Bounds() (min, max common.Vec3) {
	if len(m.Positions) < 3 {
		return common.Vec3{}, common.Vec3{}
	}
	min = common.Vec3{X: m.Positions[0], Y: m.Positions[1], Z: m.Positions[2]}
	max = min
	for i := 3; i+2 < len(m.Positions); i += 3 {
		x, y, z := m.Positions[i], m.Positions[i+1], m.Positions[i+2]
		min.X = min32f(min.X, x)
		min.Y = min32f(min.Y, y)
		min.Z = min32f(min.Z, z)
		max.X = max32f(max.X, x)
		max.Y = max32f(max.Y, y)
		max.Z = max32f(max.Z, z)
	}
	return min, max
}

// Interleave expands the attribute arrays into a single position/normal/uv
// stream of GPUVertex layout (8 floats per vertex). Missing normals or UVs
// are zero-filled so the stride stays constant for the render pipeline.
//
// Returns:
//   - []float32: interleaved vertex stream, 8 floats per vertex
func (m *MeshObject) Interleave() []float32 {
	count := m.VertexCount()
	out := make([]float32, 0, count*8)
	for i := 0; i < count; i++ {
		out = append(out, m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2])
		if len(m.Normals) >= (i+1)*3 {
			out = append(out, m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
		} else {
			out = append(out, 0, 0, 0)
		}
		if len(m.UVs) >= (i+1)*2 {
			out = append(out, m.UVs[i*2], m.UVs[i*2+1])
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

func min32f(a, b float32) float32 {
	return float32(math.Min(float64(a), float64(b)))
}

func max32f(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}
