package model

import (
	"math"

	"github.com/acuview/meridian/common"
)

// model is the implementation of the Model interface.
type model struct {
	name        string
	meshes      []MeshObject
	texture     *common.Texture
	vertexData  []byte
	vertexCount int

	boundingMin    common.Vec3
	boundingMax    common.Vec3
	boundingRadius float32
}

// Model defines the interface for a loaded 3D model.
// A Model is a GPU-ready container aggregating the parser's mesh objects into
// one interleaved, unindexed vertex stream plus bounding data for camera
// framing. It is produced by the Loader after parsing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the named sub-objects the model was assembled from.
	//
	// Returns:
	//   - []MeshObject: the mesh objects in declaration order
	Meshes() []MeshObject

	// VertexData returns the interleaved vertex stream for GPU upload
	// (GPUVertex layout, 32 bytes per vertex).
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// VertexCount returns the number of vertices in the stream.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Texture returns the model's diffuse texture, or nil if untextured.
	//
	// Returns:
	//   - *common.Texture: the decoded texture or nil
	Texture() *common.Texture

	// SetTexture assigns the model's diffuse texture.
	//
	// Parameters:
	//   - tex: the decoded texture
	SetTexture(tex *common.Texture)

	// Bounds returns the axis-aligned bounding box across all sub-objects.
	//
	// Returns:
	//   - min: minimum corner of the bounding box
	//   - max: maximum corner of the bounding box
	Bounds() (min, max common.Vec3)

	// Center returns the midpoint of the bounding box, used to center the
	// model under the orbit target.
	//
	// Returns:
	//   - common.Vec3: the bounding box center
	Center() common.Vec3

	// BoundingRadius returns the bounding sphere radius measured from the
	// bounding box center. Used to frame the camera's initial distance.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// The interleaved vertex stream and bounding data are derived from the mesh
// objects once at construction.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.assemble()
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []MeshObject {
	return m.meshes
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) Texture() *common.Texture {
	return m.texture
}

func (m *model) SetTexture(tex *common.Texture) {
	m.texture = tex
}

func (m *model) Bounds() (min, max common.Vec3) {
	return m.boundingMin, m.boundingMax
}

func (m *model) Center() common.Vec3 {
	return m.boundingMin.Add(m.boundingMax).Scale(0.5)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

// assemble concatenates the sub-objects' interleaved streams and computes
// bounding data.
func (m *model) assemble() {
	var floats []float32
	first := true
	for i := range m.meshes {
		obj := &m.meshes[i]
		if obj.VertexCount() == 0 {
			continue
		}
		floats = append(floats, obj.Interleave()...)
		m.vertexCount += obj.VertexCount()

		lo, hi := obj.Bounds()
		if first {
			m.boundingMin, m.boundingMax = lo, hi
			first = false
			continue
		}
		m.boundingMin.X = min32f(m.boundingMin.X, lo.X)
		m.boundingMin.Y = min32f(m.boundingMin.Y, lo.Y)
		m.boundingMin.Z = min32f(m.boundingMin.Z, lo.Z)
		m.boundingMax.X = max32f(m.boundingMax.X, hi.X)
		m.boundingMax.Y = max32f(m.boundingMax.Y, hi.Y)
		m.boundingMax.Z = max32f(m.boundingMax.Z, hi.Z)
	}
	m.vertexData = common.SliceToBytes(floats)

	center := m.Center()
	var maxDistSq float32
	for i := range m.meshes {
		obj := &m.meshes[i]
		for j := 0; j+2 < len(obj.Positions); j += 3 {
			p := common.Vec3{X: obj.Positions[j], Y: obj.Positions[j+1], Z: obj.Positions[j+2]}
			if d := p.DistanceSqTo(center); d > maxDistSq {
				maxDistSq = d
			}
		}
	}
	m.boundingRadius = float32(math.Sqrt(float64(maxDistSq)))
}
