package model

import (
	"github.com/acuview/meridian/common"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshes is an option builder that sets the parsed sub-objects the Model
// is assembled from.
//
// Parameters:
//   - meshes: the mesh objects in declaration order
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes []MeshObject) ModelBuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}

// WithTexture is an option builder that sets the Model's diffuse texture.
//
// Parameters:
//   - tex: the decoded texture
//
// Returns:
//   - ModelBuilderOption: a function that applies the texture option to a model
func WithTexture(tex *common.Texture) ModelBuilderOption {
	return func(m *model) {
		m.texture = tex
	}
}
