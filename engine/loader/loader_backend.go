package loader

import (
	"io"
	"os"

	"github.com/acuview/meridian/engine/model"
)

// loaderBackend defines the generic interface for parsing mesh geometry from
// files or streams. Concrete implementations handle format-specific details.
type loaderBackend interface {
	// Load parses mesh objects from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []model.MeshObject: the parsed mesh objects in declaration order
	//   - error: error if reading or parsing fails
	Load(path string) ([]model.MeshObject, error)

	// LoadReader parses mesh objects from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing geometry data
	//
	// Returns:
	//   - []model.MeshObject: the parsed mesh objects in declaration order
	//   - error: error if reading or parsing fails
	LoadReader(r io.Reader) ([]model.MeshObject, error)
}

// objLoaderBackend parses the line-oriented text geometry format described
// on parseOBJ.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func newOBJLoaderBackend() loaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Load(path string) ([]model.MeshObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseOBJ(f)
}

func (b *objLoaderBackend) LoadReader(r io.Reader) ([]model.MeshObject, error) {
	return parseOBJ(r)
}
