package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/acuview/meridian/common"
	"github.com/acuview/meridian/engine/model"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the line-oriented text geometry backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend

	// ioWorkers bounds the pool used to overlap mesh parsing with texture
	// decoding and to fan batch loads across files.
	ioWorkers int
	ioPool    worker.DynamicWorkerPool
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format behind a generic backend and manages a cache of
// previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is
	// returned. The backend is selected based on the file extension
	// (.obj selects the text geometry backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadWithTexture imports a model file together with a companion texture
	// image. The mesh parse and the texture decode run as parallel pool tasks
	// so neither blocks the other. The result is cached by the mesh path.
	//
	// Parameters:
	//   - meshPath: the file path to the model file
	//   - texturePath: the file path to the texture image
	//
	// Returns:
	//   - model.Model: the loaded model with its texture attached
	//   - error: error if loading the mesh or the texture fails
	LoadWithTexture(meshPath, texturePath string) (model.Model, error)

	// LoadAll imports several model files concurrently, fanning the loads
	// across the worker pool. Results are returned in the order of the input
	// paths; the first load error aborts the batch.
	//
	// Parameters:
	//   - paths: the file paths to load
	//
	// Returns:
	//   - []model.Model: the loaded models, one per input path
	//   - error: the first error encountered, if any load fails
	LoadAll(paths ...string) ([]model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the
	// given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and
// options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
		ioWorkers:  max(runtime.NumCPU()-1, 1),
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	// Initialize the pool after options so WithWorkers can override the default.
	l.ioPool = worker.NewDynamicWorkerPool(l.ioWorkers, 64, 1*time.Second)

	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	objects, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m := buildModel(modelName(path), objects, nil)

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadWithTexture(meshPath, texturePath string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[meshPath]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(meshPath)
	if err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		objects []model.MeshObject
		meshErr error
		tex     *common.Texture
		texErr  error
	)

	wg.Add(2)
	l.ioPool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			defer wg.Done()
			objects, meshErr = backend.Load(meshPath)
			return nil, meshErr
		},
	})
	l.ioPool.SubmitTask(worker.Task{
		ID: 1,
		Do: func() (any, error) {
			defer wg.Done()
			tex, texErr = common.LoadTexture(texturePath)
			return nil, texErr
		},
	})
	wg.Wait()

	if meshErr != nil {
		return nil, fmt.Errorf("failed to load %s: %w", meshPath, meshErr)
	}
	if texErr != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", texturePath, texErr)
	}

	m := buildModel(modelName(meshPath), objects, tex)

	l.mu.Lock()
	l.modelCache[meshPath] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadAll(paths ...string) ([]model.Model, error) {
	results := make([]model.Model, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		l.ioPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				results[i], errs[i] = l.Load(path)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", paths[i], err)
		}
	}
	return results, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	objects, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m := buildModel(name, objects, nil)

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file
// extension. Currently only the text geometry format is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}

// buildModel assembles parsed mesh objects into an engine-ready Model,
// attaching the texture when one was loaded alongside the mesh.
func buildModel(name string, objects []model.MeshObject, tex *common.Texture) model.Model {
	opts := []model.ModelBuilderOption{
		model.WithName(name),
		model.WithMeshes(objects),
	}
	if tex != nil {
		opts = append(opts, model.WithTexture(tex))
	}
	return model.NewModel(opts...)
}

// modelName derives a cache-friendly display name from a file path.
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
