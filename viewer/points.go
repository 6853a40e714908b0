package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/acuview/meridian/common"
)

var (
	errEmptyCatalog = errors.New("catalog contains no points")
)

// Point is a single acupuncture point in the catalog: its meridian notation
// ID (e.g. "LI4"), display name, owning meridian, world-space location on the
// anatomy model, and a clinical description.
type Point struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Meridian    string     `json:"meridian"`
	Location    [3]float32 `json:"location"`
	Description string     `json:"description,omitempty"`
}

// LocationVec returns the point's location as a vector for camera math.
func (p Point) LocationVec() common.Vec3 {
	return common.Vec3{X: p.Location[0], Y: p.Location[1], Z: p.Location[2]}
}

// catalog is the implementation of the Catalog interface.
type catalog struct {
	mu *sync.RWMutex

	points []Point
	byID   map[string]int
}

// Catalog is an indexed collection of acupuncture points loaded from a JSON
// file. Lookups by ID and meridian are precomputed; the nearest-point query
// scans the full list.
type Catalog interface {
	// Points returns all catalog points in file order.
	//
	// Returns:
	//   - []Point: a copy of the point list
	Points() []Point

	// Len returns the number of points in the catalog.
	//
	// Returns:
	//   - int: the point count
	Len() int

	// ByID looks up a point by its meridian notation ID.
	//
	// Parameters:
	//   - id: the point ID (e.g. "LI4")
	//
	// Returns:
	//   - Point: the matching point
	//   - bool: false if no point has that ID
	ByID(id string) (Point, bool)

	// ByMeridian returns all points belonging to the named meridian, in file
	// order.
	//
	// Parameters:
	//   - meridian: the meridian name
	//
	// Returns:
	//   - []Point: the matching points (empty if the meridian is unknown)
	ByMeridian(meridian string) []Point

	// Meridians returns the distinct meridian names, sorted.
	//
	// Returns:
	//   - []string: sorted meridian names
	Meridians() []string

	// Nearest returns the point closest to a world-space position. Used to
	// resolve a click on the model surface to a catalog point.
	//
	// Parameters:
	//   - position: the world-space query position
	//
	// Returns:
	//   - Point: the closest point
	//   - bool: false if the catalog is empty
	Nearest(position common.Vec3) (Point, bool)
}

var _ Catalog = &catalog{}

// LoadCatalog reads and parses a point catalog JSON file.
//
// Parameters:
//   - path: the catalog file path
//
// Returns:
//   - Catalog: the parsed catalog
//   - error: error if the file cannot be read or parsed
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog parses a point catalog from a JSON array of points.
//
// Parameters:
//   - r: the reader providing the JSON document
//
// Returns:
//   - Catalog: the parsed catalog
//   - error: error on malformed JSON, an empty list, a point without an ID,
//     or a duplicate ID
func ParseCatalog(r io.Reader) (Catalog, error) {
	var points []Point
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	return newCatalog(points)
}

func newCatalog(points []Point) (Catalog, error) {
	if len(points) == 0 {
		return nil, errEmptyCatalog
	}

	byID := make(map[string]int, len(points))
	for i, p := range points {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog point %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog point id %s", p.ID)
		}
		byID[p.ID] = i
	}

	return &catalog{
		mu:     &sync.RWMutex{},
		points: points,
		byID:   byID,
	}, nil
}

func (c *catalog) Points() []Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make([]Point, len(c.points))
	copy(cp, c.points)
	return cp
}

func (c *catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.points)
}

func (c *catalog) ByID(id string) (Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return Point{}, false
	}
	return c.points[i], true
}

func (c *catalog) ByMeridian(meridian string) []Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Point
	for _, p := range c.points {
		if p.Meridian == meridian {
			out = append(out, p)
		}
	}
	return out
}

func (c *catalog) Meridians() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{}, 16)
	var names []string
	for _, p := range c.points {
		if _, ok := seen[p.Meridian]; ok {
			continue
		}
		seen[p.Meridian] = struct{}{}
		names = append(names, p.Meridian)
	}
	sort.Strings(names)
	return names
}

func (c *catalog) Nearest(position common.Vec3) (Point, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.points) == 0 {
		return Point{}, false
	}

	best := 0
	bestDist := float32(math.Inf(1))
	for i, p := range c.points {
		dx := p.Location[0] - position.X
		dy := p.Location[1] - position.Y
		dz := p.Location[2] - position.Z
		// Squared distance; ordering is all that matters.
		d := dx*dx + dy*dy + dz*dz
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return c.points[best], true
}
