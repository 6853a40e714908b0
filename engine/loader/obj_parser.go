package loader

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/acuview/meridian/engine/model"
)

// faceCorner is a single face-corner reference into the global attribute pools.
// All indices are 1-based as they appear in the source text.
type faceCorner struct {
	v, vt, vn int
}

// parseOBJ reads a line-oriented text geometry description and produces the
// mesh objects it declares, in declaration order.
//
// Recognized directives, one per line:
//   - "v x y z": vertex position
//   - "vn x y z": vertex normal
//   - "vt u v": texture coordinate
//   - "f a/b/c a/b/c a/b/c [a/b/c]": face of full position/uv/normal triplets
//   - "o name": starts a new named object, flushing the previous one if it
//     accumulated any vertices
//   - "usemtl name": tags the current object with a material name
//
// Blank lines and lines beginning with "#" are skipped, as is any directive
// or face encoding not listed above (vertex-only and vertex/uv-only faces
// included). Attribute pools are global across the whole stream, so face
// indices keep counting up across "o" boundaries. Faces are expanded into
// unindexed per-corner attribute streams on the current object.
//
// A quad face contributes only its first three corners; the fourth is
// dropped rather than fanned into a second triangle.
//
// Malformed numeric attribute tokens parse to NaN and flow through to the
// output arrays rather than failing the parse. Objects that never accumulate
// a vertex (duplicate or empty "o" declarations) are excluded from the
// result.
//
// Parameters:
//   - r: the reader providing geometry text
//
// Returns:
//   - []model.MeshObject: the parsed objects in declaration order
//   - error: error if reading the stream fails
func parseOBJ(r io.Reader) ([]model.MeshObject, error) {
	var positions, normals, uvs []float32

	var objects []model.MeshObject
	current := model.MeshObject{}

	flush := func() {
		if current.VertexCount() > 0 {
			objects = append(objects, current)
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			positions = append(positions, parseFloatToken(fields[1]), parseFloatToken(fields[2]), parseFloatToken(fields[3]))
		case "vn":
			if len(fields) < 4 {
				continue
			}
			normals = append(normals, parseFloatToken(fields[1]), parseFloatToken(fields[2]), parseFloatToken(fields[3]))
		case "vt":
			if len(fields) < 3 {
				continue
			}
			uvs = append(uvs, parseFloatToken(fields[1]), parseFloatToken(fields[2]))
		case "o":
			flush()
			current = model.MeshObject{Name: strings.TrimSpace(line[1:])}
		case "usemtl":
			if len(fields) > 1 {
				current.Material = fields[1]
			}
		case "f":
			corners, ok := parseFaceCorners(fields[1:])
			if !ok {
				continue
			}
			emitFace(&current, corners, positions, normals, uvs)
		}
	}
	flush()

	return objects, sc.Err()
}

// parseFaceCorners accepts exactly 3 or 4 corner references, each a full
// "v/vt/vn" triplet of integers. Any other shape fails the whole line.
func parseFaceCorners(refs []string) ([]faceCorner, bool) {
	if len(refs) != 3 && len(refs) != 4 {
		return nil, false
	}

	corners := make([]faceCorner, 0, len(refs))
	for _, ref := range refs {
		parts := strings.Split(ref, "/")
		if len(parts) != 3 {
			return nil, false
		}
		v, errV := strconv.Atoi(parts[0])
		vt, errT := strconv.Atoi(parts[1])
		vn, errN := strconv.Atoi(parts[2])
		if errV != nil || errT != nil || errN != nil {
			return nil, false
		}
		corners = append(corners, faceCorner{v: v, vt: vt, vn: vn})
	}
	return corners, true
}

// emitFace resolves the first three corners of a face against the global
// pools and appends the duplicated attribute values to the object. The face
// is dropped whole if any referenced index falls outside its pool.
func emitFace(obj *model.MeshObject, corners []faceCorner, positions, normals, uvs []float32) {
	corners = corners[:3]

	for _, c := range corners {
		if pb := (c.v - 1) * 3; pb < 0 || pb+3 > len(positions) {
			return
		}
		if tb := (c.vt - 1) * 2; tb < 0 || tb+2 > len(uvs) {
			return
		}
		if nb := (c.vn - 1) * 3; nb < 0 || nb+3 > len(normals) {
			return
		}
	}

	for _, c := range corners {
		pb := (c.v - 1) * 3
		tb := (c.vt - 1) * 2
		nb := (c.vn - 1) * 3
		obj.Positions = append(obj.Positions, positions[pb:pb+3]...)
		obj.UVs = append(obj.UVs, uvs[tb:tb+2]...)
		obj.Normals = append(obj.Normals, normals[nb:nb+3]...)
	}
}

// parseFloatToken parses a float32 token, producing NaN for malformed input
// so a bad value is visible in the output stream instead of aborting the
// parse.
func parseFloatToken(tok string) float32 {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return float32(math.NaN())
	}
	return float32(v)
}
