package loader

import (
	"math"
	"strings"
	"testing"
)

const triangleOBJ = "v 0 0 0\n" +
	"v 1 0 0\n" +
	"v 0 1 0\n" +
	"vt 0 0\n" +
	"vt 1 0\n" +
	"vt 0 1\n" +
	"vn 0 0 1\n" +
	"vn 0 0 1\n" +
	"vn 0 0 1\n" +
	"f 1/1/1 2/2/2 3/3/3\n"

func floatsEqual(t *testing.T, label string, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d floats, want %d", label, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s[%d]: got %v, want %v", label, i, got[i], want[i])
		}
	}
}

func TestParseTriangle(t *testing.T) {
	objects, err := parseOBJ(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(objects))
	}

	obj := objects[0]
	floatsEqual(t, "positions", obj.Positions, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	floatsEqual(t, "uvs", obj.UVs, []float32{0, 0, 1, 0, 0, 1})
	floatsEqual(t, "normals", obj.Normals, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1})
}

func TestParseMultipleObjects(t *testing.T) {
	input := "o first\n" + triangleOBJ +
		"o second\n" +
		"v 2 0 0\n" +
		"v 3 0 0\n" +
		"v 2 1 0\n" +
		"vt 0 0\n" +
		"vt 1 0\n" +
		"vt 0 1\n" +
		"vn 0 1 0\n" +
		"vn 0 1 0\n" +
		"vn 0 1 0\n" +
		"f 4/4/4 5/5/5 6/6/6\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}
	if objects[0].Name != "first" || objects[1].Name != "second" {
		t.Fatalf("got names %q, %q; want declaration order first, second", objects[0].Name, objects[1].Name)
	}
	if objects[0].VertexCount() != 3 || objects[1].VertexCount() != 3 {
		t.Fatalf("got vertex counts %d, %d; want 3, 3", objects[0].VertexCount(), objects[1].VertexCount())
	}
	floatsEqual(t, "second positions", objects[1].Positions, []float32{2, 0, 0, 3, 0, 0, 2, 1, 0})
}

func TestParseGlobalIndexPools(t *testing.T) {
	// The second object's face references attributes declared under the first
	// object; indices keep counting across "o" boundaries.
	input := "o first\n" + triangleOBJ +
		"o second\n" +
		"f 3/3/3 2/2/2 1/1/1\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}
	floatsEqual(t, "second positions", objects[1].Positions, []float32{0, 1, 0, 1, 0, 0, 0, 0, 0})
}

func TestParseQuadDropsFourthCorner(t *testing.T) {
	input := "v 0 0 0\n" +
		"v 1 0 0\n" +
		"v 1 1 0\n" +
		"v 0 1 0\n" +
		"vt 0 0\n" +
		"vt 1 0\n" +
		"vt 1 1\n" +
		"vt 0 1\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"f 1/1/1 2/2/2 3/3/3 4/4/4\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(objects))
	}
	if got := objects[0].VertexCount(); got != 3 {
		t.Fatalf("got %d vertices, want 3 (fourth corner dropped)", got)
	}
	floatsEqual(t, "positions", objects[0].Positions, []float32{0, 0, 0, 1, 0, 0, 1, 1, 0})
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	input := "# anatomy export\n" +
		"\n" +
		"   \n" +
		triangleOBJ +
		"# trailing comment\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 1 || objects[0].VertexCount() != 3 {
		t.Fatalf("comments and blanks should not affect parsing; got %d objects", len(objects))
	}
}

func TestParseExcludesEmptyObjects(t *testing.T) {
	input := "o empty\n" +
		"o full\n" +
		triangleOBJ

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1 (empty object excluded)", len(objects))
	}
	if objects[0].Name != "full" {
		t.Fatalf("got name %q, want full", objects[0].Name)
	}
}

func TestParseDropsPartialFaceEncodings(t *testing.T) {
	input := "v 0 0 0\n" +
		"v 1 0 0\n" +
		"v 0 1 0\n" +
		"vt 0 0\n" +
		"vt 1 0\n" +
		"vt 0 1\n" +
		"f 1 2 3\n" +
		"f 1/1 2/2 3/3\n" +
		"f 1//1 2//2 3//3\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 0 {
		t.Fatalf("got %d objects, want 0 (only full triplet faces are recognized)", len(objects))
	}
}

func TestParseUsemtlTagsCurrentObject(t *testing.T) {
	input := "o pericardium\n" +
		"usemtl meridian_red\n" +
		triangleOBJ

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(objects))
	}
	if objects[0].Material != "meridian_red" {
		t.Fatalf("got material %q, want meridian_red", objects[0].Material)
	}
}

func TestParseMalformedFloatPropagatesNaN(t *testing.T) {
	input := "v zero 0 0\n" +
		"v 1 0 0\n" +
		"v 0 1 0\n" +
		"vt 0 0\n" +
		"vt 1 0\n" +
		"vt 0 1\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"vn 0 0 1\n" +
		"f 1/1/1 2/2/2 3/3/3\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(objects))
	}
	if !math.IsNaN(float64(objects[0].Positions[0])) {
		t.Fatalf("got %v for malformed token, want NaN", objects[0].Positions[0])
	}
	if objects[0].Positions[1] != 0 || objects[0].Positions[2] != 0 {
		t.Fatalf("well-formed tokens on the same line should still parse")
	}
}

func TestParseDropsOutOfRangeFaces(t *testing.T) {
	input := "v 0 0 0\n" +
		"vt 0 0\n" +
		"vn 0 0 1\n" +
		"f 1/1/1 2/1/1 1/1/1\n"

	objects, err := parseOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOBJ: %v", err)
	}
	if len(objects) != 0 {
		t.Fatalf("got %d objects, want 0 (face referencing missing attributes dropped)", len(objects))
	}
}
