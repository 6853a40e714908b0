package viewer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/acuview/meridian/common"
)

const testCatalogJSON = `[
	{"id": "LI4", "name": "Hegu", "meridian": "Large Intestine",
	 "location": [0.42, 0.95, 0.08], "description": "Between the first and second metacarpals."},
	{"id": "LI11", "name": "Quchi", "meridian": "Large Intestine",
	 "location": [0.38, 1.12, 0.05]},
	{"id": "ST36", "name": "Zusanli", "meridian": "Stomach",
	 "location": [0.12, 0.48, 0.10], "description": "Below the knee, lateral to the tibia."},
	{"id": "GV20", "name": "Baihui", "meridian": "Governing Vessel",
	 "location": [0.0, 1.78, 0.0]}
]`

func testCatalog(t *testing.T) Catalog {
	t.Helper()
	c, err := ParseCatalog(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("ParseCatalog returned error: %v", err)
	}
	return c
}

func TestParseCatalog(t *testing.T) {
	c := testCatalog(t)

	if got := c.Len(); got != 4 {
		t.Fatalf("Len = %d, want 4", got)
	}

	p, ok := c.ByID("ST36")
	if !ok {
		t.Fatal("ByID(ST36) not found")
	}
	if p.Name != "Zusanli" || p.Meridian != "Stomach" {
		t.Errorf("ByID(ST36) = %+v", p)
	}
	if p.Location != [3]float32{0.12, 0.48, 0.10} {
		t.Errorf("ByID(ST36) location = %v", p.Location)
	}

	if _, ok := c.ByID("BL60"); ok {
		t.Error("ByID(BL60) found a point not in the catalog")
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"points": oops`},
		{"empty list", `[]`},
		{"missing id", `[{"name": "Hegu", "meridian": "Large Intestine"}]`},
		{"duplicate id", `[{"id": "LI4", "name": "Hegu"}, {"id": "LI4", "name": "Hegu again"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog(strings.NewReader(tt.json)); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestCatalogByMeridian(t *testing.T) {
	c := testCatalog(t)

	li := c.ByMeridian("Large Intestine")
	if len(li) != 2 {
		t.Fatalf("ByMeridian(Large Intestine) returned %d points, want 2", len(li))
	}
	if li[0].ID != "LI4" || li[1].ID != "LI11" {
		t.Errorf("ByMeridian order = %s, %s; want LI4, LI11", li[0].ID, li[1].ID)
	}

	if got := c.ByMeridian("Pericardium"); len(got) != 0 {
		t.Errorf("ByMeridian(Pericardium) = %v, want empty", got)
	}
}

func TestCatalogMeridians(t *testing.T) {
	c := testCatalog(t)

	want := []string{"Governing Vessel", "Large Intestine", "Stomach"}
	got := c.Meridians()
	if len(got) != len(want) {
		t.Fatalf("Meridians = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Meridians[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCatalogNearest(t *testing.T) {
	c := testCatalog(t)

	// Just above the crown should resolve to GV20.
	p, ok := c.Nearest(common.Vec3{X: 0.05, Y: 1.8, Z: 0.02})
	if !ok {
		t.Fatal("Nearest returned no point")
	}
	if p.ID != "GV20" {
		t.Errorf("Nearest near crown = %s, want GV20", p.ID)
	}

	// Near the knee should resolve to ST36.
	p, _ = c.Nearest(common.Vec3{X: 0.1, Y: 0.5, Z: 0.1})
	if p.ID != "ST36" {
		t.Errorf("Nearest near knee = %s, want ST36", p.ID)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	c := testCatalog(t)

	data, err := json.Marshal(c.Points())
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	again, err := ParseCatalog(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("reparse returned error: %v", err)
	}
	if again.Len() != c.Len() {
		t.Fatalf("round trip lost points: %d != %d", again.Len(), c.Len())
	}
	orig, _ := c.ByID("LI4")
	back, _ := again.ByID("LI4")
	if orig != back {
		t.Errorf("round trip changed LI4: %+v != %+v", back, orig)
	}
}

func TestCatalogPointsReturnsCopy(t *testing.T) {
	c := testCatalog(t)

	points := c.Points()
	points[0].ID = "mutated"

	if p, ok := c.ByID("LI4"); !ok || p.ID != "LI4" {
		t.Error("mutating the Points slice changed the catalog")
	}
}
