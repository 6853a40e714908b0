package scene

import (
	"math"
	"testing"

	"github.com/acuview/meridian/engine/camera"
)

func TestFitDistancePerspective(t *testing.T) {
	fov := float32(math.Pi / 2) // 90 degrees, sin(halfFov) = sqrt(2)/2
	got := fitDistance(1, camera.Perspective{Fov: fov}, 16.0/9.0, 1.0)
	want := float32(1 / math.Sin(math.Pi/4))
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("fitDistance = %v, want %v", got, want)
	}
}

func TestFitDistanceNarrowAspectUsesHorizontalFov(t *testing.T) {
	fov := float32(math.Pi / 2)
	wide := fitDistance(1, camera.Perspective{Fov: fov}, 2.0, 1.0)
	tall := fitDistance(1, camera.Perspective{Fov: fov}, 0.5, 1.0)
	if tall <= wide {
		t.Errorf("portrait aspect should need more distance: tall=%v wide=%v", tall, wide)
	}
}

func TestFitDistanceMarginScales(t *testing.T) {
	p := camera.Perspective{Fov: math.Pi / 3}
	base := fitDistance(2, p, 1.5, 1.0)
	padded := fitDistance(2, p, 1.5, 1.25)
	if math.Abs(float64(padded-base*1.25)) > 1e-5 {
		t.Errorf("margin should scale linearly: base=%v padded=%v", base, padded)
	}
}

func TestFitDistanceOrthographic(t *testing.T) {
	got := fitDistance(3, camera.Orthographic{Left: -1, Right: 1, Top: 1, Bottom: -1, Zoom: 1}, 1, 1.1)
	want := float32(3 * 2 * 1.1)
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("fitDistance = %v, want %v", got, want)
	}
}

func TestFitDistanceZeroRadius(t *testing.T) {
	if got := fitDistance(0, camera.Perspective{Fov: 1}, 1, 1.15); got != 1.15 {
		t.Errorf("zero-radius model should return the margin, got %v", got)
	}
}

func TestMarkerSphereVertexCount(t *testing.T) {
	segments, rings := 16, 12
	sphere := markerSphere(segments, rings)

	// Each of the segments*(rings-1) upper and lower triangle strips emits
	// three vertices per triangle.
	want := 2 * segments * (rings - 1) * 3
	if sphere.VertexCount() != want {
		t.Errorf("VertexCount() = %d, want %d", sphere.VertexCount(), want)
	}
	if len(sphere.Normals) != len(sphere.Positions) {
		t.Error("sphere must emit one normal per position")
	}
	if len(sphere.UVs)/2 != sphere.VertexCount() {
		t.Error("sphere must emit one uv per vertex")
	}
}

func TestMarkerSphereUnitRadius(t *testing.T) {
	sphere := markerSphere(8, 6)
	for i := 0; i < len(sphere.Positions); i += 3 {
		x, y, z := sphere.Positions[i], sphere.Positions[i+1], sphere.Positions[i+2]
		r := math.Sqrt(float64(x*x + y*y + z*z))
		if math.Abs(r-1) > 1e-5 {
			t.Fatalf("vertex %d has radius %v, want 1", i/3, r)
		}
		if sphere.Normals[i] != x || sphere.Normals[i+1] != y || sphere.Normals[i+2] != z {
			t.Fatalf("vertex %d normal does not match its unit position", i/3)
		}
	}
}

func TestMarkerSphereWindingIsOutwardCCW(t *testing.T) {
	sphere := markerSphere(8, 6)
	for i := 0; i+9 <= len(sphere.Positions); i += 9 {
		ax, ay, az := sphere.Positions[i], sphere.Positions[i+1], sphere.Positions[i+2]
		bx, by, bz := sphere.Positions[i+3], sphere.Positions[i+4], sphere.Positions[i+5]
		cx, cy, cz := sphere.Positions[i+6], sphere.Positions[i+7], sphere.Positions[i+8]

		// Face normal from the winding order.
		ux, uy, uz := bx-ax, by-ay, bz-az
		vx, vy, vz := cx-ax, cy-ay, cz-az
		nx := uy*vz - uz*vy
		ny := uz*vx - ux*vz
		nz := ux*vy - uy*vx

		// Outward direction is the centroid of a unit sphere triangle.
		gx, gy, gz := (ax+bx+cx)/3, (ay+by+cy)/3, (az+bz+cz)/3

		if nx*gx+ny*gy+nz*gz <= 0 {
			t.Fatalf("triangle %d winds clockwise when viewed from outside", i/9)
		}
	}
}

func TestMarkerTextureIsSingleOpaquePixel(t *testing.T) {
	tex := markerTexture()
	if tex.Width != 1 || tex.Height != 1 {
		t.Errorf("marker texture is %dx%d, want 1x1", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 4 {
		t.Fatalf("marker texture has %d pixel bytes, want 4", len(tex.Pixels))
	}
	if tex.Pixels[3] != 0xFF {
		t.Error("marker tint must be fully opaque")
	}
}
