package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewLight(LightTypeDirectional)
	l.SetDirection(0, -2, 0)

	dir := l.Direction()
	if dir != [3]float32{0, -1, 0} {
		t.Fatalf("got direction %v, want (0, -1, 0)", dir)
	}

	l.SetDirection(0, 0, 0)
	if l.Direction() != [3]float32{0, 0, 0} {
		t.Fatal("zero direction should stay zero, not NaN")
	}
}

func TestGPULightMarshalLayout(t *testing.T) {
	g := GPULight{
		Position:   [3]float32{1, 2, 3},
		LightType:  uint32(LightTypePoint),
		Color:      [3]float32{0.5, 0.25, 0.125},
		Intensity:  2,
		Direction:  [3]float32{0, -1, 0},
		LightRange: 15,
	}
	buf := g.Marshal()
	if len(buf) != 48 || g.Size() != 48 {
		t.Fatalf("got %d bytes (Size %d), want 48", len(buf), g.Size())
	}

	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])); got != 3 {
		t.Fatalf("position z at offset 8: got %v, want 3", got)
	}
	if got := binary.LittleEndian.Uint32(buf[12:16]); got != uint32(LightTypePoint) {
		t.Fatalf("light type at offset 12: got %d, want %d", got, LightTypePoint)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[28:32])); got != 2 {
		t.Fatalf("intensity at offset 28: got %v, want 2", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[44:48])); got != 15 {
		t.Fatalf("range at offset 44: got %v, want 15", got)
	}
}

func TestMarshalLightBufferSkipsDisabled(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeDirectional, WithIntensity(1)),
		NewLight(LightTypeDirectional, WithEnabled(false)),
		NewLight(LightTypePoint, WithPosition(0, 1, 0)),
	}

	buf := MarshalLightBuffer([3]float32{0.1, 0.1, 0.1}, lights)

	wantLen := 16 + MaxGPULights*48
	if len(buf) != wantLen {
		t.Fatalf("got %d bytes, want frame-invariant %d", len(buf), wantLen)
	}
	if count := binary.LittleEndian.Uint32(buf[12:16]); count != 2 {
		t.Fatalf("got light count %d, want 2 (disabled light skipped)", count)
	}

	// The second packed record is the point light; its type field sits at
	// header(16) + record(48) + 12.
	if got := binary.LittleEndian.Uint32(buf[16+48+12 : 16+48+16]); got != uint32(LightTypePoint) {
		t.Fatalf("second record type: got %d, want point", got)
	}
}

func TestMarshalLightBufferCapsAtMax(t *testing.T) {
	lights := make([]Light, MaxGPULights+3)
	for i := range lights {
		lights[i] = NewLight(LightTypeDirectional)
	}

	buf := MarshalLightBuffer(DefaultAmbient, lights)
	if count := binary.LittleEndian.Uint32(buf[12:16]); count != MaxGPULights {
		t.Fatalf("got light count %d, want cap %d", count, MaxGPULights)
	}
}

func TestDefaultRig(t *testing.T) {
	rig := DefaultRig()
	if len(rig) != 3 {
		t.Fatalf("got %d lights, want 3", len(rig))
	}
	for i, l := range rig {
		if l.Type() != LightTypeDirectional {
			t.Fatalf("rig light %d: got type %d, want directional", i, l.Type())
		}
		if !l.Enabled() {
			t.Fatalf("rig light %d should start enabled", i)
		}
		dir := l.Direction()
		lenSq := dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2]
		if math.Abs(float64(lenSq)-1) > 1e-5 {
			t.Fatalf("rig light %d direction not normalized: %v", i, dir)
		}
	}
}
