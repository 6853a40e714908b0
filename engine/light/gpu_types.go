package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the maximum number of lights that can be marshaled into the
// GPU storage buffer per frame. The default rig uses three; the cap leaves
// headroom for per-point highlight lights.
const MaxGPULights = 8

// GPULight is the GPU-aligned representation of a single light source.
// Size: 48 bytes (std430 / WGSL aligned).
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position (point) or unused (directional)
	LightType  uint32     // offset 12: 0 = directional, 1 = point
	Color      [3]float32 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier
	Direction  [3]float32 // offset 32: normalized direction (directional) or unused (point)
	LightRange float32    // offset 44: attenuation cutoff distance
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 48)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(g.Direction[2]))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.LightRange))
	return buf
}

// GPULightHeader is the header prepended to the light storage buffer.
// Contains the ambient color and the active light count.
// Size: 16 bytes (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of active lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(h.AmbientColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(h.AmbientColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(h.AmbientColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// MarshalLightBuffer serializes an ambient color plus the enabled lights into
// a single GPU upload buffer: a 16-byte header followed by a fixed-capacity
// array of MaxGPULights 48-byte light records. Disabled lights are skipped;
// enabled lights beyond the cap are dropped.
//
// Parameters:
//   - ambient: the scene ambient RGB color
//   - lights: the scene's light list
//
// Returns:
//   - []byte: the packed header + light array buffer
func MarshalLightBuffer(ambient [3]float32, lights []Light) []byte {
	records := make([]GPULight, 0, MaxGPULights)
	for _, l := range lights {
		if !l.Enabled() || len(records) == MaxGPULights {
			continue
		}
		records = append(records, GPULight{
			Position:   l.Position(),
			LightType:  uint32(l.Type()),
			Color:      l.Color(),
			Intensity:  l.Intensity(),
			Direction:  l.Direction(),
			LightRange: l.Range(),
		})
	}

	header := GPULightHeader{
		AmbientColor: ambient,
		LightCount:   uint32(len(records)),
	}

	buf := make([]byte, 0, header.Size()+MaxGPULights*48)
	buf = append(buf, header.Marshal()...)
	for i := range records {
		buf = append(buf, records[i].Marshal()...)
	}
	// Zero-fill the unused tail so the buffer size is frame-invariant.
	buf = append(buf, make([]byte, (MaxGPULights-len(records))*48)...)
	return buf
}
