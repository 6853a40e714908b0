package renderer

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestUniformSizesMatchGPUStructs(t *testing.T) {
	if cameraUniformSize != 80 {
		t.Errorf("camera uniform size = %d, want 80", cameraUniformSize)
	}
	if lightBufferSize != 16+8*48 {
		t.Errorf("light buffer size = %d, want %d", lightBufferSize, 16+8*48)
	}
	if modelUniformSize != 64 {
		t.Errorf("model uniform size = %d, want 64", modelUniformSize)
	}
}

func TestUniformSizeForSlot(t *testing.T) {
	tests := []struct {
		slot BindGroupSlot
		want uint64
	}{
		{BindGroupCamera, cameraUniformSize},
		{BindGroupLights, lightBufferSize},
		{BindGroupModel, modelUniformSize},
	}
	for _, tc := range tests {
		got, err := uniformSizeForSlot(tc.slot)
		if err != nil {
			t.Fatalf("uniformSizeForSlot(%d) returned error: %v", tc.slot, err)
		}
		if got != tc.want {
			t.Errorf("uniformSizeForSlot(%d) = %d, want %d", tc.slot, got, tc.want)
		}
	}

	if _, err := uniformSizeForSlot(BindGroupMaterial); err == nil {
		t.Error("expected error for the material slot, it has no uniform buffer")
	}
}

func TestLitBindGroupLayoutDescriptors(t *testing.T) {
	descriptors := litBindGroupLayoutDescriptors()

	if len(descriptors) != int(bindGroupSlotCount) {
		t.Fatalf("descriptor count = %d, want %d", len(descriptors), bindGroupSlotCount)
	}

	camera := descriptors[BindGroupCamera]
	if len(camera.Entries) != 1 {
		t.Fatalf("camera layout has %d entries, want 1", len(camera.Entries))
	}
	if camera.Entries[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Error("camera uniform must be visible to both vertex and fragment stages")
	}
	if camera.Entries[0].Buffer.MinBindingSize != cameraUniformSize {
		t.Errorf("camera min binding size = %d, want %d", camera.Entries[0].Buffer.MinBindingSize, cameraUniformSize)
	}

	lights := descriptors[BindGroupLights]
	if lights.Entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Error("light buffer must be fragment-only")
	}
	if lights.Entries[0].Buffer.MinBindingSize != lightBufferSize {
		t.Errorf("light min binding size = %d, want %d", lights.Entries[0].Buffer.MinBindingSize, lightBufferSize)
	}

	modelData := descriptors[BindGroupModel]
	if modelData.Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Error("model uniform must be vertex-only")
	}

	material := descriptors[BindGroupMaterial]
	if len(material.Entries) != 2 {
		t.Fatalf("material layout has %d entries, want 2 (texture + sampler)", len(material.Entries))
	}
	if material.Entries[0].Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Error("material binding 0 must be a float-sampled texture")
	}
	if material.Entries[1].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Error("material binding 1 must be a filtering sampler")
	}
}

func TestLitShaderDeclaresExpectedEntryPoints(t *testing.T) {
	for _, entry := range []string{"fn vs_main", "fn fs_main"} {
		if !strings.Contains(litShaderSource, entry) {
			t.Errorf("lit shader missing entry point %q", entry)
		}
	}
	for _, binding := range []string{"@group(0) @binding(0)", "@group(1) @binding(0)", "@group(2) @binding(0)", "@group(3) @binding(0)", "@group(3) @binding(1)"} {
		if !strings.Contains(litShaderSource, binding) {
			t.Errorf("lit shader missing binding declaration %q", binding)
		}
	}
}
