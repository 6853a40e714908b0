// package common contains common types that are used throughout this viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Texture holds decoded RGBA pixel data ready for GPU upload.
type Texture struct {
	// Name is an identifier for this texture (e.g., "body-diffuse").
	Name string

	// Pixels is the raw RGBA pixel data, 4 bytes per pixel, row-major order.
	Pixels []byte

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32
}

// LoadTexture decodes an image file on disk to raw RGBA pixel data.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - path: image file path
//
// Returns:
//   - *Texture: decoded texture, populated with pixel data and dimensions
//   - error: error if the file cannot be opened or decoded
func LoadTexture(path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}
	return textureFromImage(path, img)
}

// DecodeTexture decodes embedded image bytes (PNG or JPEG) to raw RGBA pixel data.
//
// Parameters:
//   - name: identifier for the decoded texture
//   - data: raw image file bytes
//
// Returns:
//   - *Texture: decoded texture, populated with pixel data and dimensions
//   - error: error if decoding fails
func DecodeTexture(name string, data []byte) (*Texture, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("texture %s has no data", name)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded image %s: %w", name, err)
	}
	return textureFromImage(name, img)
}

func textureFromImage(name string, img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return &Texture{
		Name:   name,
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
