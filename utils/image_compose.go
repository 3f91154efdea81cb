package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
)

// CompositeImages stitches the given images together horizontally into a
// single PNG. Every image is scaled to the height of the first one, widths
// are preserved proportionally.
func CompositeImages(images []image.Image) ([]byte, error) {
	if len(images) == 0 {
		return nil, nil
	}

	standardHeight := images[0].Bounds().Dy()
	totalWidth := 0
	widths := make([]int, len(images))
	for i, img := range images {
		scale := float64(standardHeight) / float64(img.Bounds().Dy())
		widths[i] = int(float64(img.Bounds().Dx()) * scale)
		totalWidth += widths[i]
	}

	composite := image.NewRGBA(image.Rect(0, 0, totalWidth, standardHeight))
	currentX := 0
	for i, img := range images {
		target := image.Rect(currentX, 0, currentX+widths[i], standardHeight)
		draw.ApproxBiLinear.Scale(composite, target, img, img.Bounds(), draw.Over, nil)
		currentX += widths[i]
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, composite); err != nil {
		return nil, fmt.Errorf("failed to encode composite image: %v", err)
	}
	return buf.Bytes(), nil
}

// CompositeImageFiles reads locally stored images and stitches them. URLs
// pointing outside the uploads directory are skipped.
func CompositeImageFiles(paths []string) ([]byte, error) {
	var images []image.Image
	for _, p := range paths {
		if p == "" {
			continue
		}
		f, err := os.Open(filepath.Clean(p))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		return nil, nil
	}
	return CompositeImages(images)
}
