package image

import (
	"image"

	"github.com/nfnt/resize"
)

type Processor struct{}

// Thumbnail scales img to the given width, keeping its aspect ratio.
// A width at or above the source width returns img unchanged.
func (p *Processor) Thumbnail(img image.Image, width int) image.Image {
	if width <= 0 || width >= img.Bounds().Dx() {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Lanczos3)
}
