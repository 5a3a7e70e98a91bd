package flatmap

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

var (
	blankOnce sync.Once
	blankPNG  []byte
)

// BlankTile returns a 1x1 transparent PNG, served in place of missing
// raster tiles so viewers render empty rather than broken layers.
func BlankTile() []byte {
	blankOnce.Do(func() {
		var buf bytes.Buffer
		// Encoding a fresh 1x1 RGBA image cannot fail.
		_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)))
		blankPNG = buf.Bytes()
	})
	return blankPNG
}
