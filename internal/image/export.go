package imagepkg

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/youruser/pixelcraft/internal/util"
)

const ProductName = "pixelcraft"

// FileName returns the download name for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s-design-%d.png", ProductName, t.UnixMilli())
}

func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// SaveExport writes img as PNG into dir under its timestamped name and
// returns the file path.
func SaveExport(dir string, img image.Image, t time.Time) (string, error) {
	path := filepath.Join(dir, FileName(t))
	err := util.WriteAtomic(path, func(w io.Writer) error {
		return EncodePNG(w, img)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Preview scales img by a factor in (0, 1]; other factors return img as is.
func Preview(img image.Image, scale float64) image.Image {
	if scale <= 0 || scale >= 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	return imaging.Resize(img, w, h, imaging.Box)
}
