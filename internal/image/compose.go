package imagepkg

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/youruser/pixelcraft/internal/design"
)

// Drop shadow applied to text layers with Shadow set.
const (
	shadowAlpha   = 0.8
	shadowBlur    = 10
	shadowOffsetX = 4
	shadowOffsetY = 4

	// room around the glyphs for the blur kernel (3 sigma) plus overhang
	shadowPad = shadowBlur * 2
)

// Compositor paints a Document onto a fresh raster.
type Compositor struct {
	fonts *FontRegistry
}

func NewCompositor(fonts *FontRegistry) *Compositor {
	return &Compositor{fonts: fonts}
}

// Render paints doc at exactly doc.Width x doc.Height pixels: background
// color, background image (cover-fit), darkening overlay, then text layers
// in list order. bg is the decoded background image, or nil for none.
// Render never modifies doc.
func (c *Compositor) Render(doc design.Document, bg image.Image) *image.NRGBA {
	w, h := doc.Width, doc.Height
	dc := gg.NewContext(w, h)

	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	dc.SetColor(parseColorOr(doc.BackgroundColor, color.Black))
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	if bg != nil && !bg.Bounds().Empty() {
		crop := imaging.Crop(bg, coverCrop(bg.Bounds(), w, h))
		dc.DrawImage(imaging.Resize(crop, w, h, imaging.Lanczos), 0, 0)
	}

	if doc.OverlayOpacity > 0 {
		dc.SetRGBA(0, 0, 0, doc.OverlayOpacity)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}

	for _, l := range doc.Layers {
		c.drawText(dc, l, w, h)
	}
	return imaging.Clone(dc.Image())
}

func (c *Compositor) drawText(dc *gg.Context, l design.TextLayer, w, h int) {
	if l.Text == "" {
		return
	}
	face, err := c.fonts.Face(l.FontFamily, l.FontWeight, float64(l.FontSize))
	if err != nil {
		log.Printf("render: layer %s: %v", l.ID, err)
		return
	}
	defer face.Close()

	// anchor the middle of the em box on the layer position
	m := face.Metrics()
	x := l.X / 100 * float64(w)
	y := l.Y/100*float64(h) + float64(m.Ascent-m.Descent)/64/2

	dc.SetFontFace(face)
	if l.Shadow {
		tw, _ := dc.MeasureString(l.Text)
		ascent := float64(m.Ascent) / 64
		descent := float64(m.Descent) / 64
		r := shadowRect(x+shadowOffsetX, y+shadowOffsetY, tw, ascent, descent, w, h)
		if !r.Empty() {
			sdc := gg.NewContext(r.Dx(), r.Dy())
			sdc.SetFontFace(face)
			sdc.SetRGBA(0, 0, 0, shadowAlpha)
			sdc.DrawStringAnchored(l.Text, x+shadowOffsetX-float64(r.Min.X), y+shadowOffsetY-float64(r.Min.Y), 0.5, 0)
			dc.DrawImage(imaging.Blur(sdc.Image(), shadowBlur/2), r.Min.X, r.Min.Y)
		}
	}

	dc.SetColor(parseColorOr(l.Color, color.White))
	dc.DrawStringAnchored(l.Text, x, y, 0.5, 0)
}

// shadowRect is the area a blurred shadow of text centered on x with its
// baseline at y can reach, limited to what can still bleed onto a w x h
// canvas.
func shadowRect(x, y, tw, ascent, descent float64, w, h int) image.Rectangle {
	r := image.Rect(
		int(math.Floor(x-tw/2))-shadowPad,
		int(math.Floor(y-ascent))-shadowPad,
		int(math.Ceil(x+tw/2))+shadowPad,
		int(math.Ceil(y+descent))+shadowPad,
	)
	return r.Intersect(image.Rect(-shadowPad, -shadowPad, w+shadowPad, h+shadowPad))
}

func parseColorOr(s string, def color.Color) color.Color {
	c, err := design.ParseColor(s)
	if err != nil {
		return def
	}
	return c
}
