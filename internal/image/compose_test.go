package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/test"
	"github.com/youruser/pixelcraft/internal/design"
)

func newTestCompositor(t *testing.T) *Compositor {
	t.Helper()
	fonts, err := NewFontRegistry()
	test.Error(t, err)
	return NewCompositor(fonts)
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func assertPixel(t *testing.T, img *image.NRGBA, x, y int, want color.NRGBA) {
	t.Helper()
	got := img.NRGBAAt(x, y)
	if !near(got.R, want.R, 2) || !near(got.G, want.G, 2) || !near(got.B, want.B, 2) || !near(got.A, want.A, 2) {
		t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func helloDocument() design.Document {
	return design.Document{
		Width:           1280,
		Height:          720,
		BackgroundColor: "#1e293b",
		OverlayOpacity:  0.2,
		Layers: []design.TextLayer{{
			ID:         "1",
			Text:       "Hello",
			X:          50,
			Y:          50,
			FontSize:   60,
			Color:      "#ffffff",
			FontFamily: "Inter",
			FontWeight: "700",
		}},
	}
}

// brightBounds returns the bounding box of near-white pixels.
func brightBounds(img *image.NRGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R > 200 && c.G > 200 && c.B > 200 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestRenderHelloScenario(t *testing.T) {
	c := newTestCompositor(t)
	img := c.Render(helloDocument(), nil)
	test.T(t, img.Bounds(), image.Rect(0, 0, 1280, 720))

	// #1e293b darkened by 20% black
	dark := color.NRGBA{R: 24, G: 33, B: 47, A: 255}
	assertPixel(t, img, 0, 0, dark)
	assertPixel(t, img, 1279, 719, dark)
	assertPixel(t, img, 100, 360, dark)

	text := brightBounds(img)
	test.That(t, !text.Empty(), "no text drawn")
	cx := (text.Min.X + text.Max.X) / 2
	cy := (text.Min.Y + text.Max.Y) / 2
	test.That(t, cx > 634 && cx < 646, "text not centered horizontally", text)
	test.That(t, cy > 348 && cy < 372, "text not centered vertically", text)
	test.That(t, text.Dx() < 400 && text.Dy() < 80, "text too large", text)
}

func TestRenderIsDeterministic(t *testing.T) {
	c := newTestCompositor(t)
	doc := helloDocument()
	doc.Layers[0].Shadow = true
	bg := imaging.New(64, 32, color.NRGBA{R: 200, G: 40, B: 90, A: 255})

	a := c.Render(doc, bg)
	b := c.Render(doc, bg)
	test.That(t, bytes.Equal(a.Pix, b.Pix), "renders differ")
}

func TestRenderDoesNotMutateDocument(t *testing.T) {
	c := newTestCompositor(t)
	doc := helloDocument()
	before := doc.Clone()
	c.Render(doc, nil)
	test.T(t, doc, before)
}

func TestRenderBackgroundOnly(t *testing.T) {
	c := newTestCompositor(t)
	doc := design.Document{Width: 40, Height: 30, BackgroundColor: "#ff8000"}
	img := c.Render(doc, nil)
	for _, p := range []image.Point{{0, 0}, {20, 15}, {39, 29}} {
		assertPixel(t, img, p.X, p.Y, color.NRGBA{R: 255, G: 128, B: 0, A: 255})
	}
}

func TestRenderCoverFitCentersCrop(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	red := color.NRGBA{R: 255, A: 255}
	bg := image.NewNRGBA(image.Rect(0, 0, 300, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 300; x++ {
			switch {
			case x < 100:
				bg.SetNRGBA(x, y, blue)
			case x < 200:
				bg.SetNRGBA(x, y, green)
			default:
				bg.SetNRGBA(x, y, red)
			}
		}
	}

	c := newTestCompositor(t)
	img := c.Render(design.Document{Width: 50, Height: 50, BackgroundColor: "#000000"}, bg)
	for _, p := range []image.Point{{0, 0}, {25, 25}, {49, 0}, {0, 49}, {49, 49}} {
		assertPixel(t, img, p.X, p.Y, green)
	}
}

func TestRenderCoverFitFillsTarget(t *testing.T) {
	// a 1x1 image must still cover every pixel of a wide canvas
	bg := imaging.New(1, 1, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	c := newTestCompositor(t)
	img := c.Render(design.Document{Width: 160, Height: 90, BackgroundColor: "#ffffff"}, bg)
	for _, p := range []image.Point{{0, 0}, {159, 0}, {0, 89}, {159, 89}, {80, 45}} {
		assertPixel(t, img, p.X, p.Y, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	}
}

func TestRenderOverlayOverImage(t *testing.T) {
	bg := imaging.New(10, 10, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	c := newTestCompositor(t)
	img := c.Render(design.Document{Width: 20, Height: 20, BackgroundColor: "#ffffff", OverlayOpacity: 0.5}, bg)
	assertPixel(t, img, 10, 10, color.NRGBA{R: 100, G: 50, B: 25, A: 255})
}

func TestRenderShadow(t *testing.T) {
	c := newTestCompositor(t)
	doc := helloDocument()
	doc.OverlayOpacity = 0
	doc.BackgroundColor = "#808080"

	plain := c.Render(doc, nil)
	doc.Layers[0].Shadow = true
	shadowed := c.Render(doc, nil)

	text := brightBounds(plain)
	// the shadow darkens pixels just below and right of the glyphs
	darker := 0
	for y := text.Max.Y; y < text.Max.Y+8; y++ {
		for x := text.Min.X; x < text.Max.X+8; x++ {
			if shadowed.NRGBAAt(x, y).R < plain.NRGBAAt(x, y).R {
				darker++
			}
		}
	}
	test.That(t, darker > 0, "no shadow drawn")
}

func TestRenderSkipsEmptyText(t *testing.T) {
	c := newTestCompositor(t)
	doc := helloDocument()
	doc.Layers[0].Text = ""
	img := c.Render(doc, nil)
	test.That(t, brightBounds(img).Empty())
}

func TestShadowRect(t *testing.T) {
	r := shadowRect(100, 50, 40, 30, 10, 1280, 720)
	test.T(t, r, image.Rect(80-shadowPad, 20-shadowPad, 120+shadowPad, 60+shadowPad))

	// limited to the canvas plus the blur margin
	r = shadowRect(0, 700, 4000, 30, 10, 1280, 720)
	test.T(t, r, image.Rect(-shadowPad, 670-shadowPad, 1280+shadowPad, 720+shadowPad))

	test.That(t, shadowRect(-500, 50, 40, 30, 10, 1280, 720).Empty())
}

func TestRenderShadowAtCanvasEdge(t *testing.T) {
	c := newTestCompositor(t)
	doc := helloDocument()
	doc.OverlayOpacity = 0
	doc.BackgroundColor = "#808080"
	doc.Layers[0].X = 99
	doc.Layers[0].Y = 99

	plain := c.Render(doc, nil)
	doc.Layers[0].Shadow = true
	shadowed := c.Render(doc, nil)
	test.T(t, shadowed.Bounds().Size(), image.Pt(1280, 720))
	assertPixel(t, shadowed, 10, 10, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	darker := 0
	for y := 660; y < 720; y++ {
		for x := 1150; x < 1280; x++ {
			if shadowed.NRGBAAt(x, y).R < plain.NRGBAAt(x, y).R {
				darker++
			}
		}
	}
	test.That(t, darker > 0, "no shadow drawn at the canvas edge")
}
