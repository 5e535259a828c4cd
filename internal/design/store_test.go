package design

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/tdewolff/test"
	"github.com/youruser/pixelcraft/internal/presets"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return strconv.Itoa(n)
	}
}

func newTestStore() *Store {
	return NewStore(WithIDFunc(seqIDs()))
}

func strPtr(s string) *string { return &s }

func TestNewStoreDefaults(t *testing.T) {
	s := newTestStore()
	doc, v := s.Snapshot()
	test.T(t, v, uint64(1))
	test.T(t, doc.Width, 1280)
	test.T(t, doc.Height, 720)
	test.String(t, doc.BackgroundColor, "#1e293b")
	test.String(t, doc.BackgroundImage, "")
	test.Float(t, doc.OverlayOpacity, 0.2)
	test.T(t, len(doc.Layers), 1)
	test.String(t, doc.Layers[0].ID, "1")
	test.String(t, doc.Layers[0].Text, "Edit Me")
}

func TestAddTextLayerOffsets(t *testing.T) {
	s := newTestStore()
	test.That(t, s.RemoveTextLayer("1"))

	for i := 0; i < 3; i++ {
		s.AddTextLayer()
	}
	doc, _ := s.Snapshot()
	test.T(t, len(doc.Layers), 3)
	test.Float(t, doc.Layers[0].Y, 50)
	test.Float(t, doc.Layers[1].Y, 60)
	test.Float(t, doc.Layers[2].Y, 70)
	test.That(t, doc.Layers[0].ID != doc.Layers[1].ID && doc.Layers[1].ID != doc.Layers[2].ID, "ids must be unique")
}

func TestUpdateTextLayerIsolation(t *testing.T) {
	s := newTestStore()
	second := s.AddTextLayer()
	before, _ := s.Snapshot()

	found, err := s.UpdateTextLayer(second.ID, TextLayerPatch{Text: strPtr("Hello"), Color: strPtr("#ff0000")})
	test.Error(t, err)
	test.That(t, found)

	after, _ := s.Snapshot()
	test.T(t, after.Layers[0], before.Layers[0])

	want := before.Layers[1]
	want.Text = "Hello"
	want.Color = "#ff0000"
	test.T(t, after.Layers[1], want)

	// the earlier snapshot is untouched
	test.String(t, before.Layers[1].Text, "Edit Me")
}

func TestUnknownIDNoOp(t *testing.T) {
	s := newTestStore()
	s.AddTextLayer()
	before, v := s.Snapshot()

	found, err := s.UpdateTextLayer("missing", TextLayerPatch{Text: strPtr("x")})
	test.Error(t, err)
	test.That(t, !found)
	test.That(t, !s.RemoveTextLayer("missing"))

	after, v2 := s.Snapshot()
	test.T(t, after, before)
	test.T(t, v2, v)
}

func TestUpdateTextLayerValidation(t *testing.T) {
	s := newTestStore()
	zero := 0
	_, err := s.UpdateTextLayer("1", TextLayerPatch{FontSize: &zero})
	test.That(t, errors.Is(err, ErrInvalidFontSize))

	_, err = s.UpdateTextLayer("1", TextLayerPatch{Color: strPtr("blue-ish")})
	test.That(t, errors.Is(err, ErrInvalidColor))

	doc, _ := s.Snapshot()
	test.T(t, doc.Layers[0].FontSize, 60)
}

func TestSetCanvasSize(t *testing.T) {
	s := newTestStore()
	test.Error(t, s.SetPreset(presets.Builtin[2]))
	doc, _ := s.Snapshot()
	test.T(t, doc.Width, 1080)
	test.T(t, doc.Height, 1920)
	test.String(t, doc.BackgroundColor, "#1e293b")

	for _, wh := range [][2]int{{0, 720}, {1280, -1}, {MaxDimension + 1, 10}} {
		err := s.SetCanvasSize(wh[0], wh[1])
		test.That(t, errors.Is(err, ErrInvalidSize), wh)
	}
	doc, _ = s.Snapshot()
	test.T(t, doc.Width, 1080)
}

func TestSetOverlayOpacityClamps(t *testing.T) {
	s := newTestStore()
	test.Error(t, s.SetOverlayOpacity(1.7))
	doc, _ := s.Snapshot()
	test.Float(t, doc.OverlayOpacity, 1)

	test.Error(t, s.SetOverlayOpacity(-0.3))
	doc, _ = s.Snapshot()
	test.Float(t, doc.OverlayOpacity, 0)

	test.That(t, errors.Is(s.SetOverlayOpacity(math.NaN()), ErrInvalidOpacity))
}

func TestBackground(t *testing.T) {
	s := newTestStore()
	test.Error(t, s.SetBackgroundColor("#fff"))
	test.That(t, errors.Is(s.SetBackgroundColor("red"), ErrInvalidColor))
	test.Error(t, s.SetBackgroundImage("data:image/png;base64,AAAA"))

	doc, v := s.Snapshot()
	test.String(t, doc.BackgroundColor, "#fff")
	test.String(t, doc.BackgroundImage, "data:image/png;base64,AAAA")
	test.T(t, v, uint64(3))

	test.Error(t, s.SetBackgroundImage(""))
	doc, _ = s.Snapshot()
	test.String(t, doc.BackgroundImage, "")
}

func TestApplyTagline(t *testing.T) {
	s := newTestStore()
	s.ApplyTagline("Design Your Future")
	doc, _ := s.Snapshot()
	test.T(t, len(doc.Layers), 1)
	test.String(t, doc.Layers[0].Text, "Design Your Future")

	s.RemoveTextLayer("1")
	s.ApplyTagline("Innovative Ideas")
	doc, _ = s.Snapshot()
	test.T(t, len(doc.Layers), 1)
	test.String(t, doc.Layers[0].Text, "Innovative Ideas")
	test.Float(t, doc.Layers[0].Y, 50)
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	s := newTestStore()
	doc, _ := s.Snapshot()
	doc.Layers[0].Text = "mutated"

	again, _ := s.Snapshot()
	test.String(t, again.Layers[0].Text, "Edit Me")
}
