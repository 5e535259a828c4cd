package design

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/youruser/pixelcraft/internal/presets"
)

// Store holds the current Document of a session. Every mutation replaces the
// document with a fresh copy and bumps the version, so a Snapshot taken
// earlier is never affected by later edits.
type Store struct {
	mu      sync.RWMutex
	doc     Document
	version uint64
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the layer id generator.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// NewStore returns a store holding the default document.
func NewStore(opts ...Option) *Store {
	s := &Store{newID: uuid.NewString, version: 1}
	for _, o := range opts {
		o(s)
	}
	s.doc = NewDocument(s.newID())
	return s
}

// Snapshot returns a copy of the current document and its version.
func (s *Store) Snapshot() (Document, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone(), s.version
}

// Version returns the current document version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// replace runs f on a copy of the document and installs the result.
func (s *Store) replace(f func(d *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.doc.Clone()
	if err := f(&next); err != nil {
		return err
	}
	s.doc = next
	s.version++
	return nil
}

// SetCanvasSize replaces the canvas dimensions.
func (s *Store) SetCanvasSize(w, h int) error {
	if err := validateSize(w, h); err != nil {
		return err
	}
	return s.replace(func(d *Document) error {
		d.Width, d.Height = w, h
		return nil
	})
}

// SetPreset replaces the canvas dimensions with those of p.
func (s *Store) SetPreset(p presets.Preset) error {
	return s.SetCanvasSize(p.Width, p.Height)
}

// SetBackgroundColor replaces the base fill color.
func (s *Store) SetBackgroundColor(c string) error {
	if _, err := ParseColor(c); err != nil {
		return err
	}
	return s.replace(func(d *Document) error {
		d.BackgroundColor = c
		return nil
	})
}

// SetBackgroundImage sets the image source; an empty source removes it.
func (s *Store) SetBackgroundImage(src string) error {
	return s.replace(func(d *Document) error {
		d.BackgroundImage = src
		return nil
	})
}

// SetOverlayOpacity sets the darkening strength, clamped to [0, 1].
func (s *Store) SetOverlayOpacity(v float64) error {
	v, err := clampOpacity(v)
	if err != nil {
		return err
	}
	return s.replace(func(d *Document) error {
		d.OverlayOpacity = v
		return nil
	})
}

// AddTextLayer appends a default layer, offset 10% lower for every layer
// already present, and returns it.
func (s *Store) AddTextLayer() TextLayer {
	var added TextLayer
	s.replace(func(d *Document) error {
		added = DefaultTextLayer()
		added.ID = s.newID()
		added.Y = 50 + 10*float64(len(d.Layers))
		d.Layers = append(d.Layers, added)
		return nil
	})
	return added
}

// UpdateTextLayer merges p into the layer with the given id. It reports
// false, without touching the document, when no such layer exists.
func (s *Store) UpdateTextLayer(id string, p TextLayerPatch) (bool, error) {
	found := false
	err := s.replace(func(d *Document) error {
		for i, l := range d.Layers {
			if l.ID != id {
				continue
			}
			next := l.apply(p)
			if err := validateLayer(next); err != nil {
				return err
			}
			d.Layers[i] = next
			found = true
			return nil
		}
		return errNoChange
	})
	if err == errNoChange {
		return false, nil
	}
	return found, err
}

// RemoveTextLayer removes the layer with the given id and reports whether
// it existed.
func (s *Store) RemoveTextLayer(id string) bool {
	err := s.replace(func(d *Document) error {
		for i, l := range d.Layers {
			if l.ID == id {
				d.Layers = append(d.Layers[:i], d.Layers[i+1:]...)
				return nil
			}
		}
		return errNoChange
	})
	return err == nil
}

// ApplyTagline puts text on the first layer, or adds a layer carrying it
// when the document has none.
func (s *Store) ApplyTagline(text string) {
	s.replace(func(d *Document) error {
		if len(d.Layers) > 0 {
			d.Layers[0].Text = text
			return nil
		}
		l := DefaultTextLayer()
		l.ID = s.newID()
		l.Text = text
		d.Layers = append(d.Layers, l)
		return nil
	})
}

var errNoChange = errors.New("no change")
