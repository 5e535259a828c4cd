package imagepkg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

type fontKey struct {
	family string
	bold   bool
}

// FontRegistry maps a family name and weight onto a parsed font. Families
// that were never registered fall back to the embedded Go fonts.
type FontRegistry struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
	sans  [2]*opentype.Font // regular, bold
	mono  [2]*opentype.Font
}

var monoFamilies = map[string]bool{
	"courier":     true,
	"courier new": true,
	"monospace":   true,
	"consolas":    true,
	"menlo":       true,
}

// NewFontRegistry returns a registry backed by the embedded Go fonts.
func NewFontRegistry() (*FontRegistry, error) {
	r := &FontRegistry{fonts: map[fontKey]*opentype.Font{}}
	for _, f := range []struct {
		dst **opentype.Font
		ttf []byte
	}{
		{&r.sans[0], goregular.TTF},
		{&r.sans[1], gobold.TTF},
		{&r.mono[0], gomono.TTF},
		{&r.mono[1], gomonobold.TTF},
	} {
		parsed, err := opentype.Parse(f.ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded font: %w", err)
		}
		*f.dst = parsed
	}
	return r, nil
}

// Register adds a font under the given family and weight.
func (r *FontRegistry) Register(family string, bold bool, f *opentype.Font) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts[fontKey{strings.ToLower(family), bold}] = f
}

// LoadDir registers every .ttf and .otf file in dir under the family name
// stored in the font itself. It returns the number of fonts registered.
func (r *FontRegistry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			return n, err
		}
		f, err := opentype.Parse(b)
		if err != nil {
			log.Printf("fonts: skipping %s: %v", path, err)
			continue
		}
		family, err := f.Name(nil, sfnt.NameIDFamily)
		if err != nil || family == "" {
			family = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		sub, _ := f.Name(nil, sfnt.NameIDSubfamily)
		r.Register(family, strings.Contains(strings.ToLower(sub), "bold"), f)
		n++
	}
	return n, nil
}

// Face returns a face for the family and CSS weight at size pixels. The
// returned face is not safe for concurrent use.
func (r *FontRegistry) Face(family, weight string, size float64) (font.Face, error) {
	return opentype.NewFace(r.lookup(family, IsBold(weight)), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (r *FontRegistry) lookup(family string, bold bool) *opentype.Font {
	name := strings.ToLower(strings.TrimSpace(family))
	r.mu.RLock()
	f, ok := r.fonts[fontKey{name, bold}]
	if !ok {
		f, ok = r.fonts[fontKey{name, !bold}]
	}
	r.mu.RUnlock()
	if ok {
		return f
	}
	i := 0
	if bold {
		i = 1
	}
	if monoFamilies[name] {
		return r.mono[i]
	}
	return r.sans[i]
}

// IsBold reports whether a CSS font-weight selects a bold face.
func IsBold(weight string) bool {
	switch w := strings.ToLower(strings.TrimSpace(weight)); w {
	case "bold", "bolder":
		return true
	case "", "normal", "lighter":
		return false
	default:
		n, err := strconv.Atoi(w)
		return err == nil && n >= 600
	}
}
