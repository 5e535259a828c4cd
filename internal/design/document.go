package design

// Document is the complete canvas configuration of one editing session.
// BackgroundImage holds the image source (a data: URL or an http(s) URL);
// the empty string means no image.
type Document struct {
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	BackgroundColor string      `json:"background_color"`
	BackgroundImage string      `json:"background_image,omitempty"`
	OverlayOpacity  float64     `json:"overlay_opacity"`
	Layers          []TextLayer `json:"layers"`
}

// TextLayer is one positioned caption. X and Y are percentages of the
// canvas width and height.
type TextLayer struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   int     `json:"font_size"`
	Color      string  `json:"color"`
	FontFamily string  `json:"font_family"`
	FontWeight string  `json:"font_weight"`
	Shadow     bool    `json:"shadow"`
}

// TextLayerPatch carries the fields to merge into a layer; nil fields are left alone.
type TextLayerPatch struct {
	Text       *string  `json:"text,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	FontSize   *int     `json:"font_size,omitempty"`
	Color      *string  `json:"color,omitempty"`
	FontFamily *string  `json:"font_family,omitempty"`
	FontWeight *string  `json:"font_weight,omitempty"`
	Shadow     *bool    `json:"shadow,omitempty"`
}

const (
	DefaultWidth           = 1280
	DefaultHeight          = 720
	DefaultBackgroundColor = "#1e293b"
	DefaultOverlayOpacity  = 0.2

	// MaxDimension bounds either side of the canvas.
	MaxDimension = 8192
	MaxFontSize  = 1000
)

// DefaultTextLayer returns the layer template used for new captions. The
// caller assigns the id.
func DefaultTextLayer() TextLayer {
	return TextLayer{
		Text:       "Edit Me",
		X:          50,
		Y:          50,
		FontSize:   60,
		Color:      "#ffffff",
		FontFamily: "Inter",
		FontWeight: "700",
		Shadow:     true,
	}
}

// NewDocument returns the starting document of a session: a YouTube sized
// canvas with a single default caption.
func NewDocument(firstLayerID string) Document {
	l := DefaultTextLayer()
	l.ID = firstLayerID
	return Document{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		BackgroundColor: DefaultBackgroundColor,
		OverlayOpacity:  DefaultOverlayOpacity,
		Layers:          []TextLayer{l},
	}
}

// Clone returns a copy that shares no memory with d.
func (d Document) Clone() Document {
	c := d
	c.Layers = make([]TextLayer, len(d.Layers))
	copy(c.Layers, d.Layers)
	return c
}

// Layer returns the layer with the given id.
func (d Document) Layer(id string) (TextLayer, bool) {
	for _, l := range d.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return TextLayer{}, false
}

func (l TextLayer) apply(p TextLayerPatch) TextLayer {
	if p.Text != nil {
		l.Text = *p.Text
	}
	if p.X != nil {
		l.X = *p.X
	}
	if p.Y != nil {
		l.Y = *p.Y
	}
	if p.FontSize != nil {
		l.FontSize = *p.FontSize
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.FontFamily != nil {
		l.FontFamily = *p.FontFamily
	}
	if p.FontWeight != nil {
		l.FontWeight = *p.FontWeight
	}
	if p.Shadow != nil {
		l.Shadow = *p.Shadow
	}
	return l
}
