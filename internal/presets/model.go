package presets

// Preset is a named canvas size.
type Preset struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Icon   string `json:"icon"`
}

// Orientation reports "landscape", "portrait" or "square".
func (p Preset) Orientation() string {
	switch {
	case p.Width > p.Height:
		return "landscape"
	case p.Width < p.Height:
		return "portrait"
	}
	return "square"
}

// Builtin is the preset table shipped with the editor.
var Builtin = []Preset{
	{Name: "YouTube Thumbnail", Width: 1280, Height: 720, Icon: "▶️"},
	{Name: "Instagram Post", Width: 1080, Height: 1080, Icon: "📸"},
	{Name: "Instagram Story", Width: 1080, Height: 1920, Icon: "📱"},
	{Name: "Twitter/X Header", Width: 1500, Height: 500, Icon: "🐦"},
	{Name: "Blogger Header", Width: 1200, Height: 400, Icon: "📝"},
	{Name: "LinkedIn Banner", Width: 1584, Height: 396, Icon: "💼"},
}

// Fonts lists the font families offered for text layers.
var Fonts = []string{
	"Inter",
	"Arial",
	"Courier New",
	"Georgia",
	"Times New Roman",
	"Verdana",
}
