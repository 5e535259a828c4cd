package presets

import "strings"

type FilterOptions struct {
	Orientation string // "landscape", "portrait", "square" or empty for all
	FreeWords   string
}

func Filter(all []Preset, opt FilterOptions) []Preset {
	out := []Preset{}
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	for _, p := range all {
		if opt.Orientation != "" && p.Orientation() != opt.Orientation {
			continue
		}
		name := strings.ToLower(p.Name)
		ok := true
		for _, k := range kw {
			if !strings.Contains(name, k) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
