package presets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSVName is the optional preset file looked up in the data directory.
const CSVName = "presets.csv"

// LoadFromDataDir returns the builtin presets followed by those found in
// dataDir/presets.csv. A missing file is not an error.
func LoadFromDataDir(dataDir string) ([]Preset, error) {
	out := append([]Preset(nil), Builtin...)
	path := filepath.Join(dataDir, CSVName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	extra, err := loadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return append(out, extra...), nil
}

// loadCSV reads rows with the columns name,width,height[,icon]. Rows whose
// size does not parse as positive integers are skipped.
func loadCSV(path string) ([]Preset, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"name", "width", "height"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv %s: missing column %q", path, name)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Preset{}
	for i, row := range rows[1:] {
		w, errW := strconv.Atoi(get(row, "width"))
		h, errH := strconv.Atoi(get(row, "height"))
		name := get(row, "name")
		if name == "" || errW != nil || errH != nil || w <= 0 || h <= 0 {
			log.Printf("presets: skipping %s row %d", path, i+2)
			continue
		}
		out = append(out, Preset{Name: name, Width: w, Height: h, Icon: get(row, "icon")})
	}
	return out, nil
}

// Lookup finds a preset by name, ignoring case.
func Lookup(all []Preset, name string) (Preset, bool) {
	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
