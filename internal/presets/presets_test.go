package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"
)

func TestOrientation(t *testing.T) {
	test.String(t, Preset{Width: 1280, Height: 720}.Orientation(), "landscape")
	test.String(t, Preset{Width: 1080, Height: 1920}.Orientation(), "portrait")
	test.String(t, Preset{Width: 1080, Height: 1080}.Orientation(), "square")
}

func TestLoadFromDataDirMissingFile(t *testing.T) {
	all, err := LoadFromDataDir(t.TempDir())
	test.Error(t, err)
	test.T(t, len(all), len(Builtin))
}

func TestLoadFromDataDirCSV(t *testing.T) {
	dir := t.TempDir()
	csv := "name,width,height,icon\nPinterest Pin,1000,1500,📌\nBroken,abc,10,\n,10,10,\nFacebook Cover,820,312,\n"
	err := os.WriteFile(filepath.Join(dir, CSVName), []byte(csv), 0o644)
	test.Error(t, err)

	all, err := LoadFromDataDir(dir)
	test.Error(t, err)
	test.T(t, len(all), len(Builtin)+2)

	p, ok := Lookup(all, "pinterest pin")
	test.That(t, ok)
	test.T(t, p, Preset{Name: "Pinterest Pin", Width: 1000, Height: 1500, Icon: "📌"})
}

func TestLoadFromDataDirMissingColumn(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, CSVName), []byte("name,width\nx,10\n"), 0o644)
	test.Error(t, err)

	_, err = LoadFromDataDir(dir)
	test.That(t, err != nil, "expected missing column error")
}

func TestFilter(t *testing.T) {
	out := Filter(Builtin, FilterOptions{Orientation: "landscape"})
	test.T(t, len(out), 4)

	out = Filter(Builtin, FilterOptions{FreeWords: "instagram"})
	test.T(t, len(out), 2)

	out = Filter(Builtin, FilterOptions{Orientation: "portrait", FreeWords: "Instagram"})
	test.T(t, len(out), 1)
	test.String(t, out[0].Name, "Instagram Story")

	out = Filter(Builtin, FilterOptions{FreeWords: "tiktok"})
	test.T(t, len(out), 0)
}
