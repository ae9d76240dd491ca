// Package presets is a table of named canvas sizes for generated images.
package presets

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/dargueta/zeroflate"
	"github.com/gocarina/gocsv"
)

type Preset struct {
	Slug   string `csv:"slug"`
	Name   string `csv:"name"`
	Width  uint32 `csv:"width"`
	Height uint32 `csv:"height"`
	Notes  string `csv:"notes"`
}

// RowSize gives the number of bytes in one scanline of a 1-bit image, including the
// leading filter type byte.
func (p Preset) RowSize() int64 {
	return 1 + (int64(p.Width)+7)/8
}

// PixelDataSize gives the size of the decompressed image data.
func (p Preset) PixelDataSize() int64 {
	return p.RowSize() * int64(p.Height)
}

//go:embed canvas-presets.csv
var canvasPresetsRawCSV string
var canvasPresets map[string]Preset

func Get(slug string) (Preset, error) {
	preset, ok := canvasPresets[slug]
	if ok {
		return preset, nil
	}
	return Preset{}, zeroflate.ErrNotFound.WithMessage(
		fmt.Sprintf("no canvas preset exists with slug %q", slug))
}

// All returns every preset, ordered by pixel data size and then slug.
func All() []Preset {
	presets := make([]Preset, 0, len(canvasPresets))
	for _, preset := range canvasPresets {
		presets = append(presets, preset)
	}
	sort.Slice(presets, func(i, j int) bool {
		si, sj := presets[i].PixelDataSize(), presets[j].PixelDataSize()
		if si != sj {
			return si < sj
		}
		return presets[i].Slug < presets[j].Slug
	})
	return presets
}

func loadPresets(rawCSV string) (map[string]Preset, error) {
	csvReader := csv.NewReader(strings.NewReader(rawCSV))
	csvReader.Comma = '|'

	var rows []Preset
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode canvas presets: %w", err)
	}

	presets := make(map[string]Preset, len(rows))
	for i, row := range rows {
		if row.Width == 0 || row.Height == 0 {
			return nil, fmt.Errorf("preset %q on row %d has an empty dimension", row.Slug, i+1)
		}
		if _, exists := presets[row.Slug]; exists {
			return nil, fmt.Errorf("duplicate definition for preset %q found on row %d", row.Slug, i+1)
		}
		presets[row.Slug] = row
	}
	return presets, nil
}

func init() {
	var err error
	canvasPresets, err = loadPresets(canvasPresetsRawCSV)
	if err != nil {
		panic(err)
	}
}
