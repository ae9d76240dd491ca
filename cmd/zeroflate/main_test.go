package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) error {
	return newApp().Run(append([]string{"zeroflate"}, args...))
}

func TestGenerate__ThenInspect(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.png")
	err := runApp(t, "generate", "--width", "640", "--height", "480", "--color1", "#ffffff", "-o", outputPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	report, err := png.Inspect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.EqualValues(t, 640, report.Width)
	assert.EqualValues(t, 480, report.Height)
	assert.Equal(t, uint8(0xff), report.Palette[1].G)

	assert.NoError(t, runApp(t, "inspect", outputPath))
}

func TestGenerate__Preset(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, runApp(t, "generate", "--preset", "icon", "-o", outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	report, err := png.Inspect(file)
	require.NoError(t, err)
	assert.EqualValues(t, 64, report.Width)
}

func TestGenerate__MissingSize(t *testing.T) {
	err := runApp(t, "generate", "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, zeroflate.ErrInvalidArgument)
}

func TestGenerate__UnknownPreset(t *testing.T) {
	err := runApp(t, "generate", "--preset", "nope", "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, zeroflate.ErrNotFound)
}

func TestPresets(t *testing.T) {
	assert.NoError(t, runApp(t, "presets"))
}

func TestCompressDecompress(t *testing.T) {
	dir := t.TempDir()
	original := append(make([]byte, 50000), []byte("hello")...)
	original = append(original, make([]byte, 3000)...)

	inputPath := filepath.Join(dir, "input.bin")
	compressedPath := filepath.Join(dir, "input.bin.z")
	expandedPath := filepath.Join(dir, "expanded.bin")
	require.NoError(t, os.WriteFile(inputPath, original, 0o644))

	require.NoError(t, runApp(t, "compress", inputPath, compressedPath))
	require.NoError(t, runApp(t, "decompress", compressedPath, expandedPath))

	expanded, err := os.ReadFile(expandedPath)
	require.NoError(t, err)
	assert.Equal(t, original, expanded)
}
