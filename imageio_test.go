// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescribe.xyz/seamcarve/grid"
)

func TestSaveLoad(t *testing.T) {
	src := textured(t, 12, 17)
	dir := t.TempDir()

	for _, ext := range []string{".png", ".PNG", ".bmp", ".tif", ".tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "img"+ext)
			require.NoError(t, Save(path, src))
			got, err := Load(path)
			require.NoError(t, err)
			assert.True(t, src.Equal(got), "%s did not survive a round trip", ext)
		})
	}

	// lossy formats only keep their size
	for _, ext := range []string{".jpg", ".jpeg", ".gif"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "img"+ext)
			require.NoError(t, Save(path, src))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, src.Rows(), got.Rows())
			assert.Equal(t, src.Cols(), got.Cols())
		})
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.xyz")
	err := Save(path, textured(t, 10, 10))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "a file was written despite the error")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "notpresent.png"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("I am just a basic string"), 0600))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), bad)
}

func TestSaveSaturates(t *testing.T) {
	g, err := grid.FromRows([][]float64{{-10, 12.4, 300}})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "sat.png")
	require.NoError(t, Save(path, g))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 12, 255}, got.Row(0))
}

func TestCarvedName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"pg1.jpg", "pg1_carved.png"},
		{"dir/pg1.png", "dir/pg1_carved.png"},
		{"noext", "noext_carved.png"},
		{"a.b/c.tiff", "a.b/c_carved.png"},
	}
	for _, c := range cases {
		assert.Equal(t, c.out, CarvedName(c.in))
	}
}
