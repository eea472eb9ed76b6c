// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"rescribe.xyz/seamcarve/grid"
)

const jpegQuality = 95

// Decode reads an image in any supported format and converts it to
// a grayscale grid
func Decode(r io.Reader) (*grid.Grid, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode image: %w", ErrInvalidArgument, err)
	}
	return grid.FromImage(img)
}

// Load reads the image at path as a grayscale grid
func Load(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open file %s: %w", ErrInvalidArgument, path, err)
	}
	defer f.Close()
	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Encode writes a grid as an 8 bit grayscale image in the format
// named by ext, which is a file extension like ".png"
func Encode(w io.Writer, g *grid.Grid, ext string) error {
	img := g.ToGray()
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: no encoder for %q files", ErrInvalidArgument, ext)
}

// Save writes a grid to path, in the format suggested by its
// extension. The file is only created once encoding has succeeded.
func Save(path string, g *grid.Grid) error {
	var buf bytes.Buffer
	err := Encode(&buf, g, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("Error encoding %s: %w", path, err)
	}
	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("Error writing %s: %w", path, err)
	}
	return nil
}

// CarvedName is the default destination for a carved copy of path:
// the same name with "_carved.png" in place of its extension
func CarvedName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_carved.png"
}
