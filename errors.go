// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import "errors"

var (
	// ErrInvalidArgument is returned for requests which can never
	// succeed: negative or excessive seam counts, missing source
	// files and undecodable images.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateGeometry is returned when an image is, or would
	// become, too small for the energy window to fit inside it.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)
