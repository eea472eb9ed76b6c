// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const s3Prefix = "s3://"

// Location is where an image is read from or written to: either a
// local path, or a key in a storage bucket, written as
// s3://bucket/key
type Location struct {
	Bucket, Key string
	Path        string
}

// ParseLocation splits s into a Location
func ParseLocation(s string) (Location, error) {
	if !strings.HasPrefix(s, s3Prefix) {
		return Location{Path: s}, nil
	}
	parts := strings.SplitN(strings.TrimPrefix(s, s3Prefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, fmt.Errorf("%w: %q is not of the form s3://bucket/key", ErrInvalidArgument, s)
	}
	return Location{Bucket: parts[0], Key: parts[1]}, nil
}

// Remote reports whether the location is in a storage bucket
func (l Location) Remote() bool {
	return l.Bucket != ""
}

// Ext is the file extension of the location
func (l Location) Ext() string {
	if l.Remote() {
		return filepath.Ext(l.Key)
	}
	return filepath.Ext(l.Path)
}

func (l Location) String() string {
	if l.Remote() {
		return s3Prefix + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Storer is anything that can move files in and out of buckets
type Storer interface {
	Download(bucket string, key string, path string) error
	Upload(bucket string, key string, path string) error
	Log(v ...interface{})
}

// StageName returns a unique local path in dir to hold a copy of l
func StageName(dir string, l Location) string {
	return filepath.Join(dir, uuid.NewString()+l.Ext())
}

// Stage makes sure the image at l is available locally, returning
// its local path. Remote images are downloaded into dir.
func Stage(conn Storer, l Location, dir string) (string, error) {
	if !l.Remote() {
		if _, err := os.Stat(l.Path); err != nil {
			return "", fmt.Errorf("%w: source file %s does not exist: %w", ErrInvalidArgument, l.Path, err)
		}
		return l.Path, nil
	}
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return "", fmt.Errorf("Error creating staging directory %s: %w", dir, err)
	}
	path := StageName(dir, l)
	conn.Log("Downloading", l, "to", path)
	err = conn.Download(l.Bucket, l.Key, path)
	if err != nil {
		return "", fmt.Errorf("%w: could not download %s: %w", ErrInvalidArgument, l, err)
	}
	return path, nil
}

// Publish uploads the local file at path to l if l is remote. It
// does nothing for local locations, as the file is already there.
func Publish(conn Storer, l Location, path string) error {
	if !l.Remote() {
		return nil
	}
	conn.Log("Uploading", path, "to", l)
	err := conn.Upload(l.Bucket, l.Key, path)
	if err != nil {
		return fmt.Errorf("Error uploading %s to %s: %w", path, l, err)
	}
	return nil
}
