// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// LocalConn is a simple implementation of Storer that keeps each
// bucket as a directory under Root, rather than relying on any
// "cloud" services. This is particularly useful for testing.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	Root   string
	Logger *log.Logger
}

// Init creates Root if needed
func (a *LocalConn) Init() error {
	if a.Root == "" {
		a.Root = filepath.Join(os.TempDir(), "seamcarve", "storage")
	}
	err := os.MkdirAll(a.Root, 0700)
	if err != nil {
		return fmt.Errorf("Error creating storage directory: %w", err)
	}
	if a.Logger == nil {
		a.Logger = log.New(os.Stderr)
	}
	return nil
}

func copyFile(dst, src string) error {
	fin, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, fin)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
	}
	return err
}

// Download just copies the file from Root/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	return copyFile(path, filepath.Join(a.Root, bucket, key))
}

// Upload just copies the file from path to Root/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	dst := filepath.Join(a.Root, bucket, key)
	err := os.MkdirAll(filepath.Dir(dst), 0700)
	if err != nil {
		return fmt.Errorf("Error creating bucket directory: %w", err)
	}
	return copyFile(dst, path)
}

// Log records an item with the Logger. Arguments are handled as
// with fmt.Sprintln.
func (a *LocalConn) Log(v ...interface{}) {
	logWith(a.Logger, v...)
}

func logWith(l *log.Logger, v ...interface{}) {
	if l == nil {
		l = log.Default()
	}
	l.Info(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}
