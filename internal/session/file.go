// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/internal/xdg"
)

// FilePersister keeps the identity as the whole content of one file.
type FilePersister struct {
	path string
}

// NewFilePersister returns a persister writing to path. An empty path
// selects the XDG state location.
func NewFilePersister(path string) (*FilePersister, error) {
	if path == "" {
		var err error
		path, err = xdg.SessionFile()
		if err != nil {
			return nil, err
		}
	}
	return &FilePersister{path: path}, nil
}

// Path returns the file location.
func (p *FilePersister) Path() string {
	return p.path
}

// Load implements Persister.
func (p *FilePersister) Load(_ context.Context) (string, bool, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.With("path", p.path).Wrap(err)
	}
	identity := strings.TrimSpace(string(data))
	return identity, identity != "", nil
}

// Save implements Persister. The file is replaced atomically.
func (p *FilePersister) Save(_ context.Context, identity string) error {
	dir := filepath.Dir(p.path)
	if err := xdg.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".username-*")
	if err != nil {
		return oops.With("dir", dir).Wrap(err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // gone after a successful rename

	if _, err := tmp.WriteString(identity); err != nil {
		_ = tmp.Close()
		return oops.With("path", tmpName).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.With("path", tmpName).Wrap(err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return oops.With("path", p.path).Wrap(err)
	}
	return nil
}

// Delete implements Persister.
func (p *FilePersister) Delete(_ context.Context) error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oops.With("path", p.path).Wrap(err)
	}
	return nil
}
