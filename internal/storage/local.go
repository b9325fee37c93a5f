package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images to a directory the router serves under URLPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

const DefaultURLPrefix = "/images"

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: DefaultURLPrefix}, nil
}

func (s *LocalStore) Driver() string { return "local" }

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(ctx context.Context, r io.Reader) (string, error) {
	img, err := sniff(r)
	if err != nil {
		return "", err
	}

	name := newObjectName(img.ext)

	// write to a temp file first so a failed upload never leaves a partial image behind
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, img.body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}

func (s *LocalStore) Delete(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
