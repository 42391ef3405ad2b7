package ioblob

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type fsStore struct {
	root string
}

// NewFS returns a file system store rooted at root, creating it if needed.
func NewFS(root string) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, DriverError(string(DriverFS), err)
	}
	return &fsStore{root: root}, nil
}

func (s *fsStore) Driver() Driver { return DriverFS }

func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") ||
		strings.Contains(key, "..") {
		return "", InvalidKeyError(key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (s *fsStore) path(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

// Put writes to a temporary file in the target directory and links it
// into place, so readers never see partial content and concurrent
// writers of the same key do not overwrite each other.
func (s *fsStore) Put(_ context.Context, key string, data []byte) (Info, error) {
	path, err := s.path(key)
	if err != nil {
		return Info{}, err
	}
	if _, err = os.Stat(path); err == nil {
		return Info{}, ErrExists
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return Info{}, WriteError(key, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return Info{}, WriteError(key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Info{}, WriteError(key, err)
	}
	if err = tmp.Close(); err != nil {
		return Info{}, WriteError(key, err)
	}
	if err = os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Info{}, ErrExists
		}
		return Info{}, WriteError(key, err)
	}
	return s.info(key, path)
}

func (s *fsStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	res, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, ReadError(key, err)
	}
	return res, nil
}

func (s *fsStore) Head(_ context.Context, key string) (Info, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return Info{}, false, err
	}
	info, err := s.info(key, path)
	if errors.Is(err, ErrNotFound) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, err
	}
	return info, true, nil
}

func (s *fsStore) Delete(_ context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, WriteError(key, err)
	}
	return true, nil
}

func (s *fsStore) List(_ context.Context, prefix string) ([]Info, error) {
	var res []Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		res = append(res, Info{Key: key, Size: fi.Size(), LastModified: fi.ModTime()})
		return nil
	})
	if err != nil {
		return nil, ReadError(prefix, err)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}

func (s *fsStore) info(key, path string) (Info, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, ReadError(key, err)
	}
	return Info{Key: key, Size: fi.Size(), LastModified: fi.ModTime()}, nil
}
