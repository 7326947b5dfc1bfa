package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

// FileStore 每个 (city, days) 一个 JSON 文件
type FileStore struct {
	dir string
}

var _ BundleStore = (*FileStore)(nil)

// NewFileStore 创建文件存储，目录在首次写入时创建
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path 返回 (city, days) 对应的文件路径
func (s *FileStore) Path(city string, days int) string {
	return filepath.Join(s.dir, BundleFileName(city, days))
}

// Get 读取旅游信息
func (s *FileStore) Get(_ context.Context, city string, days int) (*model.TravelInfoBundle, error) {
	if err := ValidateKey(city, days); err != nil {
		return nil, err
	}

	path := s.Path(city, days)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var bundle model.TravelInfoBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadFormat, path, err)
	}
	return &bundle, nil
}

// Put 整体覆盖写入。先写同目录临时文件再 rename，读者不会看到写了一半的文件
func (s *FileStore) Put(_ context.Context, bundle *model.TravelInfoBundle) error {
	if err := ValidateKey(bundle.City, bundle.Days); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	data, err := json.MarshalIndent(bundle, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".bundle-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // rename 成功后为空操作

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(bundle.City, bundle.Days)); err != nil {
		return fmt.Errorf("rename bundle file: %w", err)
	}
	return nil
}
