package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

var (
	// ErrNotFound 指定城市+天数的旅游信息不存在
	ErrNotFound = errors.New("storage: bundle not found")
	// ErrBadFormat 存储的内容不是合法 JSON
	ErrBadFormat = errors.New("storage: bundle is malformed")
	// ErrInvalidKey 城市名包含路径分隔符等非法字符
	ErrInvalidKey = errors.New("storage: invalid city name")
)

// BundleStore 以 (city, days) 为键的旅游信息存储
type BundleStore interface {
	Get(ctx context.Context, city string, days int) (*model.TravelInfoBundle, error)
	Put(ctx context.Context, bundle *model.TravelInfoBundle) error
}

// ValidateKey 城市名不做任何归一化，只拒绝会逃出存储目录的值
func ValidateKey(city string, days int) error {
	if city == "" || days < 1 {
		return fmt.Errorf("%w: city=%q days=%d", ErrInvalidKey, city, days)
	}
	if strings.ContainsAny(city, `/\`) || strings.Contains(city, "..") || strings.ContainsRune(city, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, city)
	}
	return nil
}

// BundleFileName 旅游信息文件名，例如 成都3天旅游信息.json
func BundleFileName(city string, days int) string {
	return fmt.Sprintf("%s%d天旅游信息.json", city, days)
}

// New 根据 storage.driver 创建存储实例，返回的 cleanup 用于释放资源
func New(cfg config.StorageConfig) (BundleStore, func(), error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Dir), func() {}, nil
	case "postgres":
		s, err := NewPostgresStore(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
