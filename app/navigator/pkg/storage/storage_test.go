package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

func sampleBundle(city string, days int) *model.TravelInfoBundle {
	return &model.TravelInfoBundle{
		City:      city,
		Days:      days,
		BaseRoute: "第一天宽窄巷子，第二天大熊猫基地",
		Attractions: []model.EnrichedEntity{
			{Name: "宽窄巷子", Describe: "老成都街巷", ImageURL: "https://img.example/1.jpg"},
			{Name: "大熊猫繁育研究基地", Describe: "看熊猫"},
		},
		Foods:     []model.EnrichedEntity{{Name: "火锅", Describe: "麻辣鲜香"}},
		FoodShops: []model.EnrichedEntity{},
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		days    int
		wantErr bool
	}{
		{"正常", "成都", 3, false},
		{"带空格不归一化", "北京 ", 2, false},
		{"空城市", "", 3, true},
		{"天数为 0", "成都", 0, true},
		{"斜杠", "a/b", 3, true},
		{"反斜杠", `a\b`, 3, true},
		{"上级目录", "..", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.city, tt.days)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBundleFileName(t *testing.T) {
	assert.Equal(t, "成都3天旅游信息.json", BundleFileName("成都", 3))
}

func TestFileStore_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage")
	s := NewFileStore(dir)
	ctx := context.Background()

	want := sampleBundle("成都", 3)
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "成都", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// 文件为 UTF-8 缩进格式，键名与约定一致
	raw, err := os.ReadFile(filepath.Join(dir, "成都3天旅游信息.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"base路线\"")
	assert.Contains(t, string(raw), "宽窄巷子")

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"city", "days", "base路线", "景点", "美食", "美食店铺"} {
		assert.Contains(t, generic, key)
	}

	// 临时文件不应残留
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_Overwrite(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleBundle("成都", 3)))
	second := sampleBundle("成都", 3)
	second.BaseRoute = "新路线"
	second.Attractions = []model.EnrichedEntity{{Name: "都江堰"}}
	require.NoError(t, s.Put(ctx, second))

	got, err := s.Get(ctx, "成都", 3)
	require.NoError(t, err)
	assert.Equal(t, "新路线", got.BaseRoute)
	require.Len(t, got.Attractions, 1)
	assert.Equal(t, "都江堰", got.Attractions[0].Name)
}

func TestFileStore_NotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, err := s.Get(context.Background(), "成都", 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_BadFormat(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, os.WriteFile(s.Path("成都", 3), []byte("{not json"), 0o644))

	_, err := s.Get(context.Background(), "成都", 3)
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	s := NewFileStore(t.TempDir())
	err := s.Put(context.Background(), sampleBundle("../etc", 3))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = s.Get(context.Background(), "../etc", 3)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNew(t *testing.T) {
	s, cleanup, err := New(config.StorageConfig{Driver: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &FileStore{}, s)

	_, _, err = New(config.StorageConfig{Driver: "redis"})
	assert.Error(t, err)
}

func TestRemoveNullBytes(t *testing.T) {
	assert.Equal(t, `{"a":"xy"}`, removeNullBytes(`{"a":"x\u0000y"}`))
}

// 需要设置 NAVIGATOR_TEST_PG_DSN 才会运行
func TestPostgresStore_PutGet(t *testing.T) {
	dsn := os.Getenv("NAVIGATOR_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("NAVIGATOR_TEST_PG_DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStoreFromDB(db)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	want := sampleBundle("测试城市", 2)
	require.NoError(t, s.Put(ctx, want))
	want.BaseRoute = "覆盖"
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "测试城市", 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.Get(ctx, "测试城市", 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.ExecContext(ctx, `DELETE FROM travel_bundles WHERE city = $1`, "测试城市")
	require.NoError(t, err)
}
