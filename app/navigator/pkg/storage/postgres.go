package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/config"
	"github.com/iWorld-y/travel_navigator/app/navigator/pkg/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS travel_bundles (
	city TEXT NOT NULL,
	days INTEGER NOT NULL,
	payload JSONB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (city, days)
)`

// PostgresStore 把旅游信息以 JSONB 存在 travel_bundles 表中
type PostgresStore struct {
	db *sql.DB
}

var _ BundleStore = (*PostgresStore)(nil)

// NewPostgresStore 连接数据库并初始化表结构
func NewPostgresStore(cfg config.DBConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewPostgresStoreFromDB(db)
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromDB 使用已有连接
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate 创建 travel_bundles 表
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to init travel_bundles table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Get 读取旅游信息
func (s *PostgresStore) Get(ctx context.Context, city string, days int) (*model.TravelInfoBundle, error) {
	if err := ValidateKey(city, days); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM travel_bundles WHERE city = $1 AND days = $2`, city, days,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s%d", ErrNotFound, city, days)
		}
		return nil, err
	}

	var bundle model.TravelInfoBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return &bundle, nil
}

// Put 整体覆盖写入（upsert），单条语句即原子
func (s *PostgresStore) Put(ctx context.Context, bundle *model.TravelInfoBundle) error {
	if err := ValidateKey(bundle.City, bundle.Days); err != nil {
		return err
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	// JSONB 不接受 \u0000
	payload := removeNullBytes(string(data))

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO travel_bundles (city, days, payload, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (city, days)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		bundle.City, bundle.Days, payload)
	if err != nil {
		return fmt.Errorf("upsert bundle: %w", err)
	}
	return nil
}

func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, `\u0000`, "")
}
