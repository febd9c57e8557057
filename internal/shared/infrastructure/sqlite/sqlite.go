package sqlite

import (
	"Sanguo/internal/shared/serverconfig"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open 打开本地 sqlite，目录不存在时自动创建；":memory:" 打开内存库
func Open(cfg serverconfig.SQLiteConfig, l *zap.Logger) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite 单写，多连接只会互相等锁
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		l.Warn("sqlite enable wal failed", zap.Error(err))
	}

	l.Info("open sqlite success", zap.String("path", cfg.Path))
	return db, nil
}

// Migrate 按顺序执行建表语句
func Migrate(db *sql.DB, schemas ...string) error {
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
