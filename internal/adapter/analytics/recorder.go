// Package analytics records one row per export for usage reporting.
package analytics

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"
)

type ExportRecord struct {
	UserID     string
	TemplateID string
	Encoding   string
	Bytes      int
	Duration   time.Duration
	CacheHit   bool
	At         time.Time
}

type Recorder interface {
	RecordExport(ctx context.Context, r ExportRecord) error
	Close() error
}

const createExportsTable = `
	CREATE TABLE IF NOT EXISTS resume_exports (
		at          DateTime64(3),
		user_id     String,
		template_id LowCardinality(String),
		encoding    LowCardinality(String),
		bytes       UInt32,
		duration_ms UInt32,
		cache_hit   UInt8
	) ENGINE = MergeTree
	ORDER BY (template_id, at)`

type clickhouseRecorder struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

// NewClickHouseRecorder opens a native connection and makes sure the
// exports table exists.
func NewClickHouseRecorder(ctx context.Context, addr, database, username, password string, logger *zap.Logger) (Recorder, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Protocol: clickhouse.Native,
		Addr:     []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}
	if err := conn.Exec(ctx, createExportsTable); err != nil {
		return nil, err
	}
	return &clickhouseRecorder{conn: conn, logger: logger}, nil
}

func (r *clickhouseRecorder) RecordExport(ctx context.Context, rec ExportRecord) error {
	var hit uint8
	if rec.CacheHit {
		hit = 1
	}
	err := r.conn.Exec(ctx, `INSERT INTO resume_exports (at, user_id, template_id, encoding, bytes, duration_ms, cache_hit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.At, rec.UserID, rec.TemplateID, rec.Encoding,
		uint32(rec.Bytes), uint32(rec.Duration.Milliseconds()), hit)
	if err != nil {
		r.logger.Warn("failed to record export", zap.String("template", rec.TemplateID), zap.Error(err))
		return err
	}
	return nil
}

func (r *clickhouseRecorder) Close() error {
	return r.conn.Close()
}

// Noop discards records when ClickHouse is not configured.
type Noop struct{}

func (Noop) RecordExport(context.Context, ExportRecord) error { return nil }
func (Noop) Close() error                                     { return nil }
