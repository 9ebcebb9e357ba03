package telemetry

import (
	"errors"
	"time"

	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// RegisterDBTracing installs the otelgorm plugin and a slow query marker on db.
// It does nothing when tracing or DB tracing is off.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, dbName string, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(dbName)}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	marker := &slowQueryMarker{threshold: cfg.DBSlowQueryThresh, logger: logger}
	if err := marker.register(db); err != nil {
		return err
	}
	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh))
	return nil
}

type slowQueryMarker struct {
	threshold time.Duration
	logger    *zap.Logger
}

func (m *slowQueryMarker) register(db *gorm.DB) error {
	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("telemetry:before_create", m.before) },
		func() error { return cb.Create().After("gorm:create").Register("telemetry:after_create", m.after) },
		func() error { return cb.Query().Before("gorm:query").Register("telemetry:before_query", m.before) },
		func() error { return cb.Query().After("gorm:query").Register("telemetry:after_query", m.after) },
		func() error { return cb.Update().Before("gorm:update").Register("telemetry:before_update", m.before) },
		func() error { return cb.Update().After("gorm:update").Register("telemetry:after_update", m.after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", m.before) },
		func() error { return cb.Delete().After("gorm:delete").Register("telemetry:after_delete", m.after) },
		func() error { return cb.Row().Before("gorm:row").Register("telemetry:before_row", m.before) },
		func() error { return cb.Row().After("gorm:row").Register("telemetry:after_row", m.after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", m.before) },
		func() error { return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", m.after) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (m *slowQueryMarker) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (m *slowQueryMarker) after(db *gorm.DB) {
	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	span := trace.SpanFromContext(db.Statement.Context)
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
	if m.threshold <= 0 || elapsed < m.threshold {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
	)
	m.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", m.threshold))
}
