package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/iwvelando/inflation-calculator/internal/config"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore reads and writes series in Postgres.
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresStore creates a new PostgresStore with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewPostgresStore(db *sqlx.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// OpenPostgres connects with the pgx driver and pings the database.
func OpenPostgres(ctx context.Context, cfg config.DataConfig, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return NewPostgresStore(db, logger), nil
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the series tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) InflationSeries(ctx context.Context, currency series.Currency) (series.InflationSeries, error) {
	query := `
		SELECT date, rate, accumulated
		FROM inflation_data
		WHERE currency = $1
		ORDER BY date
	`
	s.logQuery("store.PostgresStore.InflationSeries", query, zap.String("currency", string(currency)))

	var points []series.InflationPoint
	if err := sqlx.SelectContext(ctx, s.db, &points, query, string(currency)); err != nil {
		return series.InflationSeries{}, fmt.Errorf("failed to query inflation %s: %w", currency, err)
	}
	if len(points) == 0 {
		return series.InflationSeries{}, fmt.Errorf("%w: inflation:%s", ErrNoData, currency)
	}
	is := series.NewInflationSeries(currency, points)
	if err := is.Validate(); err != nil {
		return series.InflationSeries{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return is, nil
}

func (s *PostgresStore) ExchangeSeries(ctx context.Context) (series.ExchangeSeries, error) {
	query := `
		SELECT date, official_rate, blue_rate
		FROM exchange_rates
		ORDER BY date
	`
	s.logQuery("store.PostgresStore.ExchangeSeries", query)

	var points []series.ExchangeRatePoint
	if err := sqlx.SelectContext(ctx, s.db, &points, query); err != nil {
		return series.ExchangeSeries{}, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	if len(points) == 0 {
		return series.ExchangeSeries{}, fmt.Errorf("%w: exchange", ErrNoData)
	}
	es := series.NewExchangeSeries(points)
	if err := es.Validate(); err != nil {
		return series.ExchangeSeries{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return es, nil
}

// SaveInflationSeries upserts every point of is in one transaction.
func (s *PostgresStore) SaveInflationSeries(ctx context.Context, is series.InflationSeries) error {
	query := `
		INSERT INTO inflation_data (date, currency, rate, accumulated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date, currency)
		DO UPDATE SET rate = EXCLUDED.rate, accumulated = EXCLUDED.accumulated
	`
	s.logQuery("store.PostgresStore.SaveInflationSeries", query,
		zap.String("series", is.Name()), zap.Int("points", is.Len()))

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range is.Points {
			if _, err := tx.ExecContext(ctx, query, p.Date, string(is.Currency), p.Rate, p.Accumulated); err != nil {
				return fmt.Errorf("failed to upsert %s %s: %w", is.Name(), p.Date, err)
			}
		}
		return nil
	})
}

// SaveExchangeSeries upserts every point of es in one transaction.
func (s *PostgresStore) SaveExchangeSeries(ctx context.Context, es series.ExchangeSeries) error {
	query := `
		INSERT INTO exchange_rates (date, official_rate, blue_rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (date)
		DO UPDATE SET official_rate = EXCLUDED.official_rate, blue_rate = EXCLUDED.blue_rate
	`
	s.logQuery("store.PostgresStore.SaveExchangeSeries", query, zap.Int("points", es.Len()))

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range es.Points {
			if _, err := tx.ExecContext(ctx, query, p.Date, p.Official, p.Blue); err != nil {
				return fmt.Errorf("failed to upsert exchange %s: %w", p.Date, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) logQuery(op, query string, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("op", op),
		zap.String("query", strings.Join(strings.Fields(query), " ")),
	}, fields...)
	s.logger.Debug("executing query", fields...)
}
