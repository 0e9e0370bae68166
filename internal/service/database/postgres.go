package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

type PostgresService struct {
	db         *sql.DB
	table      string
	columnSize int
	logger     *zap.Logger
}

type PostgresConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	Table      string
	ColumnSize int
}

func NewPostgresService(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*PostgresService, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("table", cfg.Table),
	)

	return &PostgresService{
		db:         db,
		table:      cfg.Table,
		columnSize: cfg.ColumnSize,
		logger:     logger,
	}, nil
}

func (ps *PostgresService) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

func (ps *PostgresService) Name() string {
	return "postgres"
}

// Write stores the bundle in the configured table inside one transaction.
// The table is created when missing; existing rows are left in place.
func (ps *PostgresService) Write(ctx context.Context, bundle domain.ExportBundle) error {
	inserted, err := SaveBundle(ctx, ps.db, ps.table, ps.columnSize, bundle)
	if err != nil {
		return errors.NewSinkError("failed to save records", ps.Name(), "insert", err)
	}

	ps.logger.Info("Records saved to PostgreSQL",
		zap.String("table", ps.table),
		zap.Int("rows", inserted))
	return nil
}

// SaveBundle creates table if needed and inserts every record with bound
// parameters. It returns the number of rows inserted.
func SaveBundle(ctx context.Context, db *sql.DB, table string, columnSize int, bundle domain.ExportBundle) (int, error) {
	if len(bundle.Columns) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, CreateTableStatement(table, columnSize, bundle.Columns)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, InsertStatement(table, bundle.Columns))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, record := range bundle.Records {
		if _, err := stmt.ExecContext(ctx, InsertArgs(record, bundle.Columns)...); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(bundle.Records), nil
}

func CreateTableStatement(table string, columnSize int, columns []string) string {
	definitions := make([]string, 0, len(columns))
	for _, column := range columns {
		definitions = append(definitions, fmt.Sprintf("%s VARCHAR(%d)", pq.QuoteIdentifier(column), columnSize))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		pq.QuoteIdentifier(table), strings.Join(definitions, ",\n  "))
}

func InsertStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = pq.QuoteIdentifier(column)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// InsertArgs returns the record's values in column order; null and missing
// values bind as SQL NULL.
func InsertArgs(record domain.Record, columns []string) []any {
	args := make([]any, len(columns))
	for i, column := range columns {
		value, ok := record.Value(column)
		args[i] = sql.NullString{String: value, Valid: ok}
	}
	return args
}
