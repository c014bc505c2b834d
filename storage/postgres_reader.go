package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockview/models"
	"stockview/utils"

	_ "github.com/lib/pq"
)

// Queries against the read-only mirror table:
//
//	vehicles (stock_number TEXT, sr_key BIGINT, payload JSONB)
//
// payload holds the record exactly as the listing service returns it.
const (
	queryAllVehicles = `SELECT payload FROM vehicles ORDER BY sr_key DESC NULLS LAST`
	queryByStock     = `SELECT payload FROM vehicles WHERE stock_number = $1 LIMIT 1`
	queryBySRKey     = `SELECT payload FROM vehicles WHERE sr_key = $1 LIMIT 1`
	queryByVIN       = `SELECT payload FROM vehicles WHERE payload->>'unprocessed_vin' LIKE $1::text || '%'`

	// Field sets arrive as objects, arrays or encoded strings, so SQL only
	// narrows the candidates and matchesQuery decides.
	querySearch = `
		SELECT payload FROM vehicles
		WHERE payload::text ILIKE '%' || $1::text || '%'
		  AND payload::text ILIKE '%' || $2::text || '%'
		  AND payload::text LIKE '%' || $3::text || '%'`
)

// PostgresReader serves listing lookups from a Postgres mirror of the
// listing service. It never writes.
type PostgresReader struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresReader opens a connection pool and pings the DB
func NewPostgresReader(ctx context.Context, connStr string, logger *utils.Logger) (*PostgresReader, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresReader{db: db, logger: logger}, nil
}

// Vehicles returns every mirrored record, newest key first
func (r *PostgresReader) Vehicles(ctx context.Context) ([]*models.RawRecord, error) {
	return r.query(ctx, queryAllVehicles)
}

// ByStock returns the record with the given stock number, if any
func (r *PostgresReader) ByStock(ctx context.Context, stock string) ([]*models.RawRecord, error) {
	return r.query(ctx, queryByStock, strings.TrimSpace(stock))
}

// BySequentialKey returns the record at the given sequential key, if any
func (r *PostgresReader) BySequentialKey(ctx context.Context, key int64) ([]*models.RawRecord, error) {
	return r.query(ctx, queryBySRKey, key)
}

// SearchByVIN returns records whose unmasked VIN starts with vinPrefix
func (r *PostgresReader) SearchByVIN(ctx context.Context, vinPrefix string) ([]*models.RawRecord, error) {
	return r.query(ctx, queryByVIN, escapeLike(vinPrefix))
}

// Search returns records matching make, model and year
func (r *PostgresReader) Search(ctx context.Context, q SearchQuery) ([]*models.RawRecord, error) {
	if !q.Complete() {
		return nil, nil
	}
	candidates, err := r.query(ctx, querySearch, escapeLike(q.Make), escapeLike(q.Model), escapeLike(q.Year))
	if err != nil {
		return nil, err
	}
	out := make([]*models.RawRecord, 0, len(candidates))
	for _, rec := range candidates {
		if matchesQuery(rec, q) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// matchesQuery reports whether any of the record's field sets carries the
// queried make, model and year. Make and model compare case-insensitively.
func matchesQuery(rec *models.RawRecord, q SearchQuery) bool {
	return fieldMatches(rec, "Make", q.Make, strings.EqualFold) &&
		fieldMatches(rec, "Model", q.Model, strings.EqualFold) &&
		fieldMatches(rec, "Year", q.Year, func(a, b string) bool { return a == b })
}

func fieldMatches(rec *models.RawRecord, key, want string, eq func(a, b string) bool) bool {
	want = strings.TrimSpace(want)
	for _, fs := range []models.FieldSet{rec.NewFields, rec.LegacyFields, rec.Details} {
		if v, ok := fs.Get(key); ok && eq(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}

func (r *PostgresReader) query(ctx context.Context, query string, args ...interface{}) ([]*models.RawRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var out []*models.RawRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		rec, err := decodePayload(payload)
		if err != nil {
			r.logger.Warn("Skipping unreadable mirror row: %v", err)
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicle rows: %w", err)
	}
	return out, nil
}

// decodePayload parses one mirrored JSON document
func decodePayload(payload []byte) (*models.RawRecord, error) {
	var rec models.RawRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// escapeLike neutralizes LIKE wildcards in user input
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.TrimSpace(s))
}

// Close closes the database connection
func (r *PostgresReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
