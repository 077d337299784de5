package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/kailas-cloud/recommender/internal/domain"
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
)

// DefaultSQLiteTable is used when no table name is configured.
const DefaultSQLiteTable = "products"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQLite opens a database handle using the modernc driver.
func OpenSQLite(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return conn, nil
}

// SQLiteSource reads a catalog from a table with columns
// id, name, price, category, image, description. Rows are read in id order.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource creates a SQLite-backed source. The table name must be a plain identifier.
func NewSQLiteSource(conn *sql.DB, table string) (*SQLiteSource, error) {
	if table == "" {
		table = DefaultSQLiteTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", domain.ErrCatalogSource, table)
	}
	return &SQLiteSource{db: conn, table: table}, nil
}

// Load queries every row and validates it.
func (s *SQLiteSource) Load(ctx context.Context) ([]domcat.Item, error) {
	q := fmt.Sprintf(
		`SELECT id, name, price, COALESCE(category, ''), COALESCE(image, ''), COALESCE(description, '')
		 FROM %s ORDER BY id`, s.table)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", domain.ErrCatalogSource, s.table, err)
	}
	defer func() { _ = rows.Close() }()

	var dtos []itemDTO
	for rows.Next() {
		var d itemDTO
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.Category, &d.Image, &d.Description); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", domain.ErrCatalogSource, s.table, err)
		}
		dtos = append(dtos, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %w", domain.ErrCatalogSource, s.table, err)
	}

	return toDomain(dtos)
}

// Ping checks the database handle.
func (s *SQLiteSource) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping sqlite: %w", domain.ErrCatalogSource, err)
	}
	return nil
}
