package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/stwalsh4118/seattle-energy/internal/database"
	"github.com/stwalsh4118/seattle-energy/internal/models"
)

// undefinedTable is the SQLSTATE PostgreSQL reports for a missing relation.
const undefinedTable = "42P01"

// postgresCatalogRepository reads the catalog from a table holding the
// benchmarking export, one column per dataset column.
type postgresCatalogRepository struct {
	db    *database.Database
	table string
}

// NewPostgresCatalogRepository creates a CatalogRepository over table.
// table may be schema-qualified ("public.building_benchmarks").
func NewPostgresCatalogRepository(db *database.Database, table string) CatalogRepository {
	return &postgresCatalogRepository{db: db, table: table}
}

func (r *postgresCatalogRepository) Source() string {
	return "postgres:" + r.table
}

// Load selects every row in table order of insertion. Column names come
// from the result's field descriptions so the dataset keeps the table's
// column order.
func (r *postgresCatalogRepository) Load(ctx context.Context) (*models.Dataset, error) {
	query := "SELECT * FROM " + tableIdentifier(r.table).Sanitize()

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, r.wrapQueryError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	records := [][]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to decode catalog row %d: %w", len(records)+1, err)
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = normalizeValue(v)
		}
		records = append(records, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrapQueryError(err)
	}

	return models.NewDataset(columns, records), nil
}

func (r *postgresCatalogRepository) wrapQueryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%w: table %s", ErrCatalogNotFound, r.table)
	}
	return fmt.Errorf("failed to query catalog table %s: %w", r.table, err)
}

func tableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// normalizeValue maps pgx's decoded types onto the cell types a Row holds.
func normalizeValue(v interface{}) interface{} {
	switch n := v.(type) {
	case nil:
		return nil
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float32:
		return float64(n)
	case []byte:
		return string(n)
	case pgtype.Numeric:
		if !n.Valid || n.NaN {
			return nil
		}
		if n.Exp >= 0 && n.Int != nil && n.Int.IsInt64() {
			i, err := n.Int64Value()
			if err == nil && i.Valid {
				return i.Int64
			}
		}
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return v
}
