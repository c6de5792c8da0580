package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/stwalsh4118/seattle-energy/internal/models"
)

// ErrCatalogNotFound is returned when the configured catalog source does not exist.
var ErrCatalogNotFound = errors.New("catalog source not found")

// CatalogRepository loads the benchmarking catalog. Load is called once at
// startup; the returned dataset is shared read-only afterwards.
type CatalogRepository interface {
	// Load reads every row of the source.
	// Returns ErrCatalogNotFound when the file or table is missing.
	Load(ctx context.Context) (*models.Dataset, error)

	// Source describes where rows come from, for logs and /api/v1/info.
	Source() string
}

// csvCatalogRepository reads the catalog from a CSV export of the
// benchmarking data with a header row.
type csvCatalogRepository struct {
	path string
}

// NewCSVCatalogRepository creates a CatalogRepository over a CSV file.
func NewCSVCatalogRepository(path string) CatalogRepository {
	return &csvCatalogRepository{path: path}
}

func (r *csvCatalogRepository) Source() string {
	return "csv:" + r.path
}

// Load parses the file at r.path. Each column gets one type for all of its
// rows: int64 when every non-empty cell is an integer, then float64, then
// bool, otherwise string. Empty cells become nil.
func (r *csvCatalogRepository) Load(ctx context.Context) (*models.Dataset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to open catalog %s: %w", r.path, err)
	}
	defer f.Close()

	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, src io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(src)
	// Short rows are padded with nil, long rows are cut to the header.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog has no header row")
		}
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	columns[0] = strings.TrimPrefix(columns[0], "\ufeff")

	raw := [][]string{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row %d: %w", len(raw)+1, err)
		}
		if len(rec) > len(columns) {
			rec = rec[:len(columns)]
		}
		raw = append(raw, rec)
	}

	kinds := make([]cellKind, len(columns))
	for i := range columns {
		kinds[i] = inferColumn(raw, i)
	}

	records := make([][]interface{}, len(raw))
	for r, rec := range raw {
		cells := make([]interface{}, len(rec))
		for i, cell := range rec {
			cells[i] = convertCell(kinds[i], cell)
		}
		records[r] = cells
	}

	return models.NewDataset(columns, records), nil
}

type cellKind int

const (
	kindInt cellKind = iota
	kindFloat
	kindBool
	kindString
)

// inferColumn picks the narrowest kind that every non-empty cell of column
// i parses as.
func inferColumn(rows [][]string, i int) cellKind {
	isInt, isFloat, isBool := true, true, true
	for _, rec := range rows {
		if i >= len(rec) {
			continue
		}
		s := strings.TrimSpace(rec[i])
		if s == "" {
			continue
		}
		if isInt && !parsesInt(s) {
			isInt = false
		}
		if isFloat && !parsesFloat(s) {
			isFloat = false
		}
		if isBool && !parsesBool(s) {
			isBool = false
		}
		if !isInt && !isFloat && !isBool {
			return kindString
		}
	}

	switch {
	case isInt:
		return kindInt
	case isFloat:
		return kindFloat
	case isBool:
		return kindBool
	}
	return kindString
}

func convertCell(kind cellKind, raw string) interface{} {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	switch kind {
	case kindInt:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	case kindBool:
		b, _ := parseBool(s)
		return b
	}
	return raw
}

func parsesInt(s string) bool {
	if hasLeadingZero(s) {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// parsesFloat accepts decimal numbers only. The words Inf, Infinity and NaN
// are text here.
func parsesFloat(s string) bool {
	if hasLeadingZero(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func parsesBool(s string) bool {
	_, ok := parseBool(s)
	return ok
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// hasLeadingZero reports codes such as "09801" whose zero padding would be
// lost as a number.
func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}
