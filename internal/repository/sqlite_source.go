package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLiteSource reads question rows from an SQLite table with the same
// columns as PostgresSource.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource creates a new SQLiteSource.
func NewSQLiteSource(db *sql.DB, table string) *SQLiteSource {
	return &SQLiteSource{db: db, table: table}
}

// Rows selects every row of the table as text.
func (s *SQLiteSource) Rows(ctx context.Context) ([][]string, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(correct_answer, ''), COALESCE(distractor_1, ''),
		       COALESCE(distractor_2, ''), COALESCE(distractor_3, ''),
		       COALESCE(CAST(category_id AS TEXT), '')
		FROM %s
		ORDER BY id
	`, quoteIdent(s.table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query questions: %w", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		fields := make([]string, minRowFields)
		if err := rows.Scan(&fields[0], &fields[1], &fields[2], &fields[3], &fields[4]); err != nil {
			return nil, fmt.Errorf("%w: scan questions: %w", ErrSourceUnavailable, err)
		}
		result = append(result, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate questions: %w", ErrSourceUnavailable, err)
	}

	return result, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
