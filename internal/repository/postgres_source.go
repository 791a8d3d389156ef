package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads question rows from a PostgreSQL table with the columns
// correct_answer, distractor_1, distractor_2, distractor_3 and category_id.
type PostgresSource struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresSource creates a new PostgresSource with the provided database pool.
func NewPostgresSource(db *pgxpool.Pool, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

// Rows selects every row of the table as text.
func (s *PostgresSource) Rows(ctx context.Context) ([][]string, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(correct_answer, ''), COALESCE(distractor_1, ''),
		       COALESCE(distractor_2, ''), COALESCE(distractor_3, ''),
		       COALESCE(category_id::text, '')
		FROM %s
		ORDER BY id
	`, pgx.Identifier{s.table}.Sanitize())

	rows, err := s.db.Query(ctx, query)
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
