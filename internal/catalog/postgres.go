package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

// PostgresSource loads the catalog from a Postgres table with the lowercased
// CSV column layout: adp, position, player, team, optional rookie.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource connects using a lib/pq connection string. The table
// defaults to "adp_table".
func NewPostgresSource(connString, table string) (*PostgresSource, error) {
	if table == "" {
		table = "adp_table"
	}
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres catalog: %w", err)
	}
	return &PostgresSource{db: db, table: table}, nil
}

// Load validates the table schema via information_schema, then reads all rows.
func (s *PostgresSource) Load(ctx context.Context) ([]models.Player, error) {
	columns, err := s.tableColumns(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkColumns(columns, sqlRequiredColumns); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT adp, position, player, team FROM %s`, s.table)
	hasRookie := columns["rookie"]
	if hasRookie {
		query = fmt.Sprintf(`SELECT adp, position, player, team, rookie FROM %s`, s.table)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query postgres catalog: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var (
			adp                  float64
			position, name, team string
			rookie               sql.NullInt64
		)
		if hasRookie {
			err = rows.Scan(&adp, &position, &name, &team, &rookie)
		} else {
			err = rows.Scan(&adp, &position, &name, &team)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan postgres catalog row: %w", err)
		}

		player, err := newPlayer(name, position, team, adp, rookie.Valid && rookie.Int64 == 1)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

func (s *PostgresSource) tableColumns(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_name = $1
	`, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect postgres catalog schema: %w", err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

// Close closes the underlying database handle.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
