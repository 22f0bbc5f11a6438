package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

// sqlRequiredColumns is the lowercased CSV layout the relational sources
// share: adp, position, player, team plus an optional rookie column.
var sqlRequiredColumns = []string{"adp", "position", "player", "team"}

// SQLiteSource loads the catalog from a local SQLite database. The table uses
// the same column names as the CSV layout, lowercased: adp, position, player,
// team and an optional rookie column.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource opens the database file. The table defaults to "adp_table".
func NewSQLiteSource(dbPath, table string) (*SQLiteSource, error) {
	if table == "" {
		table = "adp_table"
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite catalog: %w", err)
	}
	return &SQLiteSource{db: db, table: table}, nil
}

// Load validates the table schema via pragma_table_info, then reads every row.
func (s *SQLiteSource) Load(ctx context.Context) ([]models.Player, error) {
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
		return nil, fmt.Errorf("failed to query sqlite catalog: %w", err)
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
			return nil, fmt.Errorf("failed to scan sqlite catalog row: %w", err)
		}

		player, err := newPlayer(name, position, team, adp, rookie.Valid && rookie.Int64 == 1)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

func (s *SQLiteSource) tableColumns(ctx context.Context) (map[string]bool, error) {
	// SQLite exposes table schemas through pragma_table_info.
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect sqlite catalog schema: %w", err)
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
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
