package catalog

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

// clickhouseRequiredColumns covers every column the aggregate query touches,
// including the drafted_at window filter, so a bad table fails the schema
// check instead of the query.
var clickhouseRequiredColumns = []string{"player", "position", "team", "overall_pick", "drafted_at"}

// ClickHouseSource derives the catalog from aggregated draft-pick events.
// ADP is by definition an average over many recorded drafts, which is exactly
// the shape of query ClickHouse is built for.
type ClickHouseSource struct {
	conn  driver.Conn
	table string
}

// NewClickHouseSource connects to ClickHouse. The events table defaults to
// "draft_picks".
func NewClickHouseSource(addr, database, username, password, table string) (*ClickHouseSource, error) {
	if table == "" {
		table = "draft_picks"
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseSource{conn: conn, table: table}, nil
}

// Load validates the events table schema, then aggregates the last 30 days of
// recorded picks into one ADP row per player.
func (s *ClickHouseSource) Load(ctx context.Context) ([]models.Player, error) {
	columns, err := s.tableColumns(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkColumns(columns, clickhouseRequiredColumns); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			player,
			anyLast(position) AS position,
			anyLast(team) AS team,
			avg(overall_pick) AS adp,
			max(rookie) AS rookie
		FROM %s
		WHERE drafted_at >= now() - INTERVAL 30 DAY
		GROUP BY player
		ORDER BY adp ASC
	`, s.table)
	if !columns["rookie"] {
		query = fmt.Sprintf(`
			SELECT
				player,
				anyLast(position) AS position,
				anyLast(team) AS team,
				avg(overall_pick) AS adp,
				toUInt8(0) AS rookie
			FROM %s
			WHERE drafted_at >= now() - INTERVAL 30 DAY
			GROUP BY player
			ORDER BY adp ASC
		`, s.table)
	}

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ClickHouse catalog: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var (
			name, position, team string
			adp                  float64
			rookie               uint8
		)
		if err := rows.Scan(&name, &position, &team, &adp, &rookie); err != nil {
			return nil, fmt.Errorf("failed to scan ClickHouse catalog row: %w", err)
		}

		player, err := newPlayer(name, position, team, adp, rookie == 1)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, nil
}

func (s *ClickHouseSource) tableColumns(ctx context.Context) (map[string]bool, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT name FROM system.columns
		WHERE table = ? AND database = currentDatabase()
	`, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect ClickHouse catalog schema: %w", err)
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
	return columns, nil
}

// Close closes the ClickHouse connection.
func (s *ClickHouseSource) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
