package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

// CSVSource loads the catalog from an ADP table in CSV form, the classic
// ADP_Table.csv layout: ADP, Position, Player, Team and an optional Rookie
// column, in any column order.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a CSV catalog source for the given file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load reads and validates the whole file. A missing required column is a
// *SchemaError; a malformed row is fatal too, so pick logic never sees one.
func (s *CSVSource) Load(ctx context.Context) ([]models.Player, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]models.Player, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	rookieIdx, hasRookie := colIndex[ColRookie]

	var players []models.Player
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row %d: %w", line, err)
		}

		adp, err := strconv.ParseFloat(strings.TrimSpace(record[colIndex[ColADP]]), 64)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d has invalid %s value %q", line, ColADP, record[colIndex[ColADP]])
		}

		rookie := false
		if hasRookie && rookieIdx < len(record) {
			rookie = parseRookie(record[rookieIdx])
		}

		player, err := newPlayer(
			record[colIndex[ColPlayer]],
			record[colIndex[ColPosition]],
			record[colIndex[ColTeam]],
			adp,
			rookie,
		)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", line, err)
		}
		players = append(players, player)
	}

	return players, nil
}
