// Package catalog loads the draftable-player catalog from tabular sources.
// Every source validates its schema up front and produces immutable Player
// records; malformed input fails at load time, never inside pick logic.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

// Required catalog columns. Rookie is optional (1 = rookie).
const (
	ColADP      = "ADP"
	ColPosition = "Position"
	ColPlayer   = "Player"
	ColTeam     = "Team"
	ColRookie   = "Rookie"
)

// RequiredColumns lists the columns every catalog source must provide.
var RequiredColumns = []string{ColADP, ColPosition, ColPlayer, ColTeam}

// Source loads the full player catalog. Implementations are read-only; the
// draft never writes back.
type Source interface {
	Load(ctx context.Context) ([]models.Player, error)
}

// SchemaError reports the required columns a catalog source is missing.
// Fatal at load; nothing is partially loaded.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "catalog missing required columns: " + strings.Join(e.Missing, ", ")
}

// checkColumns compares a source's live schema against its required column
// list and returns a *SchemaError enumerating everything missing.
func checkColumns(have map[string]bool, required []string) error {
	var missing []string
	for _, col := range required {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// normalizePosition strips a sub-rank suffix, "WR-01" -> "WR".
func normalizePosition(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	if i := strings.Index(label, "-"); i >= 0 {
		label = label[:i]
	}
	return label
}

// parseRookie interprets the optional Rookie column (1 = rookie).
func parseRookie(value string) bool {
	return strings.TrimSpace(value) == "1"
}

func newPlayer(name, positionLabel, nflTeam string, adp float64, rookie bool) (models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Player{}, fmt.Errorf("catalog row has empty %s column", ColPlayer)
	}
	return models.Player{
		Name:     name,
		Position: normalizePosition(positionLabel),
		NFLTeam:  strings.TrimSpace(nflTeam),
		Rank:     adp,
		Rookie:   rookie,
	}, nil
}
