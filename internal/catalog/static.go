package catalog

import (
	"context"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

// StaticSource serves a fixed in-memory catalog. Used by the "static" driver
// for local development and by tests.
type StaticSource struct {
	players []models.Player
}

// NewStaticSource creates a catalog source over the given players.
func NewStaticSource(players []models.Player) *StaticSource {
	return &StaticSource{players: players}
}

// Load returns a copy of the static catalog.
func (s *StaticSource) Load(ctx context.Context) ([]models.Player, error) {
	out := make([]models.Player, len(s.players))
	copy(out, s.players)
	return out, nil
}

// DefaultPlayers returns a small development catalog covering every position
// group, two rookies, and QB/WR pairs on the same NFL team for stacking.
func DefaultPlayers() []models.Player {
	return []models.Player{
		{Name: "Marcus Vale", Position: "RB", NFLTeam: "DAL", Rank: 1.2},
		{Name: "Dontae Whitfield", Position: "WR", NFLTeam: "MIN", Rank: 2.1},
		{Name: "Terrell Okafor", Position: "RB", NFLTeam: "SF", Rank: 3.4},
		{Name: "Jalen Marsh", Position: "WR", NFLTeam: "CIN", Rank: 4.0},
		{Name: "Cody Brennan", Position: "QB", NFLTeam: "KC", Rank: 5.5},
		{Name: "Devon Ricks", Position: "WR", NFLTeam: "KC", Rank: 6.3},
		{Name: "Amari Sloan", Position: "TE", NFLTeam: "KC", Rank: 7.8},
		{Name: "Rashad Pemberton", Position: "RB", NFLTeam: "NYG", Rank: 8.9, Rookie: true},
		{Name: "Grant Holloway", Position: "QB", NFLTeam: "BUF", Rank: 9.6},
		{Name: "Micah Trent", Position: "WR", NFLTeam: "BUF", Rank: 10.4},
		{Name: "Eli Navarro", Position: "TE", NFLTeam: "DET", Rank: 11.7},
		{Name: "Darius Cole", Position: "RB", NFLTeam: "MIA", Rank: 12.5},
		{Name: "Trey Lindqvist", Position: "WR", NFLTeam: "PHI", Rank: 13.2, Rookie: true},
		{Name: "Omar Castellanos", Position: "QB", NFLTeam: "DAL", Rank: 14.8},
		{Name: "Beau Whitaker", Position: "RB", NFLTeam: "GB", Rank: 15.9},
		{Name: "Kellen Ashby", Position: "WR", NFLTeam: "SEA", Rank: 16.6},
		{Name: "Xavier Dunn", Position: "TE", NFLTeam: "LV", Rank: 17.3},
		{Name: "Reggie Calloway", Position: "RB", NFLTeam: "TEN", Rank: 18.1},
		{Name: "Solomon Reyes", Position: "WR", NFLTeam: "DAL", Rank: 19.4},
		{Name: "Wade Pruitt", Position: "QB", NFLTeam: "MIN", Rank: 20.7},
		{Name: "Isaiah Mercer", Position: "WR", NFLTeam: "SF", Rank: 21.5, Rookie: true},
		{Name: "Donovan Frey", Position: "RB", NFLTeam: "CHI", Rank: 22.2},
		{Name: "Cortez Bellamy", Position: "TE", NFLTeam: "TB", Rank: 23.6},
		{Name: "Hudson Park", Position: "WR", NFLTeam: "LAR", Rank: 24.9},
	}
}
