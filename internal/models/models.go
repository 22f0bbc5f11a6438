package models

import "fmt"

// Canonical position groups. Catalog labels like "WR-01" are normalized
// to these before a Player is constructed.
const (
	PosQB = "QB"
	PosRB = "RB"
	PosWR = "WR"
	PosTE = "TE"
)

// Player is a draftable player. Immutable after catalog load; identity is Name.
type Player struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	NFLTeam  string  `json:"nflTeam"`
	Rank     float64 `json:"rank"` // ADP, lower = more desirable
	Rookie   bool    `json:"rookie"`
}

// Team is one draft slot. Roster is append-only, in draft order.
type Team struct {
	Index  int      `json:"index"`
	Name   string   `json:"name"`
	IsUser bool     `json:"isUser"`
	Roster []Player `json:"roster"`
}

// PreferenceProfile is the per-call bot personality. It is supplied fresh on
// every bot turn and never stored on a team.
type PreferenceProfile struct {
	RBBias       float64 `json:"rbBias"`
	QBBias       float64 `json:"qbBias"`
	RookieBias   float64 `json:"rookieBias"`
	FavoriteTeam string  `json:"favoriteTeam,omitempty"`
	TeamBias     float64 `json:"teamBias"`
	StackWeight  float64 `json:"stackWeight"`
	Randomness   float64 `json:"randomness"`
	Lookahead    int     `json:"lookahead,omitempty"`
}

// DefaultLookahead bounds how far down the rank-sorted pool a bot scans.
const DefaultLookahead = 30

// PickRecord is one row of the reconstructed draft history.
type PickRecord struct {
	OverallPick int    `json:"overallPick"`
	Round       int    `json:"round"`
	PickInRound int    `json:"pickInRound"`
	TeamName    string `json:"team"`
	Player      Player `json:"player"`
}

// Settings are the draft construction parameters.
type Settings struct {
	NumTeams      int   `json:"numTeams"`
	NumRounds     int   `json:"numRounds"`
	UserTeamIndex int   `json:"userTeamIndex"` // 0-based
	Seed          int64 `json:"seed,omitempty"`
}

const (
	MinTeams  = 4
	MaxTeams  = 14
	MinRounds = 5
	MaxRounds = 20
)

// Validate checks the construction bounds.
func (s Settings) Validate() error {
	if s.NumTeams < MinTeams || s.NumTeams > MaxTeams {
		return fmt.Errorf("numTeams must be between %d and %d, got %d", MinTeams, MaxTeams, s.NumTeams)
	}
	if s.NumRounds < MinRounds || s.NumRounds > MaxRounds {
		return fmt.Errorf("numRounds must be between %d and %d, got %d", MinRounds, MaxRounds, s.NumRounds)
	}
	if s.UserTeamIndex < 0 || s.UserTeamIndex >= s.NumTeams {
		return fmt.Errorf("userTeamIndex must be in [0, %d), got %d", s.NumTeams, s.UserTeamIndex)
	}
	return nil
}

// EnsureRoundsCover raises NumRounds to at least the configured starting
// lineup size, capped at MaxRounds.
func (s *Settings) EnsureRoundsCover(lineupSize int) {
	if lineupSize > s.NumRounds {
		s.NumRounds = lineupSize
	}
	if s.NumRounds > MaxRounds {
		s.NumRounds = MaxRounds
	}
}

// DraftState is the snapshot the API serves to the presentation layer.
type DraftState struct {
	Settings           Settings `json:"settings"`
	CurrentRound       int      `json:"currentRound"`
	CurrentPickInRound int      `json:"currentPickInRound"`
	OverallPick        int      `json:"overallPick"`
	Finished           bool     `json:"finished"`
	OnTheClockIndex    int      `json:"onTheClockIndex"`
	OnTheClockName     string   `json:"onTheClockName"`
	IsUserTurn         bool     `json:"isUserTurn"`
	Teams              []Team   `json:"teams"`
	PoolSize           int      `json:"poolSize"`
}
