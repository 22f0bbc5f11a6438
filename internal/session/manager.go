package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gridironsim/mock-draft-service/internal/catalog"
	"github.com/gridironsim/mock-draft-service/internal/draft"
	"github.com/gridironsim/mock-draft-service/internal/logger"
	"github.com/gridironsim/mock-draft-service/internal/models"
)

// Manager owns the live draft instance. The engine itself is single-writer
// and lock-free; the manager serializes HTTP callers with a RWMutex and is
// the only component allowed to mutate the draft.
type Manager struct {
	mu       sync.RWMutex
	source   catalog.Source
	settings models.Settings
	draft    *draft.Draft
}

// PickResult describes one completed pick, captured at the moment it was on
// the clock (the sequencer advances as part of the pick).
type PickResult struct {
	Player      models.Player `json:"player"`
	Round       int           `json:"round"`
	PickInRound int           `json:"pickInRound"`
	OverallPick int           `json:"overallPick"`
	TeamIndex   int           `json:"teamIndex"`
	TeamName    string        `json:"teamName"`
}

// NewManager loads the catalog and constructs the initial draft.
func NewManager(ctx context.Context, source catalog.Source, settings models.Settings) (*Manager, error) {
	m := &Manager{
		source:   source,
		settings: settings,
	}
	if err := m.Restart(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Restart discards the current draft and rebuilds a fresh instance from the
// catalog source. Always a full reconstruction, never a partial reset.
func (m *Manager) Restart(ctx context.Context) error {
	players, err := m.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(players) == 0 {
		return fmt.Errorf("catalog source returned no players")
	}

	d, err := draft.New(players, m.settings)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.draft = d
	m.mu.Unlock()

	logger.Info("Draft constructed",
		"players", len(players),
		"teams", m.settings.NumTeams,
		"rounds", m.settings.NumRounds,
		"user_slot", m.settings.UserTeamIndex)
	return nil
}

// State returns the current draft snapshot.
func (m *Manager) State() models.DraftState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.draft.State()
}

// Available returns the undrafted pool, optionally filtered by position and
// truncated to limit entries. Zero limit means no truncation. The position
// filter is case-insensitive; catalog positions are stored uppercase.
func (m *Manager) Available(position string, limit int) []models.Player {
	m.mu.RLock()
	players := m.draft.AvailablePlayers()
	m.mu.RUnlock()

	position = strings.ToUpper(strings.TrimSpace(position))
	if position != "" {
		filtered := players[:0]
		for _, p := range players {
			if p.Position == position {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players
}

// Summary returns the reconstructed pick history.
func (m *Manager) Summary() []models.PickRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.draft.Summary()
}

// UserPick drafts the named player for the user's slot.
func (m *Manager) UserPick(playerName string) (PickResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := m.onTheClock()
	player, err := m.draft.MakeUserPick(playerName)
	if err != nil {
		return PickResult{}, err
	}
	result.Player = player
	return result, nil
}

// BotPick drafts for the bot on the clock. A nil profile selects the basic
// best-available bot; otherwise the preference scorer runs.
func (m *Manager) BotPick(profile *models.PreferenceProfile) (PickResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := m.onTheClock()
	var (
		player models.Player
		err    error
	)
	if profile == nil {
		player, err = m.draft.MakeBotPick()
	} else {
		player, err = m.draft.PickWithPreferences(*profile)
	}
	if err != nil {
		return PickResult{}, err
	}
	result.Player = player
	return result, nil
}

// onTheClock captures the pick context before the sequencer advances.
// Caller holds the write lock.
func (m *Manager) onTheClock() PickResult {
	if m.draft.IsFinished() {
		return PickResult{TeamIndex: -1}
	}
	idx := m.draft.CurrentTeamIndex()
	return PickResult{
		Round:       m.draft.CurrentRound(),
		PickInRound: m.draft.CurrentPickInRound(),
		OverallPick: m.draft.OverallPick(),
		TeamIndex:   idx,
		TeamName:    fmt.Sprintf("Team %d", idx+1),
	}
}
