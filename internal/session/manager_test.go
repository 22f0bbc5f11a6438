package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gridironsim/mock-draft-service/internal/draft"
	"github.com/gridironsim/mock-draft-service/internal/logger"
	"github.com/gridironsim/mock-draft-service/internal/models"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

type stubSource struct {
	players []models.Player
	err     error
	loads   int
}

func (s *stubSource) Load(ctx context.Context) ([]models.Player, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Player, len(s.players))
	copy(out, s.players)
	return out, nil
}

func testCatalog(n int) []models.Player {
	positions := []string{models.PosRB, models.PosWR, models.PosQB, models.PosWR, models.PosTE}
	players := make([]models.Player, n)
	for i := range players {
		players[i] = models.Player{
			Name:     fmt.Sprintf("P%d", i+1),
			Position: positions[i%len(positions)],
			NFLTeam:  "DAL",
			Rank:     float64(i + 1),
		}
	}
	return players
}

var testSettings = models.Settings{NumTeams: 4, NumRounds: 5, UserTeamIndex: 0, Seed: 17}

func TestNewManagerLoadFailures(t *testing.T) {
	loadErr := errors.New("connection refused")
	if _, err := NewManager(context.Background(), &stubSource{err: loadErr}, testSettings); !errors.Is(err, loadErr) {
		t.Errorf("err = %v, want wrapped %v", err, loadErr)
	}

	if _, err := NewManager(context.Background(), &stubSource{}, testSettings); err == nil {
		t.Error("empty catalog accepted")
	}

	bad := testSettings
	bad.NumTeams = 2
	if _, err := NewManager(context.Background(), &stubSource{players: testCatalog(30)}, bad); err == nil {
		t.Error("invalid settings accepted")
	}
}

func TestUserPickCarriesClockContext(t *testing.T) {
	m, err := NewManager(context.Background(), &stubSource{players: testCatalog(30)}, testSettings)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	// User holds slot 0 and opens the draft.
	result, err := m.UserPick("P3")
	if err != nil {
		t.Fatalf("UserPick: %v", err)
	}
	if result.Player.Name != "P3" {
		t.Errorf("drafted %q, want P3", result.Player.Name)
	}
	if result.Round != 1 || result.PickInRound != 1 || result.OverallPick != 1 {
		t.Errorf("pick context = %d.%d (overall %d), want 1.1 (overall 1)", result.Round, result.PickInRound, result.OverallPick)
	}
	if result.TeamIndex != 0 || result.TeamName != "Team 1" {
		t.Errorf("attributed to %q (index %d), want Team 1", result.TeamName, result.TeamIndex)
	}

	// Out of turn now; the engine error surfaces unchanged.
	if _, err := m.UserPick("P1"); !errors.Is(err, draft.ErrNotUsersTurn) {
		t.Errorf("err = %v, want ErrNotUsersTurn", err)
	}
}

func TestBotPickVariants(t *testing.T) {
	settings := testSettings
	settings.UserTeamIndex = 3
	m, err := NewManager(context.Background(), &stubSource{players: testCatalog(30)}, settings)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	// Nil profile: plain best-available.
	result, err := m.BotPick(nil)
	if err != nil {
		t.Fatalf("BotPick: %v", err)
	}
	if result.Player.Name != "P1" {
		t.Errorf("basic bot drafted %q, want best-available P1", result.Player.Name)
	}

	// Preference bot honors the profile; with no noise and a huge QB bias the
	// best QB in the window wins.
	result, err = m.BotPick(&models.PreferenceProfile{QBBias: 1000})
	if err != nil {
		t.Fatalf("BotPick: %v", err)
	}
	if result.Player.Position != models.PosQB {
		t.Errorf("QB-biased bot drafted a %s", result.Player.Position)
	}
	if result.OverallPick != 2 || result.TeamIndex != 1 {
		t.Errorf("pick context = overall %d team %d, want overall 2 team 1", result.OverallPick, result.TeamIndex)
	}
}

func TestRestartRebuildsFromSource(t *testing.T) {
	source := &stubSource{players: testCatalog(30)}
	settings := testSettings
	settings.UserTeamIndex = 3
	m, err := NewManager(context.Background(), source, settings)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := m.BotPick(nil); err != nil {
			t.Fatalf("pick %d: %v", i+1, err)
		}
	}
	if state := m.State(); state.PoolSize != 25 || state.CurrentRound != 2 {
		t.Fatalf("mid-draft state: pool %d round %d", state.PoolSize, state.CurrentRound)
	}

	if err := m.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}

	state := m.State()
	if state.PoolSize != 30 || state.CurrentRound != 1 || state.OverallPick != 1 {
		t.Errorf("post-restart state: pool %d round %d overall %d, want fresh draft", state.PoolSize, state.CurrentRound, state.OverallPick)
	}
	for _, team := range state.Teams {
		if len(team.Roster) != 0 {
			t.Errorf("%s kept %d players across restart", team.Name, len(team.Roster))
		}
	}
	if source.loads != 2 {
		t.Errorf("catalog loaded %d times, want 2 (restart reloads)", source.loads)
	}
}

func TestAvailableFilterAndLimit(t *testing.T) {
	m, err := NewManager(context.Background(), &stubSource{players: testCatalog(30)}, testSettings)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	all := m.Available("", 0)
	if len(all) != 30 {
		t.Fatalf("unfiltered pool has %d players, want 30", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Rank < all[i-1].Rank {
			t.Fatal("available players not rank-ordered")
		}
	}

	wrs := m.Available(models.PosWR, 0)
	if len(wrs) != 12 {
		t.Errorf("WR filter returned %d players, want 12", len(wrs))
	}
	for _, p := range wrs {
		if p.Position != models.PosWR {
			t.Errorf("WR filter returned %s %q", p.Position, p.Name)
		}
	}

	// The filter is case-insensitive: query strings arrive however the UI
	// sends them.
	if got := m.Available("wr", 0); len(got) != 12 {
		t.Errorf("lowercase filter returned %d players, want 12", len(got))
	}
	if got := m.Available(" Te ", 0); len(got) != 6 {
		t.Errorf("padded mixed-case filter returned %d players, want 6", len(got))
	}

	top := m.Available("", 5)
	if len(top) != 5 || top[0].Name != "P1" {
		t.Errorf("limit 5 returned %d players starting with %q", len(top), top[0].Name)
	}

	if got := m.Available(models.PosTE, 2); len(got) != 2 {
		t.Errorf("filter+limit returned %d players, want 2", len(got))
	}
}
