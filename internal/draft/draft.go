package draft

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gridironsim/mock-draft-service/internal/models"
)

var (
	ErrNotUsersTurn   = errors.New("not the user's turn")
	ErrPlayerNotFound = errors.New("player not found in pool")
	ErrPoolExhausted  = errors.New("player pool exhausted")
	ErrDraftFinished  = errors.New("draft already finished")
)

// Draft is the core simulation state: the undrafted pool, one roster per team,
// and the snake-order sequencer. It performs no I/O and holds no locks; the
// session layer serializes access.
type Draft struct {
	settings models.Settings
	teams    []models.Team

	// pool holds the undrafted players sorted ascending by rank. Every catalog
	// player is in exactly one of pool or one roster at all times.
	pool []models.Player

	currentRound       int // 1-based
	currentPickInRound int // 1-based, 1..NumTeams

	rng *rand.Rand
}

// New builds a draft from catalog players and validated settings. The pool is
// a rank-sorted copy; the input slice is not retained. Settings.Seed fixes the
// bot randomness source; zero seeds from the clock.
func New(players []models.Player, settings models.Settings) (*Draft, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	teams := make([]models.Team, settings.NumTeams)
	for i := range teams {
		teams[i] = models.Team{
			Index:  i,
			Name:   fmt.Sprintf("Team %d", i+1),
			IsUser: i == settings.UserTeamIndex,
			Roster: []models.Player{},
		}
	}

	pool := make([]models.Player, len(players))
	copy(pool, players)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Rank < pool[j].Rank
	})

	return &Draft{
		settings:           settings,
		teams:              teams,
		pool:               pool,
		currentRound:       1,
		currentPickInRound: 1,
		rng:                rand.New(rand.NewSource(seed)),
	}, nil
}

// PickOrderForRound returns the team indexes in pick order for a round:
// identity order for odd rounds, reversed for even rounds (snake draft).
// Pure in round and NumTeams, so reporting can recompute historical rounds.
func (d *Draft) PickOrderForRound(round int) []int {
	return pickOrder(round, d.settings.NumTeams)
}

func pickOrder(round, numTeams int) []int {
	order := make([]int, numTeams)
	for i := range order {
		order[i] = i
	}
	if round%2 == 0 {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

// CurrentTeamIndex returns the slot index on the clock. Callers must check
// IsFinished first.
func (d *Draft) CurrentTeamIndex() int {
	return pickOrder(d.currentRound, d.settings.NumTeams)[d.currentPickInRound-1]
}

func (d *Draft) advance() {
	if d.currentPickInRound < d.settings.NumTeams {
		d.currentPickInRound++
	} else {
		d.currentPickInRound = 1
		d.currentRound++
	}
}

// IsFinished reports whether every round has been drafted.
func (d *Draft) IsFinished() bool {
	return d.currentRound > d.settings.NumRounds
}

// CurrentRound returns the 1-based live round.
func (d *Draft) CurrentRound() int { return d.currentRound }

// CurrentPickInRound returns the 1-based pick within the live round.
func (d *Draft) CurrentPickInRound() int { return d.currentPickInRound }

// OverallPick derives the 1-based overall pick number. Display only.
func (d *Draft) OverallPick() int {
	return (d.currentRound-1)*d.settings.NumTeams + d.currentPickInRound
}

// Settings returns the construction parameters.
func (d *Draft) Settings() models.Settings { return d.settings }

// PoolSize returns the number of undrafted players.
func (d *Draft) PoolSize() int { return len(d.pool) }

// AvailablePlayers returns a rank-ordered snapshot of the undrafted pool.
func (d *Draft) AvailablePlayers() []models.Player {
	out := make([]models.Player, len(d.pool))
	copy(out, d.pool)
	return out
}

// Teams returns a deep-copy snapshot of all teams and rosters.
func (d *Draft) Teams() []models.Team {
	out := make([]models.Team, len(d.teams))
	for i, t := range d.teams {
		roster := make([]models.Player, len(t.Roster))
		copy(roster, t.Roster)
		t.Roster = roster
		out[i] = t
	}
	return out
}

// removeByName removes the named player from the pool by identity and returns
// it. Linear scan: the pool is a few hundred entries at most.
func (d *Draft) removeByName(name string) (models.Player, bool) {
	for i, p := range d.pool {
		if p.Name == name {
			d.pool = append(d.pool[:i], d.pool[i+1:]...)
			return p, true
		}
	}
	return models.Player{}, false
}

// MakeBotPick is the no-preference bot: it drafts the best available player by
// rank for the team on the clock and advances the sequencer.
func (d *Draft) MakeBotPick() (models.Player, error) {
	if d.IsFinished() {
		return models.Player{}, ErrDraftFinished
	}
	if len(d.pool) == 0 {
		return models.Player{}, ErrPoolExhausted
	}

	player := d.pool[0]
	d.pool = d.pool[1:]

	teamIdx := d.CurrentTeamIndex()
	d.teams[teamIdx].Roster = append(d.teams[teamIdx].Roster, player)
	d.advance()
	return player, nil
}

// MakeUserPick drafts the named player for the user's team. Fails with
// ErrNotUsersTurn when another slot is on the clock and ErrPlayerNotFound
// when the name does not match an undrafted player; failed picks leave the
// pool, rosters and sequencer untouched.
func (d *Draft) MakeUserPick(playerName string) (models.Player, error) {
	if d.IsFinished() {
		return models.Player{}, ErrDraftFinished
	}

	teamIdx := d.CurrentTeamIndex()
	if teamIdx != d.settings.UserTeamIndex {
		return models.Player{}, ErrNotUsersTurn
	}

	player, ok := d.removeByName(playerName)
	if !ok {
		return models.Player{}, ErrPlayerNotFound
	}

	d.teams[teamIdx].Roster = append(d.teams[teamIdx].Roster, player)
	d.advance()
	return player, nil
}

// Summary reconstructs the full pick history from roster contents and the
// snake-order function. Rosters are the single source of truth; no separate
// pick log exists.
func (d *Draft) Summary() []models.PickRecord {
	var records []models.PickRecord
	for rnd := 1; rnd <= d.settings.NumRounds; rnd++ {
		order := pickOrder(rnd, d.settings.NumTeams)
		for pickNum, teamIdx := range order {
			team := d.teams[teamIdx]
			if len(team.Roster) < rnd {
				continue
			}
			records = append(records, models.PickRecord{
				OverallPick: (rnd-1)*d.settings.NumTeams + pickNum + 1,
				Round:       rnd,
				PickInRound: pickNum + 1,
				TeamName:    team.Name,
				Player:      team.Roster[rnd-1],
			})
		}
	}
	return records
}

// State assembles the snapshot served to the presentation layer.
func (d *Draft) State() models.DraftState {
	state := models.DraftState{
		Settings:           d.settings,
		CurrentRound:       d.currentRound,
		CurrentPickInRound: d.currentPickInRound,
		OverallPick:        d.OverallPick(),
		Finished:           d.IsFinished(),
		Teams:              d.Teams(),
		PoolSize:           len(d.pool),
	}
	if !state.Finished {
		idx := d.CurrentTeamIndex()
		state.OnTheClockIndex = idx
		state.OnTheClockName = d.teams[idx].Name
		state.IsUserTurn = idx == d.settings.UserTeamIndex
	} else {
		state.OnTheClockIndex = -1
	}
	return state
}
