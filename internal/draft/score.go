package draft

import (
	"github.com/gridironsim/mock-draft-service/internal/models"
)

// Scoring constants. The over-cap penalty is an effectively disqualifying
// hard stop; the rest are nudges.
const (
	overCapPenalty   = 1_000_000.0
	earlyDupPenalty  = 8.0
	hoardHardPenalty = 12.0
	hoardSoftPenalty = 6.0

	// Bot noise grows with the round and is capped.
	noiseBase     = 1.0
	noisePerRound = 0.5
	noiseCap      = 4.0

	// Scarcity and balance guards only apply early.
	earlyDupRoundCutoff = 6
	hoardRoundCutoff    = 8
)

// ScorePlayer evaluates one candidate for the team on the clock. Higher is
// more attractive. Recomputed fresh every turn: the round and roster context
// change with every pick, so nothing is cached.
func (d *Draft) ScorePlayer(p models.Player, profile models.PreferenceProfile) float64 {
	roster := d.teams[d.CurrentTeamIndex()].Roster
	round := d.currentRound

	// Base desirability: lower ADP wins.
	score := -p.Rank

	if p.Position == models.PosRB {
		score += profile.RBBias
	}
	if p.Position == models.PosQB {
		score += profile.QBBias
	}
	if p.Rookie {
		score += profile.RookieBias
	}
	if profile.FavoriteTeam != "" && profile.FavoriteTeam == p.NFLTeam {
		score += profile.TeamBias
	}

	// Scarcity guard: a third QB or TE is a hard stop, an early second one is
	// discouraged without being forbidden.
	if p.Position == models.PosQB || p.Position == models.PosTE {
		positionCount := countPosition(roster, p.Position)
		switch {
		case positionCount >= 2:
			score -= overCapPenalty
		case positionCount >= 1 && round <= earlyDupRoundCutoff:
			score -= earlyDupPenalty
		}
	}

	// RB/WR balance guard: discourage hoarding one of the two volume positions
	// while the other is empty or nearly empty.
	switch p.Position {
	case models.PosWR:
		wr := countPosition(roster, models.PosWR)
		rb := countPosition(roster, models.PosRB)
		if wr >= 4 && rb == 0 {
			score -= hoardHardPenalty
		} else if wr >= 4 && rb <= 1 && round <= hoardRoundCutoff {
			score -= hoardSoftPenalty
		}
	case models.PosRB:
		rb := countPosition(roster, models.PosRB)
		wr := countPosition(roster, models.PosWR)
		if rb >= 4 && wr == 0 {
			score -= hoardHardPenalty
		} else if rb >= 4 && wr <= 1 && round <= hoardRoundCutoff {
			score -= hoardSoftPenalty
		}
	}

	// Stacking bonus: pair a QB with pass catchers from the same NFL team.
	if profile.StackWeight != 0 {
		switch p.Position {
		case models.PosWR, models.PosTE:
			if rostersPosition(roster, models.PosQB, p.NFLTeam) {
				score += profile.StackWeight
			}
		case models.PosQB:
			if rostersPosition(roster, models.PosWR, p.NFLTeam) ||
				rostersPosition(roster, models.PosTE, p.NFLTeam) {
				score += profile.StackWeight
			}
		}
	}

	// Uniform noise, wider in later rounds, scaled by the profile.
	noiseScale := noiseBase + noisePerRound*float64(round-1)
	if noiseScale > noiseCap {
		noiseScale = noiseCap
	}
	score += (d.rng.Float64()*2 - 1) * noiseScale * profile.Randomness

	return score
}

// PickWithPreferences scores a bounded window of the rank-sorted pool for the
// team on the clock, drafts the strict maximum (ties go to the first
// encountered, so the result is deterministic given the random draw), and
// advances the sequencer.
func (d *Draft) PickWithPreferences(profile models.PreferenceProfile) (models.Player, error) {
	if d.IsFinished() {
		return models.Player{}, ErrDraftFinished
	}

	lookahead := profile.Lookahead
	if lookahead <= 0 {
		lookahead = models.DefaultLookahead
	}
	if lookahead > len(d.pool) {
		lookahead = len(d.pool)
	}
	if lookahead == 0 {
		return models.Player{}, ErrPoolExhausted
	}

	best := d.pool[0]
	bestScore := d.ScorePlayer(best, profile)
	for _, candidate := range d.pool[1:lookahead] {
		if s := d.ScorePlayer(candidate, profile); s > bestScore {
			best, bestScore = candidate, s
		}
	}

	// Remove by identity: scoring never reorders the pool, but names are the
	// stable key either way.
	player, ok := d.removeByName(best.Name)
	if !ok {
		return models.Player{}, ErrPlayerNotFound
	}

	teamIdx := d.CurrentTeamIndex()
	d.teams[teamIdx].Roster = append(d.teams[teamIdx].Roster, player)
	d.advance()
	return player, nil
}

func countPosition(roster []models.Player, position string) int {
	n := 0
	for _, p := range roster {
		if p.Position == position {
			n++
		}
	}
	return n
}

func rostersPosition(roster []models.Player, position, nflTeam string) bool {
	for _, p := range roster {
		if p.Position == position && p.NFLTeam == nflTeam {
			return true
		}
	}
	return false
}
