package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gridironsim/mock-draft-service/internal/catalog"
	"github.com/gridironsim/mock-draft-service/internal/logger"
	"github.com/gridironsim/mock-draft-service/internal/models"
	"github.com/gridironsim/mock-draft-service/internal/pubsub"
	"github.com/gridironsim/mock-draft-service/internal/session"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

func newTestAPI(t *testing.T, userSlot int) (*APIHandlers, *pubsub.PubSub) {
	t.Helper()

	var players []models.Player
	positions := []string{models.PosRB, models.PosWR, models.PosQB, models.PosWR, models.PosTE}
	for i := 0; i < 40; i++ {
		players = append(players, models.Player{
			Name:     fmt.Sprintf("P%d", i+1),
			Position: positions[i%len(positions)],
			NFLTeam:  "DAL",
			Rank:     float64(i + 1),
		})
	}

	settings := models.Settings{NumTeams: 4, NumRounds: 5, UserTeamIndex: userSlot, Seed: 13}
	manager, err := session.NewManager(context.Background(), catalog.NewStaticSource(players), settings)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ps := pubsub.New()
	return NewAPIHandlers(manager, ps), ps
}

func TestGetDraftState(t *testing.T) {
	api, _ := newTestAPI(t, 0)

	w := httptest.NewRecorder()
	api.GetDraftState(w, httptest.NewRequest(http.MethodGet, "/api/draft/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var state models.DraftState
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.CurrentRound != 1 || state.OverallPick != 1 || !state.IsUserTurn {
		t.Errorf("fresh state = round %d overall %d userTurn %v", state.CurrentRound, state.OverallPick, state.IsUserTurn)
	}
	if state.PoolSize != 40 || len(state.Teams) != 4 {
		t.Errorf("pool %d teams %d, want 40 and 4", state.PoolSize, len(state.Teams))
	}
}

func TestUserPickEndpoint(t *testing.T) {
	api, ps := newTestAPI(t, 0)
	events := ps.Subscribe()

	// Valid pick on the user's turn
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick/user", strings.NewReader(`{"player":"P2"}`))
	api.UserPick(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result session.PickResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Player.Name != "P2" || result.OverallPick != 1 {
		t.Errorf("result = %+v", result)
	}

	select {
	case event := <-events:
		if event.Type != pubsub.EventPick {
			t.Errorf("published %s, want %s", event.Type, pubsub.EventPick)
		}
		if event.Payload["player"] != "P2" {
			t.Errorf("event payload player = %v", event.Payload["player"])
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("no pick event published")
	}

	// Not the user's turn anymore
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/draft/pick/user", strings.NewReader(`{"player":"P1"}`))
	api.UserPick(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("out-of-turn status = %d, want 409", w.Code)
	}

	// Error responses carry a JSON error body
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil || body["error"] == "" {
		t.Errorf("error body = %v (err %v)", body, err)
	}
}

func TestUserPickUnknownPlayer(t *testing.T) {
	api, _ := newTestAPI(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick/user", strings.NewReader(`{"player":"Nobody"}`))
	api.UserPick(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown player status = %d, want 404", w.Code)
	}
}

func TestUserPickRejectsBadRequests(t *testing.T) {
	api, _ := newTestAPI(t, 0)

	w := httptest.NewRecorder()
	api.UserPick(w, httptest.NewRequest(http.MethodGet, "/api/draft/pick/user", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick/user", strings.NewReader(`{not json`))
	api.UserPick(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", w.Code)
	}
}

func TestBotPickEndpoint(t *testing.T) {
	api, _ := newTestAPI(t, 3)

	// Empty body: basic best-available bot
	w := httptest.NewRecorder()
	api.BotPick(w, httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result session.PickResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Player.Name != "P1" {
		t.Errorf("basic bot drafted %q, want best-available P1", result.Player.Name)
	}

	// Profile body: preference bot
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", strings.NewReader(`{"qbBias":1000}`))
	api.BotPick(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Player.Position != models.PosQB {
		t.Errorf("QB-biased bot drafted a %s", result.Player.Position)
	}
}

func TestBotPickRejectsMalformedProfile(t *testing.T) {
	api, _ := newTestAPI(t, 3)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", strings.NewReader(`{"qbBias":`))
	api.BotPick(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed profile status = %d, want 400", w.Code)
	}

	// The bad request must not have advanced the draft.
	stateW := httptest.NewRecorder()
	api.GetDraftState(stateW, httptest.NewRequest(http.MethodGet, "/api/draft/state", nil))
	var state models.DraftState
	if err := json.NewDecoder(stateW.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.OverallPick != 1 || state.PoolSize != 40 {
		t.Errorf("state after rejected pick: overall %d pool %d, want untouched draft", state.OverallPick, state.PoolSize)
	}
}

func TestAvailablePlayersEndpoint(t *testing.T) {
	api, _ := newTestAPI(t, 0)

	w := httptest.NewRecorder()
	api.GetAvailablePlayers(w, httptest.NewRequest(http.MethodGet, "/api/draft/available?position=WR&limit=3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var players []models.Player
	if err := json.NewDecoder(w.Body).Decode(&players); err != nil {
		t.Fatalf("decode players: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("got %d players, want 3", len(players))
	}
	for _, p := range players {
		if p.Position != models.PosWR {
			t.Errorf("filter leaked a %s", p.Position)
		}
	}

	w = httptest.NewRecorder()
	api.GetAvailablePlayers(w, httptest.NewRequest(http.MethodGet, "/api/draft/available?limit=banana", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	api, _ := newTestAPI(t, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		api.BotPick(w, httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("bot pick %d: status %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	api.GetSummary(w, httptest.NewRequest(http.MethodGet, "/api/draft/summary", nil))
	var records []models.PickRecord
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("summary has %d records, want 3", len(records))
	}
	for i, rec := range records {
		if rec.OverallPick != i+1 {
			t.Errorf("record %d: overall pick %d", i, rec.OverallPick)
		}
	}
}

func TestRestartEndpoint(t *testing.T) {
	api, ps := newTestAPI(t, 3)
	events := ps.Subscribe()

	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		api.BotPick(w, httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("bot pick %d: status %d", i+1, w.Code)
		}
	}
	// Drain the pick events
	for i := 0; i < 4; i++ {
		<-events
	}

	w := httptest.NewRecorder()
	api.RestartDraft(w, httptest.NewRequest(http.MethodPost, "/api/draft/restart", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("restart status = %d", w.Code)
	}

	select {
	case event := <-events:
		if event.Type != pubsub.EventRestart {
			t.Errorf("published %s, want %s", event.Type, pubsub.EventRestart)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("no restart event published")
	}

	stateW := httptest.NewRecorder()
	api.GetDraftState(stateW, httptest.NewRequest(http.MethodGet, "/api/draft/state", nil))
	var state models.DraftState
	if err := json.NewDecoder(stateW.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.OverallPick != 1 || state.PoolSize != 40 {
		t.Errorf("post-restart state: overall %d pool %d, want fresh draft", state.OverallPick, state.PoolSize)
	}
}

func TestCompletionEventPublished(t *testing.T) {
	api, ps := newTestAPI(t, 3)
	events := ps.Subscribe()

	// 4 teams x 5 rounds
	for i := 0; i < 19; i++ {
		w := httptest.NewRecorder()
		api.BotPick(w, httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("bot pick %d: status %d", i+1, w.Code)
		}
		<-events
	}

	w := httptest.NewRecorder()
	api.UserPick(w, httptest.NewRequest(http.MethodPost, "/api/draft/pick/user", strings.NewReader(`{"player":"P20"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("final user pick: status %d, body %s", w.Code, w.Body.String())
	}

	types := []string{}
	for i := 0; i < 2; i++ {
		select {
		case event := <-events:
			types = append(types, event.Type)
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("got events %v, want pick then complete", types)
		}
	}
	if types[0] != pubsub.EventPick || types[1] != pubsub.EventComplete {
		t.Errorf("event order = %v", types)
	}

	// Once finished, further picks conflict.
	w = httptest.NewRecorder()
	api.BotPick(w, httptest.NewRequest(http.MethodPost, "/api/draft/pick/bot", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("pick after completion: status %d, want 409", w.Code)
	}
}
