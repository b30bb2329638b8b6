package server

import (
	"errors"
	"testing"
	"time"

	"reaction-games/internal/config"
	"reaction-games/internal/engine"
	"reaction-games/internal/games"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	registry := engine.NewRegistry()
	games.RegisterAll(registry)
	return New(nil, config.Default(), registry)
}

func newStartedRoom(t *testing.T, s *Server, gameType string, players ...string) *Room {
	t.Helper()
	room := s.store.CreateRoom(gameType, players[0], newTestEngine(t, gameType))
	for _, player := range players[1:] {
		if _, err := s.store.AddPlayer(room.Code, player); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}
	if err := s.startGame(room.Code, players[0]); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return room
}

// currentPick returns the player on turn and one of their legal
// number_picker choices.
func currentPick(t *testing.T, room *Room) (string, int) {
	t.Helper()
	state := room.Engine.State()
	choices, ok := room.Engine.TurnData()["choices"].([]int)
	if !ok || len(choices) == 0 {
		t.Fatal("no choices offered")
	}
	return state.CurrentPlayer().Username, choices[0]
}

func TestStartGameRequiresCreatorAndRoster(t *testing.T) {
	s := newTestServer(t)
	room := s.store.CreateRoom(games.TypeNumberPicker, "ada", newTestEngine(t, games.TypeNumberPicker))

	if err := s.startGame(room.Code, "ada"); !errors.Is(err, errNotEnoughPeople) {
		t.Fatalf("expected not-enough-players, got %v", err)
	}
	if _, err := s.store.AddPlayer(room.Code, "bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := s.startGame(room.Code, "bob"); !errors.Is(err, errNotCreator) {
		t.Fatalf("expected creator-only error, got %v", err)
	}
	if err := s.startGame(room.Code, "ada"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !room.Started {
		t.Fatal("room not marked started")
	}
	if err := s.startGame(room.Code, "ada"); !errors.Is(err, errAlreadyStarted) {
		t.Fatalf("expected already-started error, got %v", err)
	}
	state := room.Engine.State()
	if state == nil || state.Status != engine.StatusPlaying {
		t.Fatal("engine not initialized by start")
	}
	if state.CurrentTurn.Number != 0 {
		t.Fatalf("expected turn 0, got %d", state.CurrentTurn.Number)
	}
}

func TestSubmitActionAdvancesTurn(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	player, choice := currentPick(t, room)
	if err := s.submitAction(room.Code, player, choice); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	state := room.Engine.State()
	if state.CurrentTurn.Number != 1 {
		t.Fatalf("expected turn 1, got %d", state.CurrentTurn.Number)
	}
	if len(state.History) != 1 || state.History[0].Player != player {
		t.Fatalf("unexpected history %+v", state.History)
	}
}

func TestRejectedActionLeavesTurnUntouched(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	state := room.Engine.State()
	waiting := state.Players[1].Username
	if state.CurrentPlayer().Username == waiting {
		waiting = state.Players[0].Username
	}
	_, choice := currentPick(t, room)
	if err := s.submitAction(room.Code, waiting, choice); !errors.Is(err, errActionRejected) {
		t.Fatalf("expected rejection for out-of-turn player, got %v", err)
	}
	if state.CurrentTurn.Number != 0 || len(state.History) != 0 {
		t.Fatal("rejected action mutated state")
	}
}

func TestStaleDeadlineIsNoOp(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	player, choice := currentPick(t, room)
	if err := s.submitAction(room.Code, player, choice); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	// The deadline for turn 0 firing after the action must change nothing.
	s.autoPlayTurn(room.Code, room.Generation, 0)

	state := room.Engine.State()
	if state.CurrentTurn.Number != 1 {
		t.Fatalf("stale deadline advanced the turn: %d", state.CurrentTurn.Number)
	}
	if len(state.History) != 1 {
		t.Fatalf("stale deadline added history: %d entries", len(state.History))
	}
	if state.CurrentTurn.AutoPlayed {
		t.Fatal("stale deadline marked the live turn auto-played")
	}
}

func TestAutoPlayResolvesTurnExactlyOnce(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	state := room.Engine.State()
	onTurn := state.CurrentPlayer().Username
	_, choice := currentPick(t, room)

	s.autoPlayTurn(room.Code, room.Generation, 0)
	if state.CurrentTurn.Number != 1 {
		t.Fatalf("expected auto-play to advance to turn 1, got %d", state.CurrentTurn.Number)
	}
	if len(state.History) != 1 || state.History[0].Player != onTurn {
		t.Fatalf("unexpected history %+v", state.History)
	}

	// The human action arriving after the deadline resolved is rejected.
	if err := s.submitAction(room.Code, onTurn, choice); !errors.Is(err, errActionRejected) {
		t.Fatalf("expected late action rejection, got %v", err)
	}
	if len(state.History) != 1 {
		t.Fatal("late action was double applied")
	}
}

func TestDelayedArmCannotClobberLiveDeadline(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	for turn := 0; turn < 2; turn++ {
		player, choice := currentPick(t, room)
		if err := s.submitAction(room.Code, player, choice); err != nil {
			t.Fatalf("turn %d failed: %v", turn, err)
		}
	}

	// A goroutine that computed the deadline for turn 1 and then stalled
	// past two turn resolutions must not replace the turn-2 deadline.
	s.scheduleTurnTimer(room.Code, room.Generation, 1, 1)
	s.timersMu.Lock()
	entry := s.timers[room.Code]
	s.timersMu.Unlock()
	if entry == nil {
		t.Fatal("live deadline was removed")
	}
	if entry.turn != 2 {
		t.Fatalf("live deadline clobbered: armed for turn %d", entry.turn)
	}

	// Shorten the live turn's deadline and make sure it still fires.
	s.scheduleTurnTimer(room.Code, room.Generation, 2, 1)
	waitForTurn(t, s, room.Code, 3)
}

// waitForTurn polls under the store lock until the room reaches the turn or
// the wait times out.
func waitForTurn(t *testing.T, s *Server, code string, turn int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		current := -1
		if _, err := s.store.UpdateRoom(code, func(room *Room) error {
			if state := room.Engine.State(); state != nil {
				current = state.CurrentTurn.Number
			}
			return nil
		}); err != nil {
			t.Fatalf("room lookup failed: %v", err)
		}
		if current == turn {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("turn %d never reached before the deadline fired", turn)
}

func TestDeadlineFromPreviousGameIsIgnoredAfterRestart(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeRockPaperScissors, "ada", "bob")
	firstGame := room.Generation

	state := room.Engine.State()
	totalTurns := room.Engine.Config().MaxRounds * 2
	for i := 0; i < totalTurns; i++ {
		player := state.CurrentPlayer().Username
		if err := s.submitAction(room.Code, player, "rock"); err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}
	if err := s.startGame(room.Code, room.Creator); err != nil {
		t.Fatalf("restart failed: %v", err)
	}

	// A deadline armed during the first game fires only now, with a turn
	// number the fresh game also has. The generation fence rejects it.
	s.autoPlayTurn(room.Code, firstGame, 0)

	fresh := room.Engine.State()
	if fresh.CurrentTurn.Number != 0 || len(fresh.History) != 0 {
		t.Fatal("deadline from the finished game played into the new one")
	}
	if fresh.CurrentTurn.AutoPlayed {
		t.Fatal("fresh turn marked auto-played by the old deadline")
	}
}

func TestExitingCurrentPlayerTriggersAutoPlay(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob", "eve")

	state := room.Engine.State()
	leaver := state.CurrentPlayer().Username
	if err := s.exitPlayer(room.Code, leaver); err != nil {
		t.Fatalf("exit failed: %v", err)
	}
	if len(room.Players) != 2 {
		t.Fatalf("expected roster of 2, got %v", room.Players)
	}
	if !room.Started {
		t.Fatal("game should continue above the minimum roster")
	}
	if state.CurrentTurn.Number != 1 {
		t.Fatalf("expected leaver's turn auto-played, turn=%d", state.CurrentTurn.Number)
	}
	if len(state.History) != 1 || state.History[0].Player != leaver {
		t.Fatalf("unexpected history %+v", state.History)
	}
	if leaver == "ada" && room.Creator == "ada" {
		t.Fatal("creator role not handed off")
	}
}

func TestExitBelowMinimumEndsGame(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	if err := s.exitPlayer(room.Code, "bob"); err != nil {
		t.Fatalf("exit failed: %v", err)
	}
	if room.Started {
		t.Fatal("game should end when the roster drops below the minimum")
	}
	player, choice := currentPick(t, room)
	if err := s.submitAction(room.Code, player, choice); !errors.Is(err, errNoActiveGame) {
		t.Fatalf("expected no-active-game after early end, got %v", err)
	}
}

func TestGameRunsToCompletionAndRestarts(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeRockPaperScissors, "ada", "bob")

	state := room.Engine.State()
	cfg := room.Engine.Config()
	totalTurns := cfg.MaxRounds * 2
	for i := 0; i < totalTurns; i++ {
		player := state.CurrentPlayer().Username
		if err := s.submitAction(room.Code, player, "rock"); err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}
	if room.Started {
		t.Fatal("room still marked started after the final turn")
	}
	if state.Status != engine.StatusFinished {
		t.Fatalf("expected finished status, got %s", state.Status)
	}

	// All rock means every round drew; roster order breaks the tie.
	if state.Winner != "ada" {
		t.Fatalf("expected ada on the tiebreak, got %q", state.Winner)
	}

	if err := s.startGame(room.Code, room.Creator); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	fresh := room.Engine.State()
	if fresh.Status != engine.StatusPlaying || fresh.CurrentTurn.Number != 0 || len(fresh.History) != 0 {
		t.Fatal("restart did not reset the game")
	}
}

func TestDisconnectFlipsStatusAndKeepsRoster(t *testing.T) {
	s := newTestServer(t)
	room := newStartedRoom(t, s, games.TypeNumberPicker, "ada", "bob")

	s.markDisconnected(room.Code, "bob")
	state := room.Engine.State()
	if p := state.FindPlayer("bob"); p == nil || p.Status != engine.PlayerDisconnected {
		t.Fatal("disconnect did not flip player status")
	}
	if len(room.Players) != 2 {
		t.Fatal("disconnect must not remove the player from the roster")
	}

	s.markReconnected(room.Code, "bob")
	if p := state.FindPlayer("bob"); p == nil || p.Status != engine.PlayerPlaying {
		t.Fatal("reconnect did not restore player status")
	}
}
