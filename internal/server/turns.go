package server

import (
	"errors"
	"log"

	"reaction-games/internal/engine"

	"github.com/google/uuid"
)

var (
	errNoActiveGame    = errors.New("no game is running")
	errActionRejected  = errors.New("action rejected")
	errStateCorrupted  = errors.New("game state corrupted")
	errNotCreator      = errors.New("only the creator can do that")
	errAlreadyStarted  = errors.New("game already started")
	errNotEnoughPeople = errors.New("not enough players")
	errUnknownMessage  = errors.New("unknown message type")
)

// turnResult carries everything a resolved turn needs broadcast or persisted
// once the store lock is released.
type turnResult struct {
	player     string
	action     any
	turn       int
	autoPlayed bool
	outcome    engine.Outcome
	board      any

	ended    bool
	winner   string
	status   map[string]any
	scores   map[string]float64
	nextTurn map[string]any
}

func captureScores(room *Room) map[string]float64 {
	state := room.Engine.State()
	if state == nil {
		return nil
	}
	scores := make(map[string]float64, len(state.Players))
	for _, p := range state.Players {
		scores[p.Username] = p.Score
	}
	return scores
}

// startGame initializes a fresh game for the room roster. Calling it on a
// finished room restarts with the players still present.
func (s *Server) startGame(code, username string) error {
	var first map[string]any
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Started {
			return errAlreadyStarted
		}
		if room.Creator != username {
			return errNotCreator
		}
		cfg := room.Engine.Config()
		if len(room.Players) < cfg.MinPlayers || len(room.Players) > cfg.MaxPlayers {
			return errNotEnoughPeople
		}
		roster := append([]string(nil), room.Players...)
		// A restart reuses the room's game id; only the first start mints one.
		gameID := room.GameID
		if gameID == "" {
			gameID = uuid.NewString()
		}
		state, err := room.Engine.InitializeGame(roster, gameID)
		if err != nil {
			return err
		}
		room.Started = true
		room.GameID = state.GameID
		room.DBMatchID = 0
		room.Generation++
		first = room.Engine.TurnData()
		// Armed before the lock is released so nothing can interleave
		// between the turn existing and its deadline existing.
		s.scheduleTurnTimer(room.Code, room.Generation, 0, cfg.TurnTimeSeconds)
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("game started room=%s game_type=%s players=%d", room.Code, room.GameType, len(room.Players))
	s.persistMatchStart(room)
	s.ws.Broadcast(code, messageWithType("game_started", first))
	return nil
}

// submitAction resolves the race between a player action and the turn
// deadline. An accepted action cancels the deadline while the store lock is
// still held, so the fired handler can never double-apply the turn. A
// rejected action mutates nothing and leaves the deadline running.
func (s *Server) submitAction(code, username string, action any) error {
	var res turnResult
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if !room.Started {
			return errNoActiveGame
		}
		state := room.Engine.State()
		if state == nil {
			return errStateCorrupted
		}
		if state.Status != engine.StatusPlaying {
			return errNoActiveGame
		}
		res.turn = state.CurrentTurn.Number
		outcome := room.Engine.ProcessTurnAction(username, action)
		if !outcome.Accepted {
			return errActionRejected
		}
		s.cancelTurnTimer(code)
		res.player = username
		res.action = action
		res.outcome = outcome
		s.resolveAcceptedTurn(room, &res)
		return nil
	})
	if errors.Is(err, errStateCorrupted) {
		s.abortGame(code)
		return err
	}
	if err != nil {
		return err
	}
	log.Printf("action accepted room=%s player=%s turn=%d", room.Code, username, res.turn)
	s.finishTurn(room, &res)
	return nil
}

// autoPlayTurn is the deadline handler. The generation and turn-number
// fences make stale timers silent no-ops: if the turn advanced, the game
// ended, or a new game started before the timer fired, nothing happens.
func (s *Server) autoPlayTurn(code string, generation, expectedTurn int) {
	var res turnResult
	room, err := s.store.UpdateRoom(code, func(room *Room) error {
		if !room.Started {
			return errNoActiveGame
		}
		state := room.Engine.State()
		if state == nil {
			return errStateCorrupted
		}
		if state.Status != engine.StatusPlaying {
			return errNoActiveGame
		}
		if room.Generation != generation || state.CurrentTurn.Number != expectedTurn {
			return errors.New("turn already resolved")
		}
		current := state.CurrentPlayer()
		if current == nil {
			return errStateCorrupted
		}
		action := room.Engine.AutoPlay()
		outcome := room.Engine.ProcessTurnAction(current.Username, action)
		if !outcome.Accepted {
			return errStateCorrupted
		}
		state.CurrentTurn.AutoPlayed = true
		res.player = current.Username
		res.action = action
		res.turn = expectedTurn
		res.autoPlayed = true
		res.outcome = outcome
		s.resolveAcceptedTurn(room, &res)
		return nil
	})
	if errors.Is(err, errStateCorrupted) {
		s.abortGame(code)
		return
	}
	if err != nil {
		return
	}
	log.Printf("turn auto-played room=%s player=%s turn=%d", room.Code, res.player, res.turn)
	s.ws.Broadcast(code, map[string]any{
		"type":   "auto_choice",
		"player": res.player,
		"action": res.action,
	})
	s.finishTurn(room, &res)
}

// resolveAcceptedTurn runs under the store lock, right after an accepted
// action. A variant whose cascades decide the game finishes it inside
// ProcessTurnAction; that short-circuits AdvanceTurn here.
func (s *Server) resolveAcceptedTurn(room *Room, res *turnResult) {
	state := room.Engine.State()
	if len(res.outcome.Events) > 0 {
		res.board = room.Engine.StatusInfo()["board"]
	}
	if state.Status == engine.StatusFinished {
		res.ended = true
	} else if !room.Engine.AdvanceTurn() {
		res.ended = true
	}
	if res.ended {
		res.winner = state.Winner
		res.status = room.Engine.StatusInfo()
		res.scores = captureScores(room)
		room.Started = false
		return
	}
	res.nextTurn = room.Engine.TurnData()
	s.scheduleTurnTimer(room.Code, room.Generation, state.CurrentTurn.Number, room.Engine.Config().TurnTimeSeconds)
}

// finishTurn broadcasts the resolved turn and, when the game is over,
// terminates it. Runs outside the store lock; the next deadline was already
// armed by resolveAcceptedTurn while the lock was held.
func (s *Server) finishTurn(room *Room, res *turnResult) {
	if len(res.outcome.Events) > 0 {
		s.ws.Broadcast(room.Code, map[string]any{
			"type":   "game_events",
			"player": res.player,
			"events": res.outcome.Events,
			"board":  res.board,
		})
	} else {
		s.ws.Broadcast(room.Code, map[string]any{
			"type":     "choice_made",
			"player":   res.player,
			"action":   res.action,
			"accepted": true,
		})
	}
	s.persistTurn(room, res)
	if res.ended {
		s.endGame(room, res, "")
		return
	}
	s.ws.Broadcast(room.Code, messageWithType("next_turn", res.nextTurn))
}

func (s *Server) endGame(room *Room, res *turnResult, reason string) {
	s.cancelTurnTimer(room.Code)
	payload := map[string]any{
		"type":        "game_ended",
		"winner":      res.winner,
		"can_restart": true,
		"game_status": res.status,
	}
	if reason != "" {
		payload["reason"] = reason
	}
	log.Printf("game ended room=%s winner=%s reason=%s", room.Code, res.winner, reason)
	s.ws.Broadcast(room.Code, payload)
	s.persistMatchEnd(room, res)
}

// abortGame tears down a room whose engine lost its state mid-game.
func (s *Server) abortGame(code string) {
	if _, err := s.store.UpdateRoom(code, func(room *Room) error {
		room.Started = false
		return nil
	}); err != nil {
		return
	}
	s.cancelTurnTimer(code)
	log.Printf("game aborted room=%s reason=state_corrupted", code)
	s.ws.Broadcast(code, map[string]any{
		"type":    "error",
		"message": "game state corrupted, game aborted",
	})
}

// exitPlayer removes the player from the room entirely. An empty room is
// deleted; a departing creator hands the role to the oldest remaining
// player. Leaving mid-game can end it (roster below minimum) or, when the
// leaver owned the current turn, trigger an immediate auto-play.
func (s *Server) exitPlayer(code, username string) error {
	room, deleted, err := s.store.RemovePlayer(code, username)
	if err != nil {
		return err
	}
	if deleted {
		s.cancelTurnTimer(code)
		log.Printf("room deleted room=%s reason=empty", code)
		return nil
	}

	var endedEarly bool
	leaverGen, leaverTurn := 0, -1
	var res turnResult
	var snapshot map[string]any
	room, err = s.store.UpdateRoom(code, func(room *Room) error {
		defer func() { snapshot = s.roomState(room) }()
		if room.Engine.State() != nil {
			room.Engine.HandleDisconnect(username)
		}
		if !room.Started {
			return nil
		}
		state := room.Engine.State()
		if state == nil || state.Status != engine.StatusPlaying {
			return nil
		}
		if len(room.Players) < room.Engine.Config().MinPlayers {
			endedEarly = true
			room.Started = false
			if len(room.Players) == 1 {
				res.winner = room.Players[0]
			}
			res.status = room.Engine.StatusInfo()
			res.scores = captureScores(room)
			return nil
		}
		if current := state.CurrentPlayer(); current != nil && current.Username == username {
			leaverGen = room.Generation
			leaverTurn = state.CurrentTurn.Number
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("player left room=%s player=%s creator=%s", code, username, room.Creator)
	s.ws.Broadcast(code, snapshot)
	if endedEarly {
		s.endGame(room, &res, "not_enough_players")
		return nil
	}
	if leaverTurn >= 0 {
		s.cancelTurnTimer(code)
		s.autoPlayTurn(code, leaverGen, leaverTurn)
	}
	return nil
}

// markDisconnected flips the player's engine status when their socket drops.
// They stay in the roster and their turns keep timing out into auto-play.
func (s *Server) markDisconnected(code, username string) {
	var snapshot map[string]any
	if _, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Engine.State() != nil {
			room.Engine.HandleDisconnect(username)
		}
		snapshot = s.roomState(room)
		return nil
	}); err != nil {
		return
	}
	s.ws.Broadcast(code, snapshot)
}

func (s *Server) markReconnected(code, username string) {
	var snapshot map[string]any
	if _, err := s.store.UpdateRoom(code, func(room *Room) error {
		if room.Engine.State() != nil {
			room.Engine.HandleReconnect(username)
		}
		snapshot = s.roomState(room)
		return nil
	}); err != nil {
		return
	}
	s.ws.Broadcast(code, snapshot)
}
