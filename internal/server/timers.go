package server

import "time"

// turnTimer is one armed auto-play deadline together with the game
// generation and turn it was armed for.
type turnTimer struct {
	timer      *time.Timer
	generation int
	turn       int
}

// scheduleTurnTimer arms the auto-play deadline for one turn. Callers arm
// while still holding the store lock, so arming stays ordered with the turn
// advancing. An entry already armed for a later generation or turn is never
// replaced, which keeps a delayed arm for an old turn from clobbering the
// live deadline. The fired handler re-checks generation and turn under the
// store lock, so a timer that outlives its turn is a no-op.
func (s *Server) scheduleTurnTimer(code string, generation, turn, seconds int) {
	if seconds <= 0 {
		s.cancelTurnTimer(code)
		return
	}
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if existing, ok := s.timers[code]; ok {
		if existing.generation > generation ||
			(existing.generation == generation && existing.turn > turn) {
			return
		}
		existing.timer.Stop()
	}
	timer := time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		s.autoPlayTurn(code, generation, turn)
	})
	s.timers[code] = &turnTimer{timer: timer, generation: generation, turn: turn}
}

func (s *Server) cancelTurnTimer(code string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if entry, ok := s.timers[code]; ok {
		entry.timer.Stop()
		delete(s.timers, code)
	}
}
