package validation

// Session tracks the bounds state of one add or modify screen. Every field
// change re-runs Evaluate, so fixing a field clears a previous Invalid.
type Session struct {
	bounds Bounds
	state  State
}

func NewSession(b Bounds) *Session {
	return &Session{bounds: b, state: Evaluate(b)}
}

func (s *Session) SetStock(v *int) State {
	s.bounds.Stock = v
	return s.reevaluate()
}

func (s *Session) SetMin(v *int) State {
	s.bounds.Min = v
	return s.reevaluate()
}

func (s *Session) SetMax(v *int) State {
	s.bounds.Max = v
	return s.reevaluate()
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Bounds() Bounds {
	return s.bounds
}

func (s *Session) reevaluate() State {
	s.state = Evaluate(s.bounds)
	return s.state
}
