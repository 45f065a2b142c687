// Package validation holds the rules an edit must satisfy before it may be
// saved: the min/max/stock state machine and the required-field gate.
package validation

const (
	ReasonMinAboveMax      = "min must be less than max"
	ReasonStockOutOfBounds = "stock must be within min/max bounds"
)

// Bounds holds the stock-related fields of an edit. A nil field has not been
// entered yet.
type Bounds struct {
	Stock *int
	Min   *int
	Max   *int
}

// State is either valid or invalid with a reason. The zero value is valid.
type State struct {
	reason string
}

func Invalid(reason string) State {
	return State{reason: reason}
}

func (s State) IsValid() bool {
	return s.reason == ""
}

func (s State) Reason() string {
	return s.reason
}

// Evaluate applies the transitions in order: min above max, then stock
// outside [min, max], otherwise valid.
func Evaluate(b Bounds) State {
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		return Invalid(ReasonMinAboveMax)
	}
	if b.Stock != nil && b.Min != nil && b.Max != nil && (*b.Stock < *b.Min || *b.Stock > *b.Max) {
		return Invalid(ReasonStockOutOfBounds)
	}
	return State{}
}

func Int(v int) *int {
	return &v
}

func Float(v float64) *float64 {
	return &v
}
