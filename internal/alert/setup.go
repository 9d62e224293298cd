package alert

import (
	"fmt"
	"strconv"
)

// SetupPhase tracks progress through the interactive alert creation flow.
type SetupPhase int

const (
	// SetupIdle means no alert is being created.
	SetupIdle SetupPhase = iota
	// SetupSelectingCondition means the user is cycling through conditions.
	SetupSelectingCondition
	// SetupEnteringPrice means the user is typing the target price.
	SetupEnteringPrice
)

// Setup is the small state machine behind interactive alert creation:
// pick a condition, type a price, confirm. It holds no live market data
// and is driven entirely by key events.
type Setup struct {
	phase     SetupPhase
	symbol    string
	condIdx   int
	condition Condition
	buffer    string
}

// NewSetup returns a setup machine in the idle phase.
func NewSetup() *Setup {
	return &Setup{}
}

// Phase returns the current phase.
func (s *Setup) Phase() SetupPhase { return s.phase }

// Symbol returns the symbol the alert under construction targets.
func (s *Setup) Symbol() string { return s.symbol }

// Buffer returns the price input typed so far.
func (s *Setup) Buffer() string { return s.buffer }

// Begin enters condition selection for the given symbol.
func (s *Setup) Begin(symbol string) {
	s.phase = SetupSelectingCondition
	s.symbol = symbol
	s.condIdx = 0
	s.buffer = ""
}

// Cancel returns to idle, discarding any partial input.
func (s *Setup) Cancel() {
	*s = Setup{}
}

// SelectedCondition returns the condition currently highlighted.
func (s *Setup) SelectedCondition() Condition {
	if s.phase == SetupEnteringPrice {
		return s.condition
	}
	return Conditions[s.condIdx]
}

// NextCondition advances the highlighted condition, wrapping around.
func (s *Setup) NextCondition() {
	if s.phase == SetupSelectingCondition {
		s.condIdx = (s.condIdx + 1) % len(Conditions)
	}
}

// PrevCondition moves the highlight back, wrapping around.
func (s *Setup) PrevCondition() {
	if s.phase == SetupSelectingCondition {
		s.condIdx = (s.condIdx + len(Conditions) - 1) % len(Conditions)
	}
}

// ConfirmCondition locks in the highlighted condition and moves to price
// entry.
func (s *Setup) ConfirmCondition() {
	if s.phase != SetupSelectingCondition {
		return
	}
	s.condition = Conditions[s.condIdx]
	s.phase = SetupEnteringPrice
	s.buffer = ""
}

// Type appends a character to the price buffer. Only digits and a single
// decimal point are accepted.
func (s *Setup) Type(ch rune) {
	if s.phase != SetupEnteringPrice {
		return
	}
	if ch >= '0' && ch <= '9' {
		s.buffer += string(ch)
		return
	}
	if ch == '.' && !containsDot(s.buffer) {
		s.buffer += "."
	}
}

// Backspace removes the last typed character.
func (s *Setup) Backspace() {
	if s.phase == SetupEnteringPrice && len(s.buffer) > 0 {
		s.buffer = s.buffer[:len(s.buffer)-1]
	}
}

// Commit parses the buffer and returns the finished alert, resetting the
// machine to idle on success. A missing or negative price is an error and
// leaves the machine in price entry.
func (s *Setup) Commit() (Alert, error) {
	if s.phase != SetupEnteringPrice {
		return Alert{}, fmt.Errorf("no alert in progress")
	}
	price, err := strconv.ParseFloat(s.buffer, 64)
	if err != nil {
		return Alert{}, fmt.Errorf("invalid price %q", s.buffer)
	}
	if price < 0 {
		return Alert{}, fmt.Errorf("price must not be negative")
	}

	a := Alert{Symbol: s.symbol, Condition: s.condition, TargetPrice: price}
	*s = Setup{}
	return a, nil
}

func containsDot(s string) bool {
	for _, ch := range s {
		if ch == '.' {
			return true
		}
	}
	return false
}
