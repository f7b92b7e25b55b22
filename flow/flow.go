// Package flow drives the booking screens: which state a session is in,
// which transitions its current state allows, and which parameters move
// forward with it.
package flow

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/onlycabs/booking-backend/booking"
)

// State identifies a screen in the flow.
type State string

const (
	Start                    State = "start"
	Onboarding               State = "onboarding"
	DriverRegistration       State = "driver_registration"
	LocationAndRideSelection State = "location_and_ride_selection"
	QuoteSummary             State = "quote_summary"
	DriverAssignment         State = "driver_assignment"
)

var (
	// ErrInvalidTransition is reported when an action is triggered from a
	// state that does not allow it.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrNotReady is reported when the ride-selection guard fails:
	// pickup, dropoff, or ride class missing.
	ErrNotReady = errors.New("pickup, dropoff and ride class are required")
	// ErrActionInFlight is reported when a second submission lands while
	// one is still running for the same session.
	ErrActionInFlight = errors.New("another action is in progress")
)

// frame is one back-stack entry: the state to return to and the draft as
// it was before the leaving submission applied its parameters.
type frame struct {
	state State
	draft booking.Draft
}

// Session is one rider's pass through the flow. Parameters move forward
// only through the session's draft; later screens never read the
// persisted booking back from storage.
type Session struct {
	ID uuid.UUID

	mu    sync.Mutex
	state State
	stack []frame
	draft booking.Draft
	busy  bool
}

func NewSession() *Session {
	return &Session{
		ID:    uuid.New(),
		state: Start,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the carried parameters.
func (s *Session) Draft() booking.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// BeginAction marks the session busy for the duration of a submission.
// The source UI let a second tap race the first; rejecting it here is a
// deliberate improvement.
func (s *Session) BeginAction() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrActionInFlight
	}
	s.busy = true
	return nil
}

func (s *Session) EndAction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// advance pushes the current state and draft onto the back stack and
// enters next.
func (s *Session) advance(next State) {
	s.stack = append(s.stack, frame{state: s.state, draft: s.draft})
	s.state = next
}

// Begin starts the flow: Start → Onboarding, no guard.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Start {
		return ErrInvalidTransition
	}
	s.advance(Onboarding)
	return nil
}

// EnterDriverRegistration takes the optional registration branch.
func (s *Session) EnterDriverRegistration() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Onboarding {
		return ErrInvalidTransition
	}
	s.advance(DriverRegistration)
	return nil
}

// CompleteOnboarding carries {name, age} forward into the selection
// screen. The persistence write happens outside the flow and is not
// required to have succeeded.
func (s *Session) CompleteOnboarding(name string, age int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Onboarding {
		return ErrInvalidTransition
	}
	// Snapshot first: going Back from the selection screen discards the
	// carried {name, age} rather than restoring them into the form.
	s.advance(LocationAndRideSelection)
	s.draft.UserName = name
	s.draft.UserAge = age
	return nil
}

// CompleteDriverRegistration moves a registered driver into the
// selection screen. Driver identity is not carried on the draft.
func (s *Session) CompleteDriverRegistration() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != DriverRegistration {
		return ErrInvalidTransition
	}
	s.advance(LocationAndRideSelection)
	return nil
}

// CompleteSelection carries the trip parameters forward into the quote
// screen. Guard: pickup and dropoff non-empty and a valid ride class.
// Callers must have persisted the booking record first; this transition
// assumes that write succeeded.
func (s *Session) CompleteSelection(pickup, dropoff string, ride booking.RideClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != LocationAndRideSelection {
		return ErrInvalidTransition
	}
	draft := s.draft
	draft.PickUp = pickup
	draft.DropOff = dropoff
	draft.SelectRide(ride)
	if !draft.ReadyToBook() {
		return ErrNotReady
	}
	s.advance(QuoteSummary)
	s.draft = draft
	return nil
}

// ResolveQuote records the fetched fare, distance and routing info on the
// draft while the quote screen is showing.
func (s *Session) ResolveQuote(fare, distanceKM, surge float64, transitInfo, bestRouteInfo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != QuoteSummary {
		return ErrInvalidTransition
	}
	s.draft.Fare = fare
	s.draft.DistanceKM = distanceKM
	s.draft.SurgeMultiplier = surge
	s.draft.TransitInfo = transitInfo
	s.draft.BestRouteInfo = bestRouteInfo
	return nil
}

// BookNow confirms the quote: QuoteSummary → DriverAssignment. No guard
// beyond having reached the quote screen.
func (s *Session) BookNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != QuoteSummary {
		return ErrInvalidTransition
	}
	s.advance(DriverAssignment)
	return nil
}

// GoHome closes the loop: DriverAssignment → Start, dropping everything
// carried through the session.
func (s *Session) GoHome() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != DriverAssignment {
		return ErrInvalidTransition
	}
	s.state = Start
	s.stack = nil
	s.draft = booking.Draft{}
	return nil
}

// Back returns to the previous state, discarding the parameters
// accumulated since entering the state being left. Nothing is restored
// from any saved draft; the draft simply reverts to what it was when the
// flow last left the previous state.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return ErrInvalidTransition
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.state = top.state
	s.draft = top.draft
	return nil
}
