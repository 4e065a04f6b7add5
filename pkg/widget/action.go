package widget

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Action is one user gesture mapped to a state transition.
type Action struct {
	Type  string `json:"type" form:"type" binding:"required"`
	ID    string `json:"id,omitempty" form:"id"`
	Text  string `json:"text,omitempty" form:"text"`
	Value string `json:"value,omitempty" form:"value"`
}

func (a Action) String() string {
	switch {
	case a.ID != "":
		return fmt.Sprintf("%s(%s)", a.Type, a.ID)
	case a.Text != "":
		return fmt.Sprintf("%s(%q)", a.Type, a.Text)
	case a.Value != "":
		return fmt.Sprintf("%s(%s)", a.Type, a.Value)
	default:
		return a.Type
	}
}

// Input names the Action field an action reads its argument from.
type Input string

const (
	InputNone  Input = ""
	InputID    Input = "id"
	InputText  Input = "text"
	InputValue Input = "value"
)

// ActionSpec documents an action a widget accepts.
type ActionSpec struct {
	Type  string
	Help  string
	Input Input
	// Row marks actions that target an existing item by id.
	Row bool
}

// Env carries the impure inputs a reducer needs so that it can stay a pure
// function of (state, action, env).
type Env struct {
	Now   time.Time
	NewID func() string
	Rand  *rand.Rand
}

var (
	// ErrNoChange is returned by reducers for accepted actions that leave state
	// untouched, such as toggling an id that no longer exists.
	ErrNoChange = errors.New("widget: no change")
	// ErrUnknownAction is returned for action types a widget does not handle.
	ErrUnknownAction = errors.New("widget: unknown action")
	// ErrNotLoaded is returned when a controller is used before Load.
	ErrNotLoaded = errors.New("widget: state not loaded")
)

// ValidationError rejects an action. Message is shown to the user briefly and
// the state stays as it was.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "widget: invalid input: " + e.Message
}

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Unknown wraps ErrUnknownAction with the offending type.
func Unknown(a Action) error {
	return fmt.Errorf("%w %q", ErrUnknownAction, a.Type)
}
