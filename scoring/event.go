package scoring

import "fmt"

type EventType string

const (
	EventPoint       EventType = "point"
	EventAce         EventType = "ace"
	EventFault       EventType = "fault"
	EventDoubleFault EventType = "double_fault"
	EventSetServer   EventType = "set_server"
)

// Event is a discrete scoring input from a scorer client.
type Event struct {
	Type EventType `json:"type"`
	// Winner is required for EventPoint.
	Winner Side `json:"winner,omitempty"`
	// Participant is required for EventSetServer.
	Participant Side `json:"participant,omitempty"`
}

func PointTo(winner Side) Event {
	return Event{Type: EventPoint, Winner: winner}
}

func Ace() Event { return Event{Type: EventAce} }

func Fault() Event { return Event{Type: EventFault} }

func DoubleFault() Event { return Event{Type: EventDoubleFault} }

func ServerIs(participant Side) Event {
	return Event{Type: EventSetServer, Participant: participant}
}

// Validate checks the event shape without looking at match state.
func (e Event) Validate() error {
	switch e.Type {
	case EventPoint:
		return validateSide(e.Winner)
	case EventSetServer:
		return validateSide(e.Participant)
	case EventAce, EventFault, EventDoubleFault:
		return nil
	case "":
		return fmt.Errorf("%w: event type is required", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, e.Type)
	}
}

// Result describes what an event or an undo did to the match.
type Result struct {
	// Outcome is the deepest stage the event reached.
	Outcome Outcome `json:"outcome"`
	// Completed is set when this event finished the match.
	Completed bool `json:"completed"`
	// Reopened is set when an undo reverted the point that finished the match.
	Reopened bool `json:"reopened"`
	Winner   Side `json:"winner,omitempty"`
	SetsWon  Pair `json:"sets_won"`
}

// Summary is the score summary the host persists next to the state.
type Summary struct {
	Sets     []Pair `json:"sets"`
	SetsWon  Pair   `json:"sets_won"`
	Complete bool   `json:"complete"`
	Winner   Side   `json:"winner,omitempty"`
}
