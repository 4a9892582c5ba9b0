package parser

// EventKind identifies a markup event.
type EventKind int

const (
	EnterHeading EventKind = iota
	ExitHeading
	EnterCodeBlock
	ExitCodeBlock
	Text
)

func (k EventKind) String() string {
	switch k {
	case EnterHeading:
		return "EnterHeading"
	case ExitHeading:
		return "ExitHeading"
	case EnterCodeBlock:
		return "EnterCodeBlock"
	case ExitCodeBlock:
		return "ExitCodeBlock"
	case Text:
		return "Text"
	}
	return "Unknown"
}

// Event is a single markup event in document order.
type Event struct {
	Kind   EventKind
	Level  int    // heading level, EnterHeading/ExitHeading only
	Info   string // fence info string, EnterCodeBlock/ExitCodeBlock only
	Text   string
	Offset int // byte offset of the event; on the opening fence line for EnterCodeBlock
}

// EventSource yields markup events in document order.
type EventSource interface {
	// Next returns the next event, or false when the document is exhausted.
	Next() (Event, bool)
	// Offset reports the byte offset of the event Next would return.
	// It never advances the source.
	Offset() int
}

// SliceSource is an EventSource over a precomputed event list.
type SliceSource struct {
	events []Event
	pos    int
	end    int
}

// NewSliceSource creates an EventSource over events; end is the offset
// reported once every event has been consumed.
func NewSliceSource(events []Event, end int) *SliceSource {
	return &SliceSource{events: events, end: end}
}

func (s *SliceSource) Next() (Event, bool) {
	if s.pos >= len(s.events) {
		return Event{}, false
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true
}

func (s *SliceSource) Offset() int {
	if s.pos >= len(s.events) {
		return s.end
	}
	return s.events[s.pos].Offset
}
