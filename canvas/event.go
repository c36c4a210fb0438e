package canvas

import "image"

// EventKind identifies what changed on the canvas.
type EventKind int

// Event kinds
const (
	HistoryChanged EventKind = iota
	SelectionChanged
	CharacterJumped
	PixelChanged
	PreviewChanged
)

// Event describes a change on the canvas. Code is set for CharacterJumped
// and Point for PixelChanged.
type Event struct {
	Kind  EventKind
	Code  int
	Point image.Point
}

// Subscribe registers fn to be called for every event.
func (c *Canvas) Subscribe(fn func(Event)) {
	c.subscribers = append(c.subscribers, fn)
}

func (c *Canvas) emit(e Event) {
	for _, fn := range c.subscribers {
		fn(e)
	}
}
