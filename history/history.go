/*
Package history implements a bounded undo/redo stack of raster snapshots.
Undo followed by Redo leaves the buffer bit-for-bit as it was.

Each entry is the state of the buffer taken before an edit. The undo side is
a fixed size ring so the oldest entry is overwritten once the stack is full;
the redo side only ever holds entries moved off the undo side.
*/
package history

import (
	"errors"

	"github.com/bodgit/mifont/raster"
)

// DefaultDepth is the number of edits that can be undone.
const DefaultDepth = 50

// ErrEmpty is returned by Undo and Redo when there is nothing to restore.
var ErrEmpty = errors.New("history: nothing to restore")

// Stack is an undo/redo history.
type Stack struct {
	ring  []raster.Snapshot
	head  int // oldest entry
	count int
	redo  []raster.Snapshot

	subscribers []func()
}

// New returns an empty stack that holds up to depth undo entries.
func New(depth int) *Stack {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Stack{
		ring: make([]raster.Snapshot, depth),
	}
}

// Subscribe registers fn to be called whenever the stack changes.
func (s *Stack) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Stack) notify() {
	for _, fn := range s.subscribers {
		fn()
	}
}

func (s *Stack) Depth() int { return len(s.ring) }

func (s *Stack) Len() int { return s.count }

func (s *Stack) CanUndo() bool { return s.count > 0 }

func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

func (s *Stack) push(snap raster.Snapshot) {
	if s.count == len(s.ring) {
		// Evict the oldest entry
		s.ring[s.head] = snap
		s.head = (s.head + 1) % len(s.ring)
		return
	}
	s.ring[(s.head+s.count)%len(s.ring)] = snap
	s.count++
}

func (s *Stack) pop() raster.Snapshot {
	s.count--
	i := (s.head + s.count) % len(s.ring)
	snap := s.ring[i]
	s.ring[i] = raster.Snapshot{}
	return snap
}

// Commit records before, the state of the buffer prior to an edit. Any redo
// entries are discarded.
func (s *Stack) Commit(before raster.Snapshot) {
	s.push(before)
	s.redo = s.redo[:0]
	s.notify()
}

// Undo restores b to the state before the most recent edit, remembering the
// current state so the edit can be redone.
func (s *Stack) Undo(b *raster.Buffer) error {
	if s.count == 0 {
		return ErrEmpty
	}
	current := b.Snapshot()
	if err := b.Restore(s.ring[(s.head+s.count-1)%len(s.ring)]); err != nil {
		return err
	}
	s.pop()
	s.redo = append(s.redo, current)
	s.notify()
	return nil
}

// Redo reapplies the most recently undone edit to b.
func (s *Stack) Redo(b *raster.Buffer) error {
	if len(s.redo) == 0 {
		return ErrEmpty
	}
	current := b.Snapshot()
	if err := b.Restore(s.redo[len(s.redo)-1]); err != nil {
		return err
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.push(current)
	s.notify()
	return nil
}

// Reset discards every entry.
func (s *Stack) Reset() {
	for i := range s.ring {
		s.ring[i] = raster.Snapshot{}
	}
	s.head, s.count = 0, 0
	s.redo = nil
	s.notify()
}
