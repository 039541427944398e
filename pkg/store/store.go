// Package store holds the shared state that keeps every chart view in sync.
// Views subscribe to the keys they care about and re-render on notification;
// user interaction flows back in through the typed mutators.
package store

import (
	"log"
	"runtime/debug"
)

type Key string

const (
	KeySelectedSchool   Key = "selected_school"
	KeyHoveredSchool    Key = "hovered_school"
	KeyConferenceFilter Key = "conference_filter"
	KeyMatrixSort       Key = "matrix_sort"
	KeyCurrentSection   Key = "current_section"
)

// FilterAll is the conference filter value that shows every school.
const FilterAll = "all"

// SortOrder enumerates the matrix view's column orderings.
type SortOrder string

const (
	SortConference SortOrder = "conference"
	SortTropeCount SortOrder = "trope_count"
	SortYear       SortOrder = "year"
	SortBPM        SortOrder = "bpm"
)

// Snapshot is the full state at notification time.
type Snapshot map[Key]any

// Callback receives the new value for the key it subscribed to, plus a
// snapshot of the whole state.
type Callback func(value any, state Snapshot)

type subscriber struct {
	id int
	fn Callback
}

// Store is a keyed state container with synchronous subscribe/notify
// semantics. It is not safe for concurrent use from multiple goroutines; all
// mutation happens on the game loop, mirroring a single UI thread.
type Store struct {
	state  map[Key]any
	subs   map[Key][]subscriber
	nextID int
}

func New() *Store {
	s := &Store{
		state: make(map[Key]any),
		subs:  make(map[Key][]subscriber),
	}
	s.state[KeyConferenceFilter] = FilterAll
	s.state[KeyMatrixSort] = SortConference
	s.state[KeyCurrentSection] = 0
	return s
}

// Get returns the current value for key, or nil if it was never set.
func (s *Store) Get(key Key) any {
	return s.state[key]
}

// Set replaces the value for key and notifies that key's subscribers. A
// write that does not change the value is a no-op. Notification is
// synchronous; a callback may call Set again and the cascade runs inline.
func (s *Store) Set(key Key, value any) {
	if s.state[key] == value {
		return
	}
	s.state[key] = value
	// Copy the registration list so unsubscribing from inside a callback
	// cannot shift entries out from under the loop.
	subs := make([]subscriber, len(s.subs[key]))
	copy(subs, s.subs[key])
	for _, sub := range subs {
		s.invoke(key, sub, s.state[key])
	}
}

func (s *Store) invoke(key Key, sub subscriber, value any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[STORE] subscriber panic on %q: %v\n%s", key, r, debug.Stack())
		}
	}()
	snap := make(Snapshot, len(s.state))
	for k, v := range s.state {
		snap[k] = v
	}
	sub.fn(value, snap)
}

// Update is a single entry of a SetMany batch.
type Update struct {
	Key   Key
	Value any
}

// SetMany applies Set for each update in order.
func (s *Store) SetMany(updates []Update) {
	for _, u := range updates {
		s.Set(u.Key, u.Value)
	}
}

// Subscribe registers fn for future notifications on key and returns a
// function that removes exactly this registration. Multiple subscriptions to
// the same key are independent.
func (s *Store) Subscribe(key Key, fn Callback) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.subs[key] = append(s.subs[key], subscriber{id: id, fn: fn})
	return func() {
		list := s.subs[key]
		for i, sub := range list {
			if sub.id == id {
				s.subs[key] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Convenience mutators for the well-known keys. School values are stored as
// the school's name so equality gating stays a plain comparison; nil-style
// clears use the empty string.

func (s *Store) SelectSchool(name string)      { s.Set(KeySelectedSchool, name) }
func (s *Store) HoverSchool(name string)       { s.Set(KeyHoveredSchool, name) }
func (s *Store) SetConferenceFilter(c string)  { s.Set(KeyConferenceFilter, c) }
func (s *Store) SetMatrixSort(order SortOrder) { s.Set(KeyMatrixSort, order) }
func (s *Store) SetSection(idx int)            { s.Set(KeyCurrentSection, idx) }

func (s *Store) SelectedSchool() string { v, _ := s.Get(KeySelectedSchool).(string); return v }
func (s *Store) HoveredSchool() string  { v, _ := s.Get(KeyHoveredSchool).(string); return v }

func (s *Store) ConferenceFilter() string {
	if v, ok := s.Get(KeyConferenceFilter).(string); ok {
		return v
	}
	return FilterAll
}

func (s *Store) MatrixSort() SortOrder {
	if v, ok := s.Get(KeyMatrixSort).(SortOrder); ok {
		return v
	}
	return SortConference
}

func (s *Store) CurrentSection() int {
	if v, ok := s.Get(KeyCurrentSection).(int); ok {
		return v
	}
	return 0
}
