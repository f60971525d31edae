package demo

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoteNotFound is returned when no note has the requested ID.
var ErrNoteNotFound = errors.New("note not found")

// Note is a stored note.
type Note struct {
	ID      uuid.UUID `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Body    string    `json:"body,omitempty" yaml:"body,omitempty"`
	Tags    []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Created time.Time `json:"created" yaml:"created"`
	Updated time.Time `json:"updated" yaml:"updated"`
}

// NoteInput is the request body for creating or replacing a note.
type NoteInput struct {
	Title string   `json:"title" yaml:"title" validate:"required,max=120"`
	Body  string   `json:"body" yaml:"body" validate:"max=4096"`
	Tags  []string `json:"tags" yaml:"tags" validate:"max=8,dive,alphanum"`
}

// Store keeps notes in memory.
type Store struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]Note
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{notes: make(map[uuid.UUID]Note), now: time.Now}
}

// Create stores a new note built from in.
func (s *Store) Create(in NoteInput) Note {
	now := s.now().UTC()
	n := Note{
		ID:      uuid.New(),
		Title:   in.Title,
		Body:    in.Body,
		Tags:    slices.Clone(in.Tags),
		Created: now,
		Updated: now,
	}

	s.mu.Lock()
	s.notes[n.ID] = n
	s.mu.Unlock()
	return n
}

// Get returns the note with the given ID.
func (s *Store) Get(id uuid.UUID) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}

// Replace overwrites the note with the given ID.
func (s *Store) Replace(id uuid.UUID, in NoteInput) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	n.Title, n.Body, n.Tags = in.Title, in.Body, slices.Clone(in.Tags)
	n.Updated = s.now().UTC()
	s.notes[id] = n
	return n, nil
}

// Delete removes the note with the given ID.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

// List returns notes ordered by creation time, optionally filtered by tag.
// A limit of zero or less means no limit.
func (s *Store) List(tag string, limit int) []Note {
	s.mu.RLock()
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if tag == "" || slices.Contains(n.Tags, tag) {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Note) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
