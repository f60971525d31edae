package demo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ListOrdersByCreation(t *testing.T) {
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	a := s.Create(NoteInput{Title: "a"})
	b := s.Create(NoteInput{Title: "b", Tags: []string{"x"}})
	c := s.Create(NoteInput{Title: "c", Tags: []string{"x"}})

	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, ids(s.List("", 0)))
	assert.Equal(t, []uuid.UUID{b.ID, c.ID}, ids(s.List("x", 0)))
	assert.Equal(t, []uuid.UUID{a.ID}, ids(s.List("", 1)))
}

func TestStore_ReplaceAndDelete(t *testing.T) {
	s := NewStore()
	n := s.Create(NoteInput{Title: "a", Tags: []string{"x"}})

	in := NoteInput{Title: "b", Tags: []string{"y"}}
	got, err := s.Replace(n.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
	assert.Equal(t, n.Created, got.Created)

	// La nota guardada no comparte el slice de entrada.
	in.Tags[0] = "z"
	stored, err := s.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, stored.Tags)

	require.NoError(t, s.Delete(n.ID))
	assert.ErrorIs(t, s.Delete(n.ID), ErrNoteNotFound)
	_, err = s.Replace(n.ID, in)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func ids(notes []Note) []uuid.UUID {
	out := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
