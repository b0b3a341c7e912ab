package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotify/quotifyd/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "quotify-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuote() models.Quote {
	return models.Quote{
		Text:     "Stay hungry, stay foolish.",
		Author:   "Steve Jobs",
		Category: "Inspiration",
	}
}

func TestStore_SaveQuote(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveQuote(sampleQuote())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, sampleQuote(), saved.Quote)
	assert.False(t, saved.SavedAt.IsZero())
}

func TestStore_SaveQuote_RejectsDuplicate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveQuote(sampleQuote())
	require.NoError(t, err)

	_, err = s.SaveQuote(sampleQuote())
	assert.ErrorIs(t, err, ErrAlreadySaved)

	// Same text by a different author is a different quote
	other := sampleQuote()
	other.Author = "Unknown"
	_, err = s.SaveQuote(other)
	assert.NoError(t, err)
}

func TestStore_ListSaved(t *testing.T) {
	s := newTestStore(t)

	list, err := s.ListSaved()
	require.NoError(t, err)
	assert.Empty(t, list)

	first, err := s.SaveQuote(sampleQuote())
	require.NoError(t, err)
	second, err := s.SaveQuote(models.Quote{Text: "Less is more.", Author: "Mies van der Rohe", Category: "Wisdom"})
	require.NoError(t, err)

	list, err = s.ListSaved()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, "Less is more.", list[1].Quote.Text)
}

func TestStore_DeleteSaved(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveQuote(sampleQuote())
	require.NoError(t, err)
	require.NoError(t, s.AttachNote(saved.Quote.Key(), "Resonates with me"))

	require.NoError(t, s.DeleteSaved(saved.ID))

	list, err := s.ListSaved()
	require.NoError(t, err)
	assert.Empty(t, list)

	// The attached note goes with the quote
	note, err := s.Note(saved.Quote.Key())
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestStore_DeleteSaved_UnknownID(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteSaved("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ClearAll(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveQuote(sampleQuote())
	require.NoError(t, err)
	require.NoError(t, s.AttachNote(saved.Quote.Key(), "Keeper"))

	require.NoError(t, s.ClearAll())

	list, err := s.ListSaved()
	require.NoError(t, err)
	assert.Empty(t, list)

	notes, err := s.Notes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStore_AttachNote(t *testing.T) {
	s := newTestStore(t)
	key := sampleQuote().Key()

	require.NoError(t, s.AttachNote(key, "First impression"))

	note, err := s.Note(key)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "First impression", note.Note)
	assert.False(t, note.Date.IsZero())

	// Writing again replaces the note
	require.NoError(t, s.AttachNote(key, "Second thoughts"))
	note, err = s.Note(key)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "Second thoughts", note.Note)

	// An empty note removes the entry
	require.NoError(t, s.AttachNote(key, ""))
	note, err = s.Note(key)
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestStore_Notes(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AttachNote("one|A", "note one"))
	require.NoError(t, s.AttachNote("two|B", "note two"))

	notes, err := s.Notes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "note one", notes["one|A"].Note)
	assert.Equal(t, "note two", notes["two|B"].Note)
}

func TestStore_Settings(t *testing.T) {
	s := newTestStore(t)

	value, err := s.Setting("theme")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, s.SetSetting("theme", "dark"))
	value, err = s.Setting("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)

	require.NoError(t, s.SetSetting("theme", "light"))
	value, err = s.Setting("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)
}
