package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redmark/internal/domain"
	"redmark/internal/store"
)

// fakeSource replays a fixed sequence of batches, optionally failing on
// the last poll.
type fakeSource struct {
	batches [][]domain.RawNote
	err     error
	polls   int
}

func (f *fakeSource) Next(ctx context.Context) ([]domain.RawNote, bool, error) {
	if f.polls < len(f.batches) {
		batch := f.batches[f.polls]
		f.polls++
		return batch, true, nil
	}
	if f.err != nil {
		return nil, true, f.err
	}
	return nil, false, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testMerger(t *testing.T) (*Merger, *store.Store) {
	t.Helper()
	st := store.New(testLogger())
	m := NewMerger(st, "https://example.com", testLogger())
	m.now = func() time.Time {
		return time.Date(2026, 1, 2, 7, 4, 0, 0, time.UTC) // 15:04 in UTC+8
	}
	return m, st
}

func note(id string) domain.RawNote {
	return domain.RawNote{NoteID: id}
}

func TestDedupe(t *testing.T) {
	notes := []domain.RawNote{
		note("a"), note("b"), note("a"), {NoteID: ""}, note("c"), note("b"),
	}
	unique := Dedupe(notes)
	require.Len(t, unique, 3)
	assert.Equal(t, "a", unique[0].NoteID)
	assert.Equal(t, "b", unique[1].NoteID)
	assert.Equal(t, "c", unique[2].NoteID)
}

func TestMerge_AppendsOnlyUnknownIDs(t *testing.T) {
	m, _ := testMerger(t)

	coll := &domain.Collection{Items: []domain.Item{
		{ID: "1", Tags: []string{}},
		{ID: "2", Tags: []string{"X"}},
	}}

	added := m.Merge(coll, []domain.RawNote{note("2"), note("3")})
	assert.Equal(t, 1, added)
	require.Len(t, coll.Items, 3)
	assert.Equal(t, "3", coll.Items[2].ID)
	assert.Equal(t, []string{"X"}, coll.Items[1].Tags, "merge is additive-only, never corrective")
	assert.Equal(t, "2026-01-02 15:04", coll.LastFetch)
}

func TestMerge_Idempotent(t *testing.T) {
	m, _ := testMerger(t)
	coll := &domain.Collection{}
	batch := []domain.RawNote{note("a"), note("b")}

	assert.Equal(t, 2, m.Merge(coll, batch))
	assert.Equal(t, 0, m.Merge(coll, batch), "second merge of unchanged input adds nothing")
	assert.Len(t, coll.Items, 2)
	assert.NotEmpty(t, coll.LastFetch, "last_fetch still advances on an empty merge")
}

func TestMerge_NewItemFields(t *testing.T) {
	m, _ := testMerger(t)
	coll := &domain.Collection{}

	m.Merge(coll, []domain.RawNote{{
		NoteID:       "abcdef123456",
		DisplayTitle: "标题",
		Type:         "normal",
		XsecToken:    "tok",
		User:         domain.RawUser{Nickname: "author", UserID: "u1"},
		Cover:        domain.RawCover{URL: "https://img.example.com/c.jpg"},
	}})

	require.Len(t, coll.Items, 1)
	item := coll.Items[0]
	assert.Equal(t, "标题", item.Title)
	assert.Equal(t, "author", item.Author)
	assert.Equal(t, "u1", item.AuthorID)
	assert.Equal(t, "https://example.com/explore/abcdef123456", item.URL)
	assert.Equal(t, "tok", item.XsecToken)
	assert.Equal(t, item.FirstSeen, item.SavedAt)
	assert.False(t, item.Reviewed)
	assert.False(t, item.Removed)
	assert.NotNil(t, item.Tags)
	assert.Empty(t, item.Tags)
}

func TestMerge_PlaceholderTitle(t *testing.T) {
	m, _ := testMerger(t)
	coll := &domain.Collection{}

	m.Merge(coll, []domain.RawNote{note("abcdef123456"), note("xy")})
	require.Len(t, coll.Items, 2)
	assert.Equal(t, "笔记 abcdef12", coll.Items[0].Title)
	assert.Equal(t, "笔记 xy", coll.Items[1].Title)
}

func TestFetchAndMerge(t *testing.T) {
	m, st := testMerger(t)
	path := filepath.Join(t.TempDir(), "likes.json")

	src := &fakeSource{batches: [][]domain.RawNote{
		{note("a"), note("b")},
		{note("b"), note("c")},
	}}
	added, err := m.FetchAndMerge(context.Background(), src, path)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	coll, err := st.LoadCollection(path)
	require.NoError(t, err)
	require.Len(t, coll.Items, 3)

	// A second run over the same stream finds nothing new.
	again, err := m.FetchAndMerge(context.Background(), &fakeSource{
		batches: [][]domain.RawNote{{note("a"), note("b"), note("c")}},
	}, path)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
}

func TestFetchAndMerge_SourceFailureKeepsPartialData(t *testing.T) {
	m, st := testMerger(t)
	path := filepath.Join(t.TempDir(), "likes.json")

	src := &fakeSource{
		batches: [][]domain.RawNote{{note("a")}},
		err:     errors.New("browser went away"),
	}
	added, err := m.FetchAndMerge(context.Background(), src, path)
	require.NoError(t, err, "capture failure is absorbed, not fatal")
	assert.Equal(t, 1, added)

	coll, err := st.LoadCollection(path)
	require.NoError(t, err)
	assert.Len(t, coll.Items, 1)
}
