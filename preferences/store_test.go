package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goGate/storage/memory"
)

func TestLoadDefaultsWhenNothingStored(t *testing.T) {
	s := NewStore(memory.New(nil), nil)
	l, err := s.Load(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)
}

func TestSaveLoadLastWriteWins(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(nil)
	s := NewStore(mem, nil)

	_, err := s.Save(ctx, "1", []byte(`{"mode":"custom","widgets":[{"id":"stats","column":1,"order":0}]}`))
	require.NoError(t, err)
	_, err = s.Save(ctx, "1", []byte(`{"mode":"custom","widgets":[{"id":"tasks","column":0,"order":2,"hidden":true}]}`))
	require.NoError(t, err)

	l, err := s.Load(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, Layout{Mode: ModeCustom, Widgets: []Widget{{ID: "tasks", Column: 0, Order: 2, Hidden: true}}}, l)

	_, ok, _ := mem.Get(ctx, "dashboardLayout:1")
	assert.True(t, ok)

	other, err := s.Load(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, ModeDefault, other.Mode)
}

func TestSaveRejectsBadShape(t *testing.T) {
	s := NewStore(memory.New(nil), nil)
	docs := []string{
		`not json`,
		`{"mode":"grid","widgets":[]}`,
		`{"mode":"custom"}`,
		`{"mode":"custom","widgets":[{"id":"","column":0,"order":0}]}`,
		`{"mode":"custom","widgets":[{"id":"a","column":9,"order":0}]}`,
		`{"mode":"custom","widgets":[{"id":"a","column":0,"order":1.5}]}`,
		`{"mode":"custom","widgets":[],"extra":true}`,
		`{"mode":"custom","widgets":[]} {}`,
	}
	for _, doc := range docs {
		_, err := s.Save(context.Background(), "1", []byte(doc))
		assert.ErrorIs(t, err, ErrInvalidLayout, doc)
	}
}

func TestLoadDiscardsInvalidStoredLayout(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(map[string]string{Key("1"): `{"mode":"custom","widgets":"nope"}`})

	var warned error
	s := NewStore(mem, func(_ string, err error) { warned = err })

	l, err := s.Load(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)
	assert.True(t, errors.Is(warned, ErrInvalidLayout))
}

func TestResetAndUserRequired(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New(nil), nil)

	require.NoError(t, s.SaveLayout(ctx, "1", Layout{Mode: ModeCustom, Widgets: []Widget{{ID: "stats"}}}))
	require.NoError(t, s.Reset(ctx, "1"))
	l, err := s.Load(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, ModeDefault, l.Mode)

	_, err = s.Save(ctx, "", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUserRequired)
	_, err = s.Load(ctx, "")
	assert.ErrorIs(t, err, ErrUserRequired)
	assert.ErrorIs(t, s.Reset(ctx, ""), ErrUserRequired)
}

func TestDefaultLayoutValidates(t *testing.T) {
	s := NewStore(memory.New(nil), nil)
	require.NoError(t, s.SaveLayout(context.Background(), "1", DefaultLayout()))
}
