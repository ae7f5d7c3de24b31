package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
)

func sampleState() models.SessionState {
	return models.SessionState{
		Plays: []models.Play{
			{ID: uuid.New(), BetNumber: "123", GameMode: models.GameModePick3, StraightAmount: models.Amount(1.5)},
			{ID: uuid.New(), BetNumber: "12-34", GameMode: models.GameModePale, BoxAmount: models.Amount(2)},
		},
		SelectedDate:   "2026-03-14",
		SelectedTracks: []string{"New York Evening", "Venezuela"},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "nested", "beastReaderState.json"))

	state, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, state, "missing file loads as nothing stored")

	want := sampleState()
	require.NoError(t, fs.Save(ctx, want))
	require.NoError(t, fs.Ping(ctx))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Plays, 2)
	assert.Equal(t, want.Plays[0].ID, got.Plays[0].ID)
	assert.True(t, want.Plays[0].StraightAmount.Equal(*got.Plays[0].StraightAmount))
	assert.Nil(t, got.Plays[0].BoxAmount)
	assert.Nil(t, got.Plays[1].StraightAmount)
	assert.Equal(t, want.SelectedDate, got.SelectedDate)
	assert.Equal(t, want.SelectedTracks, got.SelectedTracks)
}

func TestFileStoreWritesCamelCaseNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, NewFileStore(path).Save(context.Background(), sampleState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"selectedTracks"`)
	assert.Contains(t, string(data), `"straightAmount":1.5`)
	assert.Contains(t, string(data), `"boxAmount":null`)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.True(t, errors.Is(err, ErrCorruptState))
}

func TestLoadIntoRestoresSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)
	require.NoError(t, fs.Save(context.Background(), sampleState()))

	sess := session.New(session.DefaultConfig())
	LoadInto(context.Background(), fs, sess, logger.Discard())

	state := sess.State()
	require.Len(t, state.Plays, 2)
	assert.Equal(t, "2026-03-14", state.SelectedDate)
	assert.Equal(t, models.GameModePick3, state.Plays[0].GameMode)
}

func TestLoadIntoToleratesCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("[]]"), 0o600))

	sess := session.New(session.DefaultConfig())
	before := sess.State()
	LoadInto(context.Background(), NewFileStore(path), sess, logger.Discard())

	after := sess.State()
	assert.Empty(t, after.Plays)
	assert.Equal(t, before.SelectedDate, after.SelectedDate)
	assert.Equal(t, before.SelectedTracks, after.SelectedTracks)
}

func TestLoadIntoPartialState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"selectedTracks":["Real"],"plays":[{"betNumber":"12"}]}`), 0o600))

	sess := session.New(session.DefaultConfig())
	LoadInto(context.Background(), NewFileStore(path), sess, logger.Discard())

	state := sess.State()
	require.Len(t, state.Plays, 1)
	assert.NotEqual(t, uuid.Nil, state.Plays[0].ID)
	assert.Equal(t, models.GameModeRDQuiniela, state.Plays[0].GameMode)
	assert.Equal(t, []string{"Real"}, state.SelectedTracks)
}

func TestLoadIntoDefaultsUnreadableFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	blob := `{"selectedDate":"2026-05-05","selectedTracks":"Real","plays":[{"betNumber":"123"},{"betNumber":7}]}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	got, err := NewFileStore(path).Load(context.Background())
	assert.True(t, errors.Is(err, ErrPartialState))
	require.NotNil(t, got)
	assert.Nil(t, got.SelectedTracks)
	require.Len(t, got.Plays, 1)

	sess := session.New(session.DefaultConfig())
	before := sess.State()
	LoadInto(context.Background(), NewFileStore(path), sess, logger.Discard())

	state := sess.State()
	assert.Equal(t, "2026-05-05", state.SelectedDate)
	assert.Equal(t, before.SelectedTracks, state.SelectedTracks)
	require.Len(t, state.Plays, 1)
	assert.Equal(t, "123", state.Plays[0].BetNumber)
}

func TestLoadIntoDefaultsWrongPlaysType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"plays":"x","selectedTracks":["Real"]}`), 0o600))

	sess := session.New(session.DefaultConfig())
	LoadInto(context.Background(), NewFileStore(path), sess, logger.Discard())

	state := sess.State()
	assert.Empty(t, state.Plays)
	assert.Equal(t, []string{"Real"}, state.SelectedTracks)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("BEAST_READER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BEAST_READER_TEST_REDIS_ADDR not set, skipping redis test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ConnectRedis(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	rs := NewRedisStore(client, "test:"+uuid.NewString())
	defer rs.Close()

	got, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, rs.Save(ctx, sampleState()))
	got, err = rs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Plays, 2)
	require.NoError(t, client.Del(ctx, rs.key).Err())
}
