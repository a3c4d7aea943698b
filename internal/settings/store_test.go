package settings

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/existflow/sheetboard/internal/db"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestStore_LoadBeforeSave(t *testing.T) {
	s := NewStore(openDB(t), nil)

	got, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, model.DefaultSettings(), got)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(openDB(t), nil)
	in := model.Settings{SheetID: "sheet", SheetRange: "Tasks!A:E", APIKey: "plain", RefreshInterval: 0}

	require.NoError(t, s.Save(ctx, in))
	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, got)

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PartialRecordKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	require.NoError(t, database.PutSetting(ctx, Key, `{"sheetId":"abc"}`))

	got, ok, err := NewStore(database, nil).Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", got.SheetID)
	assert.Equal(t, "A:E", got.SheetRange)
	assert.Equal(t, 5, got.RefreshInterval)
}

func TestStore_SealedKey(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	in := model.Settings{SheetID: "sheet", SheetRange: "A:E", APIKey: "AIza-secret", RefreshInterval: 5}

	require.NoError(t, NewStore(database, NewSealer("passphrase")).Save(ctx, in))

	raw, _, err := database.GetSetting(ctx, Key)
	require.NoError(t, err)
	assert.NotContains(t, raw, "AIza-secret")
	assert.True(t, strings.Contains(raw, sealedPrefix))

	got, _, err := NewStore(database, NewSealer("passphrase")).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	_, _, err = NewStore(database, nil).Load(ctx)
	assert.ErrorIs(t, err, ErrSealed)

	_, _, err = NewStore(database, NewSealer("wrong")).Load(ctx)
	assert.ErrorContains(t, err, "decryption failed")
}

func TestSealer_PassThrough(t *testing.T) {
	var s *Sealer
	v, err := s.Seal("key")
	require.NoError(t, err)
	assert.Equal(t, "key", v)

	v, err = NewSealer("x").Open("not-sealed")
	require.NoError(t, err)
	assert.Equal(t, "not-sealed", v)

	_, err = NewSealer("x").Open(sealedPrefix + "garbage")
	assert.Error(t, err)
}
