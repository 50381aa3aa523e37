package database

import (
	"testing"
	"time"

	"meme-scanner/agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordStore_AddReinforceAndDecay(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewKeywordStore(db)

	require.NoError(t, store.Add("Pepe", 80))
	require.NoError(t, store.Add("pepe", 80)) // reinforce: 80 + 40, capped at 100

	top, err := store.Top(10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "pepe", top[0].Term)
	assert.InDelta(t, 100, top[0].Score, 1e-9)

	// age the row past the half-life: one decay halves it and restarts
	// the clock
	stale := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&models.HotKeyword{}).
		Where("term = ?", "pepe").
		Update("last_seen", stale).Error)
	require.NoError(t, store.Decay(90*time.Minute, 5))

	top, err = store.Top(10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.InDelta(t, 50, top[0].Score, 1e-9)

	// immediate second decay is a no-op
	require.NoError(t, store.Decay(90*time.Minute, 5))
	top, err = store.Top(10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.InDelta(t, 50, top[0].Score, 1e-9)

	// below-floor terms are deleted once idle again
	require.NoError(t, db.Model(&models.HotKeyword{}).
		Where("term = ?", "pepe").
		Updates(map[string]interface{}{"score": 4, "last_seen": stale}).Error)
	require.NoError(t, store.Decay(90*time.Minute, 5))

	top, err = store.Top(10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
