package game

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mshel/gridsnake/internal/grid"
)

func newTestHighScores(t *testing.T) *HighScoreService {
	t.Helper()
	service, err := NewHighScoreService(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	return service
}

func TestHighScoreService_SaveAndRank(t *testing.T) {
	service := newTestHighScores(t)

	require.NoError(t, service.SavePlayersHighScore("short", 3, 40))
	require.NoError(t, service.SavePlayersHighScore("long", 12, 90))
	require.NoError(t, service.SavePlayersHighScore("patient", 3, 400))

	count, err := service.GetTotalScoreCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	scores, err := service.GetHighScores(10, 0)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "long", scores[0].PlayerName)
	assert.Equal(t, 12, scores[0].Length)
	assert.Equal(t, "patient", scores[1].PlayerName)
	assert.Equal(t, "short", scores[2].PlayerName)
	assert.False(t, scores[0].CreatedAt.IsZero())

	page, err := service.GetHighScores(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "patient", page[0].PlayerName)
}

func TestHighScoreService_RecordsFinishedRuns(t *testing.T) {
	service := newTestHighScores(t)
	gm, _ := newTestManager(t, 10, nil)
	gm.HighScores = service

	player, _, err := gm.CreateNewPlayer("runner", grid.Point{X: 5, Y: 5})
	require.NoError(t, err)
	frames(gm, 2)
	gm.RemovePlayer(player.ID)
	frames(gm, 1)

	scores, err := service.GetHighScores(10, 0)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "runner", scores[0].PlayerName)
	assert.Equal(t, 1, scores[0].Length)
	assert.Equal(t, 2, scores[0].Ticks)
}
