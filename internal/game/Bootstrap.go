package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Mshel/gridsnake/internal/grid"
)

// Bootstrap builds the grid, the score table and the configured bots. scores is
// nil when HighScoreDBPath is empty.
func Bootstrap(config *Config) (gm *GameManager, scores *HighScoreService, err error) {
	graph, err := grid.NewGraph(config.GridWidth, config.Holes...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build grid: %w", err)
	}

	var recorder ScoreRecorder
	if config.HighScoreDBPath != "" {
		scores, err = NewHighScoreService(config.HighScoreDBPath)
		if err != nil {
			return nil, nil, err
		}
		recorder = scores
	}

	gm = NewGameManager(config, graph, recorder)
	for _, botConfig := range config.Bots {
		if _, err := gm.AddBot(botConfig); err != nil {
			if scores != nil {
				scores.Close()
			}
			return nil, nil, err
		}
		log.Info("Bot added", "bot", botConfig.Name, "scripted", botConfig.Script != "")
	}
	return gm, scores, nil
}
