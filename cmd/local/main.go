package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/logging"
	"github.com/Mshel/gridsnake/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := game.LoadConfig(os.Getenv(game.ConfigEnvVar))
	if err != nil {
		return err
	}

	// the terminal belongs to the game, so logs only go to a file
	logCloser, err := logging.Setup(logging.Options{Level: config.Log.Level, File: config.Log.File})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	gameManager, scores, err := game.Bootstrap(config)
	if err != nil {
		return err
	}
	var scoreBoard ui.ScoreBoard
	if scores != nil {
		defer scores.Close()
		scoreBoard = scores
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gameManager.StartGameLoop(ctx)

	p := tea.NewProgram(ui.NewControllerModel(ctx, gameManager, scoreBoard, 0, 0), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
