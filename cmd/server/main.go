package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/logging"
	"github.com/Mshel/gridsnake/internal/netplay"
	"github.com/Mshel/gridsnake/internal/ui"
)

func main() {
	config, err := game.LoadConfig(os.Getenv(game.ConfigEnvVar))
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	logCloser, err := logging.Setup(logging.Options{Level: config.Log.Level, File: config.Log.File, Console: true})
	if err != nil {
		log.Fatal("Failed to set up logging", "error", err)
	}
	defer logCloser.Close()

	gameManager, scores, err := game.Bootstrap(config)
	if err != nil {
		log.Fatal("Failed to start game", "error", err)
	}
	var scoreBoard ui.ScoreBoard
	if scores != nil {
		defer scores.Close()
		scoreBoard = scores
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go gameManager.StartGameLoop(ctx)

	var wsServer *http.Server
	if config.WebsocketAddr != "" {
		wsServer = &http.Server{Addr: config.WebsocketAddr, Handler: netplay.NewServer(gameManager, 0).Handler()}
		go func() {
			log.Info("Starting websocket server", "addr", config.WebsocketAddr)
			if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Could not start websocket server", "error", err)
				stop()
			}
		}()
	}

	limiter := newConnectionLimiter(config.SSH.MaxConnectionsPerIP)
	viewHandler := func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()
		controllerModel := ui.NewControllerModel(sshSession.Context(), gameManager, scoreBoard, pty.Window.Width, pty.Window.Height)
		return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
	}

	sshServer, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(config.SSH.Host, config.SSH.Port)),
		wish.WithHostKeyPath(config.SSH.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(viewHandler),
			wishlogging.Middleware(),
			activeterm.Middleware(),
			limiter.Middleware,
		),
	)
	if err != nil {
		log.Fatal("Failed to create ssh server", "error", err)
	}

	log.Info("Starting SSH server", "host", config.SSH.Host, "port", config.SSH.Port)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("Stopping servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
	if wsServer != nil {
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Could not stop websocket server", "error", err)
		}
	}
}
