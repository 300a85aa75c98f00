// Command musicbox-serve hosts the music box for local development.
//
// Audio output needs the audio build tag (cgo, ALSA on Linux):
//
//	go build -tags audio ./cmd/musicbox-serve
//
// Build the view first:
//
//	GOOS=js GOARCH=wasm go build -o web/dist/main.wasm ./cmd/musicbox
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" web/dist/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phenix/musicbox/internal/config"
	"github.com/phenix/musicbox/internal/log"
	"github.com/phenix/musicbox/internal/player"
	"github.com/phenix/musicbox/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "musicbox-serve:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	// Configure first so config loading logs with the service name; the
	// level from the file is applied once it is known.
	log.Configure(log.Config{Service: "musicbox-serve"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	players, err := newPlayers(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, players)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// newPlayers picks the sink for new players: the speaker when audio is
// enabled, otherwise a sink that plays nothing.
func newPlayers(cfg config.Config) (*player.Registry, error) {
	if !cfg.Audio {
		return player.NewRegistry(nil), nil
	}
	out, err := player.NewSpeakerOutput()
	if err != nil {
		return nil, fmt.Errorf("audio enabled: %w", err)
	}
	return player.NewRegistry(func() (player.Sink, error) {
		return player.NewBeepSink(out), nil
	}), nil
}
