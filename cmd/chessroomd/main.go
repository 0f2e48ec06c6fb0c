// chessroomd serves the two-player real-time chess room protocol over
// WebSocket (spec.md §1, §6).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/corvidlabs/chessroom/pkg/config"
	"github.com/corvidlabs/chessroom/pkg/logging"
	"github.com/corvidlabs/chessroom/pkg/room"
	"github.com/corvidlabs/chessroom/pkg/session"
	"github.com/corvidlabs/chessroom/pkg/transport/ws"
)

var version = build.NewVersion(0, 1, 0)

func main() {
	ctx := context.Background()
	logw.Infof(ctx, "chessroomd %v", version)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logw.Exitf(ctx, "Invalid configuration: %v", err)
	}

	logger := logging.Leveled{
		Next:    logging.NewLogw(),
		Silent:  cfg.Silent,
		Verbose: cfg.Verbose,
	}

	registry := room.NewRegistry(cfg.FanoutCapacity, logger)

	if cfg.ReapIntervalSeconds > 0 {
		go reapLoop(ctx, registry, time.Duration(cfg.ReapIntervalSeconds)*time.Second)
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r)
		if err != nil {
			logger.Warningf(r.Context(), "websocket upgrade failed: %v", err)
			return
		}
		session.New(ctx, conn, registry, logger)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logw.Infof(ctx, "chessroomd listening on %v", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logw.Exitf(ctx, "server exited: %v", err)
	}
}

func reapLoop(ctx context.Context, registry *room.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			registry.ReapIdle(ctx)
		case <-ctx.Done():
			return
		}
	}
}
