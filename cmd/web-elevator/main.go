package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"

	"go-elevator-controller/pkg/config"
	"go-elevator-controller/pkg/diagnostics"
	"go-elevator-controller/pkg/elevator"
	"go-elevator-controller/pkg/logging"
	"go-elevator-controller/pkg/server"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	defaults := server.Defaults{Config: cfg.ElevatorConfig()}
	if cfg.Log.EventFile != "" {
		journal, jc, err := diagnostics.Open(cfg.Log.EventFile, cfg.Elevator.ID)
		if err != nil {
			log.Fatal(err)
		}
		defer jc.Close()
		defaults.OnEvent = func(ev elevator.Event) { journal.Record(ev) }
	}

	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	mux.Handle("/ws", server.NewHandler(defaults))

	addr := ":" + cfg.Server.Port
	slog.Info("Starting elevator web server", "addr", addr)
	slog.Info("Open http://localhost:" + cfg.Server.Port + " in your browser")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
