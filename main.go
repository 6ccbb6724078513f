package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/config"
	"github.com/formforge/formforge/database"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/routes"
	"github.com/formforge/formforge/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	if cfg.AdminPassword != "" {
		err = database.EnsureAdminAccount(db, cfg.AdminPassword)
		if err != nil {
			log.Fatal("main.db.bootstrap:", err)
		}
	}

	bearerServer := httpx.NewBearerServer(db, cfg)

	app := app.App{
		Store:        store.New(db),
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
