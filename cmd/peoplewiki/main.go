package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ymurata/peoplewiki/api"
	"github.com/ymurata/peoplewiki/api/handlers"
	"github.com/ymurata/peoplewiki/internal/config"
	"github.com/ymurata/peoplewiki/internal/pkg/logger"
	"github.com/ymurata/peoplewiki/internal/repository"
	"github.com/ymurata/peoplewiki/internal/storage"
	"github.com/ymurata/peoplewiki/internal/store"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "peoplewiki",
		Usage:   "Personal contact and relationship directory server",
		Version: Version,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "Port to listen on (overrides PORT)",
					},
				},
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	baseLog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer baseLog.Sync()

	cfg := config.Load(baseLog)
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}

	db, err := repository.New(cfg, baseLog)
	if err != nil {
		return err
	}
	defer db.Close()

	var uploader storage.Uploader = storage.Disabled{}
	if cfg.AssetBucket != "" {
		gcsUploader, err := storage.NewGCSUploader(context.Background(), cfg.AssetBucket, cfg.AssetCDNDomain, baseLog)
		if err != nil {
			return err
		}
		uploader = gcsUploader
	} else {
		baseLog.Warn("no asset bucket configured, image uploads disabled")
	}

	people := store.NewPersonStore(db.DB, baseLog)
	events := store.NewEventStore(db.DB, baseLog)
	family := store.NewFamilyGraph(db.DB, baseLog)
	directory := store.NewDirectory(people, events, family, baseLog)

	router := api.NewRouter(
		db,
		handlers.NewPersonHandler(people, directory, baseLog),
		handlers.NewEventHandler(events, uploader, baseLog),
		handlers.NewFamilyHandler(family, baseLog),
	)

	baseLog.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
	return router.Run(fmt.Sprintf(":%d", cfg.Port))
}
