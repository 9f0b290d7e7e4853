package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"service-gateway-go/internal/accesslog"
	"service-gateway-go/internal/config"
)

type cli struct {
	DB       string `kong:"default='/app/data/app_data.db',help='SQLite database file.',env='DB_FILE'"`
	LogLevel string `kong:"default='info',enum='debug,info,warn,error',help='Log level.',env='LOG_LEVEL'"`
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("accesslog"),
		kong.Description("Records one container access in SQLite and prints the history."),
	)

	logger := config.NewLogger(config.LogConfig{Level: c.LogLevel, Format: "text"}, os.Stderr)

	if err := run(context.Background(), c.DB); err != nil {
		logger.Error("accesslog failed", "db", c.DB, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	db, err := accesslog.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	store := accesslog.NewStore(db)
	if _, err := store.Record(ctx, time.Now()); err != nil {
		return err
	}

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}

	fmt.Println("--- Histórico de Acessos ---")
	for _, e := range entries {
		fmt.Printf("ID: %d | %s | %s\n", e.ID, e.Timestamp, e.Message)
	}
	fmt.Println("----------------------------")
	return nil
}
