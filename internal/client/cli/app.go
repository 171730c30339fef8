// Package cli is a terminal consumer of the shop engine: a small REPL for
// browsing the catalog, managing the cart and walking the checkout flow.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/kolamstudio/shopengine/internal/client/api"
	"github.com/kolamstudio/shopengine/internal/client/config"
	"github.com/kolamstudio/shopengine/internal/client/repositories/tokens"
	"github.com/kolamstudio/shopengine/internal/client/shop"
	"github.com/kolamstudio/shopengine/internal/logging"
)

type App struct {
	config *config.Config
	shop   *shop.Shop
	db     *sql.DB
	reader *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := tokens.Open(ctx, cfg.StateDBPath)
	if err != nil {
		return nil, err
	}

	client := api.NewHTTPClient(cfg.BackendBaseURL, cfg.RequestTimeout, log)
	s := shop.New(client, tokens.NewSQLiteRepository(db), log)

	return &App{config: cfg, shop: s, db: db, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.shop.Init(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.shop.IsAuthenticated()
}
