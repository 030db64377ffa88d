// Package app contains the application setup for the stocktake session.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abgdnv/stocktake/internal/config"
	"github.com/abgdnv/stocktake/internal/inventory"
	"github.com/abgdnv/stocktake/internal/store"
	"github.com/abgdnv/stocktake/internal/transport/cli"
)

type Dependencies struct {
	Store      *store.FileStore
	Repository *inventory.Repository
	Menu       *cli.Menu
	Logger     *slog.Logger
}

// SetupDependencies wires the file store, repository and menu from the
// configuration. The menu reads from in and writes to out, so E2E tests can
// script a full session.
func SetupDependencies(cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) *Dependencies {
	fileStore := store.NewFileStore(cfg.Storage.File)
	repo := inventory.NewRepository()
	menu := cli.NewMenu(repo, cfg.Inventory.LowStockThreshold, in, out, logger)

	return &Dependencies{
		Store:      fileStore,
		Repository: repo,
		Menu:       menu,
		Logger:     logger,
	}
}

// LoadInventory restores the persisted record set into the repository.
// A malformed document is moved aside and the session starts empty; only the
// quarantine rename itself is fatal, because a later save would then overwrite
// recoverable data.
func (d *Dependencies) LoadInventory() error {
	records, err := d.Store.Load()
	if err != nil {
		d.Logger.Warn("Persisted inventory is unreadable, starting empty", "file", d.Store.Path(), "error", err)
		quarantined, qErr := d.Store.Quarantine()
		if qErr != nil {
			return fmt.Errorf("unreadable inventory could not be moved aside: %w", qErr)
		}
		d.Logger.Warn("Damaged inventory file moved aside", "file", quarantined)
	}
	d.Repository.LoadFrom(records)
	d.Logger.Info("Inventory loaded", "file", d.Store.Path(), "products", len(records))
	return nil
}

// SaveInventory persists the full record set. In-memory state is never rolled
// back on failure; the caller decides how to surface the error.
func (d *Dependencies) SaveInventory() error {
	records := d.Repository.ListAll()
	if err := d.Store.Save(records); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	d.Logger.Info("Inventory saved", "file", d.Store.Path(), "products", len(records))
	return nil
}
