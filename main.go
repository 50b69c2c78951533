package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/items"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/routes"
	"github.com/mbolis/quick-forms/submissions"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	ctx := context.Background()
	if cfg.AdminUser != "" {
		err = httpx.EnsureUser(ctx, db, cfg.AdminUser, cfg.AdminPassword, httpx.RoleAdmin)
		if err != nil {
			log.Fatal("main.admin_user:", err)
		}
	}

	catalogue, submissionStore := openStores(cfg, db)
	err = primeForms(ctx, cfg, catalogue)
	if err != nil {
		log.Fatal("main.forms.load:", err)
	}

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Forms:        catalogue,
		Submissions:  submissions.NewService(catalogue, submissionStore),
		Items:        items.NewService(db),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func openStores(cfg config.Config, db *sql.DB) (*forms.Catalogue, submissions.Store) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store: forms and submissions are lost on exit")
		return forms.NewCatalogue(forms.NewMemoryStore()), submissions.NewMemoryStore()
	}
	return forms.NewCatalogue(forms.NewSQLStore(db)), submissions.NewSQLStore(db)
}

// primeForms loads the configured form documents into the catalogue.
// Individual bad documents are only logged; an unreadable directory is fatal.
func primeForms(ctx context.Context, cfg config.Config, catalogue *forms.Catalogue) error {
	var fsys fs.FS = forms.Definitions
	dir := forms.DefinitionsDir
	if cfg.FormsDir != "" {
		fsys = os.DirFS(cfg.FormsDir)
		dir = "."
	}

	_, err := forms.NewLoader(catalogue).Load(ctx, fsys, dir)
	return err
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
