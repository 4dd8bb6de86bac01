package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/client/api"
	"github.com/dmitrijs2005/taskboard/internal/client/config"
	"github.com/dmitrijs2005/taskboard/internal/client/localdb"
	"github.com/dmitrijs2005/taskboard/internal/client/services"
	"github.com/spf13/pflag"
)

// App holds what the commands share: config, the local database and the
// services built on top of them. It is opened lazily by the first command
// and reused by every command run from the shell.
type App struct {
	cfg    *config.Config
	getenv func(string) string
	in     *bufio.Reader
	out    io.Writer

	db     *sql.DB
	health *api.HealthChecker
	client *api.Client
	auth   *services.AuthService
	board  *services.BoardService
	view   *view
}

func NewApp(in io.Reader, out io.Writer, getenv func(string) string) *App {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{cfg: cfg, getenv: getenv, in: bufio.NewReader(in), out: out}
}

func (a *App) open(ctx context.Context, fs *pflag.FlagSet) error {
	if a.auth != nil {
		return nil
	}
	if err := a.cfg.Resolve(fs, a.getenv); err != nil {
		return err
	}

	db, err := localdb.InitDatabase(ctx, a.cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}

	health, err := api.NewHealthChecker(a.cfg.HealthAddr)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("health client: %w", err)
	}

	httpClient := &http.Client{Timeout: a.cfg.RequestTimeout}
	a.db = db
	a.health = health
	a.client = api.NewClient(a.cfg.ServerURL, httpClient)
	a.auth = services.NewAuthService(a.client, health, db)
	a.board = services.NewBoardService(a.client, a.auth, httpClient)
	a.view = newView(a.out, a.cfg.NoColor)
	return nil
}

// Close releases the database and the health connection.
func (a *App) Close() error {
	var errs []error
	if a.health != nil {
		errs = append(errs, a.health.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	a.auth, a.health, a.db = nil, nil, nil
	return errors.Join(errs...)
}

// Execute runs one command line, e.g. []string{"projects", "list"}.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) prompt() string {
	u, err := a.auth.CachedUser(context.Background())
	if err != nil {
		return "taskboard (guest)> "
	}
	return fmt.Sprintf("taskboard (%s)> ", u.Email)
}
