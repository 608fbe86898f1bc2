package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/comicreader/internal/client/bookmarks"
	"github.com/dmitrijs2005/comicreader/internal/client/bootstrap"
	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/config"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/comicreader/internal/client/services"
	"github.com/dmitrijs2005/comicreader/internal/client/session"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

// startup runs the cold-start session restore.
type startup interface {
	Run(ctx context.Context) (bootstrap.Result, error)
}

// credentialAge reports when the persisted credential was written.
type credentialAge interface {
	SavedAt(ctx context.Context) (time.Time, bool, error)
}

// localData is the reader's on-disk key/value store.
type localData interface {
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	startup   startup
	slot      credentialAge
	local     localData
	auth      services.AuthService
	catalog   services.CatalogService
	community services.CommunityService
	bookmarks services.BookmarkService

	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	signedIn    atomic.Bool
	unsubscribe func()
}

// NewApp opens the local database and wires the stores and services against
// the backend named in c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logging.Component(log, "http"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	slot := metadata.NewCredentialSlot(db)
	sessions := session.NewStore(slot, api, logging.Component(log, "session"),
		session.WithLogoutTimeout(c.LogoutTimeout))
	profiles := profile.NewStore()

	seq := bootstrap.NewSequencer(sessions, api, profiles, logging.Component(log, "bootstrap"),
		bootstrap.WithNearExpiryThreshold(c.NearExpiryThreshold),
		bootstrap.WithTimeout(c.BootstrapTimeout))

	auth := services.NewAuth(api, sessions, profiles, log)
	rec := bookmarks.NewReconciler(api, sessions, profiles, logging.Component(log, "bookmarks"))

	a := &App{
		config:      c,
		log:         log,
		db:          db,
		startup:     seq,
		slot:        slot,
		local:       metadata.NewSQLiteRepository(db),
		auth:        auth,
		catalog:     services.NewCatalog(api, sessions),
		community:   services.NewCommunity(api, auth),
		bookmarks:   services.NewBookmarks(rec, auth),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	a.unsubscribe = profiles.Subscribe(func(p profile.Profile) { a.watchProfile(ctx, p) })
	return a, nil
}

// Run restores the previous session, then serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	a.restoreSession(ctx)
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) restoreSession(ctx context.Context) {
	res, err := a.startup.Run(ctx)
	if err != nil {
		a.log.Warn(ctx, "session restore skipped", "error", err)
		return
	}

	switch {
	case res.Authenticated:
		fmt.Fprintf(a.out, "Welcome back, %s!\n", a.status())
	case res.Err != nil:
		fmt.Fprintln(a.out, "Previous session was not restored.", describeError(res.Err))
	case res.Decision == session.Expired:
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
	}
}

// watchProfile logs session transitions, including sign-outs forced by the
// backend rejecting the credential.
func (a *App) watchProfile(ctx context.Context, p profile.Profile) {
	now := !p.IsGuest()
	if a.signedIn.Swap(now) == now {
		return
	}
	if now {
		a.log.Info(ctx, "reader signed in", "id", p.ID, "bookmarks", p.Bookmarks.Len())
	} else {
		a.log.Info(ctx, "reader signed out")
	}
}

func (a *App) isLoggedIn() bool {
	return !a.auth.Current().IsGuest()
}

// status is the name shown in the prompt.
func (a *App) status() string {
	p := a.auth.Current()
	switch {
	case p.IsGuest():
		return "guest"
	case p.FullName != "":
		return p.FullName
	case p.Email != "":
		return p.Email
	default:
		return "reader " + p.ID
	}
}
