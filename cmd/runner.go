package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sptx/internal/repositories"
	"github.com/desertthunder/sptx/internal/services"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
	"github.com/desertthunder/sptx/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// tokenHistory is how many tokens the cache keeps after a refresh.
const tokenHistory = 5

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	devices    tasks.DeviceStore

	db          *sql.DB
	tokens      *repositories.TokenRepository
	remote      services.Remote
	credentials *services.CredentialManager

	store      *state.Store
	dispatcher *tasks.Dispatcher
	events     chan tasks.Event

	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// When Remote is set the dispatcher is wired immediately and no token cache is opened.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Remote     services.Remote
	Devices    tasks.DeviceStore
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Devices == nil {
		opts.Devices = shared.NewClientConfig(opts.ConfigPath, opts.Config)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		devices:    opts.Devices,
		remote:     opts.Remote,
		store:      state.New(),
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.remote != nil {
		r.wireDispatcher(nil)
	}
	return r
}

// SetLogger swaps the logger used by the runner and everything it wires afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, cacheCommand, tuiCommand,
		statusCommand, devicesCommand, deviceCommand,
		playCommand, pauseCommand, nextCommand, prevCommand, seekCommand, volumeCommand, shuffleCommand, repeatCommand,
		searchCommand, likeCommand, recommendCommand, savedCommand, playlistsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves --config (or the XDG default) before any action runs.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if path == "" {
		resolved, err := shared.DefaultConfigPath()
		if err != nil {
			return ctx, fmt.Errorf("%w: %v", shared.ErrMissingConfig, err)
		}
		path = resolved
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return ctx, err
		}
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	r.config = config
	r.configPath = path
	r.devices = shared.NewClientConfig(path, config)
	return ctx, nil
}

// openTokens opens the database holding the token cache, running migrations on first use.
func (r *Runner) openTokens(ctx context.Context) error {
	if r.tokens != nil {
		return nil
	}

	path, err := r.config.DatabasePath()
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.tokens = repositories.NewTokenRepository(db)
	return nil
}

// newSpotify builds the API client from the configured credentials.
func (r *Runner) newSpotify() (*services.SpotifyService, error) {
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set client_id and client_secret in %s", shared.ErrMissingCredentials, r.configPath)
	}

	return services.NewSpotifyService(creds.Map(),
		services.WithRateLimit(r.config.Behavior.RequestsPerSecond, 1),
		services.WithLogger(shared.WithLogger(r.logger, "service", "spotify")),
	)
}

// connect wires the Spotify client, credential manager and dispatcher from the cached token.
//
// A credential that is already expired is refreshed before returning.
func (r *Runner) connect(ctx context.Context) error {
	if r.dispatcher != nil {
		return nil
	}

	spotify, err := r.newSpotify()
	if err != nil {
		return err
	}
	if err := r.openTokens(ctx); err != nil {
		return err
	}

	stored, err := r.tokens.Latest(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: run 'sptx auth' first", shared.ErrNotAuthenticated)
	} else if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	credentials := services.NewCredentialManager(spotify.OAuthConfig(), stored.Token)
	credentials.SetRefreshCallback(r.persistToken)
	spotify.SetTokenSource(credentials)

	r.remote = spotify
	r.credentials = credentials
	r.wireDispatcher(credentials)

	if credentials.NeedsRefresh(time.Now()) {
		r.logger.Info("access token expired, refreshing")
		if err := r.dispatch(ctx, tasks.RefreshAuthentication{}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) wireDispatcher(credentials tasks.Refresher) {
	opts := tasks.DispatcherOpts{
		Remote:      r.remote,
		Credentials: credentials,
		Devices:     r.devices,
		Store:       r.store,
		Logger:      shared.WithLogger(r.logger, "component", "dispatcher"),
		Events:      r.events,
		LargeLimit:  r.config.Behavior.LargeSearchLimit,
		SmallLimit:  r.config.Behavior.SmallSearchLimit,
	}
	r.dispatcher = tasks.NewDispatcher(opts)
}

// persistToken stores a refreshed token and trims the cache.
func (r *Runner) persistToken(token *oauth2.Token) {
	if r.tokens == nil {
		return
	}

	ctx := context.Background()
	if _, err := r.tokens.Save(ctx, token); err != nil {
		r.logger.Warn("failed to cache refreshed token", "error", err)
		return
	}
	if _, err := r.tokens.Prune(ctx, tokenHistory); err != nil {
		r.logger.Warn("failed to prune token cache", "error", err)
	}
}

// dispatch runs one command to completion and returns the error it recorded, if any.
func (r *Runner) dispatch(ctx context.Context, cmd tasks.Command) error {
	r.store.Update(func(a *state.App) { a.ClearError() })
	r.dispatcher.Dispatch(ctx, cmd)

	var err error
	r.store.View(func(a *state.App) { err = a.LastError })
	return err
}

// run connects and dispatches cmds in order, stopping at the first failure.
func (r *Runner) run(ctx context.Context, cmds ...tasks.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	for _, c := range cmds {
		if err := r.dispatch(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) country() string {
	return r.config.Client.Country
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
