package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsearch/internal/controller"
	"github.com/desertthunder/songsearch/internal/services"
	"github.com/desertthunder/songsearch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        services.SearchAPI
	ownsAPI    bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        services.SearchAPI // Built from Config on first use when nil
	HTTPClient *http.Client
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, suggestCommand, historyCommand, batchCommand, webCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration file named by --config, applies environment overrides and sets the log level.
//
// A missing file is only an error when --config was given explicitly.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
			r.configPath = path
			r.resetClient()
			r.logger.Debug("loaded config", "path", path)
		} else if cmd.IsSet("config") && !isSetupCommand(cmd) {
			return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
	}

	r.config.ApplyEnv()
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// isSetupCommand reports whether the invocation targets "setup", which creates the config file.
func isSetupCommand(cmd *cli.Command) bool {
	args := cmd.Args().Slice()
	return len(args) > 0 && args[0] == "setup"
}

// SetLogger replaces the logger used by commands and by the service client built from config.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.resetClient()
}

// client returns the search service, building it from config when none was injected.
func (r *Runner) client() services.SearchAPI {
	if r.api == nil {
		r.api = services.NewClient(services.ClientOpts{
			BaseURL:    r.config.API.BaseURL,
			HTTPClient: r.httpClient,
			Timeout:    r.config.API.Timeout.Duration,
			RateLimit:  r.config.API.RateLimit,
			Logger:     r.logger,
		})
		r.ownsAPI = true
	}
	return r.api
}

func (r *Runner) resetClient() {
	if r.ownsAPI {
		r.api = nil
		r.ownsAPI = false
	}
}

func (r *Runner) newController() *controller.Controller {
	return controller.New(r.client(), controller.Opts{
		Logger:        r.logger,
		BannerTimeout: r.config.UI.ErrorTimeout.Duration,
	})
}

// failure attaches the message the page shows for a failed operation.
func (r *Runner) failure(ctrl *controller.Controller, err error) error {
	if errors.Is(err, shared.ErrInvalidInput) {
		return err
	}
	if banner := ctrl.Page().Banner; banner != "" {
		return fmt.Errorf("%s (%w)", banner, err)
	}
	return err
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
