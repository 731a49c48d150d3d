package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/repositories"
	"github.com/desertthunder/songfinder/internal/rest"
	"github.com/desertthunder/songfinder/internal/services"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
	"github.com/desertthunder/songfinder/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *resty.Client
	logger     *log.Logger
	output     io.Writer
	metrics    *metrics.Recorder
	search     services.CatalogSearcher
	preview    services.PreviewFetcher
	history    *repositories.LookupRepository
	engine     tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *resty.Client
	Logger     *log.Logger
	Output     io.Writer
	Metrics    *metrics.Recorder
	Search     services.CatalogSearcher
	Preview    services.PreviewFetcher
	History    *repositories.LookupRepository // nil disables lookup history
}

// NewRunner creates a new Runner with the provided configuration.
//
// Services not supplied are built from the config and share one HTTP client.
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
	if opts.Client == nil {
		opts.Client = rest.NewClient(opts.Config.HTTP.Timeout.Duration, opts.Config.HTTP.UserAgent, opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Search == nil {
		opts.Search = services.NewSpotifyServiceFromConfig(opts.Config, opts.Client, opts.Logger, opts.Metrics)
	}
	if opts.Preview == nil {
		opts.Preview = services.NewPreviewService(opts.Client, opts.Logger, opts.Metrics)
	}

	var history tasks.HistoryRecorder
	if opts.History != nil {
		history = opts.History
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		logger:     opts.Logger,
		output:     opts.Output,
		metrics:    opts.Metrics,
		search:     opts.Search,
		preview:    opts.Preview,
		history:    opts.History,
		engine:     tasks.NewLookupEngine(opts.Search, opts.Preview, history, opts.Metrics, opts.Logger),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tokenCommand, searchCommand, previewCommand, serveCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
	r.writePlain("%v\n", ui.Styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

// requireHistory returns the history repository or an error naming the missing setting.
func (r *Runner) requireHistory() (*repositories.LookupRepository, error) {
	if r.history == nil {
		return nil, fmt.Errorf("%w: lookup history needs database.path", shared.ErrMissingConfig)
	}
	return r.history, nil
}
