package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/services"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
	"github.com/desertthunder/songfinder/internal/ui"
)

// tokenOutput is the JSON shape of the token command.
type tokenOutput struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
}

// searchOutput is the JSON shape of one search result.
type searchOutput struct {
	Query      string `json:"query"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Status     int    `json:"status"`
	ErrorKind  string `json:"errorKind,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Token obtains an access token with the client-credentials flow and prints it.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	token, err := services.ClientCredentialsToken(ctx, r.config.Credentials.Spotify, r.client.GetClient())
	if err != nil {
		return err
	}

	r.logger.Debug("obtained access token", "expiry", token.Expiry)

	if cmd.Bool("json") {
		return r.writeJSON(tokenOutput{AccessToken: token.AccessToken, TokenType: token.Type(), ExpiresAt: token.Expiry}, true)
	}
	return r.writePlain("%s\n", token.AccessToken)
}

// accessToken returns the --token value, falling back to a client-credentials token.
func (r *Runner) accessToken(ctx context.Context, cmd *cli.Command) (string, error) {
	if token := cmd.String("token"); token != "" {
		return token, nil
	}

	r.logger.Debug("no --token given, requesting client-credentials token")
	token, err := services.ClientCredentialsToken(ctx, r.config.Credentials.Spotify, r.client.GetClient())
	if err != nil {
		return "", fmt.Errorf("pass --token or configure credentials.spotify: %w", err)
	}
	return token.AccessToken, nil
}

// Search resolves preview URLs for every song argument concurrently.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	queries := cmd.Args().Slice()
	if len(queries) == 0 {
		return fmt.Errorf("%w: at least one song name", shared.ErrMissingArgument)
	}

	token, err := r.accessToken(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Info("resolving previews", "count", len(queries))

	result, err := r.engine.BatchResolve(ctx, nil, queries, token, tasks.BatchOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Source:     models.SourceCLI,
	})
	if result == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("search interrupted", "error", err)
	}

	if cmd.Bool("json") {
		out := make([]searchOutput, 0, len(result.Results))
		for _, res := range result.Results {
			if res != nil {
				out = append(out, newSearchOutput(res))
			}
		}
		if werr := r.writeJSON(out, cmd.Bool("pretty")); werr != nil {
			return werr
		}
		return err
	}

	for _, res := range result.Results {
		if res != nil {
			r.writePlain("%s\n", ui.RenderLookup(res))
		}
	}
	r.writePlainln("%s", ui.RenderBatchSummary(result))
	return err
}

func newSearchOutput(res *tasks.LookupResult) searchOutput {
	out := searchOutput{Query: res.Query, PreviewURL: res.PreviewURL, Status: 200}
	if ce := shared.AsClassified(res.Err); ce != nil {
		out.Status = ce.HTTPStatus()
		out.ErrorKind = string(ce.Kind)
		out.Error = ce.Message
	}
	return out
}

// Preview resolves one song, downloads its preview and writes the audio to a file.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	song := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(song) == "" {
		return fmt.Errorf("%w: song name", shared.ErrMissingArgument)
	}

	token, err := r.accessToken(ctx, cmd)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", ui.RenderProgress(update))
		}
	}()

	res := r.engine.Lookup(ctx, progressCh, song, token, models.SourceCLI)
	close(progressCh)
	<-done

	if !res.OK() {
		r.writePlain("%s\n", ui.RenderLookup(res))
		return res.Err
	}

	path := cmd.String("output")
	if path == "" {
		path = previewFilename(res.Query)
	}

	if err := os.WriteFile(path, res.Audio, 0644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}

	r.logger.Info("preview saved", "path", path, "bytes", len(res.Audio))
	r.writePlain("%s Saved %d bytes to %s\n", ui.Styles.Success("✓"), len(res.Audio), path)
	r.writePlain("%s\n", ui.Styles.Help(res.PreviewURL))
	return nil
}

// previewFilename turns a song name into a file name, keeping letters and digits in any script.
func previewFilename(query string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(query) {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteRune('-')
			dash = true
		}
	}

	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "preview"
	}
	return name + ".mp3"
}
