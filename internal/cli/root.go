// Package cli implements the exesctl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/exes/food-network/internal/client"
	"github.com/exes/food-network/internal/guard"
	"github.com/exes/food-network/internal/session"
	"github.com/exes/food-network/pkg/logger"
)

// Options injects the command's environment; zero values mean the process
// defaults (stdout, stderr, OS environment, Badger store on disk).
type Options struct {
	Out        io.Writer
	Err        io.Writer
	Lookuper   envconfig.Lookuper
	Store      session.Store
	HTTPClient *http.Client
}

type app struct {
	opts      Options
	cfg       *Config
	log       zerolog.Logger
	store     session.Store
	ownsStore bool
	api       *client.Client

	apiURL     string
	sessionDir string
	verbose    bool
}

// Execute runs exesctl with os.Args and releases the session store afterwards,
// whether or not the command failed.
func Execute(ctx context.Context, opts Options) error {
	root, a := newRoot(opts)
	err := root.ExecuteContext(ctx)
	if cerr := a.teardown(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// NewRootCommand builds the exesctl command tree. Callers that open the
// default Badger store should prefer Execute, which closes it.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

func newRoot(opts Options) (*cobra.Command, *app) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Lookuper == nil {
		opts.Lookuper = envconfig.OsLookuper()
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "exesctl",
		Short:         "Find donation machines and manage the Exes food network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&a.apiURL, "api-url", "", "API base URL (overrides EXES_API_URL)")
	pf.StringVar(&a.sessionDir, "session-dir", "", "session store directory (overrides EXES_SESSION_DIR)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.locateCommand(),
		a.adminCommand(),
		a.volunteerCommand(),
	)
	return root, a
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(cmd.Context(), a.opts.Lookuper)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.sessionDir != "" {
		cfg.SessionDir = a.sessionDir
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.New(logger.Options{
		Level:    level,
		Pretty:   true,
		Output:   a.opts.Err,
		NoCaller: true,
	})

	a.store = a.opts.Store
	if a.store == nil {
		dir, err := cfg.sessionDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
		store, err := session.NewBadgerStore(dir)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		a.store = store
		a.ownsStore = true
	}

	hc := a.opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	a.api = client.New(cfg.APIURL, client.WithHTTPClient(hc), client.WithLogger(a.log))
	a.log.Debug().Str("api_url", cfg.APIURL).Msg("exesctl configured")
	return nil
}

func (a *app) teardown() error {
	if !a.ownsStore || a.store == nil {
		return nil
	}
	a.ownsStore = false
	return a.store.Close()
}

// guard builds a Session Guard that verifies tokens against the API and
// reports rejections on stderr.
func (a *app) guard() *guard.Guard {
	verify := guard.VerifierFunc(func(ctx context.Context, token string) error {
		_, err := a.api.Verify(ctx, token)
		return err
	})
	return guard.New(a.store, verify, notifier{w: a.opts.Err}, navigator{w: a.opts.Err}, a.log)
}

// guarded wraps run so it only executes for a verified session holding role.
func (a *app) guarded(role string, run func(ctx context.Context, token string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		view := func(ctx context.Context) error {
			sess, err := session.Load(ctx, a.store)
			if err != nil {
				return err
			}
			return run(ctx, sess.Token, args)
		}
		return a.guard().Wrap(view, role)(cmd.Context())
	}
}

type notifier struct{ w io.Writer }

func (n notifier) Notify(msg string) {
	fmt.Fprintf(n.w, "notice: %s\n", msg)
}

type navigator struct{ w io.Writer }

func (n navigator) Redirect(path string) {
	fmt.Fprintf(n.w, "redirecting to %s: run `exesctl login` to sign in\n", path)
}

// upstreamNotice prints a transient failure notice for API errors and passes
// err through.
func (a *app) upstreamNotice(err error) error {
	fmt.Fprintf(a.opts.Err, "notice: could not reach the Exes service, please try again later (%v)\n", err)
	return err
}
