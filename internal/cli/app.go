package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Andrei-Barwood/pwaudit/internal/config"
)

// App carries everything a command needs; nothing is kept in package state.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	logger     *log.Logger
	loader     *config.Loader
	cfg        *config.Config
	configPath string
}

func NewApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		In:     in,
		Out:    out,
		Err:    errOut,
		logger: log.New(io.Discard, "pwaudit: ", log.LstdFlags),
		loader: config.NewLoader(),
	}
}

func Run(ctx context.Context, args []string) int {
	return NewApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, args)
}

type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// Run executes one command line and maps the outcome to an exit code:
// 0 on success, 1 on failure, 2 on usage errors.
func (a *App) Run(ctx context.Context, args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(a.Err, "error: unexpected failure: %v\n", r)
			code = 1
		}
	}()

	root := a.rootCommand()
	if len(args) == 0 {
		root.SetOut(a.Err)
		_ = root.Usage()
		return 2
	}

	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintf(a.Err, "%v\n\n", err)
		root.SetOut(a.Err)
		_ = root.Usage()
		return 2
	}
	fmt.Fprintf(a.Err, "error: %v\n", err)
	return 1
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"policy":          config.KeyPolicy,
	"length":          config.KeyGenLength,
	"ensure-coverage": config.KeyEnsureCoverage,
	"workers":         config.KeyWorkers,
	"encoding":        config.KeyEncoding,
	"column":          config.KeyColumn,
	"delimiter":       config.KeyDelimiter,
	"layout":          config.KeyLayout,
	"no-color":        config.KeyNoColor,
	"verbose":         config.KeyVerbose,
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pwaudit",
		Short:         "pwaudit - local password strength analyzer",
		Long:          "pwaudit estimates password strength, reports missing character classes and suggests strong replacements.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a pwaudit YAML config file")
	pf.String("policy", "entropy", "Strength policy: entropy|length")
	pf.Bool("no-color", false, "Disable coloured output")
	pf.BoolP("verbose", "v", false, "Log progress to stderr")

	root.AddCommand(
		a.analyzeCommand(),
		a.scanCommand(),
		a.generateCommand(),
		a.reportCommand(),
		a.recommendCommand(),
	)
	return root
}

func (a *App) configure(cmd *cobra.Command) error {
	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := a.loader.BindFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := a.loader.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.NoColor || !isTerminalWriter(a.Out) {
		color.NoColor = true
	}
	if cfg.Verbose {
		a.logger.SetOutput(a.Err)
	}
	if cfg.File != "" {
		a.logger.Printf("config loaded from %s", cfg.File)
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
