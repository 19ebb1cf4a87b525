package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"matesite/internal/config"
	"matesite/internal/debug"
	"matesite/internal/issues"
	"matesite/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// cliEnv holds the process edges so commands can run against fakes in tests.
type cliEnv struct {
	stdout    io.Writer
	stderr    io.Writer
	isTTY     func() bool
	newClient func(baseURL string, timeout time.Duration) (issues.Client, error)
	runUI     func(ui.Config) error
	configOpt []config.Option
}

func defaultEnv() *cliEnv {
	return &cliEnv{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTTY: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		newClient: newHTTPClient,
		runUI: func(cfg ui.Config) error {
			return runProgram(cfg, ui.NewApp, func(app *ui.App) programRunner {
				return tea.NewProgram(app, tea.WithAltScreen())
			})
		},
	}
}

func newHTTPClient(baseURL string, timeout time.Duration) (issues.Client, error) {
	client, err := issues.NewHTTPClient(baseURL, issues.WithTimeout(timeout))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// settings is the resolved configuration for one invocation.
type settings struct {
	baseURL      string
	timeout      time.Duration
	refresh      time.Duration
	outputFormat string
	jsonOutput   bool
	debug        bool
}

func newRootCmd(env *cliEnv) *cobra.Command {
	root := &cobra.Command{
		Use:   "matesite",
		Short: "matesite - a terminal client for the issue tracker",
		Long: `matesite lists, creates, edits and deletes issues held by the issue
tracker backend.

Run without a subcommand to open the interactive view. The subcommands
talk to the same backend for scripting.

Examples:
  matesite                                 # interactive view
  matesite list --json                     # all issues as JSON
  matesite create --title T --description D`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd, env)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			debug.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := currentSettings()
			client, err := env.newClient(s.baseURL, s.timeout)
			if err != nil {
				return fmt.Errorf("configure backend: %w", err)
			}
			collectionKey, baseURL := "", s.baseURL
			if hc, ok := client.(*issues.HTTPClient); ok {
				collectionKey = hc.CollectionURL()
				baseURL = hc.BaseURL()
			}
			return env.runUI(ui.Config{
				Client:          client,
				CollectionKey:   collectionKey,
				BaseURL:         baseURL,
				RequestTimeout:  s.timeout,
				RefreshInterval: s.refresh,
				OutputFormat:    s.outputFormat,
				Version:         Version,
			})
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)

	pf := root.PersistentFlags()
	pf.String("base-url", config.DefaultBaseURL, "Backend origin (or set MS_API_BASE_URL)")
	pf.Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	pf.Bool("debug", false, "Write a debug log to ~/.matesite/debug.log")

	root.Flags().Int("auto-refresh-seconds", 0, "Refetch the issue list every N seconds (0 disables)")
	root.Flags().String("output-format", "rich", "Detail pane markdown style (rich, dark, light, plain)")

	root.AddCommand(
		newListCmd(env),
		newGetCmd(env),
		newCreateCmd(env),
		newUpdateCmd(env),
		newDeleteCmd(env),
		newVersionCmd(env),
	)
	return root
}

// flagKeys maps command-line flags onto configuration keys. A flag only
// overrides configuration when it was set explicitly.
var flagKeys = map[string]string{
	"base-url":             config.KeyBaseURL,
	"timeout":              config.KeyTimeout,
	"debug":                config.KeyDebug,
	"auto-refresh-seconds": config.KeyAutoRefreshSeconds,
	"output-format":        config.KeyOutputFormat,
	"json":                 config.KeyOutputJSON,
}

func loadConfig(cmd *cobra.Command, env *cliEnv) error {
	if err := config.Initialize(env.configOpt...); err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}

	overrides := map[string]any{}
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}

	if err := debug.Init(config.GetBool(config.KeyDebug)); err != nil {
		fmt.Fprintf(env.stderr, "Warning: debug log disabled: %v\n", err)
	}
	if debug.Enabled() {
		if path, err := debug.GetLogPath(); err == nil {
			fmt.Fprintf(env.stderr, "Debug log: %s\n", path)
		}
	}
	debug.Event("config.loaded", "base_url", config.GetString(config.KeyBaseURL),
		"files", strings.Join(config.ConfigFilesUsed(), ","))
	return nil
}

func currentSettings() settings {
	seconds := config.GetInt(config.KeyAutoRefreshSeconds)
	if seconds < 0 {
		seconds = 0
	}
	timeout := config.GetDuration(config.KeyTimeout)
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return settings{
		baseURL:      strings.TrimSpace(config.GetString(config.KeyBaseURL)),
		timeout:      timeout,
		refresh:      time.Duration(seconds) * time.Second,
		outputFormat: strings.TrimSpace(config.GetString(config.KeyOutputFormat)),
		jsonOutput:   config.GetBool(config.KeyOutputJSON),
		debug:        config.GetBool(config.KeyDebug),
	}
}

type programRunner interface {
	Run() (tea.Model, error)
}

type programFactory func(*ui.App) programRunner

func runProgram(cfg ui.Config, builder func(ui.Config) (*ui.App, error), factory programFactory) error {
	app, err := builder(cfg)
	if err != nil {
		return fmt.Errorf("initialize UI: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("program factory is nil")
	}
	prog := factory(app)
	if prog == nil {
		return fmt.Errorf("program is nil")
	}
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
