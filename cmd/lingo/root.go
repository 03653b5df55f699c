package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZaguanLabs/lingo"
	"github.com/ZaguanLabs/lingo/provider"
	"github.com/ZaguanLabs/lingo/website"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = lingo.Version
	commit    = lingo.GitCommit
	buildDate = lingo.BuildDate
)

var batchSizeUsage = fmt.Sprintf("Messages per model call (%d suits models with small output limits)", lingo.LegacyBatchSize)

// app holds the state of one CLI invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	v      *viper.Viper
	logger *log.Logger

	newInvoker func(ctx context.Context, name provider.Name, cfg provider.Config) (lingo.StreamInvoker, error)
	verifyKey  func(ctx context.Context, name provider.Name, cfg provider.Config) bool
	pages      lingo.PageReader
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		v:          viper.New(),
		logger:     &log.Logger{Handler: cli.New(stderr), Level: log.InfoLevel},
		newInvoker: provider.New,
		verifyKey:  provider.Verify,
		pages:      website.NewReader(nil),
	}
}

func (a *app) execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetIn(a.stdin)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lingo",
		Short: "Translate and proofread UI messages with language models",
		Long: `lingo translates message files in batches, proofreads them for
grammar, spelling and consistency, and reviews the text of live websites.

Supported providers: gemini (default), openai, anthropic.

Configuration is read from flags, LINGO_* environment variables and an
optional lingo.yaml in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default: ./lingo.yaml)")
	flags.String("provider", string(provider.NameGemini), "Model provider: gemini, openai or anthropic")
	flags.String("model", "", "Model name (default: provider default)")
	flags.String("api-key", "", "API key (default: <PROVIDER>_API_KEY env)")
	flags.String("base-url", "", "Custom provider endpoint")
	flags.BoolP("quiet", "q", false, "Suppress progress output")
	flags.BoolP("verbose", "v", false, "Log every batch")

	root.AddCommand(
		a.translateCmd(),
		a.reviseCmd(),
		a.adviseCmd(),
		a.verifyCmd(),
		a.serveCmd(),
		a.versionCmd(),
	)
	return root
}

// configure binds flags, environment and config file into a.v.
func (a *app) configure(cmd *cobra.Command) error {
	v := a.v
	v.SetEnvPrefix("LINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for _, name := range provider.Names {
		key := string(name) + "-api-key"
		env := strings.ToUpper(string(name)) + "_API_KEY"
		if err := v.BindEnv(key, "LINGO_"+env, env); err != nil {
			return err
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("lingo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	switch {
	case v.GetBool("verbose"):
		a.logger.Level = log.DebugLevel
	case v.GetBool("quiet"):
		a.logger.Level = log.WarnLevel
	}
	return nil
}

// providerName returns the selected provider.
func (a *app) providerName() (provider.Name, error) {
	return provider.ParseName(a.v.GetString("provider"))
}

// providerConfig resolves the key and model for name. An explicit
// --api-key wins over the provider's environment variable.
func (a *app) providerConfig(name provider.Name) (provider.Config, error) {
	key := a.v.GetString("api-key")
	if key == "" {
		key = a.v.GetString(string(name) + "-api-key")
	}
	if key == "" {
		return provider.Config{}, fmt.Errorf("%s API key required (--api-key or %s_API_KEY env)", name, strings.ToUpper(string(name)))
	}

	return provider.Config{
		APIKey:  key,
		Model:   a.v.GetString("model"),
		BaseURL: a.v.GetString("base-url"),
	}, nil
}

// engine creates an engine for the selected provider.
func (a *app) engine(ctx context.Context) (*lingo.Engine, error) {
	name, err := a.providerName()
	if err != nil {
		return nil, err
	}
	cfg, err := a.providerConfig(name)
	if err != nil {
		return nil, err
	}
	inv, err := a.newInvoker(ctx, name, cfg)
	if err != nil {
		return nil, err
	}

	return lingo.NewEngine(inv,
		lingo.WithBatchSize(a.v.GetInt("batch-size")),
		lingo.WithLogger(a.logger.WithField("provider", name)),
		lingo.WithPageReader(a.pages),
	), nil
}

// progress prints "[current/total]" to stderr unless quiet.
func (a *app) progress() lingo.ProgressFunc {
	if a.v.GetBool("quiet") {
		return nil
	}
	return func(current, total int) {
		fmt.Fprintf(a.stderr, "[%d/%d]\n", current, total)
	}
}

// errorTypes parses a comma-separated --types value.
func errorTypes(raw string, allowed []lingo.ErrorType) ([]lingo.ErrorType, error) {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return lingo.ParseErrorTypes(names, allowed)
}
