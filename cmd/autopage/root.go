package autopage

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/autopage/internal/version"
	"github.com/arthur-debert/autopage/pkg/config"
	"github.com/arthur-debert/autopage/pkg/controller"
	"github.com/arthur-debert/autopage/pkg/engine"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/logging"
	"github.com/arthur-debert/autopage/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// connect opens the service handle. Tests swap it for an in-memory service.
var connect = func(opts controller.Options) (controller.Client, error) {
	client, err := controller.Dial(opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	configFile string
	dryRun     bool
	force      bool
	dev        bool
	listen     bool
	strict     bool
	format     string
	rows       int
	cols       int
}

// overrides turns the flags the user actually set into config overrides.
func (o *globalOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	ov := make(map[string]interface{})
	if flags.Changed("rows") {
		ov["grid.rows"] = o.rows
	}
	if flags.Changed("cols") {
		ov["grid.cols"] = o.cols
	}
	if flags.Changed("strict") {
		ov["generation.strict"] = o.strict
	}
	return ov
}

func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFile: o.configFile,
		Overrides:  o.overrides(cmd),
	})
}

// dial connects to the service. When optional, a failure is logged and a
// nil client returned so generation can run without the service.
func dial(cfg *config.Config, optional bool) (controller.Client, error) {
	client, err := connect(controller.Options{
		Service:             cfg.DBus.Service,
		Object:              cfg.DBus.Object,
		Interface:           cfg.DBus.Interface,
		ControllerInterface: cfg.DBus.ControllerInterface,
	})
	if err != nil {
		if optional {
			log.Warn().Err(err).Msg("Service unavailable, generating without controller data")
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

// session is a loaded config plus an (optional) service handle.
type session struct {
	cfg    *config.Config
	client controller.Client
	engine *engine.Engine
}

func (o *globalOptions) open(cmd *cobra.Command, clientOptional bool) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	client, err := dial(cfg, clientOptional)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: client, engine: engine.New(client, cfg)}, nil
}

func (s *session) Close() {
	if s.client == nil {
		return
	}
	if err := s.client.Close(); err != nil {
		log.Debug().Err(err).Msg("Closing service connection")
	}
}

// interruptContext is cancelled on SIGINT or SIGTERM.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "autopage [source]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.String(),
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.listen && len(args) == 0 {
				_ = cmd.Help()
				return errors.New(errors.ErrInvalidInput, MsgErrNoSource)
			}
			if opts.listen {
				return runListen(cmd, opts, args)
			}
			return runSource(cmd, opts, args[0])
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.BoolVarP(&opts.force, "force", "f", false, MsgFlagForce)
	flags.BoolVar(&opts.dev, "dev", false, MsgFlagDev)
	flags.BoolVar(&opts.strict, "strict", false, MsgFlagStrict)
	flags.StringVar(&opts.format, "format", engine.FormatJSON, MsgFlagFormat)
	flags.IntVar(&opts.rows, "rows", 0, MsgFlagRows)
	flags.IntVar(&opts.cols, "cols", 0, MsgFlagCols)
	rootCmd.Flags().BoolVar(&opts.listen, "listen", false, MsgFlagListen)

	rootCmd.AddGroup(&cobra.Group{ID: "pages", Title: "PAGES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "service", Title: "SERVICE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newSyncCmd(opts))
	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newControllersCmd(opts))
	rootCmd.AddCommand(newPagesCmd(opts))
	rootCmd.AddCommand(newAddPageCmd(opts))
	rootCmd.AddCommand(newRemovePageCmd(opts))
	rootCmd.AddCommand(newSetActivePageCmd(opts))
	rootCmd.AddCommand(newNotifyForegroundCmd(opts))
	rootCmd.AddCommand(newIconPacksCmd(opts))
	rootCmd.AddCommand(newIconsCmd(opts))
	rootCmd.AddCommand(newGetPropertyCmd(opts))
	rootCmd.AddCommand(newListenCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func runSource(cmd *cobra.Command, opts *globalOptions, source string) error {
	s, err := opts.open(cmd, opts.dryRun)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	res, err := s.engine.RunSource(cmd.Context(), source, engine.RunOptions{
		DryRun: opts.dryRun,
		Force:  opts.force,
		Format: opts.format,
		Out:    out,
	})
	if err != nil {
		return err
	}
	if res.Pushed {
		fmt.Fprintf(out, MsgPushedPage, styles.Render("Page", res.Page))
	}
	return nil
}

// runListen switches pages until interrupted. An argument replaces the
// configured repo base.
func runListen(cmd *cobra.Command, opts *globalOptions, args []string) error {
	s, err := opts.open(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	base := s.cfg.RepoBase(opts.dev)
	if len(args) > 0 {
		base = args[0]
	}

	ctx, stop := interruptContext(cmd.Context())
	defer stop()
	return s.engine.Listen(ctx, base, opts.force)
}
