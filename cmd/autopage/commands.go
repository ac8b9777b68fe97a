package autopage

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/autopage/internal/version"
	"github.com/arthur-debert/autopage/pkg/controller"
	"github.com/arthur-debert/autopage/pkg/engine"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/ui/styles"
	"github.com/arthur-debert/autopage/pkg/windowmatch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// serviceRunE wraps a command body that needs a live service handle.
func serviceRunE(opts *globalOptions, fn func(ctx context.Context, out io.Writer, client controller.Client, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := opts.open(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd.Context(), cmd.OutOrStdout(), s.client, args)
	}
}

func printList(out io.Writer, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, item := range items {
		fmt.Fprintln(out, item)
	}
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "sync [base]",
		Short:   MsgSyncShort,
		GroupID: "pages",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, opts.dryRun)
			if err != nil {
				return err
			}
			defer s.Close()

			base := s.cfg.RepoBase(opts.dev)
			if len(args) > 0 {
				base = args[0]
			}

			out := cmd.OutOrStdout()
			batch, err := s.engine.RunBatch(cmd.Context(), base, engine.RunOptions{
				DryRun: opts.dryRun,
				Force:  opts.force,
				Format: opts.format,
				Out:    out,
			})
			if err != nil {
				return err
			}

			for _, res := range batch.Results {
				if res.Pushed {
					fmt.Fprintf(out, MsgPushedPage, styles.Render("Page", res.Page))
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), MsgSyncSummary, batch.Succeeded(), len(batch.Failed))
			for name, ferr := range batch.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgSyncFailure, name, ferr)
			}
			if len(batch.Failed) > 0 {
				return errors.Newf(errors.ErrRepoInvalid, "%d repo(s) failed", len(batch.Failed)).
					WithDetail("failed", len(batch.Failed))
			}
			return nil
		},
	}
}

func newMatchCmd(opts *globalOptions) *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:     "match TITLE CLASS",
		Short:   MsgMatchShort,
		GroupID: "pages",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if base == "" {
				base = cfg.RepoBase(opts.dev)
			}

			eng := engine.New(nil, cfg)
			matched, err := eng.Match(cmd.Context(), base, args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(matched) == 0 {
				window := windowmatch.WindowEvent{Title: args[0], Class: args[1]}
				fmt.Fprintf(out, MsgNoMatch, window)
				return nil
			}
			for _, p := range matched {
				fmt.Fprintf(out, MsgMatchLine, styles.Render("Page", p.PageName), styles.Render("Path", p.Repo.Dir))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "Repo base to discover from (default is repos.base)")
	return cmd
}

func newControllersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "controllers",
		Short:   MsgControllersShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			serials, err := client.Controllers(ctx)
			if err != nil {
				return err
			}
			printList(out, serials, MsgNoControllers)
			return nil
		}),
	}
}

func newPagesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "pages",
		Short:   MsgPagesShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			pages, err := client.Pages(ctx)
			if err != nil {
				return err
			}
			printList(out, pages, MsgNoPages)
			return nil
		}),
	}
}

func newAddPageCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add-page NAME [JSON]",
		Short:   MsgAddPageShort,
		GroupID: "service",
		Args:    cobra.RangeArgs(1, 2),
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			var body string
			if len(args) == 2 {
				body = args[1]
			}
			if err := client.AddPage(ctx, args[0], body); err != nil {
				return err
			}
			fmt.Fprintf(out, MsgAddedPage, args[0])
			return nil
		}),
	}
}

func newRemovePageCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove-page NAME",
		Short:   MsgRemovePageShort,
		GroupID: "service",
		Args:    cobra.ExactArgs(1),
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			if err := client.RemovePage(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, MsgRemovedPage, args[0])
			return nil
		}),
	}
}

func newSetActivePageCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set-active-page SERIAL NAME",
		Short:   MsgSetActivePageShort,
		GroupID: "service",
		Args:    cobra.ExactArgs(2),
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			if err := client.SetActivePage(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(out, MsgSetActivePage, args[1])
			return nil
		}),
	}
}

func newNotifyForegroundCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "notify-foreground NAME CLASS",
		Short:   MsgNotifyForegroundShort,
		GroupID: "service",
		Args:    cobra.ExactArgs(2),
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			if err := client.NotifyForeground(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(out, MsgNotified, args[0], args[1])
			return nil
		}),
	}
}

func newIconPacksCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "icon-packs",
		Short:   MsgIconPacksShort,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			packs, err := client.IconPacks(ctx)
			if err != nil {
				return err
			}
			printList(out, packs, MsgNoIconPacks)
			return nil
		}),
	}
}

func newIconsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "icons PACK_ID",
		Short:   MsgIconsShort,
		GroupID: "service",
		Args:    cobra.ExactArgs(1),
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			icons, err := client.IconNames(ctx, args[0])
			if err != nil {
				return err
			}
			if len(icons) == 0 {
				fmt.Fprintf(out, MsgNoIcons, args[0])
				return nil
			}
			printList(out, icons, "")
			return nil
		}),
	}
}

func newGetPropertyCmd(opts *globalOptions) *cobra.Command {
	var serial string
	cmd := &cobra.Command{
		Use:     "get-property PROPERTY",
		Short:   MsgGetPropertyShort,
		GroupID: "service",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if serial != "" {
				return controller.ControllerProperties.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return controller.RootProperties.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: serviceRunE(opts, func(ctx context.Context, out io.Writer, client controller.Client, args []string) error {
			var (
				value any
				err   error
			)
			if serial != "" {
				value, err = client.ControllerProperty(ctx, serial, args[0])
			} else {
				value, err = client.Property(ctx, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, MsgPropertyValue, args[0], value)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&serial, "serial", "s", "", MsgFlagSerial)
	return cmd
}

func newListenCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "listen",
		Short:   MsgListenShort,
		Long:    MsgListenLong,
		GroupID: "service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(cmd.ErrOrStderr(), MsgListening, s.cfg.DBus.Service)
			err = s.client.Subscribe(ctx, func(change controller.PropertyChange) {
				printChange(out, s.cfg.DBus.Object, change)
			})
			log.Debug().Msg("Stopped listening")
			return err
		},
	}
}

// printChange writes one change, labelling root object changes as such.
func printChange(out io.Writer, root string, change controller.PropertyChange) {
	label := change.Path
	if label == root || label == "" {
		label = MsgRootObjectLabel
	}
	fmt.Fprintf(out, MsgChangeLine, label, change.Interface, change.Property, change.Value)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionLine, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
