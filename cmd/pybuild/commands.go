package pybuild

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/pybuild/internal/version"
	"github.com/arthur-debert/pybuild/pkg/cobrax/topics"
	"github.com/arthur-debert/pybuild/pkg/logging"
	"github.com/arthur-debert/pybuild/pkg/ui"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbosity    int
	configFile   string
	settingsFile string
	format       string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "pybuild",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.settingsFile, "settings", "", MsgFlagSettings)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newBuildCmd(g))
	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newPlanCmd(g))
	rootCmd.AddCommand(newInitCmd(g))
	rootCmd.AddCommand(newSettingsCmd(g))
	rootCmd.AddCommand(newCompletionCmd())

	opts := topics.Options{
		Extensions: []string{".md"},
		Renderer:   &topics.PlainRenderer{},
	}
	if ui.DetectFormat(stdoutFile) == ui.FormatTerminal {
		opts.Renderer = topics.NewGlamourRenderer()
	}
	if _, err := topics.Initialize(rootCmd, helpTopics(), opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newBuildCmd(g *globalOptions) *cobra.Command {
	b := &buildOptions{}
	cmd := &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, g, b)
		},
	}
	cmd.Flags().BoolVarP(&b.run, "run", "r", false, MsgFlagRun)
	addBuildFlags(cmd, b)
	return cmd
}

func newRunCmd(g *globalOptions) *cobra.Command {
	b := &buildOptions{run: true}
	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, g, b)
		},
	}
	addBuildFlags(cmd, b)
	return cmd
}

func addBuildFlags(cmd *cobra.Command, b *buildOptions) {
	cmd.Flags().BoolVarP(&b.production, "production", "p", false, MsgFlagProduction)
	cmd.Flags().BoolVar(&b.failFast, "fail-fast", false, MsgFlagFailFast)
	cmd.Flags().DurationVar(&b.timeout, "timeout", 0, MsgFlagTimeout)
	cmd.Flags().BoolVarP(&b.dryRun, "dry-run", "n", false, MsgFlagDryRun)
}

func newPlanCmd(g *globalOptions) *cobra.Command {
	b := &buildOptions{}
	cmd := &cobra.Command{
		Use:     "plan",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			b.dryRun = true
			return runBuild(cmd, g, b)
		},
	}
	cmd.Flags().BoolVarP(&b.run, "run", "r", false, MsgFlagRun)
	cmd.Flags().BoolVarP(&b.production, "production", "p", false, MsgFlagProduction)
	return cmd
}

func newInitCmd(g *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(g)
			if err != nil {
				return err
			}
			path, err := writeSampleProject(cmd.Context(), g, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgProjectCreated+"\n", ui.Path(format, path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func newSettingsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "settings",
		Short:   MsgSettingsShort,
		Long:    MsgSettingsLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(g)
			if err != nil {
				return err
			}
			s, err := loadSettings(g, nil)
			if err != nil {
				return err
			}
			out, err := s.TOML()
			if err != nil {
				return err
			}
			if s.File != "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted(format, fmt.Sprintf(MsgSettingsFrom, s.File)))
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// stdoutFile is the file used for terminal detection.
var stdoutFile = os.Stdout
