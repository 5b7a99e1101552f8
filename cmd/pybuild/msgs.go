package pybuild

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build, package and run PySide applications"
	MsgBuildShort      = "Run the build steps for the project"
	MsgRunShort        = "Build the project and launch the application"
	MsgPlanShort       = "Print the build steps without running them"
	MsgInitShort       = "Write a sample project file"
	MsgSettingsShort   = "Print the effective settings"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice   = "DRY RUN MODE - No steps were run"
	MsgNoSteps        = "Nothing to do."
	MsgBuildDone      = "Build finished"
	MsgProjectCreated = "Created %s"
	MsgSettingsFrom   = "# loaded from %s"

	// Error messages
	MsgErrProjectExists = "%s already exists, use --force to replace it"
	MsgErrWriteProject  = "failed to write %s"
	MsgErrFormat        = "invalid --format %q"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Project file (default from settings: pyproject.yml)"
	MsgFlagSettings   = "Settings file (default: XDG config pybuild/config.toml)"
	MsgFlagFormat     = "Output format: auto, term or text"
	MsgFlagRun        = "Launch the application after building"
	MsgFlagProduction = "Package the application and run the packaged executable"
	MsgFlagFailFast   = "Stop the build when a command fails"
	MsgFlagTimeout    = "Kill commands running longer than this (0 disables)"
	MsgFlagDryRun     = "Print the steps without running them"
	MsgFlagForce      = "Replace an existing project file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimRight(msgBuildExampleRaw, "\n")

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/settings-long.txt
	msgSettingsLongRaw string
	MsgSettingsLong    = strings.TrimSpace(msgSettingsLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
