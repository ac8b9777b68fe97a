package autopage

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort             = "Generate StreamController pages from TOML definitions"
	MsgControllersShort      = "List connected controller serial numbers"
	MsgPagesShort            = "List all pages"
	MsgAddPageShort          = "Add a page, optionally from a JSON document"
	MsgRemovePageShort       = "Remove a page"
	MsgSetActivePageShort    = "Set the active page on a controller"
	MsgNotifyForegroundShort = "Notify the service of a foreground window"
	MsgIconPacksShort        = "List icon packs"
	MsgIconsShort            = "List icons in a pack"
	MsgGetPropertyShort      = "Read a service property"
	MsgListenShort           = "Print property change notifications"
	MsgMatchShort            = "Show which pages a window would activate"
	MsgSyncShort             = "Generate and push every page under the repo base"
	MsgVersionShort          = "Print version information"
	MsgCompletionShort       = "Generate shell completion script"

	// Output
	MsgNoControllers   = "No controllers found."
	MsgNoPages         = "No pages found."
	MsgNoIconPacks     = "No icon packs found."
	MsgNoIcons         = "No icons found in pack: %s\n"
	MsgNoMatch         = "No page matches window: %s\n"
	MsgAddedPage       = "Added page: %s\n"
	MsgRemovedPage     = "Removed page: %s\n"
	MsgSetActivePage   = "Set active page: %s\n"
	MsgNotified        = "Notified foreground window: name=%q class=%q\n"
	MsgPushedPage      = "Pushed page: %s\n"
	MsgPropertyValue   = "%s = %v\n"
	MsgChangeLine      = "[%s] %s %s = %v\n"
	MsgListening       = "Listening for property changes on %s (Ctrl+C to stop)\n"
	MsgSyncSummary     = "%d page(s) generated, %d failed\n"
	MsgSyncFailure     = "  %s: %v\n"
	MsgMatchLine       = "%s  %s\n"
	MsgVersionLine     = "autopage version %s\n  commit: %s\n  built:  %s\n"
	MsgRootObjectLabel = "root"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Generate the page and print it instead of pushing"
	MsgFlagForce   = "Replace the page if it already exists (remove then re-add)"
	MsgFlagDev     = "Discover repos from repos.dev_path instead of repos.base"
	MsgFlagListen  = "Switch pages automatically on foreground window changes"
	MsgFlagStrict  = "Fail the page on the first button that cannot be generated"
	MsgFlagFormat  = "Dry-run output format (json or yaml)"
	MsgFlagRows    = "Deck rows used for automatic placement"
	MsgFlagCols    = "Deck columns used for automatic placement"
	MsgFlagConfig  = "Config file (default is $XDG_CONFIG_HOME/autopage/config.toml)"
	MsgFlagSerial  = "Controller serial (omit for service properties)"

	// Error messages
	MsgErrNoSource = "no source given"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/listen-long.txt
	msgListenLongRaw string
	MsgListenLong    = strings.TrimSpace(msgListenLongRaw)
)
