package messages

// CLI messages for user-facing commands, flags, and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "skiff"
	// RootShort is the short description for the root command.
	RootShort       = "Skiff runtime launcher and version manager"
	RootVerboseFlag = "Enable debug logging"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"
	VersionUse       = "version"
	VersionShort     = "Print the skiff version"

	// RuntimeUse is the runtime command group name.
	RuntimeUse   = "runtime"
	RuntimeShort = "Install and manage runtime versions"

	ListUse            = "list"
	ListShort          = "List runtime versions available for download"
	ListFlagStableOnly = "Only list stable releases"

	ListInstalledUse   = "list-installed"
	ListInstalledShort = "List installed runtime versions"

	InstallUse              = "install [version]"
	InstallShort            = "Download and install a runtime version"
	InstallPickPrompt       = "Pick a runtime version to install"
	InstallNoVersions       = "no runtime versions available to install"
	InstallRequiresTerminal = "picking a runtime version requires an interactive terminal; pass a version argument"
	InstallDoneFmt          = "Installed runtime %s\n"

	SetDefaultUse     = "set-default <version>"
	SetDefaultShort   = "Set the default runtime version"
	SetDefaultDoneFmt = "The default runtime version is now %s\n"

	UpdateUse              = "update"
	UpdateShort            = "Update the default runtime to the latest version"
	UpdateAlreadyLatestFmt = "Runtime %s is already the latest\n"

	CurrentUse   = "current"
	CurrentShort = "Show the runtime version that would run in this directory"

	PinUse          = "pin <version>"
	PinShort        = "Pin the project manifest to a runtime version"
	PinFlagDryRun   = "Preview the manifest change without writing it"
	PinDryRunNotice = "Dry run: skiff.toml was left unchanged."
	PinDoneFmt      = "Pinned skiff.toml to runtime %s\n"

	ShowSettingsPathUse   = "show-settings-path"
	ShowSettingsPathShort = "Print the path of the settings file"

	UninstallAllUse              = "uninstall-all"
	UninstallAllShort            = "Remove all installed runtime versions"
	UninstallAllFlagForce        = "Remove without prompting"
	UninstallAllPromptFmt        = "Remove all installed runtimes from %s?"
	UninstallAllRequiresTerminal = "uninstall-all prompts require an interactive terminal; re-run with --force"
	UninstallAllAborted          = "Aborted."
	UninstallAllDoneFmt          = "Removed all installed runtimes from %s\n"

	// HelpFooterHeading labels the launcher commands appended to runtime --help output.
	HelpFooterHeading = "Runtime version manager commands:"

	LaunchWorkingDirFmt = "failed to resolve the working directory: %w"
	LaunchExecFmt       = "failed to launch runtime %s: %w"
)
