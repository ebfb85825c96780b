package composer

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Reorganize a package repository to mirror another one's layout"
	MsgDirectShort     = "Derive commands from two repositories and apply them"
	MsgFromRulesShort  = "Apply commands loaded from a file"
	MsgSaveRulesShort  = "Derive commands from two repositories and save them"
	MsgMapRepoShort    = "Map a repository tree and save it as JSON"
	MsgFakeRepoShort   = "Write a script recreating a mapped repository with empty files"
	MsgFakeRemoteShort = "Write a script recreating a remote repository listing with empty files"
	MsgQueryShort      = "Run a JSONPath query against a saved document"
	MsgGenConfigShort  = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgVersionFormat = "composer version %s\n  commit: %s\n  built:  %s\n"
	MsgResultFormat  = "%s\n"
	MsgDryRunNotice  = "# dry run, nothing was changed (pass --real-run to apply)"
	MsgNothingToDo   = "Nothing to do"
	MsgSavedFormat   = "Saved %s\n"
	MsgManWritten    = "Man pages written to %s\n"

	// Error messages
	MsgErrNoCommand = "no command specified"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig          = "Configuration file (default $XDG_CONFIG_HOME/composer/config.toml)"
	MsgFlagRepoPriority    = "Channels in priority order, e.g. BaseOS,AppStream"
	MsgFlagArchs           = "Recognized architectures in fallback order, e.g. x86_64,noarch"
	MsgFlagSkipDirs        = "Directories that are never indexed, e.g. debug,os"
	MsgFlagMask            = "Regular expression selecting files of interest"
	MsgFlagIncludeBeta     = "Recognize beta channel directories (e.g. AppStream-beta/)"
	MsgFlagIncludeExtra    = "Recognize channels by lower-cased name (e.g. rhel-9-for-x86_64-baseos-rpms/)"
	MsgFlagSrcRepo         = "Source repository (the layout to model)"
	MsgFlagDstRepo         = "Destination repository (the tree to modify)"
	MsgFlagMoveDebug       = "Move debug packages out of the destination all layout"
	MsgFlagOSDir           = "Name of the os directory"
	MsgFlagDebugDir        = "Name of the debug directory"
	MsgFlagAllDir          = "Name of the all directory"
	MsgFlagCustomRulesFile = "File with additional link rules"
	MsgFlagReplacements    = "Channel renames as from/to pairs, e.g. CodeReady/PowerTools,Devel/BaseOS"
	MsgFlagRealRun         = "Apply the commands instead of printing them"
	MsgFlagThreads         = "Number of workers per phase"
	MsgFlagInputFile       = "Input JSON file"
	MsgFlagOutputFile      = "Output JSON file"
	MsgFlagBashOutput      = "Output shell script"
	MsgFlagInputURL        = "Repository URL"
	MsgFlagCommented       = "Comment out every value"
	MsgFlagConfigOutput    = "Write to this file instead of stdout"
	MsgFlagManDir          = "Directory to write man pages to"
)

// Long messages
const (
	MsgRootLong = `composer makes a destination package repository mirror the directory layout
of a source repository. It maps both trees, derives mkdir, mv and hardlink
commands and applies them, or prints them when not running for real.

Configuration is read from built-in defaults, the config file, COMPOSER_*
environment variables and flags, in that order.`

	MsgDirectLong = `Map the source and destination repositories, derive the commands that make the
destination mirror the source and apply them. Without --real-run the commands
are printed as shell lines and nothing is changed.

Exits with status 3 when a hardlink would cross filesystems.`

	MsgDirectExample = `  composer direct -s /srv/rhel-8.6 -d /srv/rhel-8.7
  composer direct -s /srv/rhel-8.6 -d /srv/rhel-8.7 -R CodeReady/PowerTools -r -T 8`

	MsgQueryLong = `Query a saved command set or repository map with a JSONPath expression and
print each result on its own line. Strings are printed as-is, anything else
as JSON.`

	MsgQueryExample = `  composer query rules.json '$.ln[*][1]'
  composer query map.json '$[?(@.elem_arch == "noarch")].elem_path'`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(composer completion bash)

Zsh:
  $ composer completion zsh > "${fpath[1]}/_composer"

Fish:
  $ composer completion fish | source

PowerShell:
  PS> composer completion powershell | Out-String | Invoke-Expression`
)
