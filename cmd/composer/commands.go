package composer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/composer/internal/version"
	"github.com/arthur-debert/composer/pkg/config"
	"github.com/arthur-debert/composer/pkg/document"
	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/executor"
	"github.com/arthur-debert/composer/pkg/filesystem"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/remote"
	"github.com/arthur-debert/composer/pkg/rules"
	"github.com/arthur-debert/composer/pkg/scanner"
	"github.com/arthur-debert/composer/pkg/scripts"
	"github.com/arthur-debert/composer/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"
)

const (
	// ExitError is the exit status for any failure
	ExitError = 1
	// ExitCrossDevice is the exit status when a hardlink would cross filesystems
	ExitCrossDevice = 3

	scriptPerm = 0755
)

// flagKeys maps command-line flags to configuration keys. Only flags the
// user actually set are layered over the configuration.
var flagKeys = map[string]string{
	"repo-priority":     "repo_priority",
	"archs":             "archs",
	"skip-dirs":         "skip_dirs",
	"mask":              "mask",
	"include-beta":      "include_beta",
	"include-extra":     "include_extra",
	"move-debug":        "move_debug",
	"os-dir":            "os_dir",
	"debug-dir":         "debug_dir",
	"all-dir":           "all_dir",
	"custom-rules-file": "custom_rules_file",
	"replacements":      "replacements",
	"real-run":          "real_run",
	"threads":           "threads",
}

// ExitCode returns the process exit status for an error returned by the
// command tree.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if composerErrors.GetErrorCode(err) == composerErrors.ErrCrossDevice {
		return ExitCrossDevice
	}
	return ExitError
}

// ErrorDetails renders the details attached to err as sorted
// "key: value" lines.
func ErrorDetails(err error) []string {
	details := composerErrors.GetErrorDetails(err)
	lines := make([]string, 0, len(details))
	for k, v := range details {
		lines = append(lines, fmt.Sprintf("%s: %v", k, v))
	}
	sort.Strings(lines)
	return lines
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "composer",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newDirectCmd())
	rootCmd.AddCommand(newFromRulesCmd())
	rootCmd.AddCommand(newSaveRulesCmd())
	rootCmd.AddCommand(newMapRepoCmd())
	rootCmd.AddCommand(newFakeRepoCmd())
	rootCmd.AddCommand(newFakeRemoteCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// loadConfig layers the explicitly set flags of cmd over the configured
// defaults, file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := config.LoadOptions{Flags: map[string]interface{}{}}
	opts.ConfigFile, _ = cmd.Flags().GetString("config")

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			opts.Flags[key] = f.Value.String()
		}
	})

	return config.LoadConfiguration(opts)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("repo-priority", "p", "", MsgFlagRepoPriority)
	cmd.Flags().StringP("archs", "a", "", MsgFlagArchs)
	cmd.Flags().StringP("skip-dirs", "S", "", MsgFlagSkipDirs)
	cmd.Flags().StringP("mask", "M", "", MsgFlagMask)
	cmd.Flags().BoolP("include-beta", "b", false, MsgFlagIncludeBeta)
	cmd.Flags().BoolP("include-extra", "e", false, MsgFlagIncludeExtra)
}

func addRuleFlags(cmd *cobra.Command, src, dst *string) {
	cmd.Flags().StringVarP(src, "src-repo", "s", "", MsgFlagSrcRepo)
	cmd.Flags().StringVarP(dst, "dst-repo", "d", "", MsgFlagDstRepo)
	_ = cmd.MarkFlagRequired("src-repo")
	_ = cmd.MarkFlagRequired("dst-repo")

	cmd.Flags().BoolP("move-debug", "m", true, MsgFlagMoveDebug)
	cmd.Flags().StringP("os-dir", "O", "", MsgFlagOSDir)
	cmd.Flags().StringP("debug-dir", "D", "", MsgFlagDebugDir)
	cmd.Flags().StringP("all-dir", "A", "", MsgFlagAllDir)
	cmd.Flags().StringP("custom-rules-file", "C", "", MsgFlagCustomRulesFile)
	cmd.Flags().StringP("replacements", "R", "", MsgFlagReplacements)
}

func addExecFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("real-run", "r", false, MsgFlagRealRun)
	cmd.Flags().IntP("threads", "T", 1, MsgFlagThreads)
}

// deriveCommands maps both repositories and derives the command set.
func deriveCommands(cfg *config.Config, fs types.FS, src, dst string) (*types.CommandSet, error) {
	sc, err := scanner.NewOS(cfg.ScanOptions())
	if err != nil {
		return nil, err
	}

	source, err := sc.Map(src)
	if err != nil {
		return nil, err
	}
	dest, err := sc.Map(dst)
	if err != nil {
		return nil, err
	}

	return rules.NewGenerator(fs, cfg.Policy()).Generate(source, dest)
}

// apply runs cmds per cfg, printing the dry-run report or the run summary.
func apply(cmd *cobra.Command, cfg *config.Config, fs types.FS, cmds *types.CommandSet) error {
	logger := logging.GetLogger("cmd.apply")

	if cmds.IsEmpty() {
		logger.Info().Msg("No moves or links derived")
		fmt.Fprintln(cmd.ErrOrStderr(), MsgNothingToDo)
		return nil
	}

	exec := executor.New(executor.Options{
		Parallelism: cfg.Threads,
		DryRun:      !cfg.RealRun,
		Out:         cmd.OutOrStdout(),
		FS:          fs,
	})

	result, err := exec.Apply(cmd.Context(), cmds)
	if result != nil {
		logger.Info().
			Bool("real_run", cfg.RealRun).
			Int("threads", cfg.Threads).
			Str("result", result.String()).
			Msg("Apply finished")
	}
	if err != nil {
		return err
	}

	if cfg.RealRun {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgResultFormat, result)
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), MsgDryRunNotice)
	}
	return nil
}

func newDirectCmd() *cobra.Command {
	var src, dst string

	cmd := &cobra.Command{
		Use:     "direct",
		Short:   MsgDirectShort,
		Long:    MsgDirectLong,
		Example: MsgDirectExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fs := filesystem.NewOS()
			cmds, err := deriveCommands(cfg, fs, src, dst)
			if err != nil {
				return err
			}
			return apply(cmd, cfg, fs, cmds)
		},
	}

	addScanFlags(cmd)
	addRuleFlags(cmd, &src, &dst)
	addExecFlags(cmd)
	return cmd
}

func newFromRulesCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:     "fromrules",
		Short:   MsgFromRulesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fs := filesystem.NewOS()
			cmds, err := document.LoadCommands(fs, input)
			if err != nil {
				return err
			}
			return apply(cmd, cfg, fs, cmds)
		},
	}

	cmd.Flags().StringVarP(&input, "input-file", "i", "", MsgFlagInputFile)
	_ = cmd.MarkFlagRequired("input-file")
	addExecFlags(cmd)
	return cmd
}

func newSaveRulesCmd() *cobra.Command {
	var src, dst, output string

	cmd := &cobra.Command{
		Use:     "saverules",
		Short:   MsgSaveRulesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fs := filesystem.NewOS()
			cmds, err := deriveCommands(cfg, fs, src, dst)
			if err != nil {
				return err
			}
			if err := document.SaveCommands(fs, output, cmds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), MsgSavedFormat, output)
			return nil
		},
	}

	addScanFlags(cmd)
	addRuleFlags(cmd, &src, &dst)
	cmd.Flags().StringVarP(&output, "output-file", "o", "", MsgFlagOutputFile)
	_ = cmd.MarkFlagRequired("output-file")
	return cmd
}

func newMapRepoCmd() *cobra.Command {
	var src, output string

	cmd := &cobra.Command{
		Use:     "maprepo",
		Short:   MsgMapRepoShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			sc, err := scanner.NewOS(cfg.ScanOptions())
			if err != nil {
				return err
			}
			mapping, err := sc.Map(src)
			if err != nil {
				return err
			}
			if err := document.SaveMapping(filesystem.NewOS(), output, mapping); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), MsgSavedFormat, output)
			return nil
		},
	}

	addScanFlags(cmd)
	cmd.Flags().StringVarP(&src, "src-repo", "s", "", MsgFlagSrcRepo)
	cmd.Flags().StringVarP(&output, "output-file", "o", "", MsgFlagOutputFile)
	_ = cmd.MarkFlagRequired("src-repo")
	_ = cmd.MarkFlagRequired("output-file")
	return cmd
}

func newFakeRepoCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:     "fakerepo",
		Short:   MsgFakeRepoShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := filesystem.NewOS()
			mapping, err := document.LoadMapping(fs, input)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := scripts.WriteFakeRepo(mapping, &buf); err != nil {
				return err
			}
			return writeScript(cmd, fs, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&input, "input-file", "i", "", MsgFlagInputFile)
	cmd.Flags().StringVarP(&output, "bash-output", "b", "", MsgFlagBashOutput)
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("bash-output")
	return cmd
}

func newFakeRemoteCmd() *cobra.Command {
	var url, output string

	cmd := &cobra.Command{
		Use:     "fakeremote",
		Short:   MsgFakeRemoteShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := remote.NewMapper(remote.Options{}).Map(cmd.Context(), url)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := remote.WriteTreeScript(root, &buf); err != nil {
				return err
			}
			return writeScript(cmd, filesystem.NewOS(), output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&url, "input-url", "i", "", MsgFlagInputURL)
	cmd.Flags().StringVarP(&output, "bash-output", "b", "", MsgFlagBashOutput)
	_ = cmd.MarkFlagRequired("input-url")
	_ = cmd.MarkFlagRequired("bash-output")
	return cmd
}

func writeScript(cmd *cobra.Command, fs types.FS, path string, data []byte) error {
	if err := fs.WriteFile(path, data, scriptPerm); err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrScriptWrite, "failed to write %s", path).
			WithDetail("path", path)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), MsgSavedFormat, path)
	return nil
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "query FILE EXPRESSION",
		Short:   MsgQueryShort,
		Long:    MsgQueryLong,
		Example: MsgQueryExample,
		GroupID: "misc",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := document.Query(filesystem.NewOS(), args[0], args[1])
			if err != nil {
				return err
			}
			return document.WriteResults(cmd.OutOrStdout(), results)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	var (
		commented bool
		output    string
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			content, err := config.GenerateConfigContent(cfg, commented)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			if err := filesystem.NewOS().WriteFile(output, []byte(content), 0644); err != nil {
				return composerErrors.Wrapf(err, composerErrors.ErrConfigLoad, "failed to write %s", output).
					WithDetail("path", output)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), MsgSavedFormat, output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&commented, "commented", false, MsgFlagCommented)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagConfigOutput)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
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

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return composerErrors.Wrapf(err, composerErrors.ErrDirCreate, "failed to create %s", dir)
			}
			header := &doc.GenManHeader{
				Title:   "COMPOSER",
				Section: "1",
				Source:  "composer " + version.Version,
				Manual:  "composer manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), MsgManWritten, filepath.Clean(dir))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "man", MsgFlagManDir)
	return cmd
}
