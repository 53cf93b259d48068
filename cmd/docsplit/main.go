// Package main is the entry point for the docsplit CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/docsplit"
	"github.com/tsawler/docsplit/pipeline"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd splits a document; it is also the base for subcommands.
var rootCmd = &cobra.Command{
	Use:   "docsplit [input.docx]",
	Short: "Split a DOCX document into one PDF per heading section",
	Long: `docsplit reads a DOCX document, groups its content under the headings of
the selected levels, and renders each group as its own PDF. Bold, italic,
underline, color and size are kept per run; lists, tables and images are
carried over.

Without --levels the heading levels are read interactively from stdin.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(viper.GetBool("verbose"))
	},
	RunE: runSplit,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docsplit.yaml or ~/.config/docsplit/docsplit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	rootCmd.Flags().String("levels", "", "comma separated heading levels to split on (1,2,3); prompts when empty")
	rootCmd.Flags().String("output-dir", docsplit.DefaultOutputDir, "directory for the rendered PDFs and manifest")
	rootCmd.Flags().String("image-dir", docsplit.DefaultImageDir, "directory for extracted images")
	rootCmd.Flags().Int("workers", 0, "concurrent render jobs (default: half the CPUs)")
	rootCmd.Flags().Bool("keep-other-headings", false, "keep headings of unselected levels as paragraphs")

	viper.SetDefault("input", docsplit.DefaultInput)
	bindFlag("verbose", rootCmd.PersistentFlags(), "verbose")
	for key, flag := range map[string]string{
		"levels":              "levels",
		"output_dir":          "output-dir",
		"image_dir":           "image-dir",
		"workers":             "workers",
		"keep_other_headings": "keep-other-headings",
	} {
		bindFlag(key, rootCmd.Flags(), flag)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docsplit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docsplit"))
		}
	}

	viper.SetEnvPrefix("DOCSPLIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs a text slog handler on stderr.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func runSplit(cmd *cobra.Command, args []string) error {
	input := viper.GetString("input")
	if len(args) == 1 {
		input = args[0]
	}

	levels, err := resolveLevels(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Extracting headers: %v\n", levels)

	splitter := docsplit.Open(input).
		Levels(levels...).
		ImageDir(viper.GetString("image_dir")).
		Workers(viper.GetInt("workers")).
		Output(cmd.OutOrStdout())
	if viper.GetBool("keep_other_headings") {
		splitter = splitter.KeepOtherHeadings()
	}

	report, err := splitter.Render(cmd.Context(), viper.GetString("output_dir"))
	if errors.Is(err, pipeline.ErrNoSections) {
		return nil
	}
	if err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d sections failed: %w", report.Failed, len(report.Sections), report.Err())
	}
	return nil
}

// resolveLevels reads levels from flags or config, or prompts for them.
func resolveLevels(cmd *cobra.Command) ([]int, error) {
	if s := viper.GetString("levels"); s != "" {
		return pipeline.ParseLevels(s)
	}
	return pipeline.PromptLevels(cmd.InOrStdin(), cmd.OutOrStdout())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
