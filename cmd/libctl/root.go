package main

import (
	"errors"
	"fmt"
	"os"

	"library-manager/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "libctl",
	Short: "One-shot commands against a library snapshot",
	Long: `libctl loads the persisted library, applies a single operation and
saves the result back. It shares its configuration and on-disk artifact
with the interactive shell.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			l, err := zap.NewDevelopment()
			if err == nil {
				logger = l
			}
		}
	},
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "library.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// openLibrary loads the configured store, falling back to an empty
// aggregate when no usable artifact exists yet.
func openLibrary() (*library.Library, library.Store) {
	cfg, err := library.LoadConfig(configPath)
	if err != nil {
		fatal("read config", err)
	}
	store, err := library.NewStore(cfg)
	if err != nil {
		fatal("open store", err)
	}

	opts := []library.Option{library.WithConfig(cfg), library.WithLogger(logger)}
	lib, err := store.Load(opts...)
	if err != nil {
		if !errors.Is(err, library.ErrLoadFailed) {
			fatal("load library", err)
		}
		lib = library.New(opts...)
	}
	return lib, store
}

func saveLibrary(lib *library.Library, store library.Store) {
	if err := store.Save(lib); err != nil {
		fatal("save library", err)
	}
}
