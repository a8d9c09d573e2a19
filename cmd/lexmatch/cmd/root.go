package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/domain/lexicon"
	"github.com/spf13/cobra"
)

var (
	lexiconDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lexmatch",
	Short: "lexmatch — hierarchical lexicon matcher",
	Long: "Finds names from hierarchical lexicons (ministry > department > ...) in free text\n" +
		"and joins adjoining mentions into one chain per organisational unit.",
	SilenceUsage: true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// newLogger returns the CLI logger; --verbose enables debug output.
func newLogger() *log.Logger {
	return app.NewLogger(os.Stderr, verbose)
}

// loadLocalSet loads lexicons in-process, honoring --lexicons and
// .lexmatch/lexicons/.
func loadLocalSet(policy hierarchy.AmbiguityPolicy) (*lexicon.Set, error) {
	dir := app.ResolveLexiconDir(projectRoot(), lexiconDir)
	set, err := app.LoadLexicons(dir, app.HierarchyOptions(policy, newLogger())...)
	if err != nil {
		return nil, fmt.Errorf("load lexicons: %w", err)
	}
	return set, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&lexiconDir, "lexicons", "", "Lexicon directory (default: .lexmatch/lexicons/ or the built-in set)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
