// Package cli implements the routelens command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/routelens/internal/analysis"
	"github.com/dgallion1/routelens/internal/config"
)

type rootOptions struct {
	predicates string
	verbose    bool
}

// NewRootCmd builds the routelens command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "routelens",
		Short: "Find Spring WebFlux routes in Java sources",
		Long: `routelens locates functional WebFlux route definitions (route, nest,
andRoute, andNest) in Java source files and reports their paths, HTTP
methods, accepted media types and content types.

Examples:
  # List every route under src/
  routelens scan src/

  # Only controllers, as JSON
  routelens scan --include '**/*Routes.java' --json src/

  # Show the hover for the element at line 18, column 52
  routelens hover src/main/java/com/example/PersonRoutes.java 18 52`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.predicates, "predicates", os.Getenv("ROUTELENS_PREDICATES_FILE"), "YAML predicate catalog overriding the built-in predicates")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newScanCmd(opts), newHoverCmd(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) analyzer() (*analysis.Analyzer, error) {
	scanner, err := config.LoadScanner(config.Config{PredicatesFile: o.predicates})
	if err != nil {
		return nil, err
	}
	return analysis.New(scanner), nil
}
