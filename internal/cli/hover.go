package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dgallion1/routelens/internal/convert"
	"github.com/dgallion1/routelens/internal/document"
	"github.com/dgallion1/routelens/internal/hover"
	"github.com/dgallion1/routelens/internal/render"
)

type hoverOptions struct {
	*rootOptions
	format string
}

func newHoverCmd(root *rootOptions) *cobra.Command {
	opts := &hoverOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "hover FILE LINE COLUMN",
		Short: "Print the hover documentation for the route element at a position",
		Long: `Print the hover documentation for the route element at a position.
LINE and COLUMN are 1-based, as printed by "routelens scan".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "markdown", "output format: markdown or html")
	return cmd
}

func (o *hoverOptions) run(cmd *cobra.Command, args []string) error {
	if o.format != "markdown" && o.format != "html" {
		return fmt.Errorf("--format must be markdown or html, got %q", o.format)
	}
	line, err := strconv.Atoi(args[1])
	if err != nil || line < 1 {
		return fmt.Errorf("invalid line %q", args[1])
	}
	col, err := strconv.Atoi(args[2])
	if err != nil || col < 1 {
		return fmt.Errorf("invalid column %q", args[2])
	}

	log := o.logger(cmd.ErrOrStderr())
	analyzer, err := o.analyzer()
	if err != nil {
		return err
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	res, err := analyzer.Analyze(cmd.Context(), args[0], src)
	if err != nil {
		return err
	}

	doc := res.Document
	if n := doc.LineCount(); line > n {
		return fmt.Errorf("%s: line %d is past the end of the file (%d lines)", doc.URI(), line, n)
	}
	pos := document.Position{Line: line - 1, Character: col - 1}
	if _, err := doc.PositionToOffset(pos); err != nil {
		return fmt.Errorf("%s:%d:%d: %w", doc.URI(), line, col, err)
	}
	hit, ok := res.ElementAt(pos)
	if !ok {
		return fmt.Errorf("%s:%d:%d: no route element here", doc.URI(), line, col)
	}
	log.Debug("hover", "kind", hit.Kind, "element", hit.Element.Name, "route", hit.Route.Kind)

	rr := render.Renderer{Converter: convert.HTMLToMarkdown{}, Log: log}
	h := hover.ForElement(hit.Route, hit.Element, hit.Kind, res.Source)
	out := rr.Markdown(h)
	if o.format == "html" {
		out = rr.HTML(h)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
