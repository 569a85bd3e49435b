package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/routelens/internal/pipeline"
	"github.com/dgallion1/routelens/internal/route"
)

type scanOptions struct {
	*rootOptions
	include string
	json    bool
	csv     bool
}

func newScanCmd(root *rootOptions) *cobra.Command {
	opts := &scanOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "scan PATH...",
		Short: "List the routes defined in Java files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.Flags().StringVar(&opts.include, "include", "**/*.java", "glob for files found by walking directories")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "print one CSV row per route")
	cmd.MarkFlagsMutuallyExclusive("json", "csv")
	return cmd
}

func (o *scanOptions) run(cmd *cobra.Command, args []string) error {
	log := o.logger(cmd.ErrOrStderr())
	analyzer, err := o.analyzer()
	if err != nil {
		return err
	}

	paths, err := discover(args, o.include)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no Java files found")
	}

	files := make([]pipeline.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, pipeline.File{Name: p, Data: data})
	}

	job := pipeline.NewJob(files)
	pipeline.NewWorker(analyzer, log, runtime.NumCPU()).Process(cmd.Context(), job)

	results := job.Results()
	sort.Slice(results, func(i, j int) bool { return results[i].Filename < results[j].Filename })

	out := cmd.OutOrStdout()
	switch {
	case o.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	case o.csv:
		if err := writeCSV(out, results); err != nil {
			return err
		}
	default:
		printRoutes(out, results)
	}

	if snap := job.Snapshot(); len(snap.Progress.Errors) > 0 {
		return fmt.Errorf("%d of %d files failed", len(snap.Progress.Errors), len(files))
	}
	return nil
}

func printRoutes(w io.Writer, results []pipeline.FileResult) {
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: error: %s\n", r.Filename, r.Error)
			continue
		}
		for _, rt := range r.Routes {
			fmt.Fprintf(w, "%s:%d:%d: %s\n", r.Filename, rt.Range.Start.Line+1, rt.Range.Start.Character+1, describe(rt))
		}
	}
}

var csvHeader = []string{"file", "line", "column", "kind", "methods", "paths", "accept", "content_type", "error"}

func writeCSV(w io.Writer, results []pipeline.FileResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if r.Error != "" {
			if err := cw.Write([]string{r.Filename, "", "", "", "", "", "", "", r.Error}); err != nil {
				return err
			}
			continue
		}
		for _, rt := range r.Routes {
			row := []string{
				r.Filename,
				strconv.Itoa(rt.Range.Start.Line + 1),
				strconv.Itoa(rt.Range.Start.Character + 1),
				rt.Kind,
				joinNames(rt.Methods, "|"),
				joinNames(rt.Paths, "|"),
				joinNames(rt.AcceptTypes, "|"),
				joinNames(rt.ContentTypes, "|"),
				"",
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// describe formats a route as "kind METHODS paths [accept=...] [contentType=...]".
func describe(rt route.Route) string {
	parts := []string{rt.Kind}
	if len(rt.Methods) > 0 {
		parts = append(parts, joinNames(rt.Methods, "|"))
	}
	if len(rt.Paths) > 0 {
		parts = append(parts, joinNames(rt.Paths, ","))
	}
	if len(rt.AcceptTypes) > 0 {
		parts = append(parts, "accept="+joinNames(rt.AcceptTypes, ","))
	}
	if len(rt.ContentTypes) > 0 {
		parts = append(parts, "contentType="+joinNames(rt.ContentTypes, ","))
	}
	return strings.Join(parts, " ")
}

func joinNames(els []route.Element, sep string) string {
	names := make([]string, len(els))
	for i, e := range els {
		names[i] = e.Name
	}
	return strings.Join(names, sep)
}
