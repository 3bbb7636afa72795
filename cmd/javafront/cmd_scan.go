package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/frontend"
	"github.com/dhamidi/javafront/java/source"
	"github.com/dhamidi/javafront/java/tree"
)

func newScanCmd(a *app) *cobra.Command {
	var histogram bool
	var positions bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Parse files in parallel and print their tree outlines or a node kind histogram",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			units, err := parseAll(ctx, a, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if histogram {
				writeHistogram(out, units)
				return nil
			}
			for _, unit := range units {
				if err := tree.Walk(unit, tree.NewScanner(tree.WithChecks(a.cfg.Checks))); err != nil {
					return fmt.Errorf("%s: %w", unit.File, err)
				}
				fmt.Fprint(out, tree.Outline(unit, positions))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&histogram, "histogram", false, "print node kind counts over all files")
	cmd.Flags().BoolVar(&positions, "positions", true, "include offsets in outlines")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", time.Minute, "timeout for the whole scan")

	return cmd
}

// parseAll parses paths with at most cfg.WorkerCount() parsers at once.
// Units come back in argument order. Syntax errors are logged, not fatal.
func parseAll(ctx context.Context, a *app, paths []string) ([]*tree.CompilationUnit, error) {
	units := make([]*tree.CompilationUnit, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.WorkerCount())
	for i, path := range paths {
		g.Go(func() error {
			src, err := source.Read(path, source.WithChecks(a.cfg.Checks))
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			unit, err := frontend.Parse(ctx, src, diag.NewLogListener("javafront.scan"),
				frontend.WithTabs(a.cfg.ExpandTabs), frontend.WithChecks(a.cfg.Checks))
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func writeHistogram(w io.Writer, units []*tree.CompilationUnit) {
	total := map[tree.Kind]int{}
	for _, unit := range units {
		for kind, n := range tree.Count(unit) {
			total[kind] += n
		}
	}
	kinds := make([]tree.Kind, 0, len(total))
	for kind := range total {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if total[kinds[i]] != total[kinds[j]] {
			return total[kinds[i]] > total[kinds[j]]
		}
		return kinds[i].String() < kinds[j].String()
	})
	for _, kind := range kinds {
		fmt.Fprintf(w, "%d\t%s\n", total[kind], kind)
	}
}
