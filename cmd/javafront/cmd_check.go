package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/java/codebase"
	"github.com/dhamidi/javafront/java/diag"
)

var ErrCheckFailed = errors.New("check failed")

func newCheckCmd(a *app) *cobra.Command {
	var dir string
	var noContext bool

	cmd := &cobra.Command{
		Use:   "check [<file>...]",
		Short: "Parse and enter files and report their diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := codebase.New(dir, a.cfg)
			var err error
			if len(args) == 0 {
				err = c.ScanAll(cmd.Context())
			} else {
				err = c.ScanFiles(cmd.Context(), args)
			}
			if err != nil {
				return err
			}

			var collector diag.Collector
			colorize := a.cfg.UseColor() && cmd.OutOrStdout() == os.Stdout
			printer := diag.NewPrinter(cmd.OutOrStdout(), colorize)
			if noContext {
				printer = printer.WithoutContext()
			}
			report := diag.Multi(&collector, printer)
			for _, path := range c.Paths() {
				f := c.GetFile(path)
				if f.Unit == nil {
					report.Report(diag.Errorf(f.Source, diag.NoPos, "", "%s", f.Err))
				}
				for _, d := range f.Diagnostics {
					report.Report(d)
				}
			}

			errs, warns := collector.Count(diag.Error), collector.Count(diag.Warning)
			log.Infof("checked %d files: %d errors, %d warnings", len(c.Paths()), errs, warns)
			if errs > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d error(s)\n", errs)
				return fmt.Errorf("%d error(s): %w", errs, ErrCheckFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "directory to check when no files are given")
	cmd.Flags().BoolVar(&noContext, "no-context", false, "omit the source line under each diagnostic")

	return cmd
}
