package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/format"
	"github.com/dhamidi/javafront/java/codebase"
)

func newTreeCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Dump the syntax tree of a .java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := analyzeFile(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout(), info.Source.LineMap(a.cfg.ExpandTabs))
			if err != nil {
				return err
			}
			if err := enc.Encode(info.Unit); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"output format ("+strings.Join(format.Names(), ", ")+")")

	return cmd
}

// analyzeFile parses and enters a single file. Diagnostics stay in the
// returned FileInfo; only unreadable or unparsable files are errors.
func analyzeFile(ctx context.Context, a *app, path string) (*codebase.FileInfo, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := codebase.New(filepath.Dir(path), a.cfg)
	info, err := c.ScanFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if info.Unit == nil {
		return nil, fmt.Errorf("parse %s: %w", path, info.Err)
	}
	return info, nil
}
