package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/source"
)

var ErrBadLocation = errors.New("bad location")

func newLinesCmd(a *app) *cobra.Command {
	var offsets []int
	var locations []string
	var tabs bool

	cmd := &cobra.Command{
		Use:   "lines <file>",
		Short: "Print the line table of a file, or translate offsets and line:column pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source.Read(args[0], source.WithChecks(a.cfg.Checks))
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			lm := src.LineMap(tabs || a.cfg.ExpandTabs)
			out := cmd.OutOrStdout()

			if len(offsets) == 0 && len(locations) == 0 {
				writeLineTable(out, src, lm)
				return nil
			}
			cursor := lm.Cursor()
			for _, off := range offsets {
				if off < 0 || off > len(src.Content) {
					return fmt.Errorf("offset %d outside [0, %d]: %w", off, len(src.Content), ErrBadLocation)
				}
				p := cursor.Encode(off)
				fmt.Fprintf(out, "%d\t%d:%d\t%d\n", off, cursor.LineNumber(off), cursor.ColumnNumber(off), int64(p))
			}
			for _, loc := range locations {
				off, err := offsetOf(lm, loc)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%d\n", loc, off)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&offsets, "offset", "o", nil, "offsets to translate to line:column")
	cmd.Flags().StringSliceVarP(&locations, "at", "a", nil, "line:column pairs to translate to offsets")
	cmd.Flags().BoolVar(&tabs, "tabs", false, "expand tabs when computing columns")

	return cmd
}

// writeLineTable prints each line's number, start offset and text.
func writeLineTable(w io.Writer, src *source.File, lm position.LineMap) {
	for line := position.FirstLine; line <= lm.LineCount(); line++ {
		fmt.Fprintf(w, "%d\t%d\t%s\n", line, lm.StartPosition(line), src.Line(lm, line))
	}
}

// parseLineCol parses "line:column".
func parseLineCol(s string) (int, int, error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not line:column: %w", s, ErrBadLocation)
	}
	line, err := strconv.Atoi(l)
	if err != nil {
		return 0, 0, fmt.Errorf("line in %q: %w", s, ErrBadLocation)
	}
	col, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, fmt.Errorf("column in %q: %w", s, ErrBadLocation)
	}
	return line, col, nil
}

// offsetOf converts "line:column" to an offset, rejecting lines the map
// does not have.
func offsetOf(lm position.LineMap, s string) (int, error) {
	line, col, err := parseLineCol(s)
	if err != nil {
		return 0, err
	}
	if line < position.FirstLine || line > lm.LineCount() || col < position.FirstColumn {
		return 0, fmt.Errorf("%s outside %d lines: %w", s, lm.LineCount(), ErrBadLocation)
	}
	return lm.Position(line, col), nil
}
