package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/java/scope"
)

func newScopeCmd(a *app) *cobra.Command {
	var visible bool

	cmd := &cobra.Command{
		Use:   "scope <file> <line:column>",
		Short: "Print the scope chain, or the visible names, at a location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := analyzeFile(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if info.Envs == nil {
				return fmt.Errorf("enter %s: %w", args[0], info.Err)
			}
			off, err := offsetOf(info.Source.LineMap(a.cfg.ExpandTabs), args[1])
			if err != nil {
				return err
			}
			s := info.Envs.ScopeAt(off)
			out := cmd.OutOrStdout()

			if visible {
				for _, sym := range scope.Visible(s, nil) {
					fmt.Fprintln(out, sym)
				}
				return nil
			}
			for depth, cur := range scope.Chain(s) {
				fmt.Fprintf(out, "%d %s\n", depth, cur)
				for _, sym := range cur.LocalElements() {
					fmt.Fprintf(out, "    %s\n", sym)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&visible, "visible", false, "print every visible name instead of the chain")

	return cmd
}
