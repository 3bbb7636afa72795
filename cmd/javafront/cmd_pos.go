package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/java/position"
)

func newPosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pos",
		Short: "Encode and decode packed line/column positions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <line> <column>",
		Short: "Pack a line and column into a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("line %q: %w", args[0], err)
			}
			column, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("column %q: %w", args[1], err)
			}
			p, err := position.Encode(line, column)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), int64(p))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <position>...",
		Short: "Unpack positions into line:column",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				v, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("position %q: %w", arg, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", v, position.Position(v))
			}
			return nil
		},
	})

	return cmd
}
