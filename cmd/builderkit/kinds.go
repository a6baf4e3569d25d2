package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-builderkit/pkg/builders"
)

func newKindsCmd() *cobra.Command {
	var showFields bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List builder kinds and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, kind := range builders.Default().Kinds() {
				fmt.Fprintf(out, "%-8s %s\n", kind.Name, kind.Schema.Title)
				if !showFields {
					continue
				}
				for _, spec := range kind.Schema.Fields {
					fmt.Fprintf(out, "  %-22s %-8s %s\n", spec.Name, spec.Type(), strings.TrimSpace(spec.Label))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showFields, "fields", false, "Show each kind's fields")
	return cmd
}
