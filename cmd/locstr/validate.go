package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/locstr/internal/catalog"
	"github.com/oukeidos/locstr/internal/validate"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog.xcstrings>",
		Short: "Check a String Catalog for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	if err := validateCatalogExtension(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	out := cmd.OutOrStdout()
	if ok, violations := validate.Schema(data); !ok {
		fmt.Fprintf(out, "%s: %d problem(s)\n", path, len(violations))
		for _, v := range violations {
			fmt.Fprintf(out, "  %s\n", v)
		}
		return fmt.Errorf("catalog has schema violations")
	}
	if _, err := catalog.Parse(data); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: OK\n", path)
	return nil
}
