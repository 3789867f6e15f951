package main

import (
	"fmt"

	"github.com/oukeidos/locstr/internal/metadata"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List known models and pricing",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, provider := range []string{metadata.ProviderOpenAI, metadata.ProviderGemini} {
				fmt.Fprintf(out, "%s:\n", providerLabel(provider))
				for _, id := range metadata.ModelIDs(provider) {
					m, _ := metadata.Pricing(id)
					marker := " "
					if id == metadata.DefaultModel(provider) {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %-25s $%.4f / 1k tokens\n", marker, id, m.PricePer1K)
				}
			}
			fmt.Fprintln(out, "\n* = default for the provider")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
