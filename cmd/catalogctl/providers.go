package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newProvidersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the distinct providers of the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			st, ctx, err := root.open(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			providers, err := st.search.Providers(ctx)
			if err != nil {
				return fmt.Errorf("list providers: %w", err)
			}
			return printProviders(cmd.OutOrStdout(), root.asJSON, providers)
		},
	}
}
