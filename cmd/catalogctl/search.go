package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
)

type searchOptions struct {
	minPrice     float64
	maxPrice     float64
	providers    []string
	sort         string
	page         int
	perPage      int
	noStockFirst bool
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a text search against the product catalog",
		Example: `  catalogctl search tarot --provider "Proveedor A" --min-price 1000 --sort price_asc
  catalogctl search "anillo plata" --per-page 10 --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.filter(cmd)
			perPage := request.DefaultPerPage
			if cmd.Flags().Changed("per-page") {
				// An explicit 0 asks for the smallest page, as the HTTP API does.
				perPage = max(opts.perPage, request.MinPerPage)
			}
			req := request.NewText(strings.Join(args, " "), f, request.ParseSort(opts.sort),
				opts.page, perPage, !opts.noStockFirst)
			return runSearch(cmd, root, &req)
		},
	}
	cmd.Flags().Float64Var(&opts.minPrice, "min-price", 0, "lowest price to include")
	cmd.Flags().Float64Var(&opts.maxPrice, "max-price", 0, "highest price to include")
	cmd.Flags().StringSliceVarP(&opts.providers, "provider", "p", nil, "provider names (repeatable or comma separated)")
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", string(request.Relevance), "relevance, price_asc or price_desc")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "results per page (5-100)")
	cmd.Flags().BoolVar(&opts.noStockFirst, "no-stock-first", false, "rank by score only, ignoring stock")
	return cmd
}

// filter builds the provider/price filter. Price bounds apply only when given.
func (o *searchOptions) filter(cmd *cobra.Command) filter.Filter {
	var minPrice, maxPrice *float64
	if cmd.Flags().Changed("min-price") {
		minPrice = &o.minPrice
	}
	if cmd.Flags().Changed("max-price") {
		maxPrice = &o.maxPrice
	}
	return filter.New(o.providers, minPrice, maxPrice)
}

func runSearch(cmd *cobra.Command, root *rootOptions, req *request.Text) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
	defer cancel()

	st, ctx, err := root.open(ctx)
	if err != nil {
		return err
	}
	defer st.close()

	page, err := st.search.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printPage(cmd.OutOrStdout(), root.asJSON, page)
}
