package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sergio973-web/buscador-mega/internal/domain/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
	"github.com/Sergio973-web/buscador-mega/internal/imagehash"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <image>...",
		Short: "Print the difference hash of local image files",
		Long:  "Print the 64-bit difference hash (hex) used by the catalog's \"hash\" field.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				h, err := hashFile(path)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(out, h.String())
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", h.String(), path)
			}
			return nil
		},
	}
}

func newSimilarCmd(root *rootOptions) *cobra.Command {
	var (
		topK      int
		providers []string
	)
	cmd := &cobra.Command{
		Use:   "similar <image>",
		Short: "Rank the embedding catalog by perceptual-hash distance to a local image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashFile(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			st, ctx, err := root.open(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			if topK <= 0 {
				topK = st.cfg.Search.HashTopK
			}
			req := request.NewHashQuery(h, filter.New(providers, nil, nil), topK)
			cands, err := st.search.SearchByImage(ctx, &req)
			if err != nil {
				return fmt.Errorf("search by image: %w", err)
			}
			return printCandidates(cmd.OutOrStdout(), root.asJSON, cands)
		},
	}
	cmd.Flags().IntVarP(&topK, "top", "k", 0, "number of results (default: search.hash_top_k)")
	cmd.Flags().StringSliceVarP(&providers, "provider", "p", nil, "restrict to these providers")
	return cmd
}

func hashFile(path string) (catalog.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	h, err := imagehash.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return h, nil
}
