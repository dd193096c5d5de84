package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	endee "github.com/itspunkaj/endee-go"
)

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <index>",
		Short: "Run a similarity search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			vector, _ := cmd.Flags().GetFloat64Slice("vector")
			sparseIndices, _ := cmd.Flags().GetIntSlice("sparse-indices")
			sparseValues, _ := cmd.Flags().GetFloat64Slice("sparse-values")
			topK, _ := cmd.Flags().GetInt("top-k")
			ef, _ := cmd.Flags().GetInt("ef")
			includeVectors, _ := cmd.Flags().GetBool("include-vectors")
			filterJSON, _ := cmd.Flags().GetString("filter")

			var filter endee.Filter
			if filterJSON != "" {
				if filter, err = endee.ParseFilter(filterJSON); err != nil {
					return err
				}
			}

			index, err := client.GetIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			results, err := index.Query(cmd.Context(), endee.QueryOptions{
				Vector:         vector,
				SparseIndices:  sparseIndices,
				SparseValues:   sparseValues,
				TopK:           topK,
				EF:             ef,
				Filter:         filter,
				IncludeVectors: includeVectors,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	cmd.Flags().Float64Slice("vector", nil, "Dense query vector, comma-separated")
	cmd.Flags().IntSlice("sparse-indices", nil, "Sparse query indices")
	cmd.Flags().Float64Slice("sparse-values", nil, "Sparse query values")
	cmd.Flags().IntP("top-k", "k", endee.DefaultTopK, "Number of results")
	cmd.Flags().Int("ef", endee.DefaultEF, "Search breadth")
	cmd.Flags().Bool("include-vectors", false, "Return stored vectors")
	cmd.Flags().String("filter", "", `Filter as JSON, e.g. '[{"genre":{"$eq":"jazz"}}]'`)
	return cmd
}
