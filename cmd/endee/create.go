package main

import (
	"fmt"

	"github.com/spf13/cobra"

	endee "github.com/itspunkaj/endee-go"
)

func NewCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			dim, _ := cmd.Flags().GetInt("dim")
			space, _ := cmd.Flags().GetString("space")
			precision, _ := cmd.Flags().GetString("precision")
			sparseDim, _ := cmd.Flags().GetInt("sparse-dim")
			m, _ := cmd.Flags().GetInt("m")
			efCon, _ := cmd.Flags().GetInt("ef-con")

			err = client.CreateIndex(cmd.Context(), endee.CreateIndexOptions{
				Name:            args[0],
				Dimension:       dim,
				SpaceType:       endee.SpaceType(space),
				Precision:       endee.Precision(precision),
				SparseDimension: sparseDim,
				M:               m,
				EFConstruction:  efCon,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "index %s created\n", args[0])
			return nil
		},
	}

	cmd.Flags().Int("dim", 0, "Dense dimension (required)")
	_ = cmd.MarkFlagRequired("dim")
	cmd.Flags().String("space", "cosine", "Space type (cosine|l2|ip)")
	cmd.Flags().String("precision", "int8d", "Quantization precision")
	cmd.Flags().Int("sparse-dim", 0, "Sparse dimension (0 = dense-only)")
	cmd.Flags().Int("m", endee.DefaultM, "Graph connectivity")
	cmd.Flags().Int("ef-con", endee.DefaultEFConstruction, "Construction breadth")
	return cmd
}
