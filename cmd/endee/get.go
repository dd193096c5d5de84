package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <index> <id>",
		Short: "Fetch a vector by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			index, err := client.GetIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info, err := index.GetVector(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
