package main

import (
	"fmt"

	"github.com/spf13/cobra"

	endee "github.com/itspunkaj/endee-go"
)

func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <index> [id]",
		Short: "Delete a vector by id, or by filter",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			index, err := client.GetIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			filterJSON, _ := cmd.Flags().GetString("filter")
			switch {
			case len(args) == 2:
				if err := index.DeleteVector(cmd.Context(), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "vector %s deleted\n", args[1])
			case filterJSON != "":
				filter, err := endee.ParseFilter(filterJSON)
				if err != nil {
					return err
				}
				if err := index.DeleteWithFilter(cmd.Context(), filter); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "matching vectors deleted")
			default:
				return fmt.Errorf("either an id or --filter is required")
			}
			return nil
		},
	}

	cmd.Flags().String("filter", "", `Delete filter as JSON, e.g. '[{"genre":{"$eq":"jazz"}}]'`)
	return cmd
}
