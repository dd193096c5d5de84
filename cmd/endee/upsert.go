package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	endee "github.com/itspunkaj/endee-go"
)

// recordPayload is the JSON shape of one record in an upsert file.
type recordPayload struct {
	ID            string         `json:"id"`
	Vector        []float64      `json:"vector"`
	Meta          map[string]any `json:"meta,omitempty"`
	Filter        map[string]any `json:"filter,omitempty"`
	SparseIndices []int          `json:"sparse_indices,omitempty"`
	SparseValues  []float64      `json:"sparse_values,omitempty"`
}

func NewUpsertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upsert <index> <file>",
		Short: "Upsert vectors from a JSON file",
		Long:  `Upsert a JSON array of records ({id, vector, meta?, filter?, sparse_indices?, sparse_values?}).`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read records: %w", err)
			}
			var records []recordPayload
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("parse records: %w", err)
			}

			genIDs, _ := cmd.Flags().GetBool("gen-ids")
			items := make([]endee.VectorItem, len(records))
			for i, r := range records {
				if r.ID == "" && genIDs {
					r.ID = uuid.NewString()
				}
				items[i] = endee.VectorItem{
					ID:            r.ID,
					Vector:        r.Vector,
					Meta:          r.Meta,
					Filter:        r.Filter,
					SparseIndices: r.SparseIndices,
					SparseValues:  r.SparseValues,
				}
			}

			index, err := client.GetIndex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := index.Upsert(cmd.Context(), items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d vectors upserted into %s\n", len(items), args[0])
			return nil
		},
	}

	cmd.Flags().Bool("gen-ids", false, "Generate UUIDs for records without an id")
	return cmd
}
