// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the search history log",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No history.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWHEN\tPROVIDER\tCOUNT\tQUERY\tERRORS")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
				e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Provider,
				e.Count, e.Query, strings.Join(e.Errors, ","))
		}
		return tw.Flush()
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entries.\n", removed)
		return nil
	},
}

func openHistory() (*history.Store, error) {
	cfg := engineConfig()
	if cfg.History.Path == "" {
		return nil, fmt.Errorf("history is disabled: set history.path in the config")
	}
	return history.Open(cfg.History.Path)
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum entries to list")
	historyPruneCmd.Flags().Int("keep", 100, "entries to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
