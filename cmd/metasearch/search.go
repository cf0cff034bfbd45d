// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/federator"
	"github.com/pdiddy/metasearch/internal/history"
	"github.com/pdiddy/metasearch/internal/queryfile"
	"github.com/pdiddy/metasearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Query all providers and print the merged results",
	Long: `Search fans one query out to the selected providers concurrently and
prints the deduplicated merge. Provider failures are reported as warnings;
they never abort the search.

The structured filter flags (--term, --types, --number, --year, --locality,
--authority, --exclude) are only meaningful for the legal-document provider.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text query")
	searchCmd.Flags().String("provider", "all", "provider selection: all, scholar, legal, web, or a provider id")
	searchCmd.Flags().String("limit", "5", "per-provider result cap (clamped into [1,10])")
	searchCmd.Flags().String("term", "", "legal filter: phrase matched against title or description")
	searchCmd.Flags().String("types", "", "legal filter: comma-separated document types")
	searchCmd.Flags().String("number", "", "legal filter: official document number")
	searchCmd.Flags().String("year", "", "legal filter: year or inclusive range (e.g. 2010-2015)")
	searchCmd.Flags().String("locality", "", "legal filter: jurisdiction or region")
	searchCmd.Flags().String("authority", "", "legal filter: issuing body")
	searchCmd.Flags().String("exclude", "", "legal filter: terms to exclude (comma or space separated)")
	searchCmd.Flags().Bool("json", false, "output the aggregate as JSON")
	searchCmd.Flags().String("save", "", "save the query and results to a YAML file")
	searchCmd.Flags().String("from", "", "rerun the query stored in a YAML file")
	searchCmd.Flags().String("show", "", "print a saved YAML file without querying")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	if path, _ := flags.GetString("show"); path != "" {
		qf, err := queryfile.Read(path)
		if err != nil {
			return err
		}
		resp := types.AggregateResponse{
			OK:       true,
			Query:    qf.Query.FreeText,
			Provider: qf.Query.Provider,
			Count:    len(qf.Results),
			Errors:   qf.Summary.Errors,
			Items:    qf.Results,
		}
		return printAggregate(cmd, resp)
	}

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := engineConfig()
	fed := federator.New(cfg.Federation)
	resp := fed.Search(cmd.Context(), q)

	if !resp.OK {
		return fmt.Errorf("search failed: %v", resp.Errors)
	}

	if cfg.History.Path != "" {
		if err := recordHistory(cmd, cfg.History.Path, q, resp); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record history: %v\n", err)
		}
	}

	if path, _ := flags.GetString("save"); path != "" {
		if err := queryfile.Write(path, q, resp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
	}

	return printAggregate(cmd, resp)
}

// queryFromFlags builds the canonical query from flags, or from a saved
// query file when --from is set.
func queryFromFlags(cmd *cobra.Command) (types.Query, error) {
	flags := cmd.Flags()

	if path, _ := flags.GetString("from"); path != "" {
		qf, err := queryfile.Read(path)
		if err != nil {
			return types.Query{}, err
		}
		q := qf.Query.ToQuery()
		q.Limit = federator.ParseLimit(strconv.Itoa(q.Limit))
		return q, nil
	}

	rawLimit, _ := flags.GetString("limit")
	freeText, _ := flags.GetString("query")
	providerSel, _ := flags.GetString("provider")

	q := types.Query{
		FreeText: freeText,
		Provider: providerSel,
		Limit:    federator.ParseLimit(rawLimit),
	}

	filters := types.FilterSet{}
	filters.Term, _ = flags.GetString("term")
	filters.Types, _ = flags.GetString("types")
	filters.Number, _ = flags.GetString("number")
	filters.Years, _ = flags.GetString("year")
	filters.Locality, _ = flags.GetString("locality")
	filters.Authority, _ = flags.GetString("authority")
	filters.Exclude, _ = flags.GetString("exclude")
	if !filters.Empty() {
		q.Filters = &filters
	}

	return q, nil
}

func printAggregate(cmd *cobra.Command, resp types.AggregateResponse) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return federator.FormatJSON(resp, os.Stdout)
	}
	federator.FormatTable(resp, os.Stdout)
	return nil
}

func recordHistory(cmd *cobra.Command, path string, q types.Query, resp types.AggregateResponse) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(cmd.Context(), q, resp)
}
