// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queryfile saves a completed search to a YAML file and reloads it
// later, so a search can be replayed or its results inspected without
// re-querying the providers.
package queryfile

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
type QueryFile struct {
	Query   QueryParams  `yaml:"query"`
	Results []types.Item `yaml:"results"`
	Summary QuerySummary `yaml:"summary"`
}

// QueryParams stores the query in a serializable form.
type QueryParams struct {
	FreeText string           `yaml:"free_text,omitempty"`
	Provider string           `yaml:"provider,omitempty"`
	Limit    int              `yaml:"limit,omitempty"`
	Filters  *types.FilterSet `yaml:"filters,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Errors    []string  `yaml:"errors,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Write saves the query and its aggregate to path.
func Write(path string, q types.Query, resp types.AggregateResponse) error {
	qf := QueryFile{
		Query: QueryParams{
			FreeText: q.FreeText,
			Provider: q.Provider,
			Limit:    q.Limit,
			Filters:  q.Filters,
		},
		Results: resp.Items,
		Summary: QuerySummary{
			Total:     resp.Count,
			Errors:    resp.Errors,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a previously saved query file from disk.
func Read(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a Query.
func (p QueryParams) ToQuery() types.Query {
	return types.Query{
		FreeText: p.FreeText,
		Provider: p.Provider,
		Limit:    p.Limit,
		Filters:  p.Filters,
	}
}
