// Package normalize converts arbitrarily shaped parsed tables into uniform
// named-field records using a fallback chain of strategies. Normalization
// never fails: unrecognizable input degrades to an empty result with a
// warning instead of an error.
package normalize

import (
	"fmt"

	"github.com/okian/gpscanon/internal/domain/model"
)

// Strategy tags which branch of the fallback chain produced a result.
type Strategy string

// Row shape strategies, in fallback order.
const (
	StrategyEmpty         Strategy = "empty"
	StrategyObjects       Strategy = "objects"
	StrategyByHeaders     Strategy = "byHeaders"
	StrategyBySourceIndex Strategy = "bySourceIndex"
	StrategyHeuristics    Strategy = "heuristics"
	StrategyUnknown       Strategy = "unknown"
)

// Closed warning vocabulary.
const (
	WarnNoRows               = "NO_ROWS"
	WarnNoHeadersSourceIndex = "NO_HEADERS_USED_SOURCE_INDEX"
	WarnHeuristicFallback    = "HEURISTIC_FALLBACK"
	WarnUnknownInputShape    = "UNKNOWN_INPUT_SHAPE"
)

// Sizes reports the input dimensions.
type Sizes struct {
	Headers int `json:"headers"`
	Rows    int `json:"rows"`
}

// Result is the outcome of normalizing one table.
type Result struct {
	Rows     []map[string]any `json:"rows"`
	Strategy Strategy         `json:"strategy"`
	Warnings []string         `json:"warnings"`
	Sizes    Sizes            `json:"sizes"`
}

// Normalizer applies the strategy chain. Heuristic numeric bands are tuned
// defaults, configurable per deployment.
type Normalizer struct {
	bands Bands
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		bands: DefaultBands(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize runs the strategy chain, first match wins:
// empty -> objects -> byHeaders -> bySourceIndex -> heuristics -> unknown.
func (n *Normalizer) Normalize(table model.ParsedTable, snapshot model.ProfileSnapshot) Result {
	headers := table.Headers
	rowsIn := table.Rows
	sizes := Sizes{Headers: len(headers), Rows: len(rowsIn)}

	if len(rowsIn) == 0 {
		return Result{Rows: []map[string]any{}, Strategy: StrategyEmpty, Warnings: []string{WarnNoRows}, Sizes: sizes}
	}

	// Already named-field records: identity transform.
	if _, ok := rowsIn[0].(map[string]any); ok {
		rows := make([]map[string]any, 0, len(rowsIn))
		for _, r := range rowsIn {
			if obj, ok := r.(map[string]any); ok {
				rows = append(rows, obj)
			}
		}
		return Result{Rows: rows, Strategy: StrategyObjects, Warnings: []string{}, Sizes: sizes}
	}

	if _, ok := rowsIn[0].([]any); ok {
		arrays := make([][]any, 0, len(rowsIn))
		for _, r := range rowsIn {
			if arr, ok := r.([]any); ok {
				arrays = append(arrays, arr)
			}
		}

		// Headers present: zip by position. Short rows pad with nil,
		// long rows drop the excess.
		if len(headers) > 0 {
			rows := make([]map[string]any, 0, len(arrays))
			for _, arr := range arrays {
				obj := make(map[string]any, len(headers))
				for i, h := range headers {
					if i < len(arr) {
						obj[h] = arr[i]
					} else {
						obj[h] = nil
					}
				}
				rows = append(rows, obj)
			}
			return Result{Rows: rows, Strategy: StrategyByHeaders, Warnings: []string{}, Sizes: sizes}
		}

		// No headers but the snapshot declares positional indices.
		if idx := sourceIndexMapping(snapshot); len(idx) > 0 {
			rows := make([]map[string]any, 0, len(arrays))
			for _, arr := range arrays {
				obj := make(map[string]any, len(idx))
				for i, name := range idx {
					if i < len(arr) {
						obj[name] = arr[i]
					} else {
						obj[name] = nil
					}
				}
				rows = append(rows, obj)
			}
			return Result{Rows: rows, Strategy: StrategyBySourceIndex, Warnings: []string{WarnNoHeadersSourceIndex}, Sizes: sizes}
		}

		// Last resort: infer labels from column content.
		if inferred := n.inferHeaders(arrays); len(inferred) > 0 {
			rows := make([]map[string]any, 0, len(arrays))
			for _, arr := range arrays {
				obj := make(map[string]any, len(inferred))
				for i, h := range inferred {
					if i < len(arr) {
						obj[h] = arr[i]
					} else {
						obj[h] = nil
					}
				}
				rows = append(rows, obj)
			}
			return Result{Rows: rows, Strategy: StrategyHeuristics, Warnings: []string{WarnHeuristicFallback}, Sizes: sizes}
		}
	}

	return Result{Rows: []map[string]any{}, Strategy: StrategyUnknown, Warnings: []string{WarnUnknownInputShape}, Sizes: sizes}
}

// sourceIndexMapping collects declared positional indices from the snapshot.
// The field name keyed to each index prefers the source header and falls
// back to the canonical key.
func sourceIndexMapping(snapshot model.ProfileSnapshot) map[int]string {
	idx := make(map[int]string)
	for _, c := range snapshot.Columns {
		if c.SourceIndex == nil || *c.SourceIndex < 0 {
			continue
		}
		name := c.SourceHeader
		if name == "" {
			name = c.CanonicalKey
		}
		if name == "" {
			name = fmt.Sprintf("col_%d", *c.SourceIndex)
		}
		idx[*c.SourceIndex] = name
	}
	return idx
}
