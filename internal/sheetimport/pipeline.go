// Package sheetimport implements the tabular import engine: it maps
// arbitrary spreadsheet headers to canonical fields through synonym
// dictionaries, detects whether a sheet carries one row per estimate or one
// row per line item, groups rows into estimates with ordered lines, and
// splits the result against the numbers already stored.
//
// Everything up to the Importer is pure and synchronous: no goroutines, no
// I/O, bounded by the size of one uploaded file.
package sheetimport

import "github.com/Datavoxx/daglig-rad-sub001/internal/domain"

// Pipeline holds the injected synonym dictionaries and runs the mapping,
// detection, and grouping stages over one decoded sheet.
type Pipeline struct {
	estimateDict Dictionary
	lineDict     Dictionary
}

// NewPipeline builds a pipeline with explicit dictionaries, so alternate
// locales can be substituted without code changes.
func NewPipeline(estimateDict, lineDict Dictionary) *Pipeline {
	return &Pipeline{estimateDict: estimateDict, lineDict: lineDict}
}

// DefaultPipeline builds a pipeline with the built-in Norwegian/English
// dictionaries.
func DefaultPipeline() *Pipeline {
	return NewPipeline(DefaultEstimateDictionary(), DefaultLineDictionary())
}

// Result is the outcome of the pure pipeline stages for one sheet.
type Result struct {
	Structure       Structure
	EstimateColumns map[string]CanonicalField
	LineColumns     map[string]CanonicalField
	Estimates       []*domain.Estimate
	SkippedNoKey    int
}

// Run maps, detects, and groups one sheet. It never fails: a sheet where
// nothing maps simply produces zero estimates and a skip count.
func (p *Pipeline) Run(sheet *Sheet) *Result {
	estimateCols := MapColumns(sheet.Headers, p.estimateDict)
	lineCols := MapColumns(sheet.Headers, p.lineDict)

	structure := DetectStructure(sheet, estimateCols, lineCols)
	grouped := GroupRows(sheet, estimateCols, lineCols, structure)

	return &Result{
		Structure:       structure,
		EstimateColumns: estimateCols,
		LineColumns:     lineCols,
		Estimates:       grouped.Estimates,
		SkippedNoKey:    grouped.SkippedNoKey,
	}
}
