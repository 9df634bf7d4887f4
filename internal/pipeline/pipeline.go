// Package pipeline drives the end-to-end collection, merge, and export
// of the local-union directory data.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/laborstats/uniondir/internal/config"
	"github.com/laborstats/uniondir/internal/directory"
	"github.com/laborstats/uniondir/internal/export"
	"github.com/laborstats/uniondir/internal/model"
	"github.com/laborstats/uniondir/internal/tabular"
	"github.com/laborstats/uniondir/internal/unionfacts"
)

// countyFields is the unnesting order for exploded county columns,
// matching the API's JSON keys (jurisdiction is lowercase on the wire).
var countyFields = []string{
	"CountyName", "District", "Population", "LandArea",
	"Percentage", "jurisdiction", "StateProvince",
}

// Pipeline wires the two collectors to the merge and export stages.
type Pipeline struct {
	directory  *directory.Client
	unionfacts *unionfacts.Scraper
}

// New builds a pipeline from configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		directory:  directory.NewClient(cfg.IBEW, cfg.HTTP, cfg.Enrich),
		unionfacts: unionfacts.NewScraper(cfg.UnionFacts, cfg.HTTP, cfg.Enrich),
	}
}

// Run executes the full pipeline: scrape the UnionFacts directory, query
// and enrich the IBEW locals for the given states, merge, clean, and
// write the result to outputPath. Every stage degrades to empty data on
// failure, so a run always completes; an export failure is logged but
// not propagated.
func (p *Pipeline) Run(ctx context.Context, states []string, outputPath string) {
	start := time.Now()
	zap.L().Info("pipeline: starting run",
		zap.Strings("states", states),
		zap.String("output", outputPath),
	)

	entries := p.unionfacts.Directory(ctx)
	locals := p.directory.LocalsByStates(ctx, states)

	merged := Merge(entries, locals)
	cleaned := Clean(merged)

	if err := export.WriteXLSX(cleaned, outputPath); err != nil {
		zap.L().Error("pipeline: export failed",
			zap.String("output", outputPath),
			zap.Error(err),
		)
	}

	zap.L().Info("pipeline: run complete",
		zap.Int("rows", len(cleaned.Rows)),
		zap.Duration("duration", time.Since(start)),
	)
}

// Merge inner-joins the UnionFacts directory entries with the enriched
// IBEW locals on the local-union number. Entries on either side without
// a partner are dropped.
func Merge(entries []model.DirectoryEntry, locals []model.LocalUnion) tabular.Table {
	joined := tabular.InnerJoin(directoryTable(entries), localsTable(locals), "LU")
	zap.L().Info("pipeline: merged sources",
		zap.Int("directory_entries", len(entries)),
		zap.Int("locals", len(locals)),
		zap.Int("merged", len(joined.Rows)),
	)
	return joined
}

// Clean applies the cleanup steps in their required order: one-hot
// encode classifications, explode counties, drop duplicate rows, drop
// incomplete rows. Locals without counties survive the explode as a
// single all-nil county row and are removed by the final step.
func Clean(t tabular.Table) tabular.Table {
	t = tabular.OneHot(t, "Classifications")
	t = tabular.Explode(t, "Counties", "County_", countyFields)
	t = tabular.DropDuplicates(t)
	t = tabular.DropNA(t)
	zap.L().Info("pipeline: cleaned", zap.Int("rows", len(t.Rows)))
	return t
}

func directoryTable(entries []model.DirectoryEntry) tabular.Table {
	t := tabular.New("Union", "Unit Name", "Location", "Members", "LU", "URL")
	for _, e := range entries {
		t.Append(tabular.Row{
			"Union":     e.Union,
			"Unit Name": e.UnitName,
			"Location":  e.Location,
			"Members":   e.Members,
			"LU":        e.LU,
			"URL":       e.URL,
		})
	}
	return t
}

func localsTable(locals []model.LocalUnion) tabular.Table {
	t := tabular.New("ID", "LU", "CharterCity", "State", "VP_District", "Classifications", "Counties")
	for _, lu := range locals {
		counties := make([]tabular.Row, len(lu.Counties))
		for i, c := range lu.Counties {
			counties[i] = tabular.Row{
				"CountyName":    c.CountyName,
				"District":      c.District,
				"Population":    c.Population,
				"LandArea":      c.LandArea,
				"Percentage":    c.Percentage,
				"jurisdiction":  c.Jurisdiction,
				"StateProvince": c.StateProvince,
			}
		}
		t.Append(tabular.Row{
			"ID":              lu.ID,
			"LU":              lu.LU,
			"CharterCity":     lu.CharterCity,
			"State":           lu.State,
			"VP_District":     lu.VPDistrict,
			"Classifications": lu.Classifications,
			"Counties":        counties,
		})
	}
	return t
}
