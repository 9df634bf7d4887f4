package directory

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/laborstats/uniondir/internal/model"
)

// Enrich fetches classifications and counties for every local union,
// bounded to the configured number of in-flight records. The returned
// slice matches the input order regardless of completion order; a failed
// lookup leaves that record with an empty classification string or nil
// county list.
func (c *Client) Enrich(ctx context.Context, locals []model.LocalUnion) []model.LocalUnion {
	zap.L().Info("directory: enriching locals", zap.Int("count", len(locals)))

	enriched := make([]model.LocalUnion, len(locals))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxInFlight)

	for i, lu := range locals {
		i, lu := i, lu
		g.Go(func() error {
			enriched[i] = c.enrichOne(gCtx, lu)
			return nil
		})
	}

	// Each slot is written by exactly one goroutine, so waiting is the
	// only synchronization needed.
	_ = g.Wait()

	zap.L().Info("directory: enrichment complete", zap.Int("count", len(enriched)))
	return enriched
}

// enrichOne returns a copy of the record with both secondary lookups
// applied. The input record is never mutated.
func (c *Client) enrichOne(ctx context.Context, lu model.LocalUnion) model.LocalUnion {
	lu.Classifications = c.TradeClasses(ctx, lu.ID)
	lu.Counties = c.Counties(ctx, lu.ID)
	return lu
}
