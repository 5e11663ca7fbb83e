// Package runs composes resolution, leaderboard pagination and
// settings writes into the bulk operations moderators actually perform:
// enumerate a category, edit every run in it, or migrate every run to a
// different category.
//
// All remote calls are strictly sequential. Bulk operations deliberately
// continue past individual failures — a half-migrated category that can
// be re-run beats one that aborts on the first flaky response — and
// report a per-run outcome list instead of one aggregate bool.
package runs

import (
	"context"
	"fmt"
	"log/slog"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/resolve"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("srcom/runs")

type Orchestrator struct {
	client   *srcom.Client
	resolver resolve.Resolver
}

func New(client *srcom.Client) Orchestrator {
	return Orchestrator{
		client:   client,
		resolver: resolve.New(client),
	}
}

// Resolver exposes the orchestrator's resolver so callers don't have to
// construct a second one.
func (o Orchestrator) Resolver() resolve.Resolver {
	return o.resolver
}

// Client exposes the underlying API client.
func (o Orchestrator) Client() *srcom.Client {
	return o.client
}

// Runs enumerates every run in a category across all leaderboard pages,
// in page order. filter == nil defaults to showing obsolete runs so the
// enumeration is exhaustive. Resolution or first-page failure is an
// error; a failure on a later page drops that page's runs with a warning
// instead of failing the whole enumeration.
func (o Orchestrator) Runs(ctx context.Context, ref resolve.CategoryRef, filter *srcom.LeaderboardFilterParams) ([]srcom.Run, error) {
	ctx, span := tracer.Start(ctx, "Runs")
	defer span.End()

	resolved, err := o.resolver.Category(ctx, ref)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	runs, err := o.runsResolved(ctx, resolved, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return runs, nil
}

// RunIDs is Runs reduced to ids.
func (o Orchestrator) RunIDs(ctx context.Context, ref resolve.CategoryRef, filter *srcom.LeaderboardFilterParams) ([]string, error) {
	runs, err := o.Runs(ctx, ref, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(runs, func(r srcom.Run, _ int) string { return r.ID }), nil
}

func (o Orchestrator) runsResolved(ctx context.Context, resolved resolve.ResolvedCategory, filter *srcom.LeaderboardFilterParams) ([]srcom.Run, error) {
	params := srcom.LeaderboardFilterParams{Obsolete: srcom.ObsoleteShown}
	if filter != nil {
		params = *filter
	}
	params.GameID = resolved.GameID
	params.CategoryID = resolved.CategoryID
	params.Values = resolved.Subcategories

	first, err := o.client.GetGameLeaderboard2(ctx, params, 1)
	if err != nil {
		return nil, fmt.Errorf("leaderboard page 1: %w", err)
	}
	runs := first.RunList

	for page := 2; page <= first.Pagination.Pages; page++ {
		board, err := o.client.GetGameLeaderboard2(ctx, params, page)
		if err != nil {
			// tolerated: the page's runs are omitted from the result
			slog.WarnContext(ctx, "skipping leaderboard page",
				"page", page,
				"category", resolved.CategoryID,
				"err", err,
			)
			continue
		}
		runs = append(runs, board.RunList...)
	}

	return runs, nil
}

// Outcome is the per-run result of a bulk operation.
type Outcome struct {
	RunID string
	Err   error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

func outcomeAttrs(outcomes []Outcome) []attribute.KeyValue {
	failed := lo.CountBy(outcomes, func(o Outcome) bool { return !o.OK() })
	return []attribute.KeyValue{
		attribute.Int("runs", len(outcomes)),
		attribute.Int("failed", failed),
	}
}
