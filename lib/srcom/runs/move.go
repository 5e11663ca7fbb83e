package runs

import (
	"context"
	"log/slog"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/resolve"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Move relocates a single run between two name-based category
// references, resolving both before delegating to MoveResolved.
func (o Orchestrator) Move(ctx context.Context, runID string, oldRef, newRef resolve.CategoryRef) error {
	ctx, span := tracer.Start(ctx, "Move")
	defer span.End()
	span.SetAttributes(attribute.String("run", runID))

	oldCat, err := o.resolver.Category(ctx, oldRef)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	newCat, err := o.resolver.Category(ctx, newRef)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = o.MoveResolved(ctx, runID, oldCat, newCat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// MoveResolved rewrites one run's settings into the new category. The
// run's selections are stripped of every variable the old or new
// reference declares, then the new reference's selections are appended,
// so the result carries at most one value per declared variable.
//
// A stray selection for a variable neither reference declares is left in
// place. Whether the site intends that is unclear; it matches what the
// settings editor itself does, so it stays.
func (o Orchestrator) MoveResolved(ctx context.Context, runID string, oldCat, newCat resolve.ResolvedCategory) error {
	ctx, span := tracer.Start(ctx, "MoveResolved")
	defer span.End()
	span.SetAttributes(
		attribute.String("run", runID),
		attribute.String("from", oldCat.CategoryID),
		attribute.String("to", newCat.CategoryID),
	)

	res, err := o.client.GetRunSettings(ctx, runID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	settings := res.Settings

	declared := map[string]bool{}
	for _, pair := range oldCat.Subcategories {
		declared[pair.VariableID] = true
	}
	for _, pair := range newCat.Subcategories {
		declared[pair.VariableID] = true
	}

	var kept []srcom.VariableValue
	for _, pair := range settings.Values {
		if !declared[pair.VariableID] {
			kept = append(kept, pair)
		}
	}
	settings.Values = append(kept, newCat.Subcategories...)
	settings.CategoryID = newCat.CategoryID

	_, err = o.client.PutRunSettings(ctx, settings, false)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// MoveAll migrates every run in oldRef to newRef. Both references are
// resolved once and the resolution is reused for every run, unlike
// EditAll which delegates per run. Per-run failures don't stop the
// migration.
func (o Orchestrator) MoveAll(ctx context.Context, oldRef, newRef resolve.CategoryRef) ([]Outcome, error) {
	ctx, span := tracer.Start(ctx, "MoveAll")
	defer span.End()

	oldCat, err := o.resolver.Category(ctx, oldRef)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	newCat, err := o.resolver.Category(ctx, newRef)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	runs, err := o.runsResolved(ctx, oldCat, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(runs))
	for _, run := range runs {
		err := o.MoveResolved(ctx, run.ID, oldCat, newCat)
		if err != nil {
			slog.WarnContext(ctx, "run move failed", "run", run.ID, "err", err)
		}
		outcomes = append(outcomes, Outcome{RunID: run.ID, Err: err})
	}

	span.SetAttributes(outcomeAttrs(outcomes)...)
	return outcomes, nil
}
