package runs

import (
	"context"
	"log/slog"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/resolve"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EditParams is a partial overlay on RunSettings: nil fields keep
// whatever the server currently holds, non-nil fields replace it
// wholesale.
type EditParams struct {
	PlayerNames   *[]string
	Time          *srcom.RunTime
	TimeWithLoads *srcom.RunTime
	IGT           *srcom.RunTime
	PlatformID    *string
	Emulator      *bool
	Video         *string
	Comment       *string
	Date          *int64
	Values        *[]srcom.VariableValue
}

func (p EditParams) apply(settings *srcom.RunSettings) {
	if p.PlayerNames != nil {
		settings.PlayerNames = *p.PlayerNames
	}
	if p.Time != nil {
		settings.Time = *p.Time
	}
	if p.TimeWithLoads != nil {
		settings.TimeWithLoads = *p.TimeWithLoads
	}
	if p.IGT != nil {
		settings.IGT = *p.IGT
	}
	if p.PlatformID != nil {
		settings.PlatformID = *p.PlatformID
	}
	if p.Emulator != nil {
		settings.Emulator = *p.Emulator
	}
	if p.Video != nil {
		settings.Video = *p.Video
	}
	if p.Comment != nil {
		settings.Comment = *p.Comment
	}
	if p.Date != nil {
		settings.Date = *p.Date
	}
	if p.Values != nil {
		settings.Values = *p.Values
	}
}

// Edit read-modify-writes one run's settings. The fetch happens
// immediately before the write so concurrent edits to untouched fields
// aren't clobbered with stale values.
func (o Orchestrator) Edit(ctx context.Context, runID string, changes EditParams) error {
	ctx, span := tracer.Start(ctx, "Edit")
	defer span.End()
	span.SetAttributes(attribute.String("run", runID))

	res, err := o.client.GetRunSettings(ctx, runID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	settings := res.Settings
	changes.apply(&settings)

	_, err = o.client.PutRunSettings(ctx, settings, false)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// EditAll applies the same partial edit to every run in a category,
// sequentially, continuing past per-run failures. The returned error is
// only about enumeration; per-run results are in the outcome list.
func (o Orchestrator) EditAll(ctx context.Context, ref resolve.CategoryRef, changes EditParams) ([]Outcome, error) {
	ctx, span := tracer.Start(ctx, "EditAll")
	defer span.End()

	ids, err := o.RunIDs(ctx, ref, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		err := o.Edit(ctx, id, changes)
		if err != nil {
			slog.WarnContext(ctx, "run edit failed", "run", id, "err", err)
		}
		outcomes = append(outcomes, Outcome{RunID: id, Err: err})
	}

	span.SetAttributes(outcomeAttrs(outcomes)...)
	return outcomes, nil
}
