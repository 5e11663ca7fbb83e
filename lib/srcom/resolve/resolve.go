// Package resolve maps human-readable game/category/subcategory names to
// the opaque ids the speedrun.com API keys everything by.
//
// Every lookup refetches the game snapshot; nothing is cached between
// calls, so a full resolution with N subcategory names costs N+1 remote
// fetches. Name matching is exact: the site does not guard against
// duplicate category names within a game, and neither do we — the first
// match in snapshot order wins.
package resolve

import (
	"context"
	"fmt"
	"srcomkit/lib/srcom"

	"github.com/antzucaro/matchr"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("srcom/resolve")

type Resolver struct {
	client *srcom.Client
}

func New(client *srcom.Client) Resolver {
	return Resolver{client: client}
}

// CategoryRef names a category the way a human would:
// the game's URL slug, the category name, and subcategory value names in
// display order.
type CategoryRef struct {
	GameURL       string
	Category      string
	Subcategories []string
}

// ResolvedCategory is the id-based form of a CategoryRef. Subcategories
// keeps the positional order of the input names; equality checks should
// treat it as a set.
type ResolvedCategory struct {
	GameID        string
	CategoryID    string
	Subcategories []srcom.VariableValue
}

// CategoryID resolves a category name to its id.
func (r Resolver) CategoryID(ctx context.Context, gameURL, category string) (string, error) {
	ctx, span := tracer.Start(ctx, "CategoryID")
	defer span.End()
	span.SetAttributes(attribute.String("game", gameURL), attribute.String("category", category))

	data, err := r.client.GetGameData(ctx, srcom.GetGameDataRequest{GameURL: gameURL})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	cat, err := findCategory(data, category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return cat.ID, nil
}

// CategoryVariables returns the variables scoped to the named category.
func (r Resolver) CategoryVariables(ctx context.Context, gameURL, category string) ([]srcom.Variable, error) {
	ctx, span := tracer.Start(ctx, "CategoryVariables")
	defer span.End()

	data, err := r.client.GetGameData(ctx, srcom.GetGameDataRequest{GameURL: gameURL})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cat, err := findCategory(data, category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return lo.Filter(data.Variables, func(v srcom.Variable, _ int) bool {
		return v.CategoryID == cat.ID
	}), nil
}

// SubcategoryValues returns every selectable value of the named
// category's subcategory-flagged variables.
func (r Resolver) SubcategoryValues(ctx context.Context, gameURL, category string) ([]srcom.Value, error) {
	ctx, span := tracer.Start(ctx, "SubcategoryValues")
	defer span.End()

	data, err := r.client.GetGameData(ctx, srcom.GetGameDataRequest{GameURL: gameURL})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cat, err := findCategory(data, category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return subcategoryValues(data, cat.ID), nil
}

// SubcategoryValue resolves a named subcategory value (e.g. "NTSC") to
// its (variableId, valueId) pair within the named category.
func (r Resolver) SubcategoryValue(ctx context.Context, gameURL, category, value string) (srcom.VariableValue, error) {
	ctx, span := tracer.Start(ctx, "SubcategoryValue")
	defer span.End()
	span.SetAttributes(attribute.String("value", value))

	values, err := r.SubcategoryValues(ctx, gameURL, category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return srcom.VariableValue{}, err
	}
	for _, v := range values {
		if v.Name == value {
			return srcom.VariableValue{VariableID: v.VariableID, ValueID: v.ID}, nil
		}
	}

	err = fmt.Errorf(
		"subcategory %q of %q in game %q: %w%s",
		value, category, gameURL, srcom.ErrNotFound,
		suggestion(value, lo.Map(values, func(v srcom.Value, _ int) string { return v.Name })),
	)
	span.SetStatus(codes.Error, err.Error())
	return srcom.VariableValue{}, err
}

// Category fully resolves a name-based reference. Output subcategory
// order matches the input order. Any stage failing fails the whole
// resolution; no partial result is ever returned.
func (r Resolver) Category(ctx context.Context, ref CategoryRef) (ResolvedCategory, error) {
	ctx, span := tracer.Start(ctx, "Category")
	defer span.End()
	span.SetAttributes(attribute.String("game", ref.GameURL), attribute.String("category", ref.Category))

	data, err := r.client.GetGameData(ctx, srcom.GetGameDataRequest{GameURL: ref.GameURL})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ResolvedCategory{}, err
	}
	cat, err := findCategory(data, ref.Category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ResolvedCategory{}, err
	}

	resolved := ResolvedCategory{
		GameID:     data.Game.ID,
		CategoryID: cat.ID,
	}
	for _, name := range ref.Subcategories {
		pair, err := r.SubcategoryValue(ctx, ref.GameURL, ref.Category, name)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return ResolvedCategory{}, err
		}
		resolved.Subcategories = append(resolved.Subcategories, pair)
	}
	return resolved, nil
}

func findCategory(data *srcom.GameData, name string) (srcom.Category, error) {
	for _, cat := range data.Categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return srcom.Category{}, fmt.Errorf(
		"category %q in game %q: %w%s",
		name, data.Game.URL, srcom.ErrNotFound,
		suggestion(name, lo.Map(data.Categories, func(c srcom.Category, _ int) string { return c.Name })),
	)
}

func subcategoryValues(data *srcom.GameData, categoryID string) []srcom.Value {
	variables := lo.Filter(data.Variables, func(v srcom.Variable, _ int) bool {
		return v.CategoryID == categoryID && v.IsSubcategory
	})
	variableIDs := lo.SliceToMap(variables, func(v srcom.Variable) (string, struct{}) {
		return v.ID, struct{}{}
	})
	return lo.Filter(data.Values, func(v srcom.Value, _ int) bool {
		_, ok := variableIDs[v.VariableID]
		return ok
	})
}

// suggestion renders a "closest match" hint for not-found errors so
// operators can spot typos without opening the site.
func suggestion(want string, names []string) string {
	best := ""
	bestSim := 0.0
	for _, name := range names {
		sim := matchr.JaroWinkler(want, name, false)
		if sim > bestSim {
			best = name
			bestSim = sim
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (closest match: %q)", best)
}
