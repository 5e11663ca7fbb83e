package resolve

import (
	"context"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/srcomtest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func fixtureGame() *srcom.GameData {
	return &srcom.GameData{
		Game: srcom.Game{ID: "game1", Name: "Example Quest", URL: "examplequest"},
		Categories: []srcom.Category{
			{ID: "cat1", Name: "Any%", GameID: "game1"},
			{ID: "cat2", Name: "100%", GameID: "game1"},
		},
		Variables: []srcom.Variable{
			{ID: "var1", Name: "Version", GameID: "game1", CategoryID: "cat1", IsSubcategory: true},
			{ID: "var2", Name: "Difficulty", GameID: "game1", CategoryID: "cat1", IsSubcategory: true},
			{ID: "var3", Name: "Glitches", GameID: "game1", CategoryID: "cat2", IsSubcategory: true},
			// category-scoped but not a subcategory
			{ID: "var4", Name: "Timing Method", GameID: "game1", CategoryID: "cat1"},
			// level-scoped
			{ID: "var5", Name: "Route", GameID: "game1", LevelID: "lvl1", IsSubcategory: true},
		},
		Values: []srcom.Value{
			{ID: "val1", Name: "NTSC", VariableID: "var1"},
			{ID: "val2", Name: "PAL", VariableID: "var1"},
			{ID: "val3", Name: "Hard", VariableID: "var2"},
			{ID: "val4", Name: "No Major Glitches", VariableID: "var3"},
			{ID: "val5", Name: "RTA", VariableID: "var4"},
		},
	}
}

func fixtureResolver(t *testing.T) Resolver {
	server := srcomtest.NewServer(t)
	server.AddGame(fixtureGame())
	return New(server.Client(t))
}

func TestCategoryID(t *testing.T) {
	r := fixtureResolver(t)
	ctx := context.Background()

	id, err := r.CategoryID(ctx, "examplequest", "Any%")
	require.NoError(t, err)
	require.Equal(t, "cat1", id)

	id, err = r.CategoryID(ctx, "examplequest", "100%")
	require.NoError(t, err)
	require.Equal(t, "cat2", id)

	_, err = r.CategoryID(ctx, "examplequest", "Any")
	require.ErrorIs(t, err, srcom.ErrNotFound)
	require.Contains(t, err.Error(), `closest match: "Any%"`)

	_, err = r.CategoryID(ctx, "unknowngame", "Any%")
	require.ErrorIs(t, err, srcom.ErrNotFound)
}

func TestCategoryVariables(t *testing.T) {
	r := fixtureResolver(t)

	variables, err := r.CategoryVariables(context.Background(), "examplequest", "Any%")
	require.NoError(t, err)

	var ids []string
	for _, v := range variables {
		ids = append(ids, v.ID)
	}
	require.Equal(t, []string{"var1", "var2", "var4"}, ids)
}

func TestSubcategoryValues(t *testing.T) {
	r := fixtureResolver(t)

	values, err := r.SubcategoryValues(context.Background(), "examplequest", "Any%")
	require.NoError(t, err)

	var ids []string
	for _, v := range values {
		ids = append(ids, v.ID)
	}
	// val5 belongs to a non-subcategory variable, val4 to another category
	require.Equal(t, []string{"val1", "val2", "val3"}, ids)
}

func TestSubcategoryValue(t *testing.T) {
	r := fixtureResolver(t)
	ctx := context.Background()

	pair, err := r.SubcategoryValue(ctx, "examplequest", "Any%", "NTSC")
	require.NoError(t, err)
	require.Equal(t, srcom.VariableValue{VariableID: "var1", ValueID: "val1"}, pair)

	_, err = r.SubcategoryValue(ctx, "examplequest", "Any%", "NTSC-J")
	require.ErrorIs(t, err, srcom.ErrNotFound)
}

func TestCategoryKeepsInputOrder(t *testing.T) {
	r := fixtureResolver(t)

	resolved, err := r.Category(context.Background(), CategoryRef{
		GameURL:       "examplequest",
		Category:      "Any%",
		Subcategories: []string{"Hard", "NTSC"},
	})
	require.NoError(t, err)

	diff := cmp.Diff(ResolvedCategory{
		GameID:     "game1",
		CategoryID: "cat1",
		Subcategories: []srcom.VariableValue{
			{VariableID: "var2", ValueID: "val3"},
			{VariableID: "var1", ValueID: "val1"},
		},
	}, resolved)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestCategoryNoPartialResult(t *testing.T) {
	r := fixtureResolver(t)

	_, err := r.Category(context.Background(), CategoryRef{
		GameURL:       "examplequest",
		Category:      "Any%",
		Subcategories: []string{"NTSC", "Bogus"},
	})
	require.ErrorIs(t, err, srcom.ErrNotFound)
}

func TestCategoryScenario(t *testing.T) {
	server := srcomtest.NewServer(t)
	server.AddGame(&srcom.GameData{
		Game:       srcom.Game{ID: "g1", Name: "G", URL: "g"},
		Categories: []srcom.Category{{ID: "cat1", Name: "Any%", GameID: "g1"}},
		Variables: []srcom.Variable{
			{ID: "var1", Name: "Version", GameID: "g1", CategoryID: "cat1", IsSubcategory: true},
		},
		Values: []srcom.Value{{ID: "val1", Name: "NTSC", VariableID: "var1"}},
	})
	r := New(server.Client(t))

	resolved, err := r.Category(context.Background(), CategoryRef{
		GameURL:       "g",
		Category:      "Any%",
		Subcategories: []string{"NTSC"},
	})
	require.NoError(t, err)
	require.Equal(t, ResolvedCategory{
		GameID:     "g1",
		CategoryID: "cat1",
		Subcategories: []srcom.VariableValue{
			{VariableID: "var1", ValueID: "val1"},
		},
	}, resolved)
}
