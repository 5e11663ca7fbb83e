package runs

import (
	"context"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/resolve"
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
			{ID: "var3", Name: "Glitches", GameID: "game1", CategoryID: "cat2", IsSubcategory: true},
		},
		Values: []srcom.Value{
			{ID: "val1", Name: "NTSC", VariableID: "var1"},
			{ID: "val2", Name: "PAL", VariableID: "var1"},
			{ID: "val4", Name: "No Major Glitches", VariableID: "var3"},
		},
	}
}

func anyPercent() resolve.CategoryRef {
	return resolve.CategoryRef{GameURL: "examplequest", Category: "Any%"}
}

func fixtureServer(t *testing.T) (*srcomtest.Server, Orchestrator) {
	server := srcomtest.NewServer(t)
	server.Session = "sess"
	server.CSRFToken = "token"
	server.AddGame(fixtureGame())
	return server, New(server.Client(t))
}

func TestRunsPagination(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.PerPage = 2
	server.AddRuns(
		srcom.Run{ID: "r1", GameID: "game1", CategoryID: "cat1", Time: 61.5},
		srcom.Run{ID: "r2", GameID: "game1", CategoryID: "cat1", Time: 62},
		srcom.Run{ID: "r3", GameID: "game1", CategoryID: "cat1", Time: 63, Obsolete: true},
		srcom.Run{ID: "r4", GameID: "game1", CategoryID: "cat1", Time: 64},
		srcom.Run{ID: "r5", GameID: "game1", CategoryID: "cat1", Time: 65},
		srcom.Run{ID: "other", GameID: "game1", CategoryID: "cat2", Time: 1},
	)

	ids, err := orchestrator.RunIDs(context.Background(), anyPercent(), nil)
	require.NoError(t, err)

	// obsolete runs included by default, page order preserved
	require.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, ids)
	require.Equal(t, []int{1, 2, 3}, server.LeaderboardPages())
}

func TestRunsCategoryRoundTrip(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.AddRuns(srcom.Run{ID: "r1", GameID: "game1", CategoryID: "cat1"})

	resolved, err := orchestrator.Resolver().Category(context.Background(), anyPercent())
	require.NoError(t, err)

	runList, err := orchestrator.Runs(context.Background(), anyPercent(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, runList)
	for _, run := range runList {
		require.Equal(t, resolved.CategoryID, run.CategoryID)
	}
}

func TestRunsLaterPageFailureTolerated(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.PerPage = 2
	server.AddRuns(
		srcom.Run{ID: "r1", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "r2", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "r3", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "r4", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "r5", GameID: "game1", CategoryID: "cat1"},
	)
	server.FailPage(2)

	ids, err := orchestrator.RunIDs(context.Background(), anyPercent(), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"r1", "r2", "r5"}, ids)
}

func TestRunsFirstPageFailure(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.AddRuns(srcom.Run{ID: "r1", GameID: "game1", CategoryID: "cat1"})
	server.FailPage(1)

	_, err := orchestrator.RunIDs(context.Background(), anyPercent(), nil)
	require.ErrorIs(t, err, srcom.ErrTransport)
}

func TestEditMergesPartialChanges(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.SetSettings(srcom.RunSettings{
		RunID:      "run1",
		GameID:     "game1",
		CategoryID: "cat1",
		Comment:    "old",
		Video:      "https://example.com/v",
		Time:       srcom.RunTime{Minute: 12, Second: 30, Millisecond: 500},
	})

	comment := "new"
	err := orchestrator.Edit(context.Background(), "run1", EditParams{Comment: &comment})
	require.NoError(t, err)

	stored, ok := server.Settings("run1")
	require.True(t, ok)
	require.Equal(t, "new", stored.Comment)
	// untouched fields survive the merge unchanged
	require.Equal(t, "https://example.com/v", stored.Video)
	require.Equal(t, srcom.RunTime{Minute: 12, Second: 30, Millisecond: 500}, stored.Time)
}

func TestEditMissingRun(t *testing.T) {
	_, orchestrator := fixtureServer(t)

	err := orchestrator.Edit(context.Background(), "ghost", EditParams{})
	require.ErrorIs(t, err, srcom.ErrNotFound)
}

func TestEditAllContinuesPastFailures(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.AddRuns(
		srcom.Run{ID: "e1", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "e2", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "e3", GameID: "game1", CategoryID: "cat1"},
	)
	// e2 has no settings record, so its edit 404s
	server.SetSettings(srcom.RunSettings{RunID: "e1", CategoryID: "cat1"})
	server.SetSettings(srcom.RunSettings{RunID: "e3", CategoryID: "cat1"})

	comment := "migrated"
	outcomes, err := orchestrator.EditAll(context.Background(), anyPercent(), EditParams{Comment: &comment})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	require.True(t, outcomes[0].OK())
	require.False(t, outcomes[1].OK())
	require.ErrorIs(t, outcomes[1].Err, srcom.ErrNotFound)
	require.True(t, outcomes[2].OK())

	stored, _ := server.Settings("e3")
	require.Equal(t, "migrated", stored.Comment)
}

func TestMoveResolvedReplacesOldSelection(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.SetSettings(srcom.RunSettings{
		RunID:      "run1",
		GameID:     "game1",
		CategoryID: "catA",
		Values: []srcom.VariableValue{
			{VariableID: "v1", ValueID: "a"},
			{VariableID: "v2", ValueID: "b"},
		},
	})

	oldCat := resolve.ResolvedCategory{
		GameID:        "game1",
		CategoryID:    "catA",
		Subcategories: []srcom.VariableValue{{VariableID: "v1", ValueID: "a"}},
	}
	newCat := resolve.ResolvedCategory{
		GameID:        "game1",
		CategoryID:    "catB",
		Subcategories: []srcom.VariableValue{{VariableID: "v1", ValueID: "c"}},
	}

	err := orchestrator.MoveResolved(context.Background(), "run1", oldCat, newCat)
	require.NoError(t, err)

	stored, _ := server.Settings("run1")
	require.Equal(t, "catB", stored.CategoryID)
	diff := cmp.Diff([]srcom.VariableValue{
		{VariableID: "v2", ValueID: "b"},
		{VariableID: "v1", ValueID: "c"},
	}, stored.Values)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestMoveResolvedKeepsStraySelections(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.SetSettings(srcom.RunSettings{
		RunID:      "run1",
		CategoryID: "catA",
		Values: []srcom.VariableValue{
			{VariableID: "v1", ValueID: "a"},
			// not declared by either category reference
			{VariableID: "v9", ValueID: "z"},
		},
	})

	err := orchestrator.MoveResolved(
		context.Background(), "run1",
		resolve.ResolvedCategory{
			CategoryID:    "catA",
			Subcategories: []srcom.VariableValue{{VariableID: "v1", ValueID: "a"}},
		},
		resolve.ResolvedCategory{
			CategoryID:    "catB",
			Subcategories: []srcom.VariableValue{{VariableID: "v1", ValueID: "c"}},
		},
	)
	require.NoError(t, err)

	stored, _ := server.Settings("run1")
	diff := cmp.Diff([]srcom.VariableValue{
		{VariableID: "v9", ValueID: "z"},
		{VariableID: "v1", ValueID: "c"},
	}, stored.Values)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestMoveAll(t *testing.T) {
	server, orchestrator := fixtureServer(t)
	server.AddRuns(
		srcom.Run{ID: "m1", GameID: "game1", CategoryID: "cat1"},
		srcom.Run{ID: "m2", GameID: "game1", CategoryID: "cat1"},
	)
	server.SetSettings(srcom.RunSettings{
		RunID:      "m1",
		GameID:     "game1",
		CategoryID: "cat1",
		Values:     []srcom.VariableValue{{VariableID: "var1", ValueID: "val1"}},
	})
	server.SetSettings(srcom.RunSettings{
		RunID:      "m2",
		GameID:     "game1",
		CategoryID: "cat1",
		Values:     []srcom.VariableValue{{VariableID: "var1", ValueID: "val2"}},
	})

	outcomes, err := orchestrator.MoveAll(
		context.Background(),
		resolve.CategoryRef{GameURL: "examplequest", Category: "Any%", Subcategories: []string{"NTSC"}},
		resolve.CategoryRef{GameURL: "examplequest", Category: "100%", Subcategories: []string{"No Major Glitches"}},
	)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, outcome := range outcomes {
		require.True(t, outcome.OK())
	}

	for _, runID := range []string{"m1", "m2"} {
		stored, _ := server.Settings(runID)
		require.Equal(t, "cat2", stored.CategoryID)
		require.Equal(t, []srcom.VariableValue{{VariableID: "var3", ValueID: "val4"}}, stored.Values)
	}
}
