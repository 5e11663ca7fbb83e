package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAndEntries(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.Record(ctx, "move:any%->100%", "run1", nil))
	require.NoError(t, j.Record(ctx, "move:any%->100%", "run2", errors.New("put failed")))
	require.NoError(t, j.Record(ctx, "edit:any%", "run1", nil))

	entries, err := j.Entries(ctx, "move:any%->100%")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "run1", entries[0].RunID)
	require.True(t, entries[0].OK)
	require.Empty(t, entries[0].Error)

	require.Equal(t, "run2", entries[1].RunID)
	require.False(t, entries[1].OK)
	require.Equal(t, "put failed", entries[1].Error)
}
