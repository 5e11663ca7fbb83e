package srcom_test

import (
	"context"
	"srcomkit/lib/srcom"
	"srcomkit/lib/srcom/srcomtest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSession(t *testing.T) {
	require.Equal(t, "abc123", srcom.NormalizeSession("abc123"))
	require.Equal(t, "abc123", srcom.NormalizeSession("PHPSESSID=abc123"))
	require.Equal(t, "abc123", srcom.NormalizeSession("  PHPSESSID=abc123 "))
	require.Equal(t, "", srcom.NormalizeSession(""))
}

func TestErrorKinds(t *testing.T) {
	server := srcomtest.NewServer(t)
	server.Session = "valid"
	client := server.Client(t)
	ctx := context.Background()

	_, err := client.GetGameData(ctx, srcom.GetGameDataRequest{GameURL: "nope"})
	require.ErrorIs(t, err, srcom.ErrNotFound)

	_, err = client.GetRun(ctx, "nope")
	require.ErrorIs(t, err, srcom.ErrNotFound)

	anonymous, err := srcom.NewClient(srcom.ClientOptions{BaseURL: server.HTTP.URL})
	require.NoError(t, err)
	_, err = anonymous.GetRunSettings(ctx, "run1")
	require.ErrorIs(t, err, srcom.ErrUnauthorized)

	server.FailPage(1)
	_, err = client.GetGameLeaderboard2(ctx, srcom.LeaderboardFilterParams{}, 1)
	require.ErrorIs(t, err, srcom.ErrTransport)
}

func TestPutRunSettingsAuth(t *testing.T) {
	server := srcomtest.NewServer(t)
	server.Session = "sess"
	server.CSRFToken = "token"
	server.SetSettings(srcom.RunSettings{RunID: "run1", Comment: "hello"})

	// the pasted cookie-pair form must work too
	client, err := srcom.NewClient(srcom.ClientOptions{
		BaseURL:   server.HTTP.URL,
		Session:   "PHPSESSID=sess",
		CSRFToken: "token",
	})
	require.NoError(t, err)
	ctx := context.Background()

	res, err := client.GetRunSettings(ctx, "run1")
	require.NoError(t, err)
	require.Equal(t, "hello", res.Settings.Comment)

	settings := res.Settings
	settings.Comment = "rewritten"
	put, err := client.PutRunSettings(ctx, settings, false)
	require.NoError(t, err)
	require.Equal(t, "run1", put.RunID)

	requests := server.PutRequests()
	require.Len(t, requests, 1)
	require.Equal(t, "token", requests[0].CSRFToken)
	require.True(t, requests[0].HadSession)
	require.False(t, requests[0].AutoVerify)

	stored, ok := server.Settings("run1")
	require.True(t, ok)
	require.Equal(t, "rewritten", stored.Comment)
}

func TestGetArticleList(t *testing.T) {
	server := srcomtest.NewServer(t)
	server.AddArticles(
		srcom.Article{ID: "a1", Title: "Site update"},
		srcom.Article{ID: "a2", Title: "New moderation tools"},
	)
	client := server.Client(t)

	list, err := client.GetArticleList(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list.ArticleList, 2)
	require.Equal(t, "Site update", list.ArticleList[0].Title)
}
