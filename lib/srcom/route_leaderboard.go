package srcom

import "context"

// Obsolete-run visibility for leaderboard queries.
const (
	ObsoleteHidden    = 0
	ObsoleteShown     = 1
	ObsoleteExclusive = 2
)

// LeaderboardFilterParams narrows a GetGameLeaderboard2 query. Zero-value
// fields are omitted from the wire body so the server applies its
// defaults.
type LeaderboardFilterParams struct {
	GameID     string          `json:"gameId"`
	CategoryID string          `json:"categoryId"`
	LevelID    string          `json:"levelId,omitempty"`
	Values     []VariableValue `json:"values,omitempty"`
	Obsolete   int             `json:"obsolete"`
	Verified   *int            `json:"verified,omitempty"`
	Video      *int            `json:"video,omitempty"`
	Emulator   *int            `json:"emulator,omitempty"`
}

type Pagination struct {
	Count int `json:"count"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Per   int `json:"per"`
}

type Leaderboard struct {
	RunList    []Run      `json:"runList"`
	Pagination Pagination `json:"pagination"`
}

type getGameLeaderboard2Request struct {
	Params LeaderboardFilterParams `json:"params"`
	Page   int                     `json:"page"`
}

// GetGameLeaderboard2 fetches one page of a leaderboard. Pages are
// 1-indexed; the response's Pagination.Pages gives the total needed to
// enumerate every run.
func (c *Client) GetGameLeaderboard2(ctx context.Context, params LeaderboardFilterParams, page int) (*Leaderboard, error) {
	return postJSON[getGameLeaderboard2Request, *Leaderboard](
		ctx, c, "GetGameLeaderboard2",
		getGameLeaderboard2Request{Params: params, Page: page},
	)
}
