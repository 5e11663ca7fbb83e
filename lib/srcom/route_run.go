package srcom

import (
	"context"
	"net/url"
)

// VariableValue is one subcategory/variable selection on a run. A run
// carries at most one value per distinct variable.
type VariableValue struct {
	VariableID string `json:"variableId"`
	ValueID    string `json:"valueId"`
}

// Run is a submitted completion record. Exactly one of CategoryID and
// LevelID context applies; ChallengeID replaces both for challenge runs.
type Run struct {
	ID            string          `json:"id"`
	GameID        string          `json:"gameId"`
	CategoryID    string          `json:"categoryId"`
	LevelID       string          `json:"levelId"`
	ChallengeID   string          `json:"challengeId"`
	Time          float64         `json:"time"`
	TimeWithLoads float64         `json:"timeWithLoads"`
	IGT           float64         `json:"igt"`
	PlatformID    string          `json:"platformId"`
	Emulator      bool            `json:"emulator"`
	Video         string          `json:"video"`
	Comment       string          `json:"comment"`
	SubmittedByID string          `json:"submittedById"`
	Verified      int             `json:"verified"`
	VerifiedByID  string          `json:"verifiedById"`
	Date          int64           `json:"date"`
	DateSubmitted int64           `json:"dateSubmitted"`
	DateVerified  int64           `json:"dateVerified"`
	Place         int             `json:"place"`
	Obsolete      bool            `json:"obsolete"`
	PlayerIDs     []string        `json:"playerIds"`
	Values        []VariableValue `json:"values"`
}

type GetRunResponse struct {
	Run Run `json:"run"`
}

func (c *Client) GetRun(ctx context.Context, runID string) (*GetRunResponse, error) {
	return getJSON[*GetRunResponse](ctx, c, "GetRun", url.Values{"runId": {runID}})
}

// RunTime is a wall-clock duration broken into fields, the shape the
// settings editor submits.
type RunTime struct {
	Hour        int `json:"hour"`
	Minute      int `json:"minute"`
	Second      int `json:"second"`
	Millisecond int `json:"millisecond"`
}

// RunSettings is the writable view of a run: player names instead of ids,
// structured times instead of raw seconds, and the full selection list.
// It is always fetched fresh immediately before a write so the
// read-modify-write cycle runs against the server's current state.
type RunSettings struct {
	RunID         string          `json:"runId"`
	GameID        string          `json:"gameId"`
	CategoryID    string          `json:"categoryId"`
	LevelID       string          `json:"levelId,omitempty"`
	PlayerNames   []string        `json:"playerNames"`
	Time          RunTime         `json:"time"`
	TimeWithLoads RunTime         `json:"timeWithLoads"`
	IGT           RunTime         `json:"igt"`
	PlatformID    string          `json:"platformId"`
	Emulator      bool            `json:"emulator"`
	Video         string          `json:"video"`
	Comment       string          `json:"comment"`
	Date          int64           `json:"date"`
	Values        []VariableValue `json:"values"`
}

type getRunSettingsRequest struct {
	RunID string `json:"runId"`
}

type GetRunSettingsResponse struct {
	Settings RunSettings `json:"settings"`
}

// GetRunSettings requires a session; the site rejects anonymous reads of
// the settings view.
func (c *Client) GetRunSettings(ctx context.Context, runID string) (*GetRunSettingsResponse, error) {
	return postJSON[getRunSettingsRequest, *GetRunSettingsResponse](
		ctx, c, "GetRunSettings",
		getRunSettingsRequest{RunID: runID},
	)
}

type putRunSettingsRequest struct {
	CSRFToken  string      `json:"csrfToken,omitempty"`
	Settings   RunSettings `json:"settings"`
	AutoVerify bool        `json:"autoverify"`
}

type PutRunSettingsResponse struct {
	RunID string `json:"runId"`
}

// PutRunSettings writes a full settings record back. The CSRF token from
// ClientOptions is embedded in the body; the session rides in the cookie.
func (c *Client) PutRunSettings(ctx context.Context, settings RunSettings, autoverify bool) (*PutRunSettingsResponse, error) {
	return postJSON[putRunSettingsRequest, *PutRunSettingsResponse](
		ctx, c, "PutRunSettings",
		putRunSettingsRequest{
			CSRFToken:  c.csrf,
			Settings:   settings,
			AutoVerify: autoverify,
		},
	)
}
