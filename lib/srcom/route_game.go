package srcom

import (
	"context"
	"net/url"
)

type Game struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	GameID     string `json:"gameId"`
	IsMisc     bool   `json:"isMisc"`
	IsPerLevel bool   `json:"isPerLevel"`
	Archived   bool   `json:"archived"`
}

type Level struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	GameID string `json:"gameId"`
}

// Variable is an axis of subcategorization. It is scoped to either a
// category (CategoryID set) or a level (LevelID set), never both.
type Variable struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	GameID        string `json:"gameId"`
	CategoryID    string `json:"categoryId"`
	LevelID       string `json:"levelId"`
	IsMandatory   bool   `json:"isMandatory"`
	IsSubcategory bool   `json:"isSubcategory"`
	IsObsoleting  bool   `json:"isObsoleting"`
}

// Value is one selectable option for a Variable.
type Value struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	VariableID string `json:"variableId"`
}

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameData is the full per-game snapshot: identity plus the category,
// level, variable and value catalogs everything else resolves against.
type GameData struct {
	Game       Game       `json:"game"`
	Categories []Category `json:"categories"`
	Levels     []Level    `json:"levels"`
	Variables  []Variable `json:"variables"`
	Values     []Value    `json:"values"`
	Players    []Player   `json:"players"`
}

type GetGameDataRequest struct {
	// Exactly one of GameURL or GameID should be set. When both are,
	// GameID wins.
	GameURL string
	GameID  string
}

func (c *Client) GetGameData(ctx context.Context, req GetGameDataRequest) (*GameData, error) {
	query := url.Values{}
	if req.GameID != "" {
		query.Set("gameId", req.GameID)
	} else {
		query.Set("gameUrl", req.GameURL)
	}
	return getJSON[*GameData](ctx, c, "GetGameData", query)
}
