package srcom

import (
	"context"
	"net/url"
	"strconv"
)

type Article struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Body        string `json:"body"`
	UserID      string `json:"userId"`
	GameID      string `json:"gameId"`
	CreateDate  int64  `json:"createDate"`
	PublishDate int64  `json:"publishDate"`
}

type ArticleList struct {
	ArticleList []Article  `json:"articleList"`
	Pagination  Pagination `json:"pagination"`
}

// GetArticleList lists site news articles. limit <= 0 leaves the page
// size to the server.
func (c *Client) GetArticleList(ctx context.Context, limit int) (*ArticleList, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return getJSON[*ArticleList](ctx, c, "GetArticleList", query)
}
