// Package srcom is a typed client for the speedrun.com v2 website API.
//
// The v2 API is the one the site itself talks to: route names like
// GetGameData are path segments, reads are plain GETs, and mutating calls
// are POSTs that carry the PHPSESSID session cookie plus a CSRF token in
// the body. None of it is officially documented, so the wire types here
// mirror observed payloads and are passed through without validation.
package srcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"srcomkit/lib/telemetry"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("srcom")

const DefaultBaseURL = "https://www.speedrun.com/api/v2"

const sessionCookieName = "PHPSESSID"

type Client struct {
	http    *resty.Client
	session string
	csrf    string
}

type ClientOptions struct {
	// BaseURL defaults to DefaultBaseURL when empty.
	BaseURL string
	// Session is the PHPSESSID cookie value. Both "PHPSESSID=<id>" and the
	// bare id are accepted. Leave empty for read-only use.
	Session string
	// CSRFToken is required for routes that mutate state (PutRunSettings).
	CSRFToken string
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseURL
	if baseUrl == "" {
		baseUrl = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

	telemetry.InstrumentResty(client, "srcom/http")

	return &Client{
		http:    client,
		session: NormalizeSession(opts.Session),
		csrf:    opts.CSRFToken,
	}, nil
}

// NormalizeSession strips the cookie-pair prefix from a pasted session
// credential so both "PHPSESSID=abc" and "abc" work.
func NormalizeSession(session string) string {
	session = strings.TrimSpace(session)
	return strings.TrimPrefix(session, sessionCookieName+"=")
}

// getJSON issues an unauthenticated read against a v2 route. The session
// cookie is never sent on GETs.
func getJSON[Output any](ctx context.Context, c *Client, route string, query url.Values) (Output, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("get:%s", route))
	defer span.End()

	var out Output

	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get("/" + route)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return out, fmt.Errorf("%s: %w: %v", route, ErrTransport, err)
	}
	if err := statusError(route, res.StatusCode()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}

	if err := json.Unmarshal(res.Body(), &out); err != nil {
		span.SetStatus(codes.Error, "failed to parse json response")
		return out, fmt.Errorf("%s: decode response: %w", route, err)
	}
	return out, nil
}

// postJSON issues a POST against a v2 route with the session cookie
// attached. Routes that additionally need the CSRF token carry it inside
// their body type.
func postJSON[Input, Output any](ctx context.Context, c *Client, route string, body Input) (Output, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("post:%s", route))
	defer span.End()

	var out Output

	req := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body)
	if c.session != "" {
		req.SetCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}
	res, err := req.Post("/" + route)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return out, fmt.Errorf("%s: %w: %v", route, ErrTransport, err)
	}
	if err := statusError(route, res.StatusCode()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}

	if err := json.Unmarshal(res.Body(), &out); err != nil {
		span.SetStatus(codes.Error, "failed to parse json response")
		return out, fmt.Errorf("%s: decode response: %w", route, err)
	}
	return out, nil
}
