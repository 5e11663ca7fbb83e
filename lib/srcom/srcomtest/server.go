// Package srcomtest runs an in-process stand-in for the speedrun.com v2
// API so package tests can exercise real HTTP round trips against
// fixture data.
package srcomtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"srcomkit/lib/srcom"
	"sync"
	"testing"
)

const DefaultPerPage = 20

type Server struct {
	HTTP *httptest.Server

	// PerPage controls leaderboard page size; defaults to DefaultPerPage.
	PerPage int
	// CSRFToken, when set, is required on PutRunSettings bodies.
	CSRFToken string
	// Session, when set, is the only PHPSESSID accepted on authenticated
	// routes.
	Session string

	mu        sync.Mutex
	games     []*srcom.GameData
	runs      []srcom.Run
	settings  map[string]srcom.RunSettings
	articles  []srcom.Article
	failPages map[int]bool

	leaderboardPages []int
	putRequests      []PutRequest
}

// PutRequest records one observed PutRunSettings call.
type PutRequest struct {
	CSRFToken  string            `json:"csrfToken"`
	Settings   srcom.RunSettings `json:"settings"`
	AutoVerify bool              `json:"autoverify"`
	HadSession bool              `json:"-"`
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		PerPage:   DefaultPerPage,
		settings:  map[string]srcom.RunSettings{},
		failPages: map[int]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/GetGameData", s.handleGetGameData)
	mux.HandleFunc("/GetGameLeaderboard2", s.handleGetGameLeaderboard2)
	mux.HandleFunc("/GetRun", s.handleGetRun)
	mux.HandleFunc("/GetRunSettings", s.handleGetRunSettings)
	mux.HandleFunc("/PutRunSettings", s.handlePutRunSettings)
	mux.HandleFunc("/GetArticleList", s.handleGetArticleList)

	s.HTTP = httptest.NewServer(mux)
	t.Cleanup(s.HTTP.Close)
	return s
}

// Client returns a srcom client pointed at the fixture server, carrying
// the server's expected credentials.
func (s *Server) Client(t testing.TB) *srcom.Client {
	client, err := srcom.NewClient(srcom.ClientOptions{
		BaseURL:   s.HTTP.URL,
		Session:   s.Session,
		CSRFToken: s.CSRFToken,
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func (s *Server) AddGame(data *srcom.GameData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, data)
}

func (s *Server) AddRuns(runs ...srcom.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, runs...)
}

func (s *Server) SetSettings(settings srcom.RunSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.RunID] = settings
}

func (s *Server) AddArticles(articles ...srcom.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, articles...)
}

// FailPage makes one leaderboard page respond with a 500.
func (s *Server) FailPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPages[page] = true
}

// LeaderboardPages reports the page numbers requested so far, in order.
func (s *Server) LeaderboardPages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.leaderboardPages...)
}

// PutRequests reports the observed PutRunSettings calls, in order.
func (s *Server) PutRequests() []PutRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PutRequest(nil), s.putRequests...)
}

// Settings returns the current (possibly rewritten) settings for a run.
func (s *Server) Settings(runID string) (srcom.RunSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[runID]
	return settings, ok
}

func (s *Server) sessionOK(r *http.Request) bool {
	cookie, err := r.Cookie("PHPSESSID")
	if err != nil {
		return false
	}
	return s.Session == "" || cookie.Value == s.Session
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleGetGameData(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gameUrl := r.URL.Query().Get("gameUrl")
	gameId := r.URL.Query().Get("gameId")
	for _, game := range s.games {
		if (gameId != "" && game.Game.ID == gameId) ||
			(gameId == "" && game.Game.URL == gameUrl) {
			writeJSON(w, game)
			return
		}
	}
	http.Error(w, "game not found", http.StatusNotFound)
}

func (s *Server) handleGetGameLeaderboard2(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Params srcom.LeaderboardFilterParams `json:"params"`
		Page   int                           `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.leaderboardPages = append(s.leaderboardPages, req.Page)

	if s.failPages[req.Page] {
		http.Error(w, "synthetic failure", http.StatusInternalServerError)
		return
	}

	var matched []srcom.Run
	for _, run := range s.runs {
		if req.Params.CategoryID != "" && run.CategoryID != req.Params.CategoryID {
			continue
		}
		if run.Obsolete && req.Params.Obsolete == srcom.ObsoleteHidden {
			continue
		}
		if !run.Obsolete && req.Params.Obsolete == srcom.ObsoleteExclusive {
			continue
		}
		matched = append(matched, run)
	}

	per := s.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	pages := (len(matched) + per - 1) / per

	start := (req.Page - 1) * per
	end := start + per
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	writeJSON(w, srcom.Leaderboard{
		RunList: matched[start:end],
		Pagination: srcom.Pagination{
			Count: len(matched),
			Page:  req.Page,
			Pages: pages,
			Per:   per,
		},
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runId := r.URL.Query().Get("runId")
	for _, run := range s.runs {
		if run.ID == runId {
			writeJSON(w, srcom.GetRunResponse{Run: run})
			return
		}
	}
	http.Error(w, "run not found", http.StatusNotFound)
}

func (s *Server) handleGetRunSettings(w http.ResponseWriter, r *http.Request) {
	if !s.sessionOK(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		RunID string `json:"runId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	settings, ok := s.settings[req.RunID]
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, srcom.GetRunSettingsResponse{Settings: settings})
}

func (s *Server) handlePutRunSettings(w http.ResponseWriter, r *http.Request) {
	hadSession := s.sessionOK(r)
	if !hadSession {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var req PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.HadSession = hadSession
	s.putRequests = append(s.putRequests, req)

	if s.CSRFToken != "" && req.CSRFToken != s.CSRFToken {
		http.Error(w, "bad csrf token", http.StatusUnauthorized)
		return
	}

	s.settings[req.Settings.RunID] = req.Settings
	writeJSON(w, srcom.PutRunSettingsResponse{RunID: req.Settings.RunID})
}

func (s *Server) handleGetArticleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, srcom.ArticleList{
		ArticleList: s.articles,
		Pagination: srcom.Pagination{
			Count: len(s.articles),
			Page:  1,
			Pages: 1,
			Per:   len(s.articles),
		},
	})
}
