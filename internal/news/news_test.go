package news

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/testutil"
)

func article(title string) api.NewsArticle {
	return api.NewsArticle{
		Source:      api.NewsSource{Name: "Health Daily"},
		Title:       title,
		URL:         "https://example.com/" + title,
		PublishedAt: "2030-01-01T08:00:00Z",
	}
}

func TestLoad_ReplacesArticles(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Articles = []api.NewsArticle{article("a"), article("b")}
	p := NewPanel(fb.Client())

	if !p.Snapshot().Loading {
		t.Error("Expected panel to start in loading state")
	}

	p.Load(context.Background())

	state := p.Snapshot()
	if len(state.Articles) != 2 || state.Loading || state.Error != "" {
		t.Errorf("Unexpected state: %+v", state)
	}
	if state.LastUpdated.IsZero() {
		t.Error("Expected last updated time to be recorded")
	}
}

func TestLoad_EmptyListShowsEmptyState(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	p := NewPanel(fb.Client())

	p.Load(context.Background())

	state := p.Snapshot()
	if state.Error != "" {
		t.Errorf("Expected no error banner, got '%s'", state.Error)
	}
	if !state.Empty() {
		t.Error("Expected empty state")
	}
}

func TestLoad_NonOKStatus(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.NewsStatus = "error"
	p := NewPanel(fb.Client())

	p.Load(context.Background())

	if got := p.Snapshot().Error; got != "Failed to load news articles" {
		t.Errorf("Unexpected error: %s", got)
	}
}

func TestLoad_Failure(t *testing.T) {
	testCases := []struct {
		name    string
		message string
		want    string
	}{
		{"server message", "News API key missing", "News API key missing"},
		{"fallback", "", "Failed to load medical news. Please check your internet connection."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			fb.Fail(testutil.RouteNews, http.StatusInternalServerError, tc.message)
			p := NewPanel(fb.Client())

			p.Load(context.Background())

			state := p.Snapshot()
			if state.Error != tc.want {
				t.Errorf("Expected '%s', got '%s'", tc.want, state.Error)
			}
			if state.Empty() {
				t.Error("Expected failure not to count as empty state")
			}
		})
	}
}

func TestRefresh_KeepsArticlesVisible(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	backend := &stubBackend{
		listFunc: func(ctx context.Context, q api.NewsQuery) (*api.NewsResponse, error) {
			started <- struct{}{}
			<-release
			return &api.NewsResponse{Status: "ok", Articles: []api.NewsArticle{article("fresh")}}, nil
		},
	}
	p := NewPanel(backend)
	p.articles = []api.NewsArticle{article("old")}
	p.loading = false

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()
	<-started

	mid := p.Snapshot()
	if !mid.Refreshing || mid.Loading || len(mid.Articles) != 1 || mid.Articles[0].Title != "old" {
		t.Errorf("Expected old articles shown while refreshing, got %+v", mid)
	}

	close(release)
	<-done
	if got := p.Snapshot().Articles[0].Title; got != "fresh" {
		t.Errorf("Expected refreshed articles, got %s", got)
	}
	if backend.lastQuery != (api.NewsQuery{PageSize: 20, Category: "health"}) {
		t.Errorf("Unexpected query: %+v", backend.lastQuery)
	}
}

type stubBackend struct {
	lastQuery api.NewsQuery
	listFunc  func(ctx context.Context, q api.NewsQuery) (*api.NewsResponse, error)
}

func (s *stubBackend) ListNews(ctx context.Context, q api.NewsQuery) (*api.NewsResponse, error) {
	s.lastQuery = q
	return s.listFunc(ctx, q)
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		published string
		want      string
	}{
		{"2030-01-10T11:30:00Z", "Just now"},
		{"2030-01-10T09:00:00Z", "3h ago"},
		{"2030-01-09T12:30:00Z", "23h ago"},
		{"2030-01-08T12:00:00Z", "2d ago"},
		{"2030-01-03T13:00:00Z", "6d ago"},
		{"2030-01-01T08:05:00Z", "Jan 1, 2030, 08:05 AM"},
		{"yesterday", "Unknown time"},
	}

	for _, tc := range testCases {
		if got := TimeAgo(now, tc.published); got != tc.want {
			t.Errorf("TimeAgo(%s): expected '%s', got '%s'", tc.published, tc.want, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	short := "Short description"
	if Truncate(short, DescriptionLimit) != short {
		t.Error("Expected short text unchanged")
	}

	long := strings.Repeat("a", 149) + " " + strings.Repeat("b", 20)
	got := Truncate(long, DescriptionLimit)
	if got != strings.Repeat("a", 149)+"..." {
		t.Errorf("Unexpected truncation: %s", got)
	}
}

func TestShowAuthor(t *testing.T) {
	unknown, named := "Unknown", "Jane Reporter"
	if ShowAuthor(api.NewsArticle{}) || ShowAuthor(api.NewsArticle{Author: &unknown}) {
		t.Error("Expected missing or Unknown author hidden")
	}
	if !ShowAuthor(api.NewsArticle{Author: &named}) {
		t.Error("Expected named author shown")
	}
}
