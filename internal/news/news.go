// Package news implements the medical news feed panel.
package news

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
)

const (
	PageSize = 20
	Category = "health"

	msgBadStatus  = "Failed to load news articles"
	msgLoadFailed = "Failed to load medical news. Please check your internet connection."
	statusOK      = "ok"
)

// Backend is the part of the API client the news panel needs
type Backend interface {
	ListNews(ctx context.Context, query api.NewsQuery) (*api.NewsResponse, error)
}

// State is a render snapshot of the panel
type State struct {
	Articles    []api.NewsArticle
	Loading     bool
	Refreshing  bool
	Error       string
	LastUpdated time.Time
	Now         time.Time
}

// Empty reports whether the feed loaded fine but has nothing to show
func (s State) Empty() bool {
	return !s.Loading && s.Error == "" && len(s.Articles) == 0
}

// Panel shows one page of health news. Articles are replaced wholesale on
// every successful fetch.
type Panel struct {
	mu      sync.Mutex
	backend Backend
	now     func() time.Time

	articles    []api.NewsArticle
	loading     bool
	refreshing  bool
	err         string
	lastUpdated time.Time
}

// NewPanel starts in the blocking loading state until the first Load returns
func NewPanel(backend Backend) *Panel {
	return &Panel{backend: backend, now: time.Now, loading: true}
}

// Load fetches with the blocking loading indicator
func (p *Panel) Load(ctx context.Context) {
	p.fetch(ctx, false)
}

// Refresh fetches while the current articles stay visible
func (p *Panel) Refresh(ctx context.Context) {
	p.fetch(ctx, true)
}

func (p *Panel) fetch(ctx context.Context, refresh bool) {
	p.mu.Lock()
	if refresh {
		p.refreshing = true
	} else {
		p.loading = true
	}
	p.err = ""
	p.mu.Unlock()

	resp, err := p.backend.ListNews(ctx, api.NewsQuery{PageSize: PageSize, Category: Category})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	p.refreshing = false

	switch {
	case err != nil:
		log.Printf("[ERROR] News loading failed: %v", err)
		p.err = api.ErrorMessage(err, msgLoadFailed)
	case resp.Status != statusOK:
		log.Printf("[WARN] News endpoint answered status %q", resp.Status)
		p.err = msgBadStatus
	default:
		p.articles = resp.Articles
		p.lastUpdated = p.now()
	}
}

// Snapshot returns a copy of the panel state for rendering
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	articles := make([]api.NewsArticle, len(p.articles))
	copy(articles, p.articles)
	return State{
		Articles:    articles,
		Loading:     p.loading,
		Refreshing:  p.refreshing,
		Error:       p.err,
		LastUpdated: p.lastUpdated,
		Now:         p.now(),
	}
}
