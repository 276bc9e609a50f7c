//go:build integration

package e2e

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/db"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/doctorauth"
	porthttp "github.com/WailSalutem-Health-Care/medgpt-portal/internal/http"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/testutil"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/workspace"
)

const cookieName = "medgpt_device"

// TestServer is the whole portal on real PostgreSQL local storage, talking
// to a fake MedGPT backend
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	Backend       *testutil.FakeBackend
	MockPublisher *testutil.MockPublisher

	mu       sync.RWMutex
	handler  http.Handler
	registry *workspace.Registry
}

// SetupE2ETest creates a complete test environment for E2E testing:
// - Real PostgreSQL database for device storage
// - Real HTTP server with all routes
// - Fake backend API and in-memory publisher
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ts := &TestServer{
		DB:            conn,
		Backend:       testutil.NewFakeBackend(t),
		MockPublisher: testutil.NewMockPublisher(),
	}
	ts.Restart(t)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.RLock()
		h := ts.handler
		ts.mu.RUnlock()
		h.ServeHTTP(w, r)
	}))
	return ts
}

// Restart replaces the portal process behind the same address. Workspaces
// are lost; whatever reached PostgreSQL survives.
func (ts *TestServer) Restart(t *testing.T) {
	t.Helper()

	registry := workspace.NewRegistry(localstore.NewPostgresBackend(ts.DB), workspace.Deps{
		Backend:   ts.Backend.Client(),
		Publisher: ts.MockPublisher,
		Auth:      doctorauth.Options{Schedule: func(d time.Duration, f func()) { f() }},
	})
	handler, err := porthttp.NewHandler(registry)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	router := porthttp.SetupRouter(handler, porthttp.RouterConfig{CookieName: cookieName})

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.registry = registry
	ts.handler = porthttp.NewServerHandler(router, nil)
}

// Settle waits for the mount loads of every device the client owns
func (ts *TestServer) Settle(t *testing.T, client *testutil.PortalClient) {
	t.Helper()

	ts.mu.RLock()
	registry := ts.registry
	ts.mu.RUnlock()

	req, _ := http.NewRequest(http.MethodGet, ts.Server.URL, nil)
	for _, c := range client.Client.Jar.Cookies(req.URL) {
		if c.Name == cookieName {
			registry.Get(context.Background(), c.Value).Wait()
			return
		}
	}
	t.Fatal("Expected a device cookie")
}

// Cleanup cleans up all test resources
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()

	ts.Server.Close()
	testutil.CleanupTestDB(t, ts.DB)
}

// NewClient creates a browser with its own device cookie
func (ts *TestServer) NewClient(t *testing.T) *testutil.PortalClient {
	return testutil.NewPortalClient(t, ts.Server.URL)
}
