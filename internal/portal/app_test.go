package portal

import (
	"context"
	"testing"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/session"
)

type recordedSessions struct {
	events []string
}

func (r *recordedSessions) RecordSessionEvent(ctx context.Context, event string) {
	r.events = append(r.events, event)
}

func newStore() *session.Store {
	return session.NewStore(localstore.ForDevice(localstore.NewMemoryBackend(), "device-1"))
}

func TestParseView(t *testing.T) {
	testCases := []struct {
		input   string
		want    View
		wantErr bool
	}{
		{"home", ViewHome, false},
		{"doctor-dashboard", ViewDoctorDashboard, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseView(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Expected error=%v, got %v", tc.wantErr, err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestApp_LoginPersistsAndReloadHydrates(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	metrics := &recordedSessions{}
	app := NewApp(ctx, store, metrics)

	if app.View() != ViewHome || app.Session() != nil {
		t.Fatalf("Expected fresh app on home without session")
	}

	doctor := api.DoctorSession{ID: 9, Name: "Lisa Cuddy", Email: "cuddy@example.com", Specialization: "Endocrinology"}
	if err := app.Login(ctx, doctor); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if app.View() != ViewDoctorDashboard {
		t.Errorf("Expected dashboard view after login, got %s", app.View())
	}

	reloaded := NewApp(ctx, store, nil)
	if reloaded.View() != ViewHome {
		t.Errorf("Expected reload to start on home, got %s", reloaded.View())
	}
	if s := reloaded.Session(); s == nil || *s != doctor {
		t.Errorf("Expected hydrated session %+v, got %+v", doctor, s)
	}
	if len(metrics.events) != 1 || metrics.events[0] != "login" {
		t.Errorf("Expected one login event, got %v", metrics.events)
	}
}

func TestApp_Logout(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	app := NewApp(ctx, store, nil)
	app.Login(ctx, api.DoctorSession{ID: 1})

	if err := app.Logout(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if app.Session() != nil {
		t.Error("Expected session to be cleared")
	}
	if app.View() != ViewHome {
		t.Errorf("Expected home view after logout, got %s", app.View())
	}
	if store.Load(ctx) != nil {
		t.Error("Expected stored session to be cleared")
	}
}

func TestApp_ScreenGatesDashboard(t *testing.T) {
	ctx := context.Background()
	app := NewApp(ctx, newStore(), nil)

	app.Navigate(ViewDoctorDashboard)
	if app.Screen() != ViewDoctorRegister {
		t.Errorf("Expected doctor portal without session, got %s", app.Screen())
	}
	if app.View() != ViewDoctorDashboard {
		t.Errorf("Expected selected view to stay dashboard, got %s", app.View())
	}

	app.Login(ctx, api.DoctorSession{ID: 2})
	if app.Screen() != ViewDoctorDashboard {
		t.Errorf("Expected dashboard with session, got %s", app.Screen())
	}
}

func TestApp_SessionIsACopy(t *testing.T) {
	ctx := context.Background()
	app := NewApp(ctx, newStore(), nil)
	app.Login(ctx, api.DoctorSession{ID: 3, Name: "Original"})

	s := app.Session()
	s.Name = "Changed"
	if app.Session().Name != "Original" {
		t.Error("Expected Session to return a copy")
	}
}

func TestApp_MenuItems(t *testing.T) {
	ctx := context.Background()
	app := NewApp(ctx, newStore(), nil)
	app.Navigate(ViewNews)

	items := app.MenuItems()
	if len(items) != 5 {
		t.Fatalf("Expected 5 menu items, got %d", len(items))
	}
	last := items[len(items)-1]
	if last.View != ViewDoctorRegister || last.Label != "Doctor Portal" {
		t.Errorf("Expected Doctor Portal entry without session, got %+v", last)
	}
	for _, item := range items {
		if item.Active != (item.View == ViewNews) {
			t.Errorf("Unexpected active flag on %s", item.View)
		}
	}

	app.Login(ctx, api.DoctorSession{ID: 1})
	last = app.MenuItems()[4]
	if last.View != ViewDoctorDashboard || last.Label != "Dashboard" || !last.Active {
		t.Errorf("Expected active Dashboard entry with session, got %+v", last)
	}
}
