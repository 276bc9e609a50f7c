// Package portal holds the application context shared by every panel of a
// workspace: the selected view and the logged-in doctor.
package portal

import (
	"context"
	"log"
	"sync"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/session"
)

// SessionRecorder receives login/logout notifications for metrics
type SessionRecorder interface {
	RecordSessionEvent(ctx context.Context, event string)
}

// App is the single source of truth for view selection and session state.
// Only Navigate, Login and Logout change it.
type App struct {
	mu      sync.RWMutex
	view    View
	doctor  *api.DoctorSession
	store   *session.Store
	metrics SessionRecorder
}

// NewApp starts a page load: home view, session hydrated from storage
func NewApp(ctx context.Context, store *session.Store, metrics SessionRecorder) *App {
	return &App{
		view:    ViewHome,
		doctor:  store.Load(ctx),
		store:   store,
		metrics: metrics,
	}
}

// Navigate selects a view. There is no guard here; Screen applies the
// dashboard fallback.
func (a *App) Navigate(v View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = v
}

// Login records the doctor in memory and storage and opens the dashboard.
// The in-memory session is set even when persisting fails.
func (a *App) Login(ctx context.Context, doctor api.DoctorSession) error {
	a.mu.Lock()
	a.doctor = &doctor
	a.view = ViewDoctorDashboard
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.RecordSessionEvent(ctx, "login")
	}
	if err := a.store.Save(ctx, doctor); err != nil {
		log.Printf("[ERROR] Doctor %d logged in but session was not persisted: %v", doctor.ID, err)
		return err
	}
	return nil
}

// Logout drops the session everywhere and returns home
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.doctor = nil
	a.view = ViewHome
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.RecordSessionEvent(ctx, "logout")
	}
	if err := a.store.Clear(ctx); err != nil {
		log.Printf("[ERROR] Logout could not clear stored session: %v", err)
		return err
	}
	return nil
}

// View returns the selected view
func (a *App) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

// Session returns a copy of the logged-in doctor, or nil
func (a *App) Session() *api.DoctorSession {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.doctor == nil {
		return nil
	}
	d := *a.doctor
	return &d
}

// Screen is the view actually rendered: the dashboard needs a session and
// falls back to the doctor portal without one.
func (a *App) Screen() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.view == ViewDoctorDashboard && a.doctor == nil {
		return ViewDoctorRegister
	}
	return a.view
}

// MenuItems builds the header navigation for the current state
func (a *App) MenuItems() []MenuItem {
	a.mu.RLock()
	defer a.mu.RUnlock()

	items := make([]MenuItem, 0, len(patientMenu)+1)
	items = append(items, patientMenu...)
	if a.doctor != nil {
		items = append(items, MenuItem{View: ViewDoctorDashboard, Label: "Dashboard", Doctor: true})
	} else {
		items = append(items, MenuItem{View: ViewDoctorRegister, Label: "Doctor Portal", Doctor: true})
	}
	for i := range items {
		items[i].Active = items[i].View == a.view
	}
	return items
}
