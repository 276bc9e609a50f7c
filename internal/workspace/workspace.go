// Package workspace keeps the live state of each browser device: the
// application context plus the panel mounted for the current screen.
package workspace

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/booking"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/chat"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/dashboard"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/doctorauth"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/news"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/portal"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/session"
)

// Backend is everything the panels call on the MedGPT API
type Backend interface {
	chat.Backend
	booking.Backend
	doctorauth.Backend
	dashboard.Backend
	news.Backend
}

// MetricsRecorder is everything the panels record
type MetricsRecorder interface {
	chat.MetricsRecorder
	booking.MetricsRecorder
	dashboard.MetricsRecorder
	portal.SessionRecorder
}

// Deps are shared by every workspace
type Deps struct {
	Backend   Backend
	Publisher messaging.PublisherInterface
	Metrics   MetricsRecorder
	Auth      doctorauth.Options
}

// Workspace is one device's equivalent of a loaded page. Panels are mounted
// lazily for the screen the app context selects and discarded when the
// screen changes.
type Workspace struct {
	App *portal.App

	deps Deps

	mu        sync.Mutex
	mounted   portal.View
	doctorID  int
	chat      *chat.Panel
	booking   *booking.Panel
	auth      *doctorauth.Panel
	dashboard *dashboard.Panel
	news      *news.Panel
	lastSeen  time.Time

	// replaced is set once a page load for the same device supersedes this
	// workspace; pending timers must not touch the session then
	replaced atomic.Bool

	loads sync.WaitGroup
}

// New performs a page load for a device
func New(ctx context.Context, storage localstore.Storage, deps Deps) *Workspace {
	return &Workspace{
		App:      portal.NewApp(ctx, session.NewStore(storage), deps.Metrics),
		deps:     deps,
		lastSeen: time.Now(),
	}
}

// Sync mounts the panel for the current screen if it is not mounted yet and
// returns that screen. Mount loads run in the background; ctx only carries
// values for them, its cancellation is ignored.
func (w *Workspace) Sync(ctx context.Context) portal.View {
	screen := w.App.Screen()
	doctor := w.App.Session()
	if screen == portal.ViewDoctorDashboard && doctor == nil {
		// logged out between the two reads
		screen = portal.ViewDoctorRegister
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = time.Now()

	if screen == w.mounted && (screen != portal.ViewDoctorDashboard || doctor.ID == w.doctorID) {
		return screen
	}
	w.unmount()
	w.mounted = screen

	bg := context.WithoutCancel(ctx)
	switch screen {
	case portal.ViewChat:
		w.chat = chat.NewPanel(w.deps.Backend, w.deps.Metrics)
	case portal.ViewAppointment:
		w.booking = booking.NewPanel(w.deps.Backend, w.deps.Publisher, w.deps.Metrics)
		w.spawn(func() { w.booking.LoadDoctors(bg) })
	case portal.ViewNews:
		w.news = news.NewPanel(w.deps.Backend)
		w.spawn(func() { w.news.Load(bg) })
	case portal.ViewDoctorRegister:
		w.auth = doctorauth.NewPanel(w.deps.Backend, w.deps.Publisher, w.login, w.deps.Auth)
	case portal.ViewDoctorDashboard:
		w.doctorID = doctor.ID
		w.dashboard = dashboard.NewPanel(*doctor, w.deps.Backend, w.deps.Publisher, w.deps.Metrics)
		w.spawn(func() { w.dashboard.Load(bg) })
	}
	return screen
}

// login is the doctor portal's hand-off to the app context
func (w *Workspace) login(ctx context.Context, doctor api.DoctorSession) {
	if w.replaced.Load() {
		log.Printf("[WARN] Dropping login hand-off for Dr. %s: page was reloaded", doctor.Name)
		return
	}
	w.App.Login(ctx, doctor)
}

// caller holds w.mu
func (w *Workspace) spawn(load func()) {
	w.loads.Add(1)
	go func() {
		defer w.loads.Done()
		load()
	}()
}

// caller holds w.mu
func (w *Workspace) unmount() {
	w.chat, w.booking, w.auth, w.dashboard, w.news = nil, nil, nil, nil, nil
	w.doctorID = 0
}

// Wait blocks until every mount load started so far has finished
func (w *Workspace) Wait() {
	w.loads.Wait()
}

// Mounted returns the screen whose panel is currently mounted
func (w *Workspace) Mounted() portal.View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mounted
}

// Chat returns the mounted chat panel, or nil
func (w *Workspace) Chat() *chat.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chat
}

// Booking returns the mounted booking panel, or nil
func (w *Workspace) Booking() *booking.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.booking
}

// DoctorAuth returns the mounted doctor portal panel, or nil
func (w *Workspace) DoctorAuth() *doctorauth.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.auth
}

// Dashboard returns the mounted dashboard panel, or nil
func (w *Workspace) Dashboard() *dashboard.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dashboard
}

// News returns the mounted news panel, or nil
func (w *Workspace) News() *news.Panel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.news
}

type dismisser interface {
	DismissNotice()
}

// DismissNotice hides the banner of whichever panel is mounted
func (w *Workspace) DismissNotice() {
	w.mu.Lock()
	var d dismisser
	switch {
	case w.booking != nil:
		d = w.booking
	case w.auth != nil:
		d = w.auth
	case w.dashboard != nil:
		d = w.dashboard
	}
	w.mu.Unlock()

	if d != nil {
		d.DismissNotice()
	}
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}
