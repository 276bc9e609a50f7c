package http

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/booking"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/chat"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/dashboard"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/doctorauth"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/news"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/portal"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/workspace"
)

//go:embed templates/*.html
var templateFS embed.FS

type page struct {
	Screen portal.View
	Menu   []portal.MenuItem
	Doctor *api.DoctorSession
	// Poll makes the page re-render itself while something is in flight
	Poll bool
	Year int

	Chat      *chatView
	Booking   *bookingView
	Auth      *authView
	Dashboard *dashboard.State
	News      *news.State
}

type chatView struct {
	ConversationID string
	Messages       []chat.Message
	Sending        bool
	Draft          string
	Prompts        []chat.QuickPrompt
}

type bookingView struct {
	booking.State
	Slots   []string
	MinDate string
}

// SelectedName is the name of the selected doctor, or ""
func (v bookingView) SelectedName() string {
	for _, d := range v.Doctors {
		if d.ID == v.SelectedDoctor {
			return d.Name
		}
	}
	return ""
}

type authView struct {
	doctorauth.State
	Specializations []string
}

func parseTemplates() (*template.Template, error) {
	return template.New("portal").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"timeAgo":       news.TimeAgo,
		"newsDate":      news.FormatDate,
		"truncate":      news.Truncate,
		"showAuthor":    news.ShowAuthor,
		"descLimit":     func() int { return news.DescriptionLimit },
		"apptDate":      dashboard.FormatDate,
		"canTransition": canTransition,
		"dashboardTabs": func() []tabLink { return dashboardTabs },
		"deref":         deref,
		"initial":       initial,
		"clock":         func(t time.Time) string { return t.Format("3:04 PM") },
		"clockSeconds":  func(t time.Time) string { return t.Format("3:04:05 PM") },
	}
}

type tabLink struct {
	Tab   dashboard.Tab
	Label string
}

var dashboardTabs = []tabLink{
	{dashboard.TabOverview, "Overview"},
	{dashboard.TabAppointments, "Appointments"},
	{dashboard.TabProfile, "Profile"},
}

func canTransition(from api.AppointmentStatus, to string) bool {
	return dashboard.CanTransition(from, api.AppointmentStatus(to))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// initial is the avatar letter of a doctor card
func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// buildPage renders nothing itself; it snapshots the workspace for the
// templates and decides whether the page should poll.
func buildPage(ws *workspace.Workspace, screen portal.View, now time.Time) page {
	p := page{
		Screen: screen,
		Menu:   ws.App.MenuItems(),
		Doctor: ws.App.Session(),
		Year:   now.Year(),
	}

	switch screen {
	case portal.ViewChat:
		if c := ws.Chat(); c != nil {
			p.Chat = &chatView{
				ConversationID: c.ConversationID(),
				Messages:       c.Messages(),
				Sending:        c.Sending(),
				Draft:          c.Draft(),
				Prompts:        chat.QuickPrompts,
			}
			if p.Chat.Sending {
				p.Poll = true
			}
		}
	case portal.ViewAppointment:
		if b := ws.Booking(); b != nil {
			p.Booking = &bookingView{
				State:   b.Snapshot(),
				Slots:   booking.GenerateTimeSlots(),
				MinDate: booking.MinDate(now),
			}
			if p.Booking.Loading || p.Booking.Submitting {
				p.Poll = true
			}
		}
	case portal.ViewDoctorRegister:
		if a := ws.DoctorAuth(); a != nil {
			p.Auth = &authView{State: a.Snapshot(), Specializations: doctorauth.Specializations}
			switchPending := p.Auth.Mode == doctorauth.ModeRegister && p.Auth.Notice.Visible() && !p.Auth.Notice.IsError()
			if p.Auth.Loading || p.Auth.Redirecting || switchPending {
				p.Poll = true
			}
		}
	case portal.ViewDoctorDashboard:
		if d := ws.Dashboard(); d != nil {
			state := d.Snapshot()
			p.Dashboard = &state
			if state.Loading {
				p.Poll = true
			}
		}
	case portal.ViewNews:
		if n := ws.News(); n != nil {
			state := n.Snapshot()
			p.News = &state
			if state.Loading || state.Refreshing {
				p.Poll = true
			}
		}
	}
	return p
}
