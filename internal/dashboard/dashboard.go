// Package dashboard implements the logged-in doctor's dashboard panel:
// overview counters, appointment management and profile editing.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/notice"
	"golang.org/x/sync/errgroup"
)

const (
	msgLoadAppointmentsFailed = "Failed to load appointments"
	msgUpdateSuccess          = "Appointment %s successfully"
	msgUpdateFailed           = "Failed to update appointment"
	msgProfileSuccess         = "Profile updated successfully"
	msgProfileFailed          = "Failed to update profile"
)

type Tab string

const (
	TabOverview     Tab = "overview"
	TabAppointments Tab = "appointments"
	TabProfile      Tab = "profile"
)

// ParseTab maps a request value to a tab, defaulting to the overview
func ParseTab(s string) Tab {
	switch Tab(s) {
	case TabAppointments, TabProfile:
		return Tab(s)
	}
	return TabOverview
}

// Backend is the part of the API client the dashboard needs
type Backend interface {
	GetDoctorProfile(ctx context.Context, doctorID int) (*api.Doctor, error)
	UpdateDoctorProfile(ctx context.Context, doctorID int, req api.ProfileUpdate) error
	ListAllAppointments(ctx context.Context, doctorID int) ([]api.Appointment, error)
	UpdateAppointment(ctx context.Context, appointmentID int, req api.AppointmentUpdate) error
}

// MetricsRecorder counts status transitions
type MetricsRecorder interface {
	RecordStatusChange(ctx context.Context, status string, success bool)
}

// Profile is the editable part of a doctor's profile
type Profile struct {
	Name            string
	Phone           string
	Bio             string
	ExperienceYears int
	ConsultationFee float64
}

// State is a render snapshot of the panel. Stats and Upcoming are derived
// from Appointments when the snapshot is taken.
type State struct {
	Doctor       api.DoctorSession
	Tab          Tab
	Appointments []api.Appointment
	Stats        Stats
	Upcoming     []api.Appointment
	Profile      Profile
	Editing      bool
	Loading      bool
	Notice       notice.Notice
}

// Panel belongs to one logged-in doctor
type Panel struct {
	mu        sync.Mutex
	backend   Backend
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	doctor    api.DoctorSession

	tab          Tab
	appointments []api.Appointment
	profile      Profile
	editing      bool
	loading      bool
	notice       notice.Notice
}

func NewPanel(doctor api.DoctorSession, backend Backend, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Panel {
	return &Panel{
		backend:   backend,
		publisher: publisher,
		metrics:   metrics,
		doctor:    doctor,
		tab:       TabOverview,
		profile:   Profile{Name: doctor.Name},
	}
}

// Load fetches profile and appointments concurrently. Either may fail
// without affecting the other.
func (p *Panel) Load(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		p.LoadProfile(ctx)
		return nil
	})
	g.Go(func() error {
		p.LoadAppointments(ctx)
		return nil
	})
	g.Wait()
}

// LoadProfile fills the profile fields. A failure is only logged and the
// current fields stay.
func (p *Panel) LoadProfile(ctx context.Context) {
	doctor, err := p.backend.GetDoctorProfile(ctx, p.doctor.ID)
	if err != nil {
		log.Printf("[ERROR] Failed to load profile of doctor %d: %v", p.doctor.ID, err)
		return
	}

	profile := Profile{
		Name:            doctor.Name,
		ExperienceYears: doctor.ExperienceYears,
		ConsultationFee: doctor.ConsultationFee,
	}
	if doctor.Phone != nil {
		profile.Phone = *doctor.Phone
	}
	if doctor.Bio != nil {
		profile.Bio = *doctor.Bio
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = profile
}

// LoadAppointments replaces the appointment list with the backend's
func (p *Panel) LoadAppointments(ctx context.Context) {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	appointments, err := p.backend.ListAllAppointments(ctx, p.doctor.ID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		log.Printf("[ERROR] Failed to load appointments of doctor %d: %v", p.doctor.ID, err)
		p.notice = notice.Error(msgLoadAppointmentsFailed)
		return
	}
	p.appointments = appointments
}

// UpdateStatus moves an appointment to status and then re-fetches the whole
// list. Transitions other than pending->confirmed, pending->cancelled and
// confirmed->completed are refused without a network call.
func (p *Panel) UpdateStatus(ctx context.Context, appointmentID int, status api.AppointmentStatus, notes string) {
	p.mu.Lock()
	current, found := p.statusOf(appointmentID)
	if !found || !CanTransition(current, status) {
		log.Printf("[WARN] Refusing transition of appointment %d from %q to %q", appointmentID, current, status)
		p.notice = notice.Error(msgUpdateFailed)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	err := p.backend.UpdateAppointment(ctx, appointmentID, api.AppointmentUpdate{Status: status, Notes: notes})
	if p.metrics != nil {
		p.metrics.RecordStatusChange(ctx, string(status), err == nil)
	}
	if err != nil {
		log.Printf("[ERROR] Failed to update appointment %d: %v", appointmentID, err)
		p.mu.Lock()
		p.notice = notice.Error(msgUpdateFailed)
		p.mu.Unlock()
		return
	}

	p.mu.Lock()
	p.notice = notice.Success(fmt.Sprintf(msgUpdateSuccess, status))
	p.mu.Unlock()

	messaging.PublishOrLog(ctx, p.publisher, messaging.EventAppointmentStatusChanged, messaging.AppointmentStatusChangedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentStatusChanged),
		Data: messaging.AppointmentStatusChangedData{
			AppointmentID: appointmentID,
			DoctorID:      p.doctor.ID,
			OldStatus:     string(current),
			NewStatus:     string(status),
			ChangedAt:     time.Now().UTC(),
		},
	})

	p.LoadAppointments(ctx)
}

// caller holds p.mu
func (p *Panel) statusOf(appointmentID int) (api.AppointmentStatus, bool) {
	for _, a := range p.appointments {
		if a.ID == appointmentID {
			return a.Status, true
		}
	}
	return "", false
}

func (p *Panel) SetTab(t Tab) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tab = t
}

func (p *Panel) StartEditing() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editing = true
}

func (p *Panel) CancelEditing() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editing = false
}

// SaveProfile submits every profile field. The submitted values are kept
// even when the save fails.
func (p *Panel) SaveProfile(ctx context.Context, profile Profile) {
	p.mu.Lock()
	p.profile = profile
	p.loading = true
	p.mu.Unlock()

	err := p.backend.UpdateDoctorProfile(ctx, p.doctor.ID, api.ProfileUpdate{
		Name:            profile.Name,
		Phone:           profile.Phone,
		Bio:             profile.Bio,
		ExperienceYears: profile.ExperienceYears,
		ConsultationFee: profile.ConsultationFee,
	})

	p.mu.Lock()
	p.loading = false
	if err != nil {
		log.Printf("[ERROR] Failed to update profile of doctor %d: %v", p.doctor.ID, err)
		p.notice = notice.Error(msgProfileFailed)
		p.mu.Unlock()
		return
	}
	p.notice = notice.Success(msgProfileSuccess)
	p.editing = false
	p.mu.Unlock()

	messaging.PublishOrLog(ctx, p.publisher, messaging.EventDoctorProfileUpdated, messaging.DoctorProfileUpdatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventDoctorProfileUpdated),
		Data: messaging.DoctorProfileUpdatedData{
			DoctorID:  p.doctor.ID,
			UpdatedAt: time.Now().UTC(),
		},
	})
}

func (p *Panel) DismissNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = notice.Notice{}
}

// Snapshot returns a copy of the panel state for rendering
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	appointments := make([]api.Appointment, len(p.appointments))
	copy(appointments, p.appointments)
	return State{
		Doctor:       p.doctor,
		Tab:          p.tab,
		Appointments: appointments,
		Stats:        ComputeStats(appointments),
		Upcoming:     Upcoming(appointments, UpcomingLimit),
		Profile:      p.profile,
		Editing:      p.editing,
		Loading:      p.loading,
		Notice:       p.notice,
	}
}
