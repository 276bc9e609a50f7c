// Package booking implements the appointment booking panel.
package booking

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/notice"
)

const (
	msgLoadFailed     = "Failed to load doctors. Please refresh the page."
	msgSelectDoctor   = "Please select a doctor"
	msgBookingFailed  = "Failed to book appointment. Please try again."
	msgBookingSuccess = "Appointment booked successfully with Dr. %s on %s at %s"
)

// Backend is the part of the API client the booking panel needs
type Backend interface {
	ListDoctors(ctx context.Context) ([]api.Doctor, error)
	BookAppointment(ctx context.Context, req api.BookingRequest) (*api.BookingConfirmation, error)
}

// MetricsRecorder counts booking attempts that reached the backend
type MetricsRecorder interface {
	RecordBooking(ctx context.Context, success bool)
}

// Form holds the patient's input
type Form struct {
	PatientName     string
	PatientEmail    string
	PatientPhone    string
	AppointmentDate string
	AppointmentTime string
	Reason          string
}

// State is a render snapshot of the panel
type State struct {
	Doctors        []api.Doctor
	SelectedDoctor int
	Form           Form
	Loading        bool
	Submitting     bool
	Notice         notice.Notice
}

// Panel lists doctors and books appointments with them
type Panel struct {
	mu        sync.Mutex
	backend   Backend
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder

	doctors    []api.Doctor
	selected   int
	form       Form
	loading    bool
	submitting bool
	notice     notice.Notice
}

func NewPanel(backend Backend, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Panel {
	return &Panel{backend: backend, publisher: publisher, metrics: metrics}
}

// LoadDoctors fetches the roster. Runs on mount and on manual reload only.
func (p *Panel) LoadDoctors(ctx context.Context) {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	doctors, err := p.backend.ListDoctors(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		log.Printf("[ERROR] Failed to load doctors: %v", err)
		p.notice = notice.Error(msgLoadFailed)
		return
	}
	p.doctors = doctors
}

// SelectDoctor marks the doctor the appointment is for; 0 clears the selection
func (p *Panel) SelectDoctor(doctorID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = doctorID
}

// UpdateForm replaces the patient input
func (p *Panel) UpdateForm(f Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

// Submit books the current form with the selected doctor. Without a
// selection nothing is sent and the form is left as is.
func (p *Panel) Submit(ctx context.Context) {
	p.mu.Lock()
	if p.selected == 0 {
		p.notice = notice.Error(msgSelectDoctor)
		p.mu.Unlock()
		return
	}
	req := api.BookingRequest{
		DoctorID:        p.selected,
		PatientName:     p.form.PatientName,
		PatientEmail:    p.form.PatientEmail,
		PatientPhone:    p.form.PatientPhone,
		AppointmentDate: p.form.AppointmentDate,
		AppointmentTime: p.form.AppointmentTime,
		Reason:          p.form.Reason,
	}
	p.submitting = true
	p.notice = notice.Notice{}
	p.mu.Unlock()

	conf, err := p.backend.BookAppointment(ctx, req)
	if p.metrics != nil {
		p.metrics.RecordBooking(ctx, err == nil)
	}

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		log.Printf("[ERROR] Booking with doctor %d failed: %v", req.DoctorID, err)
		p.notice = notice.Error(api.ErrorMessage(err, msgBookingFailed))
		p.mu.Unlock()
		return
	}
	p.notice = notice.Success(fmt.Sprintf(msgBookingSuccess, conf.DoctorName, conf.AppointmentDate, conf.AppointmentTime))
	p.form = Form{}
	p.selected = 0
	p.mu.Unlock()

	messaging.PublishOrLog(ctx, p.publisher, messaging.EventAppointmentBooked, messaging.AppointmentBookedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentBooked),
		Data: messaging.AppointmentBookedData{
			AppointmentID:   conf.AppointmentID,
			DoctorID:        req.DoctorID,
			DoctorName:      conf.DoctorName,
			PatientEmail:    req.PatientEmail,
			AppointmentDate: conf.AppointmentDate,
			AppointmentTime: conf.AppointmentTime,
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
	doctors := make([]api.Doctor, len(p.doctors))
	copy(doctors, p.doctors)
	return State{
		Doctors:        doctors,
		SelectedDoctor: p.selected,
		Form:           p.form,
		Loading:        p.loading,
		Submitting:     p.submitting,
		Notice:         p.notice,
	}
}
