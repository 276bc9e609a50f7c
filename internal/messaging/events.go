package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// Appointment events
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"

	// Doctor events
	EventDoctorRegistered     = "doctor.registered"
	EventDoctorProfileUpdated = "doctor.profile_updated"
)

const serviceName = "medgpt-portal"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// AppointmentBookedEvent is published after the backend accepted a booking
type AppointmentBookedEvent struct {
	BaseEvent
	Data AppointmentBookedData `json:"data"`
}

type AppointmentBookedData struct {
	AppointmentID   int    `json:"appointment_id"`
	DoctorID        int    `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	PatientEmail    string `json:"patient_email"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

// AppointmentStatusChangedEvent is published after a doctor moved an appointment
type AppointmentStatusChangedEvent struct {
	BaseEvent
	Data AppointmentStatusChangedData `json:"data"`
}

type AppointmentStatusChangedData struct {
	AppointmentID int       `json:"appointment_id"`
	DoctorID      int       `json:"doctor_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// DoctorRegisteredEvent is published for every new (unverified) doctor account
type DoctorRegisteredEvent struct {
	BaseEvent
	Data DoctorRegisteredData `json:"data"`
}

type DoctorRegisteredData struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
}

// DoctorProfileUpdatedEvent is published after a profile save
type DoctorProfileUpdatedEvent struct {
	BaseEvent
	Data DoctorProfileUpdatedData `json:"data"`
}

type DoctorProfileUpdatedData struct {
	DoctorID  int       `json:"doctor_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: serviceName,
	}
}
