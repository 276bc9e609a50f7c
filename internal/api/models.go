package api

import (
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/pagination"
)

// DoctorSession identifies the authenticated doctor held by the portal
type DoctorSession struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	IsVerified     bool   `json:"is_verified"`
}

// Doctor is a roster or profile entry returned by the backend
type Doctor struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Bio             *string `json:"bio,omitempty"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
	Phone           *string `json:"phone,omitempty"`
	Email           string  `json:"email,omitempty"`
	IsVerified      bool    `json:"is_verified"`
	LicenseNumber   string  `json:"license_number,omitempty"`
}

// AppointmentStatus is the lifecycle stage of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the four statuses the backend accepts
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked consultation
type Appointment struct {
	ID              int               `json:"id"`
	DoctorID        int               `json:"doctor_id"`
	DoctorName      string            `json:"doctor_name,omitempty"`
	PatientName     string            `json:"patient_name"`
	PatientEmail    string            `json:"patient_email"`
	PatientPhone    *string           `json:"patient_phone,omitempty"`
	AppointmentDate string            `json:"appointment_date"` // Format: YYYY-MM-DD
	AppointmentTime string            `json:"appointment_time"` // Format: HH:MM
	Reason          *string           `json:"reason,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
	Status          AppointmentStatus `json:"status"`
}

// BookingRequest is the payload of POST /api/book
type BookingRequest struct {
	DoctorID        int    `json:"doctor_id"`
	PatientName     string `json:"patient_name"`
	PatientEmail    string `json:"patient_email"`
	PatientPhone    string `json:"patient_phone"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason"`
}

// BookingConfirmation is returned when a booking succeeds
type BookingConfirmation struct {
	Message         string `json:"message"`
	AppointmentID   int    `json:"appointment_id"`
	DoctorName      string `json:"doctor_name"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Status          string `json:"status"`
}

// AppointmentUpdate is the payload of PUT /api/appointments/:id
type AppointmentUpdate struct {
	Status AppointmentStatus `json:"status"`
	Notes  string            `json:"notes"`
}

// ChatRequest is the payload of POST /api/chat
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatReply carries the assistant's answer
type ChatReply struct {
	Response string `json:"response"`
}

// Credentials is the payload of POST /api/doctor/login
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload of POST /api/doctor/register
type Registration struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	Specialization  string  `json:"specialization"`
	LicenseNumber   string  `json:"license_number"`
	Phone           string  `json:"phone"`
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
}

// ProfileUpdate is the full payload of PUT /api/doctor/profile/:id
type ProfileUpdate struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	ConsultationFee float64 `json:"consultation_fee"`
}

// NewsQuery selects the article page requested from GET /api/news
type NewsQuery struct {
	PageSize int
	Category string
}

// NewsSource names the publisher of an article
type NewsSource struct {
	Name string `json:"name"`
}

// NewsArticle is a third-party article shown in the feed
type NewsArticle struct {
	Source      NewsSource `json:"source"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	URLToImage  *string    `json:"urlToImage,omitempty"`
	Author      *string    `json:"author,omitempty"`
	PublishedAt string     `json:"publishedAt"`
}

// NewsResponse is the envelope returned by GET /api/news
type NewsResponse struct {
	Status   string        `json:"status"`
	Articles []NewsArticle `json:"articles"`
}

type doctorListResponse struct {
	Doctors []Doctor `json:"doctors"`
}

type doctorResponse struct {
	Doctor Doctor `json:"doctor"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Doctor  *DoctorSession `json:"doctor"`
}

type appointmentListResponse struct {
	pagination.Meta
	Appointments []Appointment `json:"appointments"`
}

type errorResponse struct {
	Error string `json:"error"`
}
