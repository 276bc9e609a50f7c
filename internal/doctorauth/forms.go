package doctorauth

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
)

const minPasswordLength = 8

// Specializations offered in the registration form
var Specializations = []string{
	"General Medicine", "Cardiology", "Dermatology", "Endocrinology",
	"Gastroenterology", "Neurology", "Oncology", "Orthopedics",
	"Pediatrics", "Psychiatry", "Pulmonology", "Radiology",
	"Surgery", "Urology", "Ophthalmology", "ENT (Otolaryngology)",
	"Gynecology", "Anesthesiology", "Emergency Medicine", "Family Medicine",
}

// LoginForm holds the login input
type LoginForm struct {
	Email    string
	Password string
}

// RegisterForm holds the registration input as typed. Numeric fields stay
// strings until submission.
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Specialization  string
	LicenseNumber   string
	Phone           string
	Bio             string
	ExperienceYears string
	ConsultationFee string
}

// Validate checks the password rules: confirmation first, then length
func (f RegisterForm) Validate() string {
	if f.Password != f.ConfirmPassword {
		return "Passwords do not match"
	}
	if utf8.RuneCountInString(f.Password) < minPasswordLength {
		return "Password must be at least 8 characters long"
	}
	return ""
}

// Registration converts the form to the backend payload. The confirmation
// is dropped and unparsable numbers become zero.
func (f RegisterForm) Registration() api.Registration {
	return api.Registration{
		Name:            f.Name,
		Email:           f.Email,
		Password:        f.Password,
		Specialization:  f.Specialization,
		LicenseNumber:   f.LicenseNumber,
		Phone:           f.Phone,
		Bio:             f.Bio,
		ExperienceYears: ParseInt(f.ExperienceYears),
		ConsultationFee: ParseFloat(f.ConsultationFee),
	}
}

// ParseInt returns the integer value of s, or 0
func ParseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseFloat returns the decimal value of s, or 0
func ParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
