package workspace

import (
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/doctorauth"
)

// doctorauthImmediate runs delayed transitions synchronously
func doctorauthImmediate() doctorauth.Options {
	return doctorauth.Options{Schedule: func(d time.Duration, f func()) { f() }}
}

func doctorLogin(email, password string) doctorauth.LoginForm {
	return doctorauth.LoginForm{Email: email, Password: password}
}
