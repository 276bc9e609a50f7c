package doctorauth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/notice"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/testutil"
)

// manualClock captures scheduled callbacks so tests decide when they fire
type manualClock struct {
	delays []time.Duration
	funcs  []func()
}

func (c *manualClock) schedule(d time.Duration, f func()) {
	c.delays = append(c.delays, d)
	c.funcs = append(c.funcs, f)
}

func (c *manualClock) fireAll() {
	for _, f := range c.funcs {
		f()
	}
	c.funcs = nil
}

func validRegistration() RegisterForm {
	return RegisterForm{
		Name:            "Dr. Jane Foster",
		Email:           "foster@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		Specialization:  "Neurology",
		LicenseNumber:   "LIC-42",
		ExperienceYears: "7",
		ConsultationFee: "350.50",
	}
}

func newPanel(t *testing.T, onLogin LoginFunc) (*Panel, *testutil.FakeBackend, *manualClock, *testutil.MockPublisher) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	clock := &manualClock{}
	pub := testutil.NewMockPublisher()
	p := NewPanel(fb.Client(), pub, onLogin, Options{Schedule: clock.schedule})
	return p, fb, clock, pub
}

func TestRegisterForm_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		confirm  string
		want     string
	}{
		{"valid", "password1", "password1", ""},
		{"exactly eight", "12345678", "12345678", ""},
		{"too short", "short", "short", "Password must be at least 8 characters long"},
		{"seven accented characters", "pässwör", "pässwör", "Password must be at least 8 characters long"},
		{"eight accented characters", "pässwört", "pässwört", ""},
		{"mismatch", "password1", "password2", "Passwords do not match"},
		{"mismatch reported before length", "short", "other", "Passwords do not match"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := RegisterForm{Password: tc.password, ConfirmPassword: tc.confirm}
			if got := f.Validate(); got != tc.want {
				t.Errorf("Expected '%s', got '%s'", tc.want, got)
			}
		})
	}
}

func TestNumericFallback(t *testing.T) {
	if ParseInt("abc") != 0 || ParseInt("") != 0 || ParseInt(" 12 ") != 12 {
		t.Error("Unexpected ParseInt result")
	}
	if ParseFloat("n/a") != 0 || ParseFloat("99.5") != 99.5 {
		t.Error("Unexpected ParseFloat result")
	}
}

func TestSubmitRegister_ValidationSkipsNetwork(t *testing.T) {
	p, fb, _, _ := newPanel(t, nil)
	p.SetMode(ModeRegister)

	form := validRegistration()
	form.Password, form.ConfirmPassword = "short", "short"
	p.UpdateRegister(form)
	p.SubmitRegister(context.Background())

	if got := p.Snapshot().Notice; got != notice.Error("Password must be at least 8 characters long") {
		t.Errorf("Unexpected notice: %+v", got)
	}

	form.ConfirmPassword = "different"
	p.UpdateRegister(form)
	p.SubmitRegister(context.Background())

	if got := p.Snapshot().Notice; got != notice.Error("Passwords do not match") {
		t.Errorf("Unexpected notice: %+v", got)
	}
	if fb.TotalCalls() != 0 {
		t.Errorf("Expected no network call, got %d", fb.TotalCalls())
	}
}

func TestSubmitRegister_Success(t *testing.T) {
	p, fb, clock, pub := newPanel(t, nil)
	p.SetMode(ModeRegister)
	form := validRegistration()
	form.ExperienceYears = "seven"
	p.UpdateRegister(form)

	p.SubmitRegister(context.Background())

	state := p.Snapshot()
	if state.Notice != notice.Success("Registration successful! Your account is pending verification. You can now log in.") {
		t.Errorf("Unexpected notice: %+v", state.Notice)
	}
	if state.Register != (RegisterForm{}) {
		t.Errorf("Expected form cleared, got %+v", state.Register)
	}
	if state.Mode != ModeRegister {
		t.Error("Expected mode to switch only after the delay")
	}

	sent := fb.Registrations[0]
	if sent.ExperienceYears != 0 || sent.ConsultationFee != 350.50 {
		t.Errorf("Unexpected numeric fields: %+v", sent)
	}

	if len(clock.delays) != 1 || clock.delays[0] != 3*time.Second {
		t.Errorf("Expected one 3s delay, got %v", clock.delays)
	}
	clock.fireAll()

	state = p.Snapshot()
	if state.Mode != ModeLogin || state.Notice.Visible() {
		t.Errorf("Expected login mode with no banner, got %+v", state)
	}
	pub.AssertEventCount(t, messaging.EventDoctorRegistered, 1)
}

func TestSubmitRegister_ServerError(t *testing.T) {
	p, fb, clock, _ := newPanel(t, nil)
	fb.AddAccount(api.DoctorSession{Email: "foster@example.com"}, "x")
	p.UpdateRegister(validRegistration())

	p.SubmitRegister(context.Background())

	state := p.Snapshot()
	if state.Notice != notice.Error("Email already registered") {
		t.Errorf("Unexpected notice: %+v", state.Notice)
	}
	if state.Register != validRegistration() {
		t.Error("Expected form kept after failure")
	}
	if len(clock.funcs) != 0 {
		t.Error("Expected nothing scheduled after failure")
	}
}

func TestSubmitLogin_DelaysHandOff(t *testing.T) {
	var got []api.DoctorSession
	p, fb, clock, _ := newPanel(t, func(ctx context.Context, doctor api.DoctorSession) {
		got = append(got, doctor)
	})
	doctor := api.DoctorSession{ID: 11, Name: "Stephen Strange", Email: "strange@example.com", Specialization: "Neurology", IsVerified: true}
	fb.AddAccount(doctor, "sanctum123")

	p.UpdateLogin(LoginForm{Email: "strange@example.com", Password: "sanctum123"})
	p.SubmitLogin(context.Background())

	state := p.Snapshot()
	if state.Notice != notice.Success("Login successful! Redirecting to dashboard...") || !state.Redirecting {
		t.Errorf("Unexpected state: %+v", state)
	}
	if len(got) != 0 {
		t.Fatal("Expected login callback to wait for the delay")
	}
	if clock.delays[0] != time.Second {
		t.Errorf("Expected 1s delay, got %v", clock.delays[0])
	}

	clock.fireAll()
	if len(got) != 1 || got[0] != doctor {
		t.Errorf("Expected callback with %+v, got %+v", doctor, got)
	}
	if p.Snapshot().Redirecting {
		t.Error("Expected redirecting flag cleared")
	}
}

func TestSubmitLogin_Failure(t *testing.T) {
	p, fb, clock, _ := newPanel(t, nil)
	fb.Fail(testutil.RouteLogin, http.StatusInternalServerError, "")

	p.SubmitLogin(context.Background())

	if got := p.Snapshot().Notice; got != notice.Error("Login failed. Please try again.") {
		t.Errorf("Unexpected notice: %+v", got)
	}
	if len(clock.funcs) != 0 {
		t.Error("Expected no scheduled hand-off")
	}
}

func TestSetMode_PreservesForms(t *testing.T) {
	p, _, _, _ := newPanel(t, nil)
	p.UpdateLogin(LoginForm{Email: "a@example.com"})
	p.SetMode(ModeRegister)
	p.UpdateRegister(RegisterForm{Name: "B"})
	p.SubmitRegister(context.Background()) // fails validation, sets a banner

	p.SetMode(ModeLogin)

	state := p.Snapshot()
	if state.Notice.Visible() {
		t.Error("Expected switching modes to clear the banner")
	}
	if state.Login.Email != "a@example.com" || state.Register.Name != "B" {
		t.Errorf("Expected both forms preserved, got %+v", state)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("register") != ModeRegister || ParseMode("bogus") != ModeLogin {
		t.Error("Unexpected ParseMode result")
	}
}

func TestNewPanel_DefaultDelays(t *testing.T) {
	p := NewPanel(nil, nil, nil, Options{})
	if p.opts.LoginDelay != time.Second || p.opts.RegisterDelay != 3*time.Second || p.opts.Schedule == nil {
		t.Errorf("Unexpected defaults: %+v", p.opts)
	}
	if p.Snapshot().Mode != ModeLogin {
		t.Error("Expected login mode by default")
	}
}
