// Package doctorauth implements the doctor portal panel: login and
// registration in one screen.
package doctorauth

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/notice"
)

const (
	msgLoginSuccess    = "Login successful! Redirecting to dashboard..."
	msgLoginFailed     = "Login failed. Please try again."
	msgRegisterSuccess = "Registration successful! Your account is pending verification. You can now log in."
	msgRegisterFailed  = "Registration failed. Please try again."

	DefaultLoginDelay    = time.Second
	DefaultRegisterDelay = 3 * time.Second
)

type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// ParseMode maps a request value to a mode, defaulting to login
func ParseMode(s string) Mode {
	if Mode(s) == ModeRegister {
		return ModeRegister
	}
	return ModeLogin
}

// Backend is the part of the API client the portal panel needs
type Backend interface {
	Login(ctx context.Context, req api.Credentials) (*api.DoctorSession, error)
	Register(ctx context.Context, req api.Registration) error
}

// LoginFunc hands an authenticated doctor to the application context
type LoginFunc func(ctx context.Context, doctor api.DoctorSession)

// Scheduler runs f once after d
type Scheduler func(d time.Duration, f func())

func afterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Options tune the panel's delayed transitions
type Options struct {
	LoginDelay    time.Duration
	RegisterDelay time.Duration
	Schedule      Scheduler
}

// State is a render snapshot of the panel
type State struct {
	Mode        Mode
	Login       LoginForm
	Register    RegisterForm
	Loading     bool
	Redirecting bool
	Notice      notice.Notice
}

// Panel switches between login and registration. Each mode keeps its own
// form across switches.
type Panel struct {
	mu        sync.Mutex
	backend   Backend
	publisher messaging.PublisherInterface
	onLogin   LoginFunc
	opts      Options

	mode        Mode
	login       LoginForm
	register    RegisterForm
	loading     bool
	redirecting bool
	notice      notice.Notice
}

func NewPanel(backend Backend, publisher messaging.PublisherInterface, onLogin LoginFunc, opts Options) *Panel {
	if opts.LoginDelay <= 0 {
		opts.LoginDelay = DefaultLoginDelay
	}
	if opts.RegisterDelay <= 0 {
		opts.RegisterDelay = DefaultRegisterDelay
	}
	if opts.Schedule == nil {
		opts.Schedule = afterFunc
	}
	return &Panel{
		backend:   backend,
		publisher: publisher,
		onLogin:   onLogin,
		opts:      opts,
		mode:      ModeLogin,
	}
}

// SetMode switches modes and clears the banner
func (p *Panel) SetMode(m Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
	p.notice = notice.Notice{}
}

func (p *Panel) UpdateLogin(f LoginForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.login = f
}

func (p *Panel) UpdateRegister(f RegisterForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.register = f
}

// SubmitLogin authenticates the doctor. On success the login callback runs
// after the configured delay so the success banner can be seen.
func (p *Panel) SubmitLogin(ctx context.Context) {
	p.mu.Lock()
	creds := api.Credentials{Email: p.login.Email, Password: p.login.Password}
	p.loading = true
	p.notice = notice.Notice{}
	p.mu.Unlock()

	doctor, err := p.backend.Login(ctx, creds)

	p.mu.Lock()
	p.loading = false
	if err != nil {
		log.Printf("[WARN] Doctor login failed for %s: %v", creds.Email, err)
		p.notice = notice.Error(api.ErrorMessage(err, msgLoginFailed))
		p.mu.Unlock()
		return
	}
	p.notice = notice.Success(msgLoginSuccess)
	p.redirecting = true
	p.mu.Unlock()

	identity := *doctor
	p.opts.Schedule(p.opts.LoginDelay, func() {
		p.mu.Lock()
		p.redirecting = false
		p.mu.Unlock()
		if p.onLogin != nil {
			p.onLogin(context.WithoutCancel(ctx), identity)
		}
	})
}

// SubmitRegister validates the form locally, then creates the account. On
// success the form is cleared and the panel returns to login mode after the
// configured delay.
func (p *Panel) SubmitRegister(ctx context.Context) {
	p.mu.Lock()
	if msg := p.register.Validate(); msg != "" {
		p.notice = notice.Error(msg)
		p.mu.Unlock()
		return
	}
	req := p.register.Registration()
	p.loading = true
	p.notice = notice.Notice{}
	p.mu.Unlock()

	err := p.backend.Register(ctx, req)

	p.mu.Lock()
	p.loading = false
	if err != nil {
		log.Printf("[WARN] Doctor registration failed for %s: %v", req.Email, err)
		p.notice = notice.Error(api.ErrorMessage(err, msgRegisterFailed))
		p.mu.Unlock()
		return
	}
	p.notice = notice.Success(msgRegisterSuccess)
	p.register = RegisterForm{}
	p.mu.Unlock()

	p.opts.Schedule(p.opts.RegisterDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.mode = ModeLogin
		p.notice = notice.Notice{}
	})

	messaging.PublishOrLog(ctx, p.publisher, messaging.EventDoctorRegistered, messaging.DoctorRegisteredEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventDoctorRegistered),
		Data: messaging.DoctorRegisteredData{
			Email:          req.Email,
			Name:           req.Name,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
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
	return State{
		Mode:        p.mode,
		Login:       p.login,
		Register:    p.register,
		Loading:     p.loading,
		Redirecting: p.redirecting,
		Notice:      p.notice,
	}
}
