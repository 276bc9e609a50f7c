// Package chat implements the assistant conversation panel.
package chat

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
)

const (
	WelcomeMessage = "Hello! I'm MedGPT, your medical AI assistant. I can help answer your health questions, provide medical information, and guide you on when to seek professional care. How can I assist you today?"
	ClearedMessage = "Chat history cleared. How can I help you today?"
	FailureMessage = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment. If this persists, please check your internet connection or contact support."
)

// Backend is the part of the API client the chat panel needs
type Backend interface {
	SendChat(ctx context.Context, req api.ChatRequest) (*api.ChatReply, error)
}

// MetricsRecorder counts chat round trips
type MetricsRecorder interface {
	RecordChatMessage(ctx context.Context, success bool)
}

type MessageType string

const (
	MessageUser MessageType = "user"
	MessageBot  MessageType = "bot"
)

// Message is one transcript entry
type Message struct {
	ID        int
	Type      MessageType
	Content   string
	Timestamp time.Time
	IsError   bool
}

// Paragraphs splits the content on newlines for display
func (m Message) Paragraphs() []string {
	return strings.Split(m.Content, "\n")
}

// QuickPrompt is a canned question offered below the chat box
type QuickPrompt struct {
	Title       string
	Description string
	Prompt      string
}

var QuickPrompts = []QuickPrompt{
	{Title: "Symptoms", Description: "Ask about common symptoms", Prompt: "What are the symptoms of the flu?"},
	{Title: "Prevention", Description: "Learn about preventive care", Prompt: "Tell me about preventive healthcare measures"},
	{Title: "When to See Doctor", Description: "Get guidance on seeking care", Prompt: "When should I see a doctor?"},
}

// Panel holds one conversation. The transcript is append-only except for Clear.
type Panel struct {
	mu             sync.Mutex
	backend        Backend
	metrics        MetricsRecorder
	now            func() time.Time
	conversationID string
	messages       []Message
	nextID         int
	sending        bool
	draft          string
}

func NewPanel(backend Backend, metrics MetricsRecorder) *Panel {
	p := &Panel{
		backend: backend,
		metrics: metrics,
		now:     time.Now,
	}
	p.conversationID = NewConversationID(p.now())
	p.reset(WelcomeMessage)
	return p
}

// NewConversationID returns session_<unix-ms>_<9 base-36 chars>. Uniqueness
// is not checked.
func NewConversationID(now time.Time) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), b.String())
}

func (p *Panel) ConversationID() string {
	return p.conversationID
}

// Messages returns a copy of the transcript
func (p *Panel) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Sending reports whether a message is awaiting its reply
func (p *Panel) Sending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sending
}

// Draft is the text pre-filled into the input box
func (p *Panel) Draft() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// Prefill puts a quick prompt into the input box
func (p *Panel) Prefill(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sending {
		return
	}
	p.draft = text
}

// Send posts a user message and appends the reply. Blank input or a send
// already in flight is ignored and reported as false.
func (p *Panel) Send(ctx context.Context, input string) bool {
	content := strings.TrimSpace(input)

	p.mu.Lock()
	if content == "" || p.sending {
		p.mu.Unlock()
		return false
	}
	p.append(MessageUser, content, false)
	p.sending = true
	p.draft = ""
	p.mu.Unlock()

	reply, err := p.backend.SendChat(ctx, api.ChatRequest{Message: content, SessionID: p.conversationID})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sending = false
	if err != nil {
		log.Printf("[ERROR] Chat request failed for %s: %v", p.conversationID, err)
		p.append(MessageBot, FailureMessage, true)
	} else {
		p.append(MessageBot, reply.Response, false)
	}
	if p.metrics != nil {
		p.metrics.RecordChatMessage(ctx, err == nil)
	}
	return true
}

// Clear resets the transcript to a single seed message. The conversation
// identifier is kept.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset(ClearedMessage)
}

func (p *Panel) reset(seed string) {
	p.messages = nil
	p.nextID = 0
	p.append(MessageBot, seed, false)
}

// caller holds p.mu
func (p *Panel) append(t MessageType, content string, isError bool) {
	p.nextID++
	p.messages = append(p.messages, Message{
		ID:        p.nextID,
		Type:      t,
		Content:   content,
		Timestamp: p.now(),
		IsError:   isError,
	})
}
