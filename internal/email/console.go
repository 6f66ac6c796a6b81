package email

import (
	"context"
	"log"
	"sync"
)

// consoleService logs mail instead of sending it. Default in development so
// the OTP flow works without a sendgrid key.
type consoleService struct{}

var _ Service = (*consoleService)(nil)

func NewConsoleService() *consoleService {
	return &consoleService{}
}

func (svc *consoleService) Send(_ context.Context, msg *Message) error {
	log.Printf("EMAIL to=%q subject=%q\n%s", msg.To.Address, msg.Subject, msg.TextContent)
	return nil
}

// MemoryService captures sent messages for tests.
type MemoryService struct {
	mu       sync.Mutex
	messages []Message

	// FailNext makes the next Send return an error, for exercising the
	// registration rollback path.
	FailNext error
}

var _ Service = (*MemoryService)(nil)

func NewMemoryService() *MemoryService {
	return &MemoryService{}
}

func (svc *MemoryService) Send(_ context.Context, msg *Message) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.FailNext != nil {
		err := svc.FailNext
		svc.FailNext = nil
		return err
	}

	svc.messages = append(svc.messages, *msg)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (svc *MemoryService) Sent() []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	out := make([]Message, len(svc.messages))
	copy(out, svc.messages)
	return out
}

// Last returns the most recent message, or nil when nothing has been sent.
func (svc *MemoryService) Last() *Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if len(svc.messages) == 0 {
		return nil
	}
	msg := svc.messages[len(svc.messages)-1]
	return &msg
}
