// Package email sends transactional mail. The sendgrid backend is used in
// production; the console backend prints mail in development and the memory
// backend captures it for tests.
package email

import (
	"context"
	"fmt"
	"net/mail"
	"time"
)

type Message struct {
	To          mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

type Service interface {
	// Send delivers a single message synchronously so callers can roll back
	// on failure (registration deletes the user when the OTP mail bounces).
	Send(ctx context.Context, msg *Message) error
}

// OTPMessage builds the verification code mail sent on registration and resend.
func OTPMessage(to mail.Address, code string, ttl time.Duration) *Message {
	minutes := int(ttl.Minutes())
	return &Message{
		To:      to,
		Subject: "Verify your email",
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nYour SkillSwap verification code is %s. It expires in %d minutes.\n\nIf you did not sign up, you can ignore this email.\n",
			to.Name, code, minutes),
		HTMLContent: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your SkillSwap verification code is <strong>%s</strong>. It expires in %d minutes.</p><p>If you did not sign up, you can ignore this email.</p>",
			to.Name, code, minutes),
	}
}
