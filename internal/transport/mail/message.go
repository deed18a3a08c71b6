package mail

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type resetMessage struct {
	Subject string
	HTML    string
	Text    string
}

func buildResetMessage(brand, pin string, validFor time.Duration, resent bool) resetMessage {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		brand = "Hanuram Constructions"
	}
	minutes := int(validFor.Round(time.Minute) / time.Minute)
	if minutes <= 0 {
		minutes = 15
	}

	subject := brand + " - Password Reset Verification"
	heading := "Password Reset Request"
	intro := fmt.Sprintf("You have requested to reset your password for your %s account.", brand)
	pinLabel := "Your verification PIN is"
	if resent {
		subject += " (Resent)"
		heading += " (Resent)"
		intro = fmt.Sprintf("You have requested a new password reset PIN for your %s account.", brand)
		pinLabel = "Your new verification PIN is"
	}

	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<h2 style="color: #007bff;">%s</h2>
<p>Hello,</p>
<p>%s</p>
<p>%s: <strong style="font-size: 1.5em; color: #007bff;">%s</strong></p>
<p>This PIN is valid for %d minutes. Please enter it on the password reset page to continue.</p>
<p>If you did not request a password reset, please ignore this email.</p>
<p>Thank you,<br>The %s Team</p>
</div>`, heading, intro, pinLabel, pin, minutes, brand)

	text := fmt.Sprintf("%s\n\n%s\n%s: %s\n\nThis PIN is valid for %d minutes.\nIf you did not request a password reset, ignore this email.\n",
		heading, intro, pinLabel, pin, minutes)

	return resetMessage{Subject: subject, HTML: html, Text: text}
}

// sendWithContext runs send and returns early with ctx.Err() once ctx ends.
// send keeps running in the background in that case.
func sendWithContext(ctx context.Context, send func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- send() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
