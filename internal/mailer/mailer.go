// Package mailer carries confirmation emails from the API process to the
// delivery worker. The API only publishes a job and never waits on delivery;
// the worker consumes jobs and sends the actual message over SMTP.
package mailer

import "context"

// ConfirmationEmail is the job payload queued at signup and on resend
// requests. The confirmation token is minted by the worker at send time so a
// stalled queue does not shorten the token's usable lifetime.
type ConfirmationEmail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type Publisher interface {
	PublishConfirmation(ctx context.Context, msg ConfirmationEmail) error
}
