// The worker drains the confirmation-email queue: for each job it mints an
// email-confirmation token, builds the confirmation link and delivers the
// message over SMTP. Keeping delivery out of the API process means signup
// never waits on a mail server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/NazarChaban/RestAPI-app/internal/config"
	"github.com/NazarChaban/RestAPI-app/internal/logger"
	"github.com/NazarChaban/RestAPI-app/internal/mailer"
	"github.com/NazarChaban/RestAPI-app/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	tokens := token.NewManager([]byte(cfg.JWTSecret), token.TTL{
		Access:  cfg.AccessTokenTTL,
		Refresh: cfg.RefreshTokenTTL,
		Email:   cfg.EmailTokenTTL,
	})

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	queue, err := mailer.NewAMQPClient(cfg.AMQP.URL, cfg.AMQP.Queue)
	if err != nil {
		log.Fatalf("failed to connect to message broker: %v", err)
	}
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := func(ctx context.Context, msg mailer.ConfirmationEmail) error {
		confirmationToken, err := tokens.Issue(msg.Email, token.KindEmail)
		if err != nil {
			return err
		}

		link := fmt.Sprintf("%s/api/auth/confirmed_email/%s", cfg.BaseURL, confirmationToken)
		if err := sender.SendConfirmation(msg.Email, msg.Username, link); err != nil {
			slogger.Error("confirmation email delivery failed", "email", msg.Email, "error", err)
			return err
		}

		slogger.Info("confirmation email sent", "email", msg.Email)
		return nil
	}

	slogger.Info("email worker started", "queue", cfg.AMQP.Queue)

	if err := queue.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer stopped: %v", err)
	}

	slogger.Info("email worker stopped")
}
