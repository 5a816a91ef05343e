package notifier_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"leadflow/pkg/notify"
)

var Module = fx.Provide(
	provideNotifier,
)

func provideNotifier() notify.Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return notify.NewLogNotifier()
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	notifier, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
		AppName:  os.Getenv("APP_NAME"),
	})
	if err != nil {
		log.Printf("Error initializing SMTP notifier, falling back to log: %v", err)
		return notify.NewLogNotifier()
	}
	return notifier
}
