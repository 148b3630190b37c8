package mailing

import (
	"fmt"
	"strconv"

	"ghibli-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		SendMail(toEmail, subject, htmlBody string) error
	}

	mailer struct{}
)

func NewMailer() Mailer {
	return &mailer{}
}

func (m *mailer) SendMail(toEmail, subject, htmlBody string) error {
	port, err := strconv.Atoi(utils.GetConfig("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf(
		"%s <%s>",
		utils.GetConfig("SMTP_SENDER_NAME"),
		utils.GetConfig("SMTP_AUTH_EMAIL"),
	))
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(
		utils.GetConfig("SMTP_HOST"),
		port,
		utils.GetConfig("SMTP_AUTH_EMAIL"),
		utils.GetConfig("SMTP_AUTH_PASSWORD"),
	)

	return dialer.DialAndSend(msg)
}
