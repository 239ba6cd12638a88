package notification

import (
	"embed"
	"log/slog"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NotificationManagerOption is a function that configures a NotificationManager
type NotificationManagerOption func(*NotificationManager) error

// WithSMTP adds an email notifier with the provided SMTP configuration
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		emailNotifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, emailNotifier)
		return nil
	}
}

// WithSMS adds an SMS notifier. A nil sender logs instead of delivering.
func WithSMS(from string, sender SMSSender) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		nm.RegisterNotifier(SMSSystem, NewSMSNotifier(from, sender))
		return nil
	}
}

// WithAccountActivationTemplate registers the account activation email template
func WithAccountActivationTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(AccountActivationNotice, EmailSystem, NoticeTemplate{
			Subject: "Activate Your Account",
			Html:    loadTemplate("templates/email/account_activation.html"),
		})
	}
}

// WithAccountReactivationTemplate registers the reactivation email template
func WithAccountReactivationTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(AccountReactivationNotice, EmailSystem, NoticeTemplate{
			Subject: "Reactivate Your Account",
			Html:    loadTemplate("templates/email/account_reactivation.html"),
		})
	}
}

// WithPasswordResetTemplate registers the password reset email template
func WithPasswordResetTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(PasswordResetNotice, EmailSystem, NoticeTemplate{
			Subject: "Password Reset Request",
			Html:    loadTemplate("templates/email/password_reset.html"),
		})
	}
}

// WithOTPCodeSmsTemplate registers the one-time code SMS template
func WithOTPCodeSmsTemplate() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		return nm.RegisterNotification(OTPCodeNotice, SMSSystem, NoticeTemplate{
			Text: loadTemplate("templates/sms/otp_code.txt"),
		})
	}
}

// WithAllTemplates registers every notice template.
func WithAllTemplates() NotificationManagerOption {
	return func(nm *NotificationManager) error {
		opts := []NotificationManagerOption{
			WithAccountActivationTemplate(),
			WithAccountReactivationTemplate(),
			WithPasswordResetTemplate(),
			WithOTPCodeSmsTemplate(),
		}
		for _, opt := range opts {
			if err := opt(nm); err != nil {
				return err
			}
		}
		return nil
	}
}
