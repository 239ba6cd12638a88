package notification

import (
	"fmt"
	"log/slog"
)

// SMSNotifier renders SMS notices and hands them to a sender. The default
// sender only logs the message; real gateway delivery is wired in by the
// caller.
type SMSNotifier struct {
	From string
	send func(to, body string) error
}

// SMSSender delivers one rendered SMS message.
type SMSSender func(to, body string) error

// NewSMSNotifier creates an SMSNotifier with the given sender. A nil
// sender falls back to logging the message.
func NewSMSNotifier(from string, sender SMSSender) *SMSNotifier {
	if sender == nil {
		sender = func(to, body string) error {
			slog.Info("SMS delivery stubbed", "to", to, "body", body)
			return nil
		}
	}
	return &SMSNotifier{From: from, send: sender}
}

func (s *SMSNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("SMS notification requires 'To'")
	}

	body, err := renderTemplate("sms", template.Text, notification.Data)
	if err != nil {
		return err
	}

	if err := s.send(notification.To, body); err != nil {
		return err
	}
	slog.Info("Successfully sent sms", "to", notification.To, "notice", noticeType)
	return nil
}
