package notification

// SentNotification is one recorded delivery.
type SentNotification struct {
	NoticeType   NoticeType
	Notification NotificationData
}

// MockNotifier records sent notifications for tests.
type MockNotifier struct {
	Sent []SentNotification
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	m.Sent = append(m.Sent, SentNotification{NoticeType: noticeType, Notification: notification})
	return nil
}
