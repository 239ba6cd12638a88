package notification

// NotificationSystem represents a delivery channel (e.g. email, SMS).
type NotificationSystem string

// NoticeType represents a kind of notice (e.g. "account_activation").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"
)

const (
	AccountActivationNotice   NoticeType = "account_activation"
	AccountReactivationNotice NoticeType = "account_reactivation"
	PasswordResetNotice       NoticeType = "password_reset"
	OTPCodeNotice             NoticeType = "otp_code"
)

// NoticeTemplate holds the renderable parts of a notice.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// NotificationData carries the recipient and template data for one send.
type NotificationData struct {
	To   string            // Recipient identifier (email address or phone number)
	Data map[string]string // Template data
}

// Notifier delivers a rendered notice over one system.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
