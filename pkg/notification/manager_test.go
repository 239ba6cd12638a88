package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndSend(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:4000", WithAllTemplates())
	require.NoError(t, err)

	mock := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, mock)

	err = nm.Send(AccountActivationNotice, EmailSystem, NotificationData{
		To:   "alice@example.com",
		Data: map[string]string{"Name": "Alice", "ActivationLink": "http://localhost:4000/activate/abc"},
	})
	require.NoError(t, err)

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, AccountActivationNotice, mock.Sent[0].NoticeType)
	assert.Equal(t, "alice@example.com", mock.Sent[0].Notification.To)
}

func TestSendUnregisteredNoticeType(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:4000")
	require.NoError(t, err)

	err = nm.Send(AccountActivationNotice, EmailSystem, NotificationData{To: "alice@example.com"})
	assert.Error(t, err)
}

func TestSendUnregisteredSystem(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:4000", WithAccountActivationTemplate())
	require.NoError(t, err)

	// template is registered for email, notifier is not
	err = nm.Send(AccountActivationNotice, EmailSystem, NotificationData{To: "alice@example.com"})
	assert.Error(t, err)

	// sms never had a template for this notice
	err = nm.Send(AccountActivationNotice, SMSSystem, NotificationData{To: "+15551234567"})
	assert.Error(t, err)
}

func TestRegisterNotificationValidation(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:4000")
	require.NoError(t, err)

	assert.Error(t, nm.RegisterNotification("", EmailSystem, NoticeTemplate{}))
	assert.Error(t, nm.RegisterNotification(AccountActivationNotice, "", NoticeTemplate{}))
	assert.NoError(t, nm.RegisterNotification(AccountActivationNotice, EmailSystem, NoticeTemplate{Subject: "Hi"}))
}

func TestRenderTemplate(t *testing.T) {
	body, err := renderTemplate("greeting", "Hello {{.Name}}, visit {{.Link}}", map[string]string{
		"Name": "Alice",
		"Link": "http://localhost:4000/x",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice, visit http://localhost:4000/x", body)
}

func TestEmailTemplatesEmbedCleanly(t *testing.T) {
	nm, err := NewNotificationManager("http://localhost:4000", WithAllTemplates())
	require.NoError(t, err)

	for _, notice := range []NoticeType{AccountActivationNotice, AccountReactivationNotice, PasswordResetNotice} {
		templates, ok := nm.registry[notice]
		require.True(t, ok, string(notice))
		assert.NotEmpty(t, templates[EmailSystem].Html)
	}
	assert.NotEmpty(t, nm.registry[OTPCodeNotice][SMSSystem].Text)
}
