package notifications

import (
	"context"
	"errors"
	"testing"

	"vegaaccounts/backend/internal/models"
	"vegaaccounts/backend/internal/settings"

	"github.com/stretchr/testify/assert"
)

// MockNotifier para simular o comportamento de notificação.
type MockNotifier struct {
	SendFunc    func(ctx context.Context, to, subject, bodyHTML, bodyText string) error
	SendCalled  bool
	LastTo      string
	LastSubject string
	LastHTML    string
	LastText    string
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	m.SendCalled = true
	m.LastTo = to
	m.LastSubject = subject
	m.LastHTML = bodyHTML
	m.LastText = bodyText
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, bodyHTML, bodyText)
	}
	return nil
}

func testUser() *models.User {
	return &models.User{
		Username: "joana",
		Email:    "joana@example.com",
	}
}

func TestSendTokenMail_ActivationUsesActivationTemplateAndSubject(t *testing.T) {
	mock := &MockNotifier{}
	dispatcher := NewDispatcher(mock, settings.NewStaticResolver(settings.DefaultSettings()))

	link := "http://accounts.example/account/activate/sometokenvalue/"
	err := dispatcher.SendTokenMail(context.Background(), models.PurposeActivation, testUser(), link, "accounts.example")
	assert.NoError(t, err)

	assert.True(t, mock.SendCalled)
	assert.Equal(t, "joana@example.com", mock.LastTo)
	assert.Equal(t, "Activate your account", mock.LastSubject)
	assert.Contains(t, mock.LastHTML, link)
	assert.Contains(t, mock.LastHTML, "joana")
	assert.Contains(t, mock.LastText, link)
	assert.Contains(t, mock.LastText, "accounts.example")
}

func TestSendTokenMail_PasswordResetUsesResetTemplateAndSubject(t *testing.T) {
	mock := &MockNotifier{}
	dispatcher := NewDispatcher(mock, settings.NewStaticResolver(settings.DefaultSettings()))

	link := "http://accounts.example/password-reset/confirm/sometokenvalue/"
	err := dispatcher.SendTokenMail(context.Background(), models.PurposePasswordReset, testUser(), link, "accounts.example")
	assert.NoError(t, err)

	assert.Equal(t, "Password reset instructions", mock.LastSubject)
	assert.Contains(t, mock.LastHTML, link)
	assert.Contains(t, mock.LastText, "joana")
}

func TestSendTokenMail_UnknownTemplateIsAnError(t *testing.T) {
	snap := settings.DefaultSettings()
	snap.ActivationEmailTemplate = "does_not_exist"
	mock := &MockNotifier{}
	dispatcher := NewDispatcher(mock, settings.NewStaticResolver(snap))

	err := dispatcher.SendTokenMail(context.Background(), models.PurposeActivation, testUser(), "http://x/", "x")
	assert.Error(t, err)
	assert.False(t, mock.SendCalled)
}

func TestSendTokenMail_NotifierFailureIsSurfaced(t *testing.T) {
	mock := &MockNotifier{
		SendFunc: func(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
			return errors.New("ses unavailable")
		},
	}
	dispatcher := NewDispatcher(mock, settings.NewStaticResolver(settings.DefaultSettings()))

	err := dispatcher.SendTokenMail(context.Background(), models.PurposeActivation, testUser(), "http://x/", "x")
	assert.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	notifier := &logNotifier{}
	err := notifier.Send(context.Background(), "test@example.com", "Test Subject", "<p>html</p>", "text")
	assert.NoError(t, err, "logNotifier should never return an error")
}
