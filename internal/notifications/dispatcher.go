package notifications

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"vegaaccounts/backend/internal/models"
	"vegaaccounts/backend/internal/settings"
	vglog "vegaaccounts/backend/pkg/log"

	"go.uber.org/zap"
)

// Templates embutidos, indexados pelo identificador configurado em settings.
// O corpo recebe o link com o token, o username e o host que originou a
// requisição.
var htmlTemplates = map[string]*htmltemplate.Template{
	"activation_email": htmltemplate.Must(htmltemplate.New("activation_email").Parse(`
<h2>Welcome, {{.Username}}!</h2>
<p>To activate your account on {{.Host}}, click the link below:</p>
<p><a href="{{.URL}}">Activate account</a></p>
<p>If you did not sign up, please ignore this email.</p>
`)),
	"password_reset_email": htmltemplate.Must(htmltemplate.New("password_reset_email").Parse(`
<h2>Password reset</h2>
<p>Hello {{.Username}}, a password reset was requested for your account on {{.Host}}.</p>
<p><a href="{{.URL}}">Reset password</a></p>
<p>If you did not request this, please ignore this email.</p>
`)),
}

var textTemplates = map[string]*texttemplate.Template{
	"activation_email": texttemplate.Must(texttemplate.New("activation_email").Parse(
		"Welcome, {{.Username}}!\n\nTo activate your account on {{.Host}}, open:\n{{.URL}}\n\nIf you did not sign up, please ignore this email.\n")),
	"password_reset_email": texttemplate.Must(texttemplate.New("password_reset_email").Parse(
		"Hello {{.Username}},\n\nA password reset was requested for your account on {{.Host}}. Open:\n{{.URL}}\n\nIf you did not request this, please ignore this email.\n")),
}

type mailContext struct {
	Username string
	URL      string
	Host     string
}

// Dispatcher monta e envia os e-mails de token. Template e assunto são
// selecionados por purpose a partir do snapshot atual de settings.
type Dispatcher struct {
	notifier EmailNotifier
	resolver *settings.Resolver
}

// DefaultDispatcher é o dispatcher global, populado por InitDispatcher.
var DefaultDispatcher *Dispatcher

// InitDispatcher monta o dispatcher global sobre o DefaultEmailNotifier.
func InitDispatcher(resolver *settings.Resolver) {
	DefaultDispatcher = NewDispatcher(DefaultEmailNotifier, resolver)
}

func NewDispatcher(notifier EmailNotifier, resolver *settings.Resolver) *Dispatcher {
	return &Dispatcher{notifier: notifier, resolver: resolver}
}

// SendTokenMail envia o e-mail do purpose dado para o usuário, com o link já
// montado embutindo o valor do token. Falha de envio é devolvida ao caller —
// o token já persistido não é desfeito por causa dela.
func (d *Dispatcher) SendTokenMail(ctx context.Context, purpose models.TokenPurpose, user *models.User, link, host string) error {
	snap := d.resolver.Current()
	templateName := snap.EmailTemplate(purpose)
	subject := snap.EmailSubject(purpose)

	htmlTmpl, ok := htmlTemplates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template: %q", templateName)
	}
	textTmpl := textTemplates[templateName]

	mctx := mailContext{
		Username: user.Username,
		URL:      link,
		Host:     host,
	}

	var htmlBody bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBody, mctx); err != nil {
		return fmt.Errorf("failed to render email template %q: %w", templateName, err)
	}
	var textBody bytes.Buffer
	if err := textTmpl.Execute(&textBody, mctx); err != nil {
		return fmt.Errorf("failed to render email template %q: %w", templateName, err)
	}

	if err := d.notifier.Send(ctx, user.Email, subject, htmlBody.String(), textBody.String()); err != nil {
		vglog.L.Error("Failed to dispatch token email",
			zap.String("purpose", string(purpose)),
			zap.String("recipient", user.Email),
			zap.Error(err))
		return err
	}
	return nil
}
