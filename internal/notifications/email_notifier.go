package notifications

import (
	"context"

	appconfig "vegaaccounts/backend/pkg/config"
	vglog "vegaaccounts/backend/pkg/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailNotifier define a interface para um notificador de email.
type EmailNotifier interface {
	Send(ctx context.Context, to, subject, bodyHTML, bodyText string) error
}

// SESEmailNotifier implementa EmailNotifier usando AWS SES.
type SESEmailNotifier struct {
	client *sesv2.Client
	sender string
}

// DefaultEmailNotifier é o notificador padrão usado pela aplicação.
var DefaultEmailNotifier EmailNotifier

// InitEmailService inicializa o notificador de e-mail a partir da configuração
// de ambiente. Sem região ou remetente configurados, cai para o logNotifier,
// que apenas registra o envio — útil em desenvolvimento e testes.
func InitEmailService(sender string) {
	log := vglog.L.Named("InitEmailService")

	awsRegion := appconfig.Cfg.AWSRegion
	if sender == "" {
		sender = appconfig.Cfg.AWSSESEmailSender
	}

	if awsRegion == "" || sender == "" {
		log.Warn("AWS SES email service is not configured (missing AWS_REGION or sender address). Emails will only be logged.")
		DefaultEmailNotifier = &logNotifier{}
		return
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(awsRegion))
	if err != nil {
		log.Error("Failed to load AWS SDK config for SES, falling back to log-only notifier", zap.Error(err))
		DefaultEmailNotifier = &logNotifier{}
		return
	}

	DefaultEmailNotifier = &SESEmailNotifier{
		client: sesv2.NewFromConfig(cfg),
		sender: sender,
	}
	log.Info("AWS SES email service initialized successfully.", zap.String("sender", sender), zap.String("region", awsRegion))
}

// Send envia um e-mail via SES com alternativas HTML e texto.
func (s *SESEmailNotifier) Send(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &s.sender,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(bodyHTML),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(bodyText),
						Charset: aws.String("UTF-8"),
					},
				},
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		vglog.L.Error("Failed to send email via SES", zap.Error(err), zap.String("recipient", to))
		return err
	}

	vglog.L.Info("Successfully sent email", zap.String("recipient", to), zap.String("subject", subject))
	return nil
}

// logNotifier apenas loga o envio. Fallback para ambientes sem SES.
type logNotifier struct{}

func (n *logNotifier) Send(ctx context.Context, to, subject, bodyHTML, bodyText string) error {
	vglog.L.Info("--- SIMULATING EMAIL SEND ---",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
