package notify

import (
	"context"
	"fmt"

	"slotbook/internal/config"
	"slotbook/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rs/zerolog"
)

const charsetUTF8 = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewMailer picks the provider named in config; anything but "ses" is a no-op.
func NewMailer(cfg config.EmailConfig, logger *zerolog.Logger) domain.Mailer {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "mailer").Logger()
	}

	if cfg.Provider != "ses" {
		return &noopMailer{logger: l}
	}

	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	}
	return newSESMailer(ses.NewFromConfig(awsCfg), cfg, l)
}

type sesMailer struct {
	client sesAPI
	source string
	logger zerolog.Logger
}

func newSESMailer(client sesAPI, cfg config.EmailConfig, logger zerolog.Logger) *sesMailer {
	source := cfg.FromEmail
	if cfg.FromName != "" {
		source = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return &sesMailer{client: client, source: source, logger: logger}
}

func (m *sesMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source:      aws.String(m.source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charsetUTF8)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String(charsetUTF8)},
			},
		},
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	m.logger.Debug().Str("message_id", aws.ToString(out.MessageId)).Str("to", to).Msg("email sent")
	return nil
}

type noopMailer struct {
	logger zerolog.Logger
}

func (m *noopMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("email skipped (noop)")
	return nil
}
