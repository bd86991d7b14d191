package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventlottery/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// Config holds configuration for creating a notifier.
type Config struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewNotifier creates a notifier from config. Provider "ses" sends email via
// AWS SES; "noop" or unknown uses a no-op notifier.
func NewNotifier(config Config, users domain.UserRepository) (domain.Notifier, error) {
	switch config.Provider {
	case "ses":
		sesConfig := config.SES
		if sesConfig.InsecureSkipVerify {
			log.Printf("[NOTIFY] WARNING: TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		client := ses.NewFromConfig(awsCfg)
		return &sesNotifier{
			client:      client,
			users:       users,
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
		}, nil
	case "noop":
		return &noopNotifier{}, nil
	default:
		log.Printf("[NOTIFY] Unknown notification provider %q, using noop", config.Provider)
		return &noopNotifier{}, nil
	}
}

type sesNotifier struct {
	client      *ses.Client
	users       domain.UserRepository
	fromAddress string
	fromName    string
}

func (s *sesNotifier) Notify(ctx context.Context, req domain.NotificationRequest) error {
	if len(req.UserIDs) == 0 {
		return nil
	}
	recipients, err := s.users.ListByIDs(ctx, req.UserIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipients: %w", err)
	}
	subject, body := renderMessage(req)
	for _, u := range recipients {
		if err := s.send(ctx, u.Email, subject, body); err != nil {
			return err
		}
	}
	return nil
}

func (s *sesNotifier) send(ctx context.Context, to, subject, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	log.Printf("[NOTIFY] Email sent via SES. MessageID: %s", aws.ToString(result.MessageId))
	return nil
}

// renderMessage maps a notification to an email subject and plain-text body.
func renderMessage(req domain.NotificationRequest) (subject, body string) {
	switch req.Type {
	case domain.NotifyInvited:
		subject = fmt.Sprintf("You've been selected for %s", req.EventName)
		body = fmt.Sprintf("Congratulations! You were drawn from the waitlist for %q. Sign in to accept or decline your invitation.", req.EventName)
	case domain.NotifyWaitlisted:
		subject = fmt.Sprintf("Lottery results for %s", req.EventName)
		body = fmt.Sprintf("The draw for %q has run and you were not selected this time. You remain on the waitlist and may still be drawn as a replacement.", req.EventName)
	case domain.NotifyAccepted:
		subject = fmt.Sprintf("An entrant accepted their spot at %s", req.EventName)
		body = fmt.Sprintf("An invited entrant accepted their invitation to %q.", req.EventName)
	case domain.NotifyDeclined:
		subject = fmt.Sprintf("An entrant declined their spot at %s", req.EventName)
		body = fmt.Sprintf("An invited entrant declined their invitation to %q. You can draw a replacement from the waitlist.", req.EventName)
	case domain.NotifyConfirmed:
		subject = fmt.Sprintf("You're attending %s", req.EventName)
		body = fmt.Sprintf("Your spot at %q is confirmed. See you there!", req.EventName)
	case domain.NotifyCancelled:
		subject = fmt.Sprintf("Your invitation to %s was cancelled", req.EventName)
		body = fmt.Sprintf("The organizer cancelled your invitation to %q. You have been returned to the pool and may be drawn again.", req.EventName)
	default:
		subject = fmt.Sprintf("Update about %s", req.EventName)
		body = fmt.Sprintf("There is an update about %q.", req.EventName)
	}
	return subject, body
}

type noopNotifier struct{}

func (n *noopNotifier) Notify(_ context.Context, req domain.NotificationRequest) error {
	log.Printf("[NOTIFY] Notification would be sent (noop): type=%s event=%s users=%d", req.Type, req.EventID, len(req.UserIDs))
	return nil
}
