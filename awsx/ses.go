package awsx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailer sends plain-text alerts through Amazon SES.
type SESMailer struct {
	client *sesv2.Client
	from   string
}

// NewSESMailer creates an SES mailer sending from the given verified address.
func NewSESMailer(factory *Factory, fromAddress string) (*SESMailer, error) {
	from := strings.TrimSpace(fromAddress)
	if from == "" {
		return nil, errors.New("SES from address must not be empty")
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(factory.cfg),
		from:   from,
	}, nil
}

// Send delivers one plain-text message to a single recipient.
func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	recipient := strings.TrimSpace(to)
	if recipient == "" {
		return errors.New("recipient address must not be empty")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	return nil
}
