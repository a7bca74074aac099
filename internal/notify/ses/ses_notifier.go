package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"orgcomply/internal/domain"
	"orgcomply/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	orgDomain   string
}

// NewSESNotifier creates a Notifier that emails the recipient organization's
// shared mailbox (<org-slug>@<orgDomain>) via SESv2.
func NewSESNotifier(region, fromAddress, fromName, orgDomain string) (port.Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
		orgDomain:   orgDomain,
	}, nil
}

func (s *sesNotifier) Notify(ctx context.Context, n *domain.Notification) error {
	to := s.mailboxFor(n.ToOrg)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	subject := n.Title
	textBody := fmt.Sprintf("%s\n\nFrom: %s\nTo: %s\n\nPlease log in to review.", n.Description, n.FromOrg, n.ToOrg)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func (s *sesNotifier) mailboxFor(org string) string {
	slug := strings.ToLower(strings.ReplaceAll(org, " ", "-"))
	return fmt.Sprintf("%s@%s", slug, s.orgDomain)
}
