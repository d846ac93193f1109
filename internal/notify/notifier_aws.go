package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Small interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SESNotifier delivers the operator email through Amazon SES.
type SESNotifier struct {
	client   SESService
	from     string
	operator string
}

func NewSESNotifier(client SESService, from, operator string) *SESNotifier {
	return &SESNotifier{client: client, from: from, operator: operator}
}

func (n *SESNotifier) Provider() string { return "ses" }

func (n *SESNotifier) Notify(ctx context.Context, req *NotificationRequest, productName string) error {
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: []string{n.operator},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(operatorSubject())},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(operatorBody(req, productName))},
			},
		},
	})
	return err
}

// SNSNotifier publishes the operator summary to an SNS topic, for shops
// that fan the alert out to chat or SMS instead of a mailbox.
type SNSNotifier struct {
	client   SNSService
	topicARN string
}

func NewSNSNotifier(client SNSService, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func (n *SNSNotifier) Provider() string { return "sns" }

func (n *SNSNotifier) Notify(ctx context.Context, req *NotificationRequest, productName string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(operatorSubject()),
		Message:  aws.String(operatorBody(req, productName)),
	})
	return err
}
