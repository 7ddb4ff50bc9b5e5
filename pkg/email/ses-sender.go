package email

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	contentTypeHTML      = "text/html; charset=UTF-8"
	contentTransferQP    = "quoted-printable"
	mimeVersionHeader    = "MIME-Version: 1.0"
	multipartMixedHeader = "multipart/mixed; boundary=%s"
)

// SesConfig holds the AWS settings for SesEmailSender
type SesConfig struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	FromEmailAddress string
}

// SesEmailSender is an email sender that uses AWS SES
type SesEmailSender struct {
	sesClient        *ses.Client
	fromEmailAddress string
}

// NewSesEmailSender initializes a new SesEmailSender. Empty static
// credentials fall back to the default AWS credential chain.
func NewSesEmailSender(ctx context.Context, cfg SesConfig) (EmailSender, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SesEmailSender{
		sesClient:        ses.NewFromConfig(awsCfg),
		fromEmailAddress: cfg.FromEmailAddress,
	}, nil
}

// SendEmail sends an email via AWS SES
func (sesSender *SesEmailSender) SendEmail(ctx context.Context, payload EmailPayload) error {
	raw, err := rawMessage(sesSender.fromEmailAddress, payload)
	if err != nil {
		return err
	}

	destinations := make([]string, 0, len(payload.To)+len(payload.CC)+len(payload.BCC))
	destinations = append(destinations, payload.To...)
	destinations = append(destinations, payload.CC...)
	destinations = append(destinations, payload.BCC...)

	_, err = sesSender.sesClient.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(sesSender.fromEmailAddress),
		Destinations: destinations,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	return nil
}

// rawMessage renders payload as a MIME message. BCC is left out of the headers.
func rawMessage(from string, payload EmailPayload) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	var headers bytes.Buffer
	headers.WriteString(fmt.Sprintf("From: %s\n", from))
	headers.WriteString(formatHeader("To", payload.To))
	headers.WriteString(formatHeader("CC", payload.CC))
	if payload.ReplyTo != "" {
		headers.WriteString(fmt.Sprintf("Reply-To: %s\n", payload.ReplyTo))
	}
	headers.WriteString(fmt.Sprintf("Subject: %s\n", payload.Subject))
	headers.WriteString(mimeVersionHeader + "\n")
	headers.WriteString(fmt.Sprintf("Content-Type: "+multipartMixedHeader+"\n\n", writer.Boundary()))

	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentTypeHTML},
		"Content-Transfer-Encoding": {contentTransferQP},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body part: %w", err)
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(payload.Content)); err != nil {
		return nil, fmt.Errorf("failed to write body: %w", err)
	}
	qp.Close()
	writer.Close()

	return append(headers.Bytes(), body.Bytes()...), nil
}

func formatHeader(headerName string, addresses []string) string {
	if len(addresses) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s\n", headerName, strings.Join(addresses, ","))
}
