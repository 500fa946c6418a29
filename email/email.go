package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"blog-server/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/gen2brain/beeep"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

var headerSanitizer = strings.NewReplacer("\r", "", "\n", " ")

// Bytes renders msg as a plain-text RFC 5322 message.
func (msg *Message) Bytes() []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", headerSanitizer.Replace(msg.From))
	fmt.Fprintf(&b, "To: %s\r\n", headerSanitizer.Replace(msg.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerSanitizer.Replace(msg.Subject)))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")

	return b.Bytes()
}

type Transport interface {
	Send(msg *Message) error
}

// TransportError is any failure to hand a message to the relay.
type TransportError struct {
	Transport string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

var (
	transport Transport
	sender    string
	recipient string
)

// Init sets the transport plus the sender and recipient of contact messages.
func Init(t Transport, from, to string) {
	transport = t
	sender = from
	recipient = to
}

func Configure(cfg *config.Config) {
	var t Transport

	switch cfg.MailTransport {
	case config.MailTransportSes:
		t = &SesTransport{}
	case config.MailTransportDev:
		t = &DevTransport{}
	default:
		t = &SmtpTransport{
			Host:     cfg.SmtpHost,
			Port:     cfg.SmtpPort,
			Username: cfg.SmtpUsername,
			Password: cfg.SmtpPassword,
		}
	}

	zap.S().Infof("mail transport: %s", cfg.MailTransport)

	Init(t, cfg.MailFrom, cfg.ContactRecipient)
}

// SmtpTransport delivers through an authenticated relay, refusing to send without STARTTLS.
type SmtpTransport struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

func (s *SmtpTransport) Send(msg *Message) (err error) {
	defer func() {
		if err != nil {
			err = &TransportError{Transport: "smtp", Err: err}
		}
	}()

	timeout := s.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return errors.Wrapf(err, "error connecting to %s", addr)
	}
	conn.SetDeadline(time.Now().Add(timeout))

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "error starting smtp session")
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return errors.Errorf("%s does not support STARTTLS", addr)
	}
	if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
		return errors.Wrap(err, "error starting tls")
	}

	if err := c.Auth(smtp.PlainAuth("", s.Username, s.Password, s.Host)); err != nil {
		return errors.Wrap(err, "error authenticating")
	}

	if err := c.Mail(msg.From); err != nil {
		return errors.Wrap(err, "error setting sender")
	}
	if err := c.Rcpt(msg.To); err != nil {
		return errors.Wrap(err, "error setting recipient")
	}

	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "error starting message data")
	}
	if _, err := w.Write(msg.Bytes()); err != nil {
		return errors.Wrap(err, "error writing message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "error finishing message")
	}

	return c.Quit()
}

// SesTransport sends through AWS SES, with region and credentials from the AWS environment.
type SesTransport struct{}

func (s *SesTransport) Send(msg *Message) error {
	sess, err := session.NewSession()
	if err != nil {
		return &TransportError{Transport: "ses", Err: errors.Wrap(err, "error creating AWS session")}
	}

	svc := ses.New(sess)

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: []*string{
				aws.String(msg.To),
			},
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(msg.Body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(headerSanitizer.Replace(msg.Subject)),
			},
		},
		Source: aws.String(msg.From),
	}

	_, err = svc.SendEmail(input)
	if err != nil {
		return &TransportError{Transport: "ses", Err: err}
	}

	return nil
}

// DevTransport only logs the message and pops a desktop notification.
type DevTransport struct{}

func (d *DevTransport) Send(msg *Message) error {
	zap.S().Infof("Development mode: email to %s\nSubject: %s\n\n%s", msg.To, msg.Subject, msg.Body)

	beeep.Notify(msg.Subject, fmt.Sprintf("Email to %s (not sent in development)", msg.To), "") // ignore error

	return nil
}
