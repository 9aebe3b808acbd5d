package smtp

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hillkeeper/hillkeeper/pkg/logger/types"
	"gopkg.in/gomail.v2"
)

// Client mails the evening attendance summary to the organizer.
type Client struct {
	dialer *gomail.Dialer

	from   string
	to     string
	domain string
	logger *types.Logger
}

func NewClient(dialer *gomail.Dialer, from, to, domain string, logger *types.Logger) *Client {
	return &Client{
		dialer: dialer,
		from:   from,
		to:     to,
		domain: domain,
		logger: logger,
	}
}

// SendSummary sends the participant list for one date. Delivery failures are
// logged only; the caller never depends on the mail going out.
func (c *Client) SendSummary(date string, participants []string) {
	msg := gomail.NewMessage()

	msg.SetHeader("Message-ID", generateMessageID(c.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", c.to)
	msg.SetHeader("Subject", fmt.Sprintf("Attendance summary for %s", date))

	var body string
	if len(participants) == 0 {
		body = "Nobody checked in."
	} else {
		body = fmt.Sprintf("%d checked in:\n%s", len(participants), strings.Join(participants, "\n"))
	}
	msg.SetBody("text/plain", body)

	if err := c.dialer.DialAndSend(msg); err != nil {
		c.logger.Errorf("failed to send summary email: %v", err)
		return
	}

	c.logger.Info("Summary email successfully sent")
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
