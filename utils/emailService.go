package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"yoga/models"
)

// EmailNotifier sends enrollment confirmations through SendGrid. Without an
// API key it only logs.
type EmailNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailNotifier(apiKey, sender string) *EmailNotifier {
	n := &EmailNotifier{from: mail.NewEmail("Tranquility Oasis Yoga", sender)}
	if apiKey != "" {
		n.client = sendgrid.NewSendClient(apiKey)
	}
	return n
}

// EnrollmentConfirmed emails the payer that their seat is booked.
func (n *EmailNotifier) EnrollmentConfirmed(ctx context.Context, payment *models.Payment) error {
	if n.client == nil {
		log.Printf("[EMAIL] SendGrid disabled, skipping confirmation to %s", payment.Email)
		return nil
	}

	courseName := payment.CourseName
	if courseName == "" {
		courseName = "your yoga class"
	}

	body := fmt.Sprintf(`
		<p>Namaste,</p>
		<p>Your payment of <strong>$%.2f</strong> was received and your seat in <strong>%s</strong> is confirmed.</p>
		<div class="info-box">Transaction: %s</div>
		<p>See you on the mat!</p>`, payment.Amount, courseName, payment.TransactionID)

	message := mail.NewSingleEmail(
		n.from,
		"Enrollment Confirmation - Tranquility Oasis",
		mail.NewEmail("", payment.Email),
		fmt.Sprintf("Your seat in %s is confirmed.", courseName),
		getEmailTemplate("Enrollment Successful!", body),
	)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}

	log.Printf("[EMAIL] Enrollment email sent successfully to %s", payment.Email)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #2F5D50; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #2F5D50; line-height: 1.6; }
			.info-box { background: #EEF5F1; padding: 15px; border-radius: 4px; border-left: 4px solid #C9A66B; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TRANQUILITY OASIS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; Tranquility Oasis Yoga Center. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
