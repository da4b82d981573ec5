package utils

import (
	"fmt"
	"log"

	"github.com/Rwigenzadavy/techlearnhub/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML email through SendGrid. With no API key
// configured the send is skipped, which keeps local development quiet.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendgridApiKey == "" {
		log.Printf("Skipping email to %s (no SENDGRID_API_KEY): %s", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("TechLearnHub", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", getEmailTemplate(subject, htmlBody))

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}
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
			.header { background-color: #1D4ED8; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #111827; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #1D4ED8; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TECHLEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 TechLearnHub. Keep learning.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendVerificationEmail asks a fresh signup to confirm their address.
func SendVerificationEmail(email, name, token string) {
	link := fmt.Sprintf("%s/auth/verify?token=%s", config.AppConfig.AppBaseURL, token)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to TechLearnHub! Please confirm your email address to activate your account.</p>
		<a class="btn" href="%s">Verify Email</a>
		<p>If you did not create this account you can ignore this message.</p>
	`, name, link)

	if err := SendEmail(email, name, "Verify your email", body); err != nil {
		log.Printf("Error sending verification email to %s: %v", email, err)
	}
}

// SendCourseCompletionEmail congratulates a student on finishing a course.
func SendCourseCompletionEmail(email, name, courseName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong>.</p>
		<p>Your certificate is waiting on your dashboard.</p>
	`, name, courseName)

	if err := SendEmail(email, name, "Course completed!", body); err != nil {
		log.Printf("Error sending completion email to %s: %v", email, err)
	}
}
