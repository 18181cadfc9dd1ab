package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"path/filepath"

	"gopkg.in/gomail.v2"

	"reminder-service/internal/config"
)

// Client sends reminder emails over SMTP.
type Client struct {
	cfg      *config.SMTPConfig
	template *template.Template
}

// NewClient creates an SMTP client. A reminder template is loaded from
// the configured templates directory, falling back to the embedded
// default.
func NewClient(cfg *config.SMTPConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	tmpl, err := template.ParseFiles(filepath.Join(cfg.TemplatesPath, "reminder.html"))
	if err != nil {
		tmpl, err = template.New("reminder").Parse(defaultReminderTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse default reminder template: %w", err)
		}
	}
	client.template = tmpl

	return client, nil
}

// SendReminderEmail sends the daily reminder for a habit.
func (c *Client) SendReminderEmail(ctx context.Context, to, habitName, localTime string) error {
	data := map[string]interface{}{
		"HabitName": habitName,
		"LocalTime": localTime,
	}

	var buf bytes.Buffer
	if err := c.template.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render reminder email: %w", err)
	}

	subject := fmt.Sprintf("Reminder: %s - Habit Tracker", habitName)
	return c.send(to, subject, buf.String())
}

// send sends an email using gomail.
func (c *Client) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)

	// UseTLS = true means STARTTLS (port 587), false means SSL (port 465).
	if c.cfg.UseTLS {
		d.SSL = false
		d.TLSConfig = &tls.Config{
			ServerName: c.cfg.Host,
		}
	} else {
		d.SSL = true
		d.TLSConfig = &tls.Config{
			ServerName: c.cfg.Host,
		}
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const defaultReminderTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Habit Reminder</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4CAF50;">Time for your habit!</h2>
        <p>This is your {{.LocalTime}} reminder to complete:</p>
        <div style="text-align: center; margin: 30px 0;">
            <span style="background-color: #4CAF50; color: white; padding: 12px 30px; border-radius: 5px; display: inline-block; font-size: 18px;">{{.HabitName}}</span>
        </div>
        <p>Keep your streak going - small steps every day add up.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">You receive this email because reminders are enabled for this habit. You can disable them in your habit settings.</p>
    </div>
</body>
</html>
`
