package services

import (
	"crypto/tls"
	"fmt"

	"github.com/reviewrise/reviewrise-backend/internal/config"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

// SendCouponEmail delivers the reward coupon to the customer after their
// review is verified.
func (s *EmailService) SendCouponEmail(to, name string, coupon *models.Coupon, brandName string) error {
	subject := fmt.Sprintf("Your %s reward coupon is here!", brandName)
	body := fmt.Sprintf(`
		<h2>Thanks for your review, %s!</h2>
		<p>Your review at <strong>%s</strong> has been verified and your reward is ready.</p>
		<p style="font-size: 24px; letter-spacing: 2px;"><strong>%s</strong></p>
		<p><strong>%s</strong> on orders above %d</p>
		<p>Show this code at the counter before %s.</p>
		<p>— The ReviewRise Team</p>
	`, name, brandName, coupon.Code, coupon.Discount, coupon.MinOrder, coupon.ExpiresAt.Format("02 Jan 2006"))

	return s.SendEmail(to, subject, body)
}

// SendOwnerCredentialsEmail tells a freshly provisioned brand owner how
// to log in.
func (s *EmailService) SendOwnerCredentialsEmail(to, brandName, email, password, baseURL string) error {
	subject := fmt.Sprintf("%s is now on ReviewRise", brandName)
	body := fmt.Sprintf(`
		<h2>Welcome to ReviewRise</h2>
		<p>Your brand <strong>%s</strong> has been set up. Log in to your dashboard:</p>
		<p><a href="%s/brand">%s/brand</a></p>
		<p>Email: <strong>%s</strong><br>Password: <strong>%s</strong></p>
		<p>Please change your password after the first login.</p>
	`, brandName, baseURL, baseURL, email, password)

	return s.SendEmail(to, subject, body)
}
