package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/mujtama/backend/internal/config"
	"github.com/mujtama/backend/internal/models"
	"github.com/mujtama/backend/pkg/logger"
	"gorm.io/gorm"
)

type EmailService struct {
	db *gorm.DB
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func NewEmailService(db *gorm.DB) *EmailService {
	return &EmailService{db: db}
}

func (s *EmailService) GetConfig() *EmailConfig {
	cfg := &EmailConfig{}

	var configs []models.SystemConfig
	s.db.Where("`group` = ?", "email").Find(&configs)

	for _, c := range configs {
		switch c.Key {
		case "email_enabled":
			cfg.Enabled = c.Value == "true"
		case "email_host":
			cfg.Host = c.Value
		case "email_port":
			if port, err := strconv.Atoi(c.Value); err == nil {
				cfg.Port = port
			}
		case "email_username":
			cfg.Username = c.Value
		case "email_password":
			cfg.Password = c.Value
		case "email_from":
			cfg.From = c.Value
		case "email_use_tls":
			cfg.UseTLS = c.Value == "true"
		}
	}

	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return cfg
}

// SendInvitationEmail mails the invite link to the invitee. A disabled or
// unconfigured mailer is not an error: the invitation still works through
// its token.
func (s *EmailService) SendInvitationEmail(invitation *models.Invitation, community *models.Community, inviter *models.User) error {
	cfg := s.GetConfig()
	if !cfg.Enabled || cfg.Host == "" {
		return nil
	}

	inviterName := inviter.DisplayName
	if inviterName == "" {
		inviterName = inviter.Username
	}

	subject := fmt.Sprintf("[Mujtama] %s invited you to join %q", inviterName, community.Name)
	body := s.buildInvitationBody(invitation, community, inviterName)

	return s.sendEmail(cfg, []string{invitation.InviteeEmail}, subject, body)
}

// SendSettlementEmail mails a member their settlement outcome.
func (s *EmailService) SendSettlementEmail(user *models.User, community *models.Community, outcome string, reward float64) error {
	cfg := s.GetConfig()
	if !cfg.Enabled || cfg.Host == "" {
		return nil
	}
	if user.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("[Mujtama] Community %q has ended", community.Name)
	body := s.buildSettlementBody(user, community, outcome, reward)

	return s.sendEmail(cfg, []string{user.Email}, subject, body)
}

func (s *EmailService) buildInvitationBody(invitation *models.Invitation, community *models.Community, inviterName string) string {
	link := fmt.Sprintf("%s/invitations/%s", strings.TrimRight(config.GlobalConfig.App.BaseURL, "/"), invitation.Token)

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>%s invited you to join %q</h2>", inviterName, community.Name))
	sb.WriteString(fmt.Sprintf("<p>%s</p>", community.Description))

	sb.WriteString("<table style=\"border-collapse: collapse; margin-bottom: 20px;\">")
	rows := []struct{ label, value string }{
		{"Goal", community.Goal},
		{"Stake", fmt.Sprintf("%.2f", community.StakingAmount)},
		{"Starts", community.StartDate.Format("2006-01-02")},
		{"Deadline", community.Deadline.Format("2006-01-02")},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("<tr><td style=\"padding: 8px; border: 1px solid #ddd; font-weight: bold;\">%s</td><td style=\"padding: 8px; border: 1px solid #ddd;\">%s</td></tr>", r.label, r.value))
	}
	sb.WriteString("</table>")

	sb.WriteString(fmt.Sprintf("<p><a href=\"%s\">Accept or decline the invitation</a></p>", link))
	sb.WriteString(fmt.Sprintf("<p style=\"color: #888; font-size: 12px;\">This invitation expires on %s.</p>", invitation.ExpiresAt.Format("2006-01-02 15:04 MST")))
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) buildSettlementBody(user *models.User, community *models.Community, outcome string, reward float64) string {
	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Community %q has been settled</h2>", community.Name))
	sb.WriteString(fmt.Sprintf("<p>Hi %s,</p>", name))

	if outcome == models.MemberStatusCompleted {
		sb.WriteString("<p>Congratulations, you completed the goal!</p>")
		sb.WriteString(fmt.Sprintf("<p>Your stake of %.2f has been refunded to your wallet.</p>", community.StakingAmount))
		if reward > 0 {
			sb.WriteString(fmt.Sprintf("<p>You also earned a reward of %.2f from forfeited stakes.</p>", reward))
		}
	} else {
		sb.WriteString("<p>The deadline passed before the goal was completed.</p>")
		sb.WriteString(fmt.Sprintf("<p>Your stake of %.2f was forfeited and shared among members who completed the goal.</p>", community.StakingAmount))
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

func (s *EmailService) sendEmail(cfg *EmailConfig, to []string, subject, body string) error {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	var err error
	if cfg.UseTLS {
		err = s.sendEmailTLS(cfg, addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent mail to %v", to)
	return nil
}

func (s *EmailService) sendEmailTLS(cfg *EmailConfig, addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
