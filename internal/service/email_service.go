package service

import (
	"fmt"

	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailService 邮件发送服务
// SMTP 未配置时进入日志模式: 记录收件人与主题,不实际发送
type EmailService interface {
	Send(to []string, subject, body string) error
	Enabled() bool
}

// emailService 邮件发送服务实现
type emailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewEmailService 创建邮件发送服务
func NewEmailService(cfg config.SMTPConfig) EmailService {
	s := &emailService{cfg: cfg}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// Enabled SMTP 是否已配置
func (s *emailService) Enabled() bool {
	return s.dialer != nil
}

// Send 发送邮件,收件人去重由调用方负责
func (s *emailService) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	if s.dialer == nil {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, email logged only")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
