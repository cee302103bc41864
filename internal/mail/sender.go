package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// Sender delivers an HTML email. Delivery is best effort everywhere it is
// used: callers persist first and log failures instead of propagating them.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends mail over implicit TLS (port 465 style).
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPSender(host, port, user, pass string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: user,
		password: pass,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := []byte(
		fmt.Sprintf("From: \"VALENCIRE\" <%s>\r\n", s.username) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			htmlBody,
	)

	serverAddr := s.host + ":" + s.port

	tlsConfig := &tls.Config{
		ServerName: s.host,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(s.username); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
