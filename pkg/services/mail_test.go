package services

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestSMTPSender_Message(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, User: "info@melon.example"})

	msg, err := s.message(Mail{
		FromName: "Melon Works",
		To:       "taro@example.com",
		ReplyTo:  "hanako@example.com",
		Subject:  "Inquiry received",
		Body:     "Thank you for your inquiry.",
	})
	require.NoError(t, err)

	from := strings.Join(msg.GetFromString(), ",")
	assert.Contains(t, from, "Melon Works")
	assert.Contains(t, from, "<info@melon.example>", "envelope user is the sender address")
	assert.Equal(t, []string{"<taro@example.com>"}, msg.GetToString())
	assert.Equal(t, []string{"Inquiry received"}, msg.GetGenHeader(mail.HeaderSubject))
	assert.Contains(t, strings.Join(msg.GetGenHeader(mail.HeaderReplyTo), ","), "hanako@example.com")

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/plain")
	assert.Contains(t, buf.String(), "Thank you for your inquiry.")
}

func TestSMTPSender_MessageWithoutReplyTo(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{User: "info@melon.example"})
	msg, err := s.message(Mail{FromName: "Melon Works", To: "taro@example.com", Subject: "hi"})
	require.NoError(t, err)
	assert.Empty(t, msg.GetGenHeader(mail.HeaderReplyTo))
}

func TestSMTPSender_MessageInvalid(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{User: "info@melon.example"})

	_, err := s.message(Mail{FromName: "Melon Works", To: "broken"})
	assert.ErrorContains(t, err, "set to")

	_, err = s.message(Mail{FromName: "Melon Works", To: "taro@example.com", ReplyTo: "broken"})
	assert.ErrorContains(t, err, "set reply-to")

	_, err = NewSMTPSender(SMTPConfig{User: "not an address"}).message(Mail{FromName: "Melon Works", To: "taro@example.com"})
	assert.ErrorContains(t, err, "set from")

	err = s.Send(context.Background(), Mail{FromName: "Melon Works", To: "broken"})
	assert.ErrorContains(t, err, "set to", "nothing is dialed for a bad message")
}

func TestSMTPSender_SendUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, User: "info@melon.example", Timeout: 2 * time.Second})
	err = s.Send(context.Background(), Mail{FromName: "Melon Works", To: "taro@example.com", Subject: "hi", Body: "x"})
	assert.ErrorContains(t, err, "send mail to taro@example.com")
}
