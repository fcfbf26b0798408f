package mailx_test

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/edura/pkg/mailx"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     mailx.Message
		wantErr bool
	}{
		{"ok", mailx.Message{To: "a@x.com", Subject: "Hi", Body: "body"}, false},
		{"missing recipient", mailx.Message{Subject: "Hi"}, true},
		{"injected recipient", mailx.Message{To: "a@x.com\r\nBcc: b@x.com"}, true},
		{"injected subject", mailx.Message{To: "a@x.com", Subject: "Hi\nBcc: b@x.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, mailx.ErrInvalidMessage)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := mailx.LogSender{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, s.Send(context.Background(), mailx.Message{To: "a@x.com", Subject: "Code", Body: "123456"}))
	require.Contains(t, buf.String(), "a@x.com")

	require.Error(t, s.Send(context.Background(), mailx.Message{}))
}

// fakeSMTP accepts one session and records the DATA payload.
func fakeSMTP(t *testing.T, rejectRcpt bool) (string, int, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
			switch cmd {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 localhost")
			case "MAIL", "NOOP", "RSET":
				_ = tp.PrintfLine("250 ok")
			case "RCPT":
				if rejectRcpt {
					_ = tp.PrintfLine("550 no such user")
					continue
				}
				_ = tp.PrintfLine("250 ok")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				got <- string(data)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 unsupported")
			}
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port, got
}

func TestSMTPSender_Send(t *testing.T) {
	host, port, got := fakeSMTP(t, false)

	s, err := mailx.NewSMTPSender(mailx.SMTPConfig{
		Host:    host,
		Port:    port,
		From:    "noreply@edura.test",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	err = s.Send(context.Background(), mailx.Message{
		To:      "a@x.com",
		Subject: "Your code",
		Body:    "Your code is 004217",
	})
	require.NoError(t, err)

	select {
	case data := <-got:
		r := bufio.NewReader(strings.NewReader(data))
		hdr, err := textproto.NewReader(r).ReadMIMEHeader()
		require.NoError(t, err)
		require.Contains(t, hdr.Get("To"), "a@x.com")
		require.Equal(t, "Your code", hdr.Get("Subject"))
		require.Contains(t, hdr.Get("From"), "noreply@edura.test")
		require.NotEmpty(t, hdr.Get("Message-Id"))
		require.Contains(t, data, "Your code is 004217")
	case <-time.After(5 * time.Second):
		t.Fatal("server never received DATA")
	}
}

func TestSMTPSender_RejectedRecipient(t *testing.T) {
	host, port, _ := fakeSMTP(t, true)

	s, err := mailx.NewSMTPSender(mailx.SMTPConfig{Host: host, Port: port, From: "noreply@edura.test", Timeout: 5 * time.Second})
	require.NoError(t, err)

	err = s.Send(context.Background(), mailx.Message{To: "ghost@x.com", Subject: "x", Body: "x"})
	require.ErrorContains(t, err, "mailx: send")

	var sendErr *mail.SendError
	require.ErrorAs(t, err, &sendErr)
	require.Equal(t, mail.ErrSMTPRcptTo, sendErr.Reason)
}

func TestSMTPSender_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	s, err := mailx.NewSMTPSender(mailx.SMTPConfig{Host: "127.0.0.1", Port: addr.Port, From: "noreply@edura.test", Timeout: time.Second})
	require.NoError(t, err)

	err = s.Send(context.Background(), mailx.Message{To: "a@x.com", Subject: "x", Body: "x"})
	require.ErrorContains(t, err, "mailx: send")
}

func TestNewSMTPSender_RequiresHost(t *testing.T) {
	_, err := mailx.NewSMTPSender(mailx.SMTPConfig{From: "noreply@edura.test"})
	require.Error(t, err)
}
