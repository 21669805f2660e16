package mail

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	raw := string(Build(Config{From: "shop@example.com", FromName: "Shop"}, Message{
		To: []string{"jane@example.com"}, CC: []string{"ops@example.com"},
		Subject: "Receipt", Body: "<p>hi</p>", HTML: true,
	}))

	assert.Contains(t, raw, "From: Shop <shop@example.com>\r\n")
	assert.Contains(t, raw, "To: jane@example.com\r\n")
	assert.Contains(t, raw, "Cc: ops@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>hi</p>"))
}

func TestEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Host: "smtp.local", From: "a@b.c"}.Enabled())
}

func TestSendRequiresRecipients(t *testing.T) {
	err := NewSMTPMailer(Config{Host: "smtp.local", Port: "25"}).Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

// fakeSMTP speaks just enough SMTP to accept one message and returns what
// was sent after DATA.
func fakeSMTP(t *testing.T, conn net.Conn) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer conn.Close()
		r := bufio.NewReader(conn)
		write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }

		write("220 fake ESMTP")
		var data strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				out <- data.String()
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					write("250 queued")
					continue
				}
				data.WriteString(line)
				continue
			}
			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"):
				write("250 fake")
			case strings.HasPrefix(cmd, "DATA"):
				inData = true
				write("354 go ahead")
			case strings.HasPrefix(cmd, "QUIT"):
				write("221 bye")
				out <- data.String()
				return
			default:
				write("250 ok")
			}
		}
	}()
	return out
}

func TestSendDeliversOverSMTP(t *testing.T) {
	client, server := net.Pipe()
	sent := fakeSMTP(t, server)

	m := NewSMTPMailer(Config{Host: "smtp.local", Port: "25", From: "shop@example.com"})
	m.dial = func(context.Context, string) (net.Conn, error) { return client, nil }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Send(ctx, Message{To: []string{"jane@example.com"}, Subject: "Receipt", Body: "thanks"}))

	select {
	case body := <-sent:
		assert.Contains(t, body, "Subject: Receipt")
		assert.Contains(t, body, "thanks")
	case <-time.After(5 * time.Second):
		t.Fatal("fake server never finished")
	}
}
