package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

func testEmail(t *testing.T, send func(m *gomail.Message) error) *EmailNotifier {
	t.Helper()
	e, err := NewEmail(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "monitor@example.com"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	e.send = send
	return e
}

func TestEmail_OneMessageToAllRecipients(t *testing.T) {
	var sent []*gomail.Message
	e := testEmail(t, func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	})

	ok := e.Notify(context.Background(), "Shop", "https://shop.example", []string{"a@example.com", " b@example.com ", ""})
	if !ok {
		t.Fatalf("want success")
	}
	if len(sent) != 1 {
		t.Fatalf("want exactly one send, got %d", len(sent))
	}
	m := sent[0]
	to := m.GetHeader("To")
	if len(to) != 2 || to[0] != "a@example.com" || to[1] != "b@example.com" {
		t.Fatalf("unexpected To header: %v", to)
	}
	if subj := m.GetHeader("Subject"); len(subj) != 1 || !strings.Contains(subj[0], "Shop") || !strings.Contains(subj[0], "OFFLINE") {
		t.Fatalf("unexpected subject: %v", subj)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	if !strings.Contains(buf.String(), "https://shop.example") {
		t.Fatalf("body should mention the site url")
	}
}

func TestEmail_TransportFailureReportsFalse(t *testing.T) {
	e := testEmail(t, func(m *gomail.Message) error { return errors.New("535 auth failed") })
	if e.Notify(context.Background(), "Shop", "https://shop.example", []string{"a@example.com"}) {
		t.Fatalf("want false on transport failure")
	}
}

func TestEmail_NoRecipientsSkipsSend(t *testing.T) {
	called := false
	e := testEmail(t, func(m *gomail.Message) error { called = true; return nil })
	if e.Notify(context.Background(), "Shop", "https://shop.example", nil) {
		t.Fatalf("want false without recipients")
	}
	if called {
		t.Fatalf("transport must not be used without recipients")
	}
}

func TestOfflineBody_EscapesInput(t *testing.T) {
	body := offlineBody("<script>", "https://x.example/?a=1&b=2")
	if strings.Contains(body, "<script>") {
		t.Fatalf("site name not escaped: %s", body)
	}
	if !strings.Contains(body, "a=1&amp;b=2") {
		t.Fatalf("url not escaped: %s", body)
	}
}

func TestNewEmail_Validates(t *testing.T) {
	for _, c := range []SMTPConfig{
		{Port: 587, From: "x@example.com"},
		{Host: "smtp", From: "x@example.com"},
		{Host: "smtp", Port: 25},
	} {
		if _, err := NewEmail(c, nil); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}
