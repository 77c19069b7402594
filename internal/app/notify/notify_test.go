package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/role"
)

type fakeClients map[uint]*ds.Client

func (f fakeClients) GetClientByID(_ context.Context, id uint) (*ds.Client, error) {
	c, ok := f[id]
	if !ok {
		return nil, negotiation.ErrNotFound
	}
	return c, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to, subject, body})
	return f.err
}

type notifierFunc func(ctx context.Context, event negotiation.Event) error

func (f notifierFunc) Notify(ctx context.Context, event negotiation.Event) error {
	return f(ctx, event)
}

func TestEmailNotifier(t *testing.T) {
	clients := fakeClients{7: {ID: 7, Email: "jane@example.com"}}
	price := 300.0

	t.Run("manager action goes to the client", func(t *testing.T) {
		sender := &fakeSender{}
		n := NewEmailNotifier(clients, sender, "manager@example.com")

		err := n.Notify(context.Background(), negotiation.Event{
			Type: negotiation.EventQuoteIssued, RequestID: 3, ClientID: 7,
			State: ds.StatePendingResponse, Actor: role.Manager, Amount: &price,
		})
		if err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if len(sender.sent) != 1 || sender.sent[0].to != "jane@example.com" {
			t.Fatalf("unexpected mail %+v", sender.sent)
		}
		if !strings.Contains(sender.sent[0].subject, "#3") || !strings.Contains(sender.sent[0].body, "$300") {
			t.Fatalf("unexpected mail %+v", sender.sent[0])
		}
	})

	t.Run("client action goes to the manager", func(t *testing.T) {
		sender := &fakeSender{}
		n := NewEmailNotifier(clients, sender, "manager@example.com")

		err := n.Notify(context.Background(), negotiation.Event{
			Type: negotiation.EventBillDisputed, RequestID: 3, ClientID: 7, Actor: role.Client, Message: "Kitchen skipped",
		})
		if err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if sender.sent[0].to != "manager@example.com" || !strings.Contains(sender.sent[0].body, "Kitchen skipped") {
			t.Fatalf("unexpected mail %+v", sender.sent[0])
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		n := NewEmailNotifier(clients, &fakeSender{}, "")
		err := n.Notify(context.Background(), negotiation.Event{Type: negotiation.EventQuoteIssued, ClientID: 99, Actor: role.Manager})
		if !errors.Is(err, negotiation.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no manager address configured", func(t *testing.T) {
		sender := &fakeSender{}
		n := NewEmailNotifier(clients, sender, "")
		if err := n.Notify(context.Background(), negotiation.Event{Type: negotiation.EventCounterOffered, ClientID: 7, Actor: role.Client}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if len(sender.sent) != 0 {
			t.Fatalf("expected no mail, got %+v", sender.sent)
		}
	})
}

func TestMulti(t *testing.T) {
	var calls int
	ok := notifierFunc(func(context.Context, negotiation.Event) error { calls++; return nil })
	failing := notifierFunc(func(context.Context, negotiation.Event) error { calls++; return errors.New("smtp down") })

	err := Multi{failing, nil, ok}.Notify(context.Background(), negotiation.Event{})
	if err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("every notifier must be called, got %d calls", calls)
	}
}
