// Package notify доставляет события по заявкам: в Redis для других сервисов и письмом участникам.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/pricing"
	"cleaning-backend/internal/app/role"

	"github.com/sirupsen/logrus"
)

// Multi рассылает событие всем получателям и собирает ошибки
type Multi []negotiation.Notifier

func (m Multi) Notify(ctx context.Context, event negotiation.Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClientLookup находит клиента для письма
type ClientLookup interface {
	GetClientByID(ctx context.Context, id uint) (*ds.Client, error)
}

// Sender отправка одного письма
type Sender interface {
	Send(to, subject, body string) error
}

// EmailNotifier пишет другой стороне: клиенту о действиях менеджера, менеджеру о действиях клиента
type EmailNotifier struct {
	clients      ClientLookup
	sender       Sender
	managerEmail string
}

func NewEmailNotifier(clients ClientLookup, sender Sender, managerEmail string) *EmailNotifier {
	return &EmailNotifier{clients: clients, sender: sender, managerEmail: managerEmail}
}

func (n *EmailNotifier) Notify(ctx context.Context, event negotiation.Event) error {
	to, err := n.recipient(ctx, event)
	if err != nil {
		return err
	}
	if to == "" {
		logrus.Debugf("no recipient for event %s on request %d", event.Type, event.RequestID)
		return nil
	}

	subject, body := Compose(event)
	if err := n.sender.Send(to, subject, body); err != nil {
		return fmt.Errorf("send %s email: %w", event.Type, err)
	}
	return nil
}

func (n *EmailNotifier) recipient(ctx context.Context, event negotiation.Event) (string, error) {
	if event.Actor == role.Client {
		return n.managerEmail, nil
	}
	client, err := n.clients.GetClientByID(ctx, event.ClientID)
	if err != nil {
		return "", fmt.Errorf("lookup client %d: %w", event.ClientID, err)
	}
	return client.Email, nil
}

var subjects = map[negotiation.EventType]string{
	negotiation.EventRequestCreated:   "New cleaning request",
	negotiation.EventQuoteIssued:      "You have a new quote",
	negotiation.EventCounterAccepted:  "Your counter-offer was accepted",
	negotiation.EventRequestDeclined:  "Your request was declined",
	negotiation.EventQuoteAccepted:    "Quote accepted",
	negotiation.EventCounterOffered:   "Client sent a counter-offer",
	negotiation.EventRequestCancelled: "Request cancelled",
	negotiation.EventServiceCompleted: "Cleaning completed",
	negotiation.EventPaymentSubmitted: "Payment submitted",
	negotiation.EventPaymentConfirmed: "Payment confirmed",
	negotiation.EventBillDisputed:     "Bill disputed",
	negotiation.EventBillRevised:      "Your bill was revised",
	negotiation.EventMessagePosted:    "New message",
}

// Compose тема и текст письма по событию
func Compose(event negotiation.Event) (string, string) {
	subject, ok := subjects[event.Type]
	if !ok {
		subject = "Request update"
	}
	subject = fmt.Sprintf("%s (request #%d)", subject, event.RequestID)

	var b strings.Builder
	fmt.Fprintf(&b, "Request #%d is now %s.\n", event.RequestID, event.State)
	if event.Amount != nil {
		fmt.Fprintf(&b, "Amount: $%s\n", pricing.FormatAmount(*event.Amount))
	}
	if event.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", event.Message)
	}
	return subject, b.String()
}
