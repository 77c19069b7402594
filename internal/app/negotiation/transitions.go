package negotiation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/pricing"
	"cleaning-backend/internal/app/role"
)

type QuoteInput struct {
	Price         float64
	ScheduledTime *time.Time
	Note          string
}

type AcceptCounterInput struct {
	// ScheduledTime пустое - берётся время из встречного предложения
	ScheduledTime *time.Time
	Note          string
}

type CounterInput struct {
	Price        float64
	Note         string
	ProposedTime *time.Time
}

// IssueQuote менеджер выставляет цену. Неотвеченное предложение помечается superseded
func (s *Service) IssueQuote(ctx context.Context, actor Actor, id uint, in QuoteInput) (*ds.ServiceRequest, error) {
	if err := validatePrice("price", in.Price); err != nil {
		return nil, err
	}
	if in.ScheduledTime == nil || in.ScheduledTime.IsZero() {
		return nil, missingField("scheduled_time")
	}
	note := strings.TrimSpace(in.Note)

	return s.apply(ctx, actor, id, role.Manager, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateNew && req.State != ds.StatePendingResponse {
			return nil, ErrInvalidTransition
		}
		if _, err := tx.SupersedePendingQuotes(ctx, req.ID); err != nil {
			return nil, fmt.Errorf("supersede pending quotes: %w", err)
		}

		req.Round++
		quoteID, err := tx.AppendQuote(ctx, ds.QuoteDraft{
			RequestID:    req.ID,
			Round:        req.Round,
			Price:        in.Price,
			BusinessTime: in.ScheduledTime,
			Note:         note,
			Sender:       ds.SenderManager,
		})
		if err != nil {
			return nil, fmt.Errorf("append quote: %w", err)
		}

		price := in.Price
		req.ManagerQuote = &price
		req.ScheduledTime = in.ScheduledTime
		req.ManagerNote = note
		req.CurrentQuoteID = &quoteID
		req.State = ds.StatePendingResponse

		return &Event{Type: EventQuoteIssued, Amount: &price, Message: note}, nil
	})
}

// AcceptCounterOffer менеджер соглашается со встречным предложением клиента
func (s *Service) AcceptCounterOffer(ctx context.Context, actor Actor, id uint, in AcceptCounterInput) (*ds.ServiceRequest, error) {
	note := strings.TrimSpace(in.Note)

	return s.apply(ctx, actor, id, role.Manager, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateNew {
			return nil, ErrInvalidTransition
		}
		counter, err := tx.LatestPendingQuote(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("latest pending quote: %w", err)
		}
		if counter == nil || counter.SenderName != ds.SenderClient || counter.Price == nil {
			return nil, ErrNoPendingQuote
		}

		when := in.ScheduledTime
		if when == nil {
			when = counter.BusinessTime
		}
		if when == nil {
			when = req.ScheduledTime
		}
		if when == nil {
			return nil, missingField("scheduled_time")
		}

		affected, err := tx.RespondToQuote(ctx, req.ID, withNote("Accepted by manager.", note), ds.RecordAccepted)
		if err != nil {
			return nil, fmt.Errorf("respond to quote: %w", err)
		}
		if affected == 0 {
			return nil, ErrNoPendingQuote
		}

		price := *counter.Price
		quoteID, err := tx.AppendQuote(ctx, ds.QuoteDraft{
			RequestID:    req.ID,
			Round:        req.Round,
			Price:        price,
			BusinessTime: when,
			Note:         note,
			Sender:       ds.SenderManager,
			State:        ds.RecordAccepted,
		})
		if err != nil {
			return nil, fmt.Errorf("append quote: %w", err)
		}

		req.ManagerQuote = &price
		req.ScheduledTime = when
		if note != "" {
			req.ManagerNote = note
		}
		req.CurrentQuoteID = &quoteID
		req.State = ds.StateAccepted

		return &Event{Type: EventCounterAccepted, Amount: &price, Message: note}, nil
	})
}

// Decline менеджер отказывает по новой заявке
func (s *Service) Decline(ctx context.Context, actor Actor, id uint, reason string) (*ds.ServiceRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, missingField("reason")
	}

	return s.apply(ctx, actor, id, role.Manager, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateNew {
			return nil, ErrInvalidTransition
		}
		// встречное предложение клиента закрываем вместе с заявкой
		if _, err := tx.RespondToQuote(ctx, req.ID, declinedResponse(reason), ds.RecordRejected); err != nil {
			return nil, fmt.Errorf("respond to quote: %w", err)
		}
		if _, err := tx.AppendMessage(ctx, req.ID, ds.SenderManager, "Request declined. Reason: "+reason); err != nil {
			return nil, fmt.Errorf("append message: %w", err)
		}

		req.ManagerNote = reason
		req.State = ds.StateRejected
		return &Event{Type: EventRequestDeclined, Message: reason}, nil
	})
}

// AcceptQuote клиент принимает последнее предложение менеджера
func (s *Service) AcceptQuote(ctx context.Context, actor Actor, id uint, note string) (*ds.ServiceRequest, error) {
	return s.apply(ctx, actor, id, role.Client, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StatePendingResponse {
			return nil, ErrInvalidTransition
		}
		quote, err := pendingManagerQuote(ctx, tx, req.ID)
		if err != nil {
			return nil, err
		}

		if err := respond(ctx, tx, req.ID, acceptedResponse(note), ds.RecordAccepted); err != nil {
			return nil, err
		}

		price := *quote.Price
		req.ManagerQuote = &price
		if quote.BusinessTime != nil {
			req.ScheduledTime = quote.BusinessTime
		}
		req.CurrentQuoteID = &quote.ID
		req.State = ds.StateAccepted

		return &Event{Type: EventQuoteAccepted, Amount: &price, Message: strings.TrimSpace(note)}, nil
	})
}

// CounterOffer клиент отклоняет предложение и называет свою цену. Заявка возвращается в new
func (s *Service) CounterOffer(ctx context.Context, actor Actor, id uint, in CounterInput) (*ds.ServiceRequest, error) {
	if err := validatePrice("price", in.Price); err != nil {
		return nil, err
	}
	note := counterNote(in.Note, in.Price)

	return s.apply(ctx, actor, id, role.Client, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StatePendingResponse {
			return nil, ErrInvalidTransition
		}
		quote, err := pendingManagerQuote(ctx, tx, req.ID)
		if err != nil {
			return nil, err
		}

		if err := respond(ctx, tx, req.ID, counterResponse(in.Price, note), ds.RecordRejected); err != nil {
			return nil, err
		}

		when := in.ProposedTime
		if when == nil {
			when = quote.BusinessTime
		}

		req.Round++
		quoteID, err := tx.AppendQuote(ctx, ds.QuoteDraft{
			RequestID:    req.ID,
			Round:        req.Round,
			Price:        in.Price,
			BusinessTime: when,
			Note:         note,
			Sender:       ds.SenderClient,
		})
		if err != nil {
			return nil, fmt.Errorf("append quote: %w", err)
		}

		req.CurrentQuoteID = &quoteID
		req.State = ds.StateNew

		price := in.Price
		return &Event{Type: EventCounterOffered, Amount: &price, Message: note}, nil
	})
}

// Cancel клиент отменяет заявку до согласования цены
func (s *Service) Cancel(ctx context.Context, actor Actor, id uint, reason string) (*ds.ServiceRequest, error) {
	return s.apply(ctx, actor, id, role.Client, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateNew && req.State != ds.StatePendingResponse {
			return nil, ErrInvalidTransition
		}

		text := cancelledResponse(reason)
		affected, err := tx.RespondToQuote(ctx, req.ID, text, ds.RecordRejected)
		if err != nil {
			return nil, fmt.Errorf("respond to quote: %w", err)
		}
		if affected == 0 {
			// предложений ещё не было - причину сохраняем сообщением
			if _, err := tx.AppendMessage(ctx, req.ID, ds.SenderClient, text); err != nil {
				return nil, fmt.Errorf("append message: %w", err)
			}
		}

		req.State = ds.StateRejected
		return &Event{Type: EventRequestCancelled, Message: text}, nil
	})
}

// Complete менеджер отмечает уборку выполненной
func (s *Service) Complete(ctx context.Context, actor Actor, id uint, note string) (*ds.ServiceRequest, error) {
	return s.apply(ctx, actor, id, role.Manager, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateAccepted {
			return nil, ErrInvalidTransition
		}

		today := truncateToDate(s.now())
		text := withNote(fmt.Sprintf("Service completed on %s.", today.Format("2006-01-02")), note)
		if _, err := tx.AppendMessage(ctx, req.ID, ds.SenderManager, text); err != nil {
			return nil, fmt.Errorf("append message: %w", err)
		}

		req.CompletionDate = &today
		req.State = ds.StateCompleted
		return &Event{Type: EventServiceCompleted, Amount: req.ManagerQuote, Message: text}, nil
	})
}

// SubmitPayment клиент сообщает об оплате. Подтверждает менеджер
func (s *Service) SubmitPayment(ctx context.Context, actor Actor, id uint) (*ds.ServiceRequest, error) {
	return s.apply(ctx, actor, id, role.Client, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateCompleted || req.IsPaid || req.ClientPaid || req.IsDisputed {
			return nil, ErrInvalidTransition
		}
		if err := closeRevision(ctx, tx, req.ID, acceptedResponse("Payment submitted."), ds.RecordAccepted); err != nil {
			return nil, err
		}

		text := "Payment submitted: $" + pricing.FormatAmount(amountDue(req)) + "."
		if _, err := tx.AppendMessage(ctx, req.ID, ds.SenderClient, text); err != nil {
			return nil, fmt.Errorf("append message: %w", err)
		}

		req.ClientPaid = true
		return &Event{Type: EventPaymentSubmitted, Amount: req.ManagerQuote, Message: text}, nil
	})
}

// ConfirmPayment менеджер подтверждает получение оплаты
func (s *Service) ConfirmPayment(ctx context.Context, actor Actor, id uint) (*ds.ServiceRequest, error) {
	return s.apply(ctx, actor, id, role.Manager, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateCompleted || req.IsPaid || req.IsDisputed || req.CompletionDate == nil {
			return nil, ErrInvalidTransition
		}
		if err := closeRevision(ctx, tx, req.ID, acceptedResponse("Payment confirmed by manager."), ds.RecordAccepted); err != nil {
			return nil, err
		}

		text := "Payment of $" + pricing.FormatAmount(amountDue(req)) + " confirmed."
		if _, err := tx.AppendMessage(ctx, req.ID, ds.SenderManager, text); err != nil {
			return nil, fmt.Errorf("append message: %w", err)
		}

		req.IsPaid = true
		return &Event{Type: EventPaymentConfirmed, Amount: req.ManagerQuote, Message: text}, nil
	})
}

// Dispute клиент оспаривает неоплаченный счёт
func (s *Service) Dispute(ctx context.Context, actor Actor, id uint, note string) (*ds.ServiceRequest, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, missingField("dispute_note")
	}

	return s.apply(ctx, actor, id, role.Client, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateCompleted || req.IsPaid || req.IsDisputed {
			return nil, ErrInvalidTransition
		}
		if err := closeRevision(ctx, tx, req.ID, "Disputed. "+note, ds.RecordRejected); err != nil {
			return nil, err
		}
		if _, err := tx.AppendMessage(ctx, req.ID, ds.SenderClient, "Bill disputed: "+note); err != nil {
			return nil, fmt.Errorf("append message: %w", err)
		}

		req.IsDisputed = true
		req.DisputeNote = note
		return &Event{Type: EventBillDisputed, Message: note}, nil
	})
}

// ReviseBill менеджер пересчитывает оспоренный счёт новой записью-предложением
func (s *Service) ReviseBill(ctx context.Context, actor Actor, id uint, in QuoteInput) (*ds.ServiceRequest, error) {
	if err := validatePrice("price", in.Price); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(in.Note)

	return s.apply(ctx, actor, id, role.Manager, func(tx Repository, req *ds.ServiceRequest) (*Event, error) {
		if req.State != ds.StateCompleted || !req.IsDisputed || req.IsPaid {
			return nil, ErrInvalidTransition
		}
		if _, err := tx.SupersedePendingQuotes(ctx, req.ID); err != nil {
			return nil, fmt.Errorf("supersede pending quotes: %w", err)
		}

		req.Round++
		quoteID, err := tx.AppendQuote(ctx, ds.QuoteDraft{
			RequestID:    req.ID,
			Round:        req.Round,
			Price:        in.Price,
			BusinessTime: req.ScheduledTime,
			Note:         withNote("Bill revised.", note),
			Sender:       ds.SenderManager,
		})
		if err != nil {
			return nil, fmt.Errorf("append quote: %w", err)
		}

		price := in.Price
		req.ManagerQuote = &price
		req.ManagerNote = note
		req.IsDisputed = false
		req.ClientPaid = false
		req.CurrentQuoteID = &quoteID

		return &Event{Type: EventBillRevised, Amount: &price, Message: note}, nil
	})
}

// validatePrice цена больше нуля и помещается в decimal(10,2)
func validatePrice(field string, price float64) error {
	if price <= 0 {
		return invalidField(field, "must be greater than 0")
	}
	if err := pricing.ValidateAmount(price); err != nil {
		return invalidField(field, err.Error())
	}
	return nil
}

// pendingManagerQuote последнее неотвеченное предложение менеджера
func pendingManagerQuote(ctx context.Context, tx Repository, requestID uint) (*ds.Record, error) {
	quote, err := tx.LatestPendingQuote(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("latest pending quote: %w", err)
	}
	if quote == nil || quote.SenderName != ds.SenderManager || quote.Price == nil {
		return nil, ErrNoPendingQuote
	}
	return quote, nil
}

// respond отвечает на последнее предложение; ноль затронутых строк - конфликт
func respond(ctx context.Context, tx Repository, requestID uint, text string, state ds.RecordState) error {
	affected, err := tx.RespondToQuote(ctx, requestID, text, state)
	if err != nil {
		return fmt.Errorf("respond to quote: %w", err)
	}
	if affected == 0 {
		return ErrNoPendingQuote
	}
	return nil
}

// closeRevision отвечает на пересчитанный счёт, если он ещё ждёт ответа
func closeRevision(ctx context.Context, tx Repository, requestID uint, text string, state ds.RecordState) error {
	pending, err := tx.LatestPendingQuote(ctx, requestID)
	if err != nil {
		return fmt.Errorf("latest pending quote: %w", err)
	}
	if pending == nil {
		return nil
	}
	return respond(ctx, tx, requestID, text, state)
}

func amountDue(req *ds.ServiceRequest) float64 {
	if req.ManagerQuote == nil {
		return 0
	}
	return *req.ManagerQuote
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
