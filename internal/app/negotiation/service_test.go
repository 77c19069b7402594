package negotiation_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/negotiation/negotiationtest"
	"cleaning-backend/internal/app/role"
)

var (
	manager     = negotiation.Actor{UserID: 1, Role: role.Manager}
	client      = negotiation.Actor{UserID: 7, Role: role.Client}
	otherClient = negotiation.Actor{UserID: 8, Role: role.Client}

	scheduled = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)
}

type recordingNotifier struct {
	events []negotiation.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event negotiation.Event) error {
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) last() negotiation.Event {
	return n.events[len(n.events)-1]
}

func newService() (*negotiation.Service, *negotiationtest.Store, *recordingNotifier) {
	store := negotiationtest.NewStore()
	store.Now = fixedNow
	notifier := &recordingNotifier{}
	return negotiation.NewService(store, notifier).WithClock(fixedNow), store, notifier
}

func createRequest(t *testing.T, svc *negotiation.Service, owner negotiation.Actor) *ds.ServiceRequest {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), owner, negotiation.CreateRequestInput{
		ServiceType:   "Deep Clean",
		NumRooms:      3,
		RequestedDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		Address:       "12 Elm St",
		AddOutdoor:    true,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return req
}

func issueQuote(t *testing.T, svc *negotiation.Service, id uint, price float64) *ds.ServiceRequest {
	t.Helper()
	when := scheduled
	req, err := svc.IssueQuote(context.Background(), manager, id, negotiation.QuoteInput{Price: price, ScheduledTime: &when, Note: "two cleaners"})
	if err != nil {
		t.Fatalf("IssueQuote: %v", err)
	}
	return req
}

func acceptedRequest(t *testing.T, svc *negotiation.Service) *ds.ServiceRequest {
	t.Helper()
	req := createRequest(t, svc, client)
	issueQuote(t, svc, req.ID, 300)
	req, err := svc.AcceptQuote(context.Background(), client, req.ID, "")
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}
	return req
}

func completedRequest(t *testing.T, svc *negotiation.Service) *ds.ServiceRequest {
	t.Helper()
	req := acceptedRequest(t, svc)
	req, err := svc.Complete(context.Background(), manager, req.ID, "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	return req
}

func records(t *testing.T, svc *negotiation.Service, id uint) []ds.Record {
	t.Helper()
	recs, err := svc.ListRecords(context.Background(), manager, &id)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	return recs
}

func TestCreateRequest(t *testing.T) {
	svc, _, notifier := newService()
	req := createRequest(t, svc, client)

	if req.State != ds.StateNew {
		t.Fatalf("expected state new, got %s", req.State)
	}
	if req.SystemEstimate != 250 {
		t.Fatalf("expected estimate 250, got %v", req.SystemEstimate)
	}
	if req.ClientID != client.UserID {
		t.Fatalf("expected owner %d, got %d", client.UserID, req.ClientID)
	}
	if req.ManagerQuote != nil || req.CurrentQuoteID != nil {
		t.Fatalf("new request must not carry a quote: %+v", req)
	}

	recs := records(t, svc, req.ID)
	if recs == nil || len(recs) != 0 {
		t.Fatalf("expected empty ledger, got %#v", recs)
	}

	if len(notifier.events) != 1 || notifier.last().Type != negotiation.EventRequestCreated {
		t.Fatalf("expected request_created event, got %+v", notifier.events)
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	svc, _, _ := newService()
	valid := negotiation.CreateRequestInput{
		ServiceType:   "Basic",
		NumRooms:      2,
		RequestedDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Address:       "1 Main St",
	}

	tests := []struct {
		name  string
		edit  func(in *negotiation.CreateRequestInput)
		field string
	}{
		{"missing service type", func(in *negotiation.CreateRequestInput) { in.ServiceType = "" }, "service_type"},
		{"unknown service type", func(in *negotiation.CreateRequestInput) { in.ServiceType = "Windows" }, "service_type"},
		{"missing rooms", func(in *negotiation.CreateRequestInput) { in.NumRooms = 0 }, "num_rooms"},
		{"missing date", func(in *negotiation.CreateRequestInput) { in.RequestedDate = time.Time{} }, "requested_date"},
		{"blank address", func(in *negotiation.CreateRequestInput) { in.Address = "   " }, "address"},
		{"too many photos", func(in *negotiation.CreateRequestInput) { in.Photos = []string{"a", "b", "c", "d", "e", "f"} }, "photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := svc.CreateRequest(context.Background(), client, in)
			if !errors.Is(err, negotiation.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *negotiation.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected error on %s, got %v", tt.field, err)
			}
		})
	}

	if _, err := svc.CreateRequest(context.Background(), manager, valid); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("manager must not create requests, got %v", err)
	}
}

func TestAcceptQuote_RoundTrip(t *testing.T) {
	svc, store, notifier := newService()
	req := createRequest(t, svc, client)

	quoted := issueQuote(t, svc, req.ID, 300)
	if quoted.State != ds.StatePendingResponse {
		t.Fatalf("expected pending_response, got %s", quoted.State)
	}
	if notifier.last().Type != negotiation.EventQuoteIssued || notifier.last().Actor != role.Manager {
		t.Fatalf("unexpected event %+v", notifier.last())
	}

	accepted, err := svc.AcceptQuote(context.Background(), client, req.ID, "See you then")
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}
	if accepted.State != ds.StateAccepted {
		t.Fatalf("expected accepted, got %s", accepted.State)
	}
	if accepted.ManagerQuote == nil || *accepted.ManagerQuote != 300 {
		t.Fatalf("expected manager quote 300, got %v", accepted.ManagerQuote)
	}
	if accepted.ScheduledTime == nil || !accepted.ScheduledTime.Equal(scheduled) {
		t.Fatalf("expected scheduled time %v, got %v", scheduled, accepted.ScheduledTime)
	}

	recs := records(t, svc, req.ID)
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	quote := recs[0]
	if quote.ClientResponse == nil || !strings.HasPrefix(*quote.ClientResponse, "Accepted.") {
		t.Fatalf("unexpected client response %v", quote.ClientResponse)
	}
	if *quote.ClientResponse != "Accepted. See you then" {
		t.Fatalf("unexpected client response %q", *quote.ClientResponse)
	}
	if quote.State != ds.RecordAccepted || quote.ResponseTime == nil {
		t.Fatalf("quote not closed: %+v", quote)
	}
	if store.PendingQuoteCount(req.ID) != 0 {
		t.Fatal("expected no pending quotes after acceptance")
	}
}

func TestCounterOffer_RoundTrip(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)
	issueQuote(t, svc, req.ID, 300)

	countered, err := svc.CounterOffer(context.Background(), client, req.ID, negotiation.CounterInput{Price: 250, Note: "Too pricey"})
	if err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}
	if countered.State != ds.StateNew {
		t.Fatalf("expected state new, got %s", countered.State)
	}
	if countered.Round != 2 {
		t.Fatalf("expected round 2, got %d", countered.Round)
	}

	recs := records(t, svc, req.ID)
	if len(recs) != 2 {
		t.Fatalf("expected two records, got %d", len(recs))
	}

	original := recs[1]
	if original.State != ds.RecordRejected {
		t.Fatalf("expected original quote rejected, got %s", original.State)
	}
	if original.ClientResponse == nil || !strings.Contains(*original.ClientResponse, "Counter-offer: $250") {
		t.Fatalf("unexpected client response %v", original.ClientResponse)
	}

	var clientQuotes []ds.Record
	for _, rec := range recs {
		if rec.ItemType == ds.ItemQuote && rec.SenderName == ds.SenderClient {
			clientQuotes = append(clientQuotes, rec)
		}
	}
	if len(clientQuotes) != 1 {
		t.Fatalf("expected exactly one client quote, got %d", len(clientQuotes))
	}
	counter := clientQuotes[0]
	if counter.Price == nil || *counter.Price != 250 || counter.State != ds.RecordPending {
		t.Fatalf("unexpected counter record %+v", counter)
	}
	if counter.BusinessTime == nil || !counter.BusinessTime.Equal(scheduled) {
		t.Fatalf("counter should keep the proposed schedule, got %v", counter.BusinessTime)
	}
	if counter.ID != *countered.CurrentQuoteID {
		t.Fatalf("current quote should point at the counter offer")
	}
	if store.PendingQuoteCount(req.ID) != 1 {
		t.Fatalf("expected one pending quote, got %d", store.PendingQuoteCount(req.ID))
	}
}

func TestCounterOffer_NoteRepeatingPriceIsDropped(t *testing.T) {
	svc, _, _ := newService()
	req := createRequest(t, svc, client)
	issueQuote(t, svc, req.ID, 300)

	if _, err := svc.CounterOffer(context.Background(), client, req.ID, negotiation.CounterInput{Price: 120, Note: "120"}); err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}

	recs := records(t, svc, req.ID)
	if got := *recs[1].ClientResponse; got != "Counter-offer: $120." {
		t.Fatalf("unexpected response %q", got)
	}
	if recs[0].MessageBody != "" {
		t.Fatalf("expected counter without note, got %q", recs[0].MessageBody)
	}
}

func TestAcceptCounterOffer(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)
	issueQuote(t, svc, req.ID, 300)
	if _, err := svc.CounterOffer(context.Background(), client, req.ID, negotiation.CounterInput{Price: 250}); err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}

	accepted, err := svc.AcceptCounterOffer(context.Background(), manager, req.ID, negotiation.AcceptCounterInput{Note: "deal"})
	if err != nil {
		t.Fatalf("AcceptCounterOffer: %v", err)
	}
	if accepted.State != ds.StateAccepted {
		t.Fatalf("expected accepted, got %s", accepted.State)
	}
	if *accepted.ManagerQuote != 250 {
		t.Fatalf("expected manager quote 250, got %v", *accepted.ManagerQuote)
	}
	if !accepted.ScheduledTime.Equal(scheduled) {
		t.Fatalf("expected schedule from the counter offer, got %v", accepted.ScheduledTime)
	}

	recs := records(t, svc, req.ID)
	latest := recs[0]
	if latest.ItemType != ds.ItemQuote || latest.SenderName != ds.SenderManager || latest.State != ds.RecordAccepted || *latest.Price != 250 {
		t.Fatalf("unexpected confirmation record %+v", latest)
	}
	if recs[1].State != ds.RecordAccepted || !strings.HasPrefix(*recs[1].ClientResponse, "Accepted by manager.") {
		t.Fatalf("counter offer not closed: %+v", recs[1])
	}
	if store.PendingQuoteCount(req.ID) != 0 {
		t.Fatal("expected no pending quotes")
	}
}

func TestAcceptCounterOffer_WithoutCounter(t *testing.T) {
	svc, _, _ := newService()
	req := createRequest(t, svc, client)

	_, err := svc.AcceptCounterOffer(context.Background(), manager, req.ID, negotiation.AcceptCounterInput{})
	if !errors.Is(err, negotiation.ErrNoPendingQuote) {
		t.Fatalf("expected ErrNoPendingQuote, got %v", err)
	}
}

func TestIssueQuote_SupersedesUnansweredQuote(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)
	issueQuote(t, svc, req.ID, 300)
	revised := issueQuote(t, svc, req.ID, 280)

	if revised.State != ds.StatePendingResponse || *revised.ManagerQuote != 280 || revised.Round != 2 {
		t.Fatalf("unexpected request after second quote: %+v", revised)
	}
	recs := records(t, svc, req.ID)
	if recs[1].State != ds.RecordSuperseded {
		t.Fatalf("expected first quote superseded, got %s", recs[1].State)
	}
	if store.PendingQuoteCount(req.ID) != 1 {
		t.Fatalf("expected one pending quote, got %d", store.PendingQuoteCount(req.ID))
	}

	accepted, err := svc.AcceptQuote(context.Background(), client, req.ID, "")
	if err != nil {
		t.Fatalf("AcceptQuote: %v", err)
	}
	if *accepted.ManagerQuote != 280 {
		t.Fatalf("client must accept the latest quote, got %v", *accepted.ManagerQuote)
	}
}

func TestIssueQuote_Validation(t *testing.T) {
	svc, _, _ := newService()
	req := createRequest(t, svc, client)
	when := scheduled

	if _, err := svc.IssueQuote(context.Background(), manager, req.ID, negotiation.QuoteInput{Price: 0, ScheduledTime: &when}); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("expected ErrValidation for price, got %v", err)
	}
	if _, err := svc.IssueQuote(context.Background(), manager, req.ID, negotiation.QuoteInput{Price: 100}); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("expected ErrValidation for schedule, got %v", err)
	}
}

func TestPrices_MustFitStoredPrecision(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)
	when := scheduled
	ctx := context.Background()

	for _, price := range []float64{99.999, 1e9} {
		_, err := svc.IssueQuote(ctx, manager, req.ID, negotiation.QuoteInput{Price: price, ScheduledTime: &when})
		var validationErr *negotiation.ValidationError
		if !errors.As(err, &validationErr) || validationErr.Field != "price" {
			t.Fatalf("IssueQuote(%v): expected price validation error, got %v", price, err)
		}
	}
	if store.PendingQuoteCount(req.ID) != 0 {
		t.Fatal("rejected price must not reach the ledger")
	}

	issueQuote(t, svc, req.ID, 300)
	if _, err := svc.CounterOffer(ctx, client, req.ID, negotiation.CounterInput{Price: 249.995}); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("CounterOffer: expected ErrValidation, got %v", err)
	}

	budget := 1e10
	_, err := svc.CreateRequest(ctx, client, negotiation.CreateRequestInput{
		ServiceType:   "Basic",
		NumRooms:      1,
		RequestedDate: scheduled,
		Address:       "1 Oak St",
		ClientBudget:  &budget,
	})
	if !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("CreateRequest: expected ErrValidation for budget, got %v", err)
	}
}

func TestDecline(t *testing.T) {
	svc, _, _ := newService()
	req := createRequest(t, svc, client)

	if _, err := svc.Decline(context.Background(), manager, req.ID, " "); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	declined, err := svc.Decline(context.Background(), manager, req.ID, "Outside service area")
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if declined.State != ds.StateRejected {
		t.Fatalf("expected rejected, got %s", declined.State)
	}

	recs := records(t, svc, req.ID)
	if len(recs) != 1 || recs[0].ItemType != ds.ItemMessage || recs[0].SenderName != ds.SenderManager {
		t.Fatalf("expected manager message, got %+v", recs)
	}
	if !strings.Contains(recs[0].MessageBody, "Outside service area") || recs[0].State != ds.RecordSent {
		t.Fatalf("unexpected message %+v", recs[0])
	}

	when := scheduled
	_, err = svc.IssueQuote(context.Background(), manager, req.ID, negotiation.QuoteInput{Price: 100, ScheduledTime: &when})
	if !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("rejected request must be terminal, got %v", err)
	}
}

func TestDecline_ClosesCounterOffer(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)
	issueQuote(t, svc, req.ID, 300)
	if _, err := svc.CounterOffer(context.Background(), client, req.ID, negotiation.CounterInput{Price: 100}); err != nil {
		t.Fatalf("CounterOffer: %v", err)
	}

	if _, err := svc.Decline(context.Background(), manager, req.ID, "Price too low"); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if store.PendingQuoteCount(req.ID) != 0 {
		t.Fatal("counter offer should be closed")
	}
}

func TestCancel(t *testing.T) {
	svc, _, _ := newService()

	t.Run("pending quote", func(t *testing.T) {
		req := createRequest(t, svc, client)
		issueQuote(t, svc, req.ID, 300)

		cancelled, err := svc.Cancel(context.Background(), client, req.ID, "changed plans")
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if cancelled.State != ds.StateRejected {
			t.Fatalf("expected rejected, got %s", cancelled.State)
		}
		quote := records(t, svc, req.ID)[0]
		if quote.State != ds.RecordRejected || *quote.ClientResponse != "Cancelled. Reason: changed plans" {
			t.Fatalf("unexpected quote %+v", quote)
		}
	})

	t.Run("no quote yet", func(t *testing.T) {
		req := createRequest(t, svc, client)
		if _, err := svc.Cancel(context.Background(), client, req.ID, "found someone else"); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		recs := records(t, svc, req.ID)
		if len(recs) != 1 || recs[0].ItemType != ds.ItemMessage || recs[0].SenderName != ds.SenderClient {
			t.Fatalf("expected client message, got %+v", recs)
		}
	})
}

func TestCompletionAndPayment(t *testing.T) {
	svc, _, _ := newService()
	req := acceptedRequest(t, svc)

	completed, err := svc.Complete(context.Background(), manager, req.ID, "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.State != ds.StateCompleted {
		t.Fatalf("expected completed, got %s", completed.State)
	}
	wantDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if completed.CompletionDate == nil || !completed.CompletionDate.Equal(wantDate) {
		t.Fatalf("expected completion date %v, got %v", wantDate, completed.CompletionDate)
	}
	latest := records(t, svc, req.ID)[0]
	if latest.ItemType != ds.ItemMessage || latest.SenderName != ds.SenderManager {
		t.Fatalf("expected manager completion message, got %+v", latest)
	}

	paid, err := svc.SubmitPayment(context.Background(), client, req.ID)
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if !paid.ClientPaid || paid.IsPaid {
		t.Fatalf("expected client_paid without is_paid, got %+v", paid)
	}
	if paid.State != ds.StateCompleted {
		t.Fatalf("payment must not change state, got %s", paid.State)
	}
	if msg := records(t, svc, req.ID)[0]; msg.SenderName != ds.SenderClient || msg.MessageBody != "Payment submitted: $300." {
		t.Fatalf("unexpected payment message %+v", msg)
	}

	if _, err := svc.SubmitPayment(context.Background(), client, req.ID); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("second payment should be rejected, got %v", err)
	}

	confirmed, err := svc.ConfirmPayment(context.Background(), manager, req.ID)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if !confirmed.IsPaid || confirmed.CompletionDate == nil || confirmed.State != ds.StateCompleted {
		t.Fatalf("paid request must be completed with a date: %+v", confirmed)
	}
}

func TestDisputeAndRevision(t *testing.T) {
	svc, store, _ := newService()
	req := completedRequest(t, svc)

	if _, err := svc.Dispute(context.Background(), client, req.ID, ""); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	disputed, err := svc.Dispute(context.Background(), client, req.ID, "Kitchen was skipped")
	if err != nil {
		t.Fatalf("Dispute: %v", err)
	}
	if !disputed.IsDisputed || disputed.DisputeNote != "Kitchen was skipped" {
		t.Fatalf("dispute not stored: %+v", disputed)
	}

	if _, err := svc.ConfirmPayment(context.Background(), manager, req.ID); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("disputed bill cannot be confirmed, got %v", err)
	}
	if _, err := svc.SubmitPayment(context.Background(), client, req.ID); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("disputed bill cannot be paid, got %v", err)
	}

	revised, err := svc.ReviseBill(context.Background(), manager, req.ID, negotiation.QuoteInput{Price: 250, Note: "kitchen discount"})
	if err != nil {
		t.Fatalf("ReviseBill: %v", err)
	}
	if revised.IsDisputed {
		t.Fatal("revision must clear the dispute")
	}
	if *revised.ManagerQuote != 250 || revised.ManagerNote != "kitchen discount" {
		t.Fatalf("revision not applied: %+v", revised)
	}

	latest := records(t, svc, req.ID)[0]
	if latest.ItemType != ds.ItemQuote || latest.SenderName != ds.SenderManager || *latest.Price != 250 {
		t.Fatalf("expected revision quote, got %+v", latest)
	}
	if !strings.Contains(latest.MessageBody, "revised.") {
		t.Fatalf("revision body should mention the revision, got %q", latest.MessageBody)
	}
	if store.PendingQuoteCount(req.ID) != 1 {
		t.Fatalf("expected the revision to await payment, got %d pending", store.PendingQuoteCount(req.ID))
	}

	if _, err := svc.SubmitPayment(context.Background(), client, req.ID); err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if store.PendingQuoteCount(req.ID) != 0 {
		t.Fatal("payment should answer the revision")
	}
	if msg := records(t, svc, req.ID)[0]; msg.MessageBody != "Payment submitted: $250." {
		t.Fatalf("payment should use the revised amount, got %q", msg.MessageBody)
	}
}

func TestReviseBill_RequiresDispute(t *testing.T) {
	svc, _, _ := newService()
	req := completedRequest(t, svc)

	_, err := svc.ReviseBill(context.Background(), manager, req.ID, negotiation.QuoteInput{Price: 200})
	if !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	svc, _, _ := newService()
	fresh := createRequest(t, svc, client)

	if _, err := svc.AcceptQuote(context.Background(), client, fresh.ID, ""); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("accept on new: %v", err)
	}
	if _, err := svc.Complete(context.Background(), manager, fresh.ID, ""); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("complete on new: %v", err)
	}
	if _, err := svc.Dispute(context.Background(), client, fresh.ID, "no"); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("dispute on new: %v", err)
	}

	accepted := acceptedRequest(t, svc)
	if _, err := svc.Cancel(context.Background(), client, accepted.ID, ""); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("cancel on accepted: %v", err)
	}
	if _, err := svc.SubmitPayment(context.Background(), client, accepted.ID); !errors.Is(err, negotiation.ErrInvalidTransition) {
		t.Fatalf("pay before completion: %v", err)
	}
}

func TestAuthorization(t *testing.T) {
	svc, _, _ := newService()
	mine := createRequest(t, svc, client)
	theirs := createRequest(t, svc, otherClient)
	issueQuote(t, svc, mine.ID, 300)

	if _, err := svc.AcceptQuote(context.Background(), otherClient, mine.ID, ""); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("foreign client accepted a quote: %v", err)
	}
	if _, err := svc.GetRequest(context.Background(), otherClient, mine.ID); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("foreign client read a request: %v", err)
	}
	when := scheduled
	if _, err := svc.IssueQuote(context.Background(), client, mine.ID, negotiation.QuoteInput{Price: 1, ScheduledTime: &when}); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("client issued a quote: %v", err)
	}
	if _, err := svc.AcceptQuote(context.Background(), manager, mine.ID, ""); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("manager answered for the client: %v", err)
	}
	if _, err := svc.ListRecords(context.Background(), client, nil); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("client listed every record: %v", err)
	}
	if _, err := svc.AppendMessage(context.Background(), client, theirs.ID, "hello"); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("client wrote into a foreign thread: %v", err)
	}

	own, err := svc.ListRequests(context.Background(), client, "")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(own) != 1 || own[0].ID != mine.ID {
		t.Fatalf("client should only see own requests, got %+v", own)
	}
	all, err := svc.ListRequests(context.Background(), manager, "")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("manager should see all requests, got %d", len(all))
	}
	pending, err := svc.ListRequests(context.Background(), manager, ds.StatePendingResponse)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != mine.ID {
		t.Fatalf("unexpected state filter result %+v", pending)
	}
}

func TestNotFound(t *testing.T) {
	svc, _, _ := newService()

	if _, err := svc.AcceptQuote(context.Background(), client, 999, ""); !errors.Is(err, negotiation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetRequest(context.Background(), manager, 999); !errors.Is(err, negotiation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionIsAtomic(t *testing.T) {
	svc, store, notifier := newService()
	req := acceptedRequest(t, svc)
	events := len(notifier.events)
	before := len(records(t, svc, req.ID))

	boom := errors.New("disk full")
	store.Fail = func(op string) error {
		if op == "AppendMessage" {
			return boom
		}
		return nil
	}

	if _, err := svc.Complete(context.Background(), manager, req.ID, ""); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	store.Fail = nil

	current, err := svc.GetRequest(context.Background(), manager, req.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if current.State != ds.StateAccepted || current.CompletionDate != nil {
		t.Fatalf("failed transition left partial state: %+v", current)
	}
	if got := len(records(t, svc, req.ID)); got != before {
		t.Fatalf("expected %d records after rollback, got %d", before, got)
	}
	if len(notifier.events) != events {
		t.Fatal("no event should be published for a failed transition")
	}
}

func TestTransitionRollsBackLedgerOnSaveFailure(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)

	store.Fail = func(op string) error {
		if op == "SaveServiceRequest" {
			return errors.New("connection reset")
		}
		return nil
	}
	when := scheduled
	if _, err := svc.IssueQuote(context.Background(), manager, req.ID, negotiation.QuoteInput{Price: 300, ScheduledTime: &when}); err == nil {
		t.Fatal("expected error")
	}
	store.Fail = nil

	if recs := records(t, svc, req.ID); len(recs) != 0 {
		t.Fatalf("quote record must be rolled back, got %+v", recs)
	}
}

func TestSinglePendingQuoteInvariant(t *testing.T) {
	svc, store, _ := newService()
	req := createRequest(t, svc, client)
	ctx := context.Background()
	when := scheduled

	steps := []func() error{
		func() error {
			_, err := svc.IssueQuote(ctx, manager, req.ID, negotiation.QuoteInput{Price: 400, ScheduledTime: &when})
			return err
		},
		func() error {
			_, err := svc.IssueQuote(ctx, manager, req.ID, negotiation.QuoteInput{Price: 380, ScheduledTime: &when})
			return err
		},
		func() error {
			_, err := svc.CounterOffer(ctx, client, req.ID, negotiation.CounterInput{Price: 300})
			return err
		},
		func() error {
			_, err := svc.IssueQuote(ctx, manager, req.ID, negotiation.QuoteInput{Price: 340, ScheduledTime: &when})
			return err
		},
		func() error {
			_, err := svc.CounterOffer(ctx, client, req.ID, negotiation.CounterInput{Price: 320, Note: "final"})
			return err
		},
		func() error {
			_, err := svc.AcceptCounterOffer(ctx, manager, req.ID, negotiation.AcceptCounterInput{})
			return err
		},
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if n := store.PendingQuoteCount(req.ID); n > 1 {
			t.Fatalf("step %d left %d pending quotes", i, n)
		}
	}

	final, err := svc.GetRequest(ctx, client, req.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if final.State != ds.StateAccepted || *final.ManagerQuote != 320 {
		t.Fatalf("unexpected final request %+v", final)
	}
}

func TestAttachPhotos(t *testing.T) {
	svc, _, _ := newService()
	req := createRequest(t, svc, client)

	updated, err := svc.AttachPhotos(context.Background(), client, req.ID, []string{"a.jpg", "b.jpg", "c.jpg"})
	if err != nil {
		t.Fatalf("AttachPhotos: %v", err)
	}
	if len(updated.Photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(updated.Photos))
	}

	if _, err := svc.AttachPhotos(context.Background(), client, req.ID, []string{"d.jpg", "e.jpg", "f.jpg"}); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("expected photo limit error, got %v", err)
	}
	if _, err := svc.AttachPhotos(context.Background(), otherClient, req.ID, []string{"x.jpg"}); !errors.Is(err, negotiation.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	current, _ := svc.GetRequest(context.Background(), client, req.ID)
	if len(current.Photos) != 3 {
		t.Fatalf("rejected upload must not change photos, got %v", current.Photos)
	}
}

func TestAppendMessage(t *testing.T) {
	svc, _, notifier := newService()
	req := createRequest(t, svc, client)

	if _, err := svc.AppendMessage(context.Background(), client, req.ID, "  "); !errors.Is(err, negotiation.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	clientMsg, err := svc.AppendMessage(context.Background(), client, req.ID, "Gate code is 1234")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	managerMsg, err := svc.AppendMessage(context.Background(), manager, req.ID, "Thanks")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if managerMsg <= clientMsg {
		t.Fatalf("record ids must grow: %d then %d", clientMsg, managerMsg)
	}

	recs := records(t, svc, req.ID)
	if recs[0].ID != managerMsg || recs[0].SenderName != ds.SenderManager {
		t.Fatalf("expected newest first, got %+v", recs)
	}
	if recs[1].SenderName != ds.SenderClient || recs[1].State != ds.RecordSent {
		t.Fatalf("unexpected client message %+v", recs[1])
	}
	if notifier.last().Type != negotiation.EventMessagePosted {
		t.Fatalf("unexpected event %+v", notifier.last())
	}
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	svc, _, notifier := newService()
	req := createRequest(t, svc, client)
	notifier.err = errors.New("redis down")

	quoted := issueQuote(t, svc, req.ID, 300)
	if quoted.State != ds.StatePendingResponse {
		t.Fatalf("expected pending_response, got %s", quoted.State)
	}
	event := notifier.last()
	if event.RequestID != req.ID || event.ClientID != client.UserID || event.State != ds.StatePendingResponse {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Amount == nil || *event.Amount != 300 {
		t.Fatalf("unexpected event amount %v", event.Amount)
	}
}
