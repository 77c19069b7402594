// Package negotiationtest содержит хранилище в памяти для тестов пакета negotiation и обработчиков.
// Транзакции выполняются последовательно, при ошибке состояние откатывается к снимку.
package negotiationtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"
)

type data struct {
	requests  map[uint]ds.ServiceRequest
	records   []ds.Record
	nextReqID uint
	nextRecID uint
}

func (d *data) clone() *data {
	c := &data{
		requests:  make(map[uint]ds.ServiceRequest, len(d.requests)),
		records:   make([]ds.Record, len(d.records)),
		nextReqID: d.nextReqID,
		nextRecID: d.nextRecID,
	}
	for id, req := range d.requests {
		c.requests[id] = copyRequest(req)
	}
	copy(c.records, d.records)
	return c
}

type Store struct {
	mu   sync.Mutex
	data *data

	// Fail, если задан, может вернуть ошибку для операции по её имени (например "AppendMessage")
	Fail func(op string) error
	Now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: &data{requests: map[uint]ds.ServiceRequest{}},
		Now:  time.Now,
	}
}

var _ negotiation.Repository = (*Store)(nil)

func (s *Store) Transaction(ctx context.Context, fn func(tx negotiation.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&txStore{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) CreateServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createServiceRequest(req)
}

func (s *Store) GetServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getServiceRequest(id)
}

func (s *Store) LockServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getServiceRequest(id)
}

func (s *Store) SaveServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveServiceRequest(req)
}

func (s *Store) ListServiceRequests(ctx context.Context, filter negotiation.RequestFilter) ([]ds.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listServiceRequests(filter)
}

func (s *Store) ListRecords(ctx context.Context, requestID *uint) ([]ds.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRecords(requestID)
}

func (s *Store) LatestPendingQuote(ctx context.Context, requestID uint) (*ds.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestPendingQuote(requestID)
}

func (s *Store) AppendQuote(ctx context.Context, draft ds.QuoteDraft) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendQuote(draft)
}

func (s *Store) RespondToQuote(ctx context.Context, requestID uint, responseText string, responseState ds.RecordState) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.respondToQuote(requestID, responseText, responseState)
}

func (s *Store) SupersedePendingQuotes(ctx context.Context, requestID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supersedePendingQuotes(requestID)
}

func (s *Store) AppendMessage(ctx context.Context, requestID uint, sender ds.Sender, body string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendMessage(requestID, sender, body)
}

// PendingQuoteCount число неотвеченных предложений по заявке
func (s *Store) PendingQuoteCount(requestID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, rec := range s.data.records {
		if rec.RequestID == requestID && rec.ItemType == ds.ItemQuote && rec.State == ds.RecordPending {
			count++
		}
	}
	return count
}

// txStore работает под уже захваченным мьютексом хранилища
type txStore struct {
	s *Store
}

func (t *txStore) Transaction(ctx context.Context, fn func(tx negotiation.Repository) error) error {
	return fn(t)
}

func (t *txStore) CreateServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	return t.s.createServiceRequest(req)
}

func (t *txStore) GetServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error) {
	return t.s.getServiceRequest(id)
}

func (t *txStore) LockServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error) {
	return t.s.getServiceRequest(id)
}

func (t *txStore) SaveServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	return t.s.saveServiceRequest(req)
}

func (t *txStore) ListServiceRequests(ctx context.Context, filter negotiation.RequestFilter) ([]ds.ServiceRequest, error) {
	return t.s.listServiceRequests(filter)
}

func (t *txStore) ListRecords(ctx context.Context, requestID *uint) ([]ds.Record, error) {
	return t.s.listRecords(requestID)
}

func (t *txStore) LatestPendingQuote(ctx context.Context, requestID uint) (*ds.Record, error) {
	return t.s.latestPendingQuote(requestID)
}

func (t *txStore) AppendQuote(ctx context.Context, draft ds.QuoteDraft) (uint, error) {
	return t.s.appendQuote(draft)
}

func (t *txStore) RespondToQuote(ctx context.Context, requestID uint, responseText string, responseState ds.RecordState) (int64, error) {
	return t.s.respondToQuote(requestID, responseText, responseState)
}

func (t *txStore) SupersedePendingQuotes(ctx context.Context, requestID uint) (int64, error) {
	return t.s.supersedePendingQuotes(requestID)
}

func (t *txStore) AppendMessage(ctx context.Context, requestID uint, sender ds.Sender, body string) (uint, error) {
	return t.s.appendMessage(requestID, sender, body)
}

func (s *Store) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func (s *Store) createServiceRequest(req *ds.ServiceRequest) error {
	if err := s.fail("CreateServiceRequest"); err != nil {
		return err
	}
	s.data.nextReqID++
	req.ID = s.data.nextReqID
	if req.CreatedAt.IsZero() {
		req.CreatedAt = s.Now()
	}
	req.UpdatedAt = req.CreatedAt
	s.data.requests[req.ID] = copyRequest(*req)
	return nil
}

func (s *Store) getServiceRequest(id uint) (*ds.ServiceRequest, error) {
	if err := s.fail("GetServiceRequest"); err != nil {
		return nil, err
	}
	req, ok := s.data.requests[id]
	if !ok {
		return nil, fmt.Errorf("service request %d: %w", id, negotiation.ErrNotFound)
	}
	out := copyRequest(req)
	return &out, nil
}

func (s *Store) saveServiceRequest(req *ds.ServiceRequest) error {
	if err := s.fail("SaveServiceRequest"); err != nil {
		return err
	}
	if _, ok := s.data.requests[req.ID]; !ok {
		return fmt.Errorf("service request %d: %w", req.ID, negotiation.ErrNotFound)
	}
	req.UpdatedAt = s.Now()
	s.data.requests[req.ID] = copyRequest(*req)
	return nil
}

func (s *Store) listServiceRequests(filter negotiation.RequestFilter) ([]ds.ServiceRequest, error) {
	out := make([]ds.ServiceRequest, 0, len(s.data.requests))
	for _, req := range s.data.requests {
		if filter.ClientID != nil && req.ClientID != *filter.ClientID {
			continue
		}
		if filter.State != "" && req.State != filter.State {
			continue
		}
		out = append(out, copyRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) listRecords(requestID *uint) ([]ds.Record, error) {
	if err := s.fail("ListRecords"); err != nil {
		return nil, err
	}
	out := make([]ds.Record, 0)
	for i := len(s.data.records) - 1; i >= 0; i-- {
		rec := s.data.records[i]
		if requestID != nil && rec.RequestID != *requestID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) latestPendingQuote(requestID uint) (*ds.Record, error) {
	if idx := s.latestPendingIndex(requestID); idx >= 0 {
		rec := s.data.records[idx]
		return &rec, nil
	}
	return nil, nil
}

func (s *Store) latestPendingIndex(requestID uint) int {
	for i := len(s.data.records) - 1; i >= 0; i-- {
		rec := s.data.records[i]
		if rec.RequestID == requestID && rec.ItemType == ds.ItemQuote && rec.State == ds.RecordPending {
			return i
		}
	}
	return -1
}

func (s *Store) appendQuote(draft ds.QuoteDraft) (uint, error) {
	if err := s.fail("AppendQuote"); err != nil {
		return 0, err
	}
	state := draft.State
	if state == "" {
		state = ds.RecordPending
	}
	price := draft.Price
	return s.insert(ds.Record{
		RequestID:    draft.RequestID,
		Round:        draft.Round,
		ItemType:     ds.ItemQuote,
		Price:        &price,
		BusinessTime: draft.BusinessTime,
		SenderName:   draft.Sender,
		MessageBody:  draft.Note,
		State:        state,
	}), nil
}

func (s *Store) respondToQuote(requestID uint, responseText string, responseState ds.RecordState) (int64, error) {
	if err := s.fail("RespondToQuote"); err != nil {
		return 0, err
	}
	idx := s.latestPendingIndex(requestID)
	if idx < 0 {
		return 0, nil
	}
	now := s.Now()
	text := responseText
	s.data.records[idx].ClientResponse = &text
	s.data.records[idx].ResponseTime = &now
	s.data.records[idx].State = responseState
	return 1, nil
}

func (s *Store) supersedePendingQuotes(requestID uint) (int64, error) {
	if err := s.fail("SupersedePendingQuotes"); err != nil {
		return 0, err
	}
	var affected int64
	for i := range s.data.records {
		rec := &s.data.records[i]
		if rec.RequestID == requestID && rec.ItemType == ds.ItemQuote && rec.State == ds.RecordPending {
			rec.State = ds.RecordSuperseded
			affected++
		}
	}
	return affected, nil
}

func (s *Store) appendMessage(requestID uint, sender ds.Sender, body string) (uint, error) {
	if err := s.fail("AppendMessage"); err != nil {
		return 0, err
	}
	return s.insert(ds.Record{
		RequestID:   requestID,
		ItemType:    ds.ItemMessage,
		SenderName:  sender,
		MessageBody: body,
		State:       ds.RecordSent,
	}), nil
}

func (s *Store) insert(rec ds.Record) uint {
	s.data.nextRecID++
	rec.ID = s.data.nextRecID
	rec.CreatedAt = s.Now()
	s.data.records = append(s.data.records, rec)
	return rec.ID
}

func copyRequest(req ds.ServiceRequest) ds.ServiceRequest {
	if req.Photos != nil {
		photos := make([]string, len(req.Photos))
		copy(photos, req.Photos)
		req.Photos = photos
	}
	return req
}
