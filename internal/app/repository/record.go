package repository

import (
	"context"
	"time"

	"cleaning-backend/internal/app/ds"
)

// Журнал переговоров: предложения и сообщения по заявке

func (r *Repository) ListRecords(ctx context.Context, requestID *uint) ([]ds.Record, error) {
	query := r.db.WithContext(ctx).Order("id DESC")
	if requestID != nil {
		query = query.Where("request_id = ?", *requestID)
	}

	records := make([]ds.Record, 0)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Последнее неотвеченное предложение, nil если его нет
func (r *Repository) LatestPendingQuote(ctx context.Context, requestID uint) (*ds.Record, error) {
	var records []ds.Record
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND item_type = ? AND state = ?", requestID, ds.ItemQuote, ds.RecordPending).
		Order("id DESC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *Repository) AppendQuote(ctx context.Context, draft ds.QuoteDraft) (uint, error) {
	state := draft.State
	if state == "" {
		state = ds.RecordPending
	}
	price := draft.Price

	record := ds.Record{
		RequestID:    draft.RequestID,
		Round:        draft.Round,
		ItemType:     ds.ItemQuote,
		Price:        &price,
		BusinessTime: draft.BusinessTime,
		SenderName:   draft.Sender,
		MessageBody:  draft.Note,
		State:        state,
		CreatedAt:    time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

// Отвечает на последнее неотвеченное предложение. Возвращает число изменённых строк (0 или 1)
func (r *Repository) RespondToQuote(ctx context.Context, requestID uint, responseText string, responseState ds.RecordState) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE records SET client_response = ?, response_time = ?, state = ?
		WHERE id = (
			SELECT id FROM records
			WHERE request_id = ? AND item_type = ? AND state = ?
			ORDER BY id DESC LIMIT 1
		)`,
		responseText, time.Now(), responseState,
		requestID, ds.ItemQuote, ds.RecordPending,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Repository) SupersedePendingQuotes(ctx context.Context, requestID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ds.Record{}).
		Where("request_id = ? AND item_type = ? AND state = ?", requestID, ds.ItemQuote, ds.RecordPending).
		Update("state", ds.RecordSuperseded)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Repository) AppendMessage(ctx context.Context, requestID uint, sender ds.Sender, body string) (uint, error) {
	record := ds.Record{
		RequestID:   requestID,
		ItemType:    ds.ItemMessage,
		SenderName:  sender,
		MessageBody: body,
		State:       ds.RecordSent,
		CreatedAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}
