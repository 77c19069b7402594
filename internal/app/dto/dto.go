package dto

import (
	"time"

	"cleaning-backend/internal/app/ds"

	"github.com/samber/lo"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Пользователи ============

type RegisterRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone" binding:"omitempty,max=30"`
	Address    string `json:"address" binding:"omitempty,max=255"`
	CardNumber string `json:"card_number" binding:"omitempty,numeric,min=12,max=19"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ManagerLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ClientResponse struct {
	ID         uint   `json:"id"`
	ClientCode string `json:"client_code"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	CardLast4  string `json:"card_last4,omitempty"`
}

// UserResponse текущий пользователь сессии (клиент или менеджер)
type UserResponse struct {
	ID         uint   `json:"id"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	ClientCode string `json:"client_code,omitempty"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"`
	User      UserResponse `json:"user"`
}

func NewClientResponse(c ds.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		ClientCode: c.Code(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		CardLast4:  c.CardReference,
	}
}

// ============ Оценка стоимости ============

type EstimateQuery struct {
	ServiceType string `form:"service_type" binding:"required,service_type"`
	NumRooms    int    `form:"num_rooms" binding:"required,gte=1,lte=50"`
	AddOutdoor  bool   `form:"add_outdoor"`
}

type EstimateResponse struct {
	ServiceType string  `json:"service_type"`
	NumRooms    int     `json:"num_rooms"`
	AddOutdoor  bool    `json:"add_outdoor"`
	Estimate    float64 `json:"estimate"`
}

// ============ Заявки ============

type CreateServiceRequest struct {
	ServiceType   string   `json:"service_type" binding:"required,service_type"`
	NumRooms      int      `json:"num_rooms" binding:"required,gte=1,lte=50"`
	RequestedDate string   `json:"requested_date" binding:"required,datetime=2006-01-02"`
	Address       string   `json:"address" binding:"required,max=255"`
	Note          string   `json:"note"`
	ClientBudget  *float64 `json:"client_budget" binding:"omitempty,gte=0"`
	AddOutdoor    bool     `json:"add_outdoor"`
}

type QuoteRequest struct {
	Price         float64   `json:"price" binding:"required,gt=0"`
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	Note          string    `json:"note"`
}

type AcceptCounterRequest struct {
	ScheduledTime *time.Time `json:"scheduled_time"`
	Note          string     `json:"note"`
}

type DeclineRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// QuoteResponseRequest ответ клиента на предложение: accept, counter или cancel
type QuoteResponseRequest struct {
	Action       string     `json:"action" binding:"required,oneof=accept counter cancel"`
	Price        float64    `json:"price" binding:"omitempty,gt=0"`
	Note         string     `json:"note"`
	ProposedTime *time.Time `json:"proposed_time"`
}

type CompleteRequest struct {
	Note string `json:"note"`
}

type DisputeRequest struct {
	DisputeNote string `json:"dispute_note" binding:"required"`
}

type ReviseBillRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
	Note  string  `json:"note"`
}

type ServiceRequestResponse struct {
	ID             uint       `json:"id"`
	ClientID       uint       `json:"client_id"`
	ClientCode     string     `json:"client_code,omitempty"`
	ClientName     string     `json:"client_name,omitempty"`
	ServiceType    string     `json:"service_type"`
	NumRooms       int        `json:"num_rooms"`
	RequestedDate  string     `json:"requested_date"`
	Address        string     `json:"address"`
	Note           string     `json:"note,omitempty"`
	Photos         []string   `json:"photos"`
	ClientBudget   *float64   `json:"client_budget,omitempty"`
	SystemEstimate float64    `json:"system_estimate"`
	AddOutdoor     bool       `json:"add_outdoor"`
	ManagerQuote   *float64   `json:"manager_quote,omitempty"`
	ScheduledTime  *time.Time `json:"scheduled_time,omitempty"`
	ManagerNote    string     `json:"manager_note,omitempty"`
	CurrentQuoteID *uint      `json:"current_quote_id,omitempty"`
	Round          int        `json:"round"`
	IsPaid         bool       `json:"is_paid"`
	ClientPaid     bool       `json:"client_paid"`
	IsDisputed     bool       `json:"is_disputed"`
	DisputeNote    string     `json:"dispute_note,omitempty"`
	CompletionDate *string    `json:"completion_date,omitempty"`
	State          string     `json:"state"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ServiceRequestListResponse struct {
	Requests []ServiceRequestResponse `json:"requests"`
	Total    int                      `json:"total"`
}

// NewServiceRequestResponse photoURL превращает ключи фото в адреса
func NewServiceRequestResponse(r ds.ServiceRequest, photoURL func(string) string) ServiceRequestResponse {
	resp := ServiceRequestResponse{
		ID:             r.ID,
		ClientID:       r.ClientID,
		ServiceType:    r.ServiceType,
		NumRooms:       r.NumRooms,
		RequestedDate:  r.RequestedDate.Format("2006-01-02"),
		Address:        r.Address,
		Note:           r.Note,
		Photos:         lo.Map(r.Photos, func(key string, _ int) string { return photoURL(key) }),
		ClientBudget:   r.ClientBudget,
		SystemEstimate: r.SystemEstimate,
		AddOutdoor:     r.AddOutdoor,
		ManagerQuote:   r.ManagerQuote,
		ScheduledTime:  r.ScheduledTime,
		ManagerNote:    r.ManagerNote,
		CurrentQuoteID: r.CurrentQuoteID,
		Round:          r.Round,
		IsPaid:         r.IsPaid,
		ClientPaid:     r.ClientPaid,
		IsDisputed:     r.IsDisputed,
		DisputeNote:    r.DisputeNote,
		State:          string(r.State),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Client.ID != 0 {
		resp.ClientCode = r.Client.Code()
		resp.ClientName = r.Client.FullName()
	}
	if r.CompletionDate != nil {
		date := r.CompletionDate.Format("2006-01-02")
		resp.CompletionDate = &date
	}
	return resp
}

func NewServiceRequestList(requests []ds.ServiceRequest, photoURL func(string) string) ServiceRequestListResponse {
	items := lo.Map(requests, func(r ds.ServiceRequest, _ int) ServiceRequestResponse {
		return NewServiceRequestResponse(r, photoURL)
	})
	return ServiceRequestListResponse{Requests: items, Total: len(items)}
}

// ============ Журнал (Records) ============

type CreateMessageRequest struct {
	MessageBody string `json:"message_body" binding:"required"`
}

type RecordResponse struct {
	ID             uint       `json:"id"`
	RequestID      uint       `json:"request_id"`
	Round          int        `json:"round"`
	ItemType       string     `json:"item_type"`
	Price          *float64   `json:"price,omitempty"`
	BusinessTime   *time.Time `json:"business_time,omitempty"`
	SenderName     string     `json:"sender_name"`
	MessageBody    string     `json:"message_body,omitempty"`
	State          string     `json:"state"`
	ClientResponse *string    `json:"client_response"`
	ResponseTime   *time.Time `json:"response_time"`
	CreatedAt      time.Time  `json:"created_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}

func NewRecordResponse(r ds.Record) RecordResponse {
	return RecordResponse{
		ID:             r.ID,
		RequestID:      r.RequestID,
		Round:          r.Round,
		ItemType:       string(r.ItemType),
		Price:          r.Price,
		BusinessTime:   r.BusinessTime,
		SenderName:     string(r.SenderName),
		MessageBody:    r.MessageBody,
		State:          string(r.State),
		ClientResponse: r.ClientResponse,
		ResponseTime:   r.ResponseTime,
		CreatedAt:      r.CreatedAt,
	}
}

func NewRecordList(records []ds.Record) RecordListResponse {
	items := lo.Map(records, func(r ds.Record, _ int) RecordResponse { return NewRecordResponse(r) })
	return RecordListResponse{Records: items, Total: len(items)}
}
