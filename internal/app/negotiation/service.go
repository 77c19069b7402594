// Package negotiation реализует жизненный цикл заявки на уборку:
// предложение цены, встречные предложения, завершение, оплату и спор по счёту.
//
// Каждый переход выполняется одной транзакцией: строка заявки блокируется,
// проверяются состояние и владелец, затем изменяются заявка и журнал записей.
// Уведомления отправляются только после фиксации транзакции.
package negotiation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/pricing"
	"cleaning-backend/internal/app/role"

	"github.com/sirupsen/logrus"
)

// Actor пользователь сессии, от имени которого выполняется операция
type Actor struct {
	UserID uint
	Role   role.Role
}

func (a Actor) sender() ds.Sender {
	if a.Role == role.Manager {
		return ds.SenderManager
	}
	return ds.SenderClient
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateRequestInput struct {
	ServiceType   string
	NumRooms      int
	RequestedDate time.Time
	Address       string
	Note          string
	Photos        []string
	ClientBudget  *float64
	AddOutdoor    bool
}

func (in CreateRequestInput) validate() error {
	if strings.TrimSpace(in.ServiceType) == "" {
		return missingField("service_type")
	}
	if !pricing.IsServiceType(in.ServiceType) {
		return invalidField("service_type", "must be one of "+strings.Join(pricing.ServiceTypes(), ", "))
	}
	if in.NumRooms == 0 {
		return missingField("num_rooms")
	}
	if in.NumRooms < 0 {
		return invalidField("num_rooms", "must be positive")
	}
	if in.RequestedDate.IsZero() {
		return missingField("requested_date")
	}
	if strings.TrimSpace(in.Address) == "" {
		return missingField("address")
	}
	if len(in.Photos) > ds.MaxPhotos {
		return invalidField("photos", fmt.Sprintf("at most %d photos allowed", ds.MaxPhotos))
	}
	if in.ClientBudget != nil {
		if *in.ClientBudget < 0 {
			return invalidField("client_budget", "must not be negative")
		}
		if err := pricing.ValidateAmount(*in.ClientBudget); err != nil {
			return invalidField("client_budget", err.Error())
		}
	}
	return nil
}

// CreateRequest создаёт заявку клиента в состоянии new
func (s *Service) CreateRequest(ctx context.Context, actor Actor, in CreateRequestInput) (*ds.ServiceRequest, error) {
	if actor.Role != role.Client {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	estimate, err := pricing.Estimate(in.ServiceType, in.NumRooms, in.AddOutdoor)
	if err != nil {
		return nil, invalidField("service_type", err.Error())
	}

	req := &ds.ServiceRequest{
		ClientID:       actor.UserID,
		ServiceType:    in.ServiceType,
		NumRooms:       in.NumRooms,
		RequestedDate:  in.RequestedDate,
		Address:        strings.TrimSpace(in.Address),
		Note:           strings.TrimSpace(in.Note),
		Photos:         in.Photos,
		ClientBudget:   in.ClientBudget,
		SystemEstimate: estimate,
		AddOutdoor:     in.AddOutdoor,
		State:          ds.StateNew,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateServiceRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}

	s.publish(ctx, req, &Event{Type: EventRequestCreated, Actor: actor.Role, Amount: &req.SystemEstimate})
	return req, nil
}

// GetRequest возвращает заявку, если пользователь имеет к ней доступ
func (s *Service) GetRequest(ctx context.Context, actor Actor, id uint) (*ds.ServiceRequest, error) {
	req, err := s.repo.GetServiceRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListRequests клиенту отдаёт только его заявки, менеджеру - все
func (s *Service) ListRequests(ctx context.Context, actor Actor, state ds.RequestState) ([]ds.ServiceRequest, error) {
	if !actor.Role.Valid() {
		return nil, ErrForbidden
	}
	if state != "" && !state.Valid() {
		return nil, invalidField("state", "unknown state")
	}

	filter := RequestFilter{State: state}
	if actor.Role == role.Client {
		clientID := actor.UserID
		filter.ClientID = &clientID
	}
	return s.repo.ListServiceRequests(ctx, filter)
}

// AttachPhotos добавляет пути загруженных фото к заявке
func (s *Service) AttachPhotos(ctx context.Context, actor Actor, id uint, paths []string) (*ds.ServiceRequest, error) {
	if actor.Role != role.Client {
		return nil, ErrForbidden
	}
	if len(paths) == 0 {
		return nil, missingField("photos")
	}

	var updated *ds.ServiceRequest
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		req, err := tx.LockServiceRequest(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, req); err != nil {
			return err
		}
		if req.State == ds.StateRejected {
			return ErrInvalidTransition
		}
		if len(req.Photos)+len(paths) > ds.MaxPhotos {
			return invalidField("photos", fmt.Sprintf("at most %d photos allowed", ds.MaxPhotos))
		}

		req.Photos = append(req.Photos, paths...)
		if err := tx.SaveServiceRequest(ctx, req); err != nil {
			return fmt.Errorf("save service request: %w", err)
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListRecords журнал записей, новые сверху. Без requestID доступен только менеджеру
func (s *Service) ListRecords(ctx context.Context, actor Actor, requestID *uint) ([]ds.Record, error) {
	if requestID == nil {
		if actor.Role != role.Manager {
			return nil, ErrForbidden
		}
		return s.repo.ListRecords(ctx, nil)
	}

	if _, err := s.GetRequest(ctx, actor, *requestID); err != nil {
		return nil, err
	}
	return s.repo.ListRecords(ctx, requestID)
}

// AppendMessage добавляет сообщение в переписку по заявке
func (s *Service) AppendMessage(ctx context.Context, actor Actor, id uint, body string) (uint, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return 0, missingField("message_body")
	}
	if !actor.Role.Valid() {
		return 0, ErrForbidden
	}

	var (
		recordID uint
		req      *ds.ServiceRequest
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		locked, err := tx.LockServiceRequest(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, locked); err != nil {
			return err
		}
		recordID, err = tx.AppendMessage(ctx, locked.ID, actor.sender(), body)
		if err != nil {
			return fmt.Errorf("append message: %w", err)
		}
		req = locked
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, req, &Event{Type: EventMessagePosted, Actor: actor.Role, Message: body})
	return recordID, nil
}

// step изменяет заблокированную заявку внутри транзакции и описывает событие
type step func(tx Repository, req *ds.ServiceRequest) (*Event, error)

// apply выполняет переход атомарно: блокировка, проверки, запись заявки и журнала
func (s *Service) apply(ctx context.Context, actor Actor, id uint, allowed role.Role, fn step) (*ds.ServiceRequest, error) {
	if actor.Role != allowed {
		return nil, ErrForbidden
	}

	var (
		updated *ds.ServiceRequest
		event   *Event
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		req, err := tx.LockServiceRequest(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, req); err != nil {
			return err
		}

		ev, err := fn(tx, req)
		if err != nil {
			return err
		}
		if err := tx.SaveServiceRequest(ctx, req); err != nil {
			return fmt.Errorf("save service request: %w", err)
		}

		updated, event = req, ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		event.Actor = actor.Role
	}
	s.publish(ctx, updated, event)
	return updated, nil
}

func authorize(actor Actor, req *ds.ServiceRequest) error {
	switch actor.Role {
	case role.Manager:
		return nil
	case role.Client:
		if req.ClientID == actor.UserID {
			return nil
		}
	}
	return ErrForbidden
}

func (s *Service) publish(ctx context.Context, req *ds.ServiceRequest, event *Event) {
	if s.notifier == nil || event == nil || req == nil {
		return
	}

	event.RequestID = req.ID
	event.ClientID = req.ClientID
	event.State = req.State
	event.OccurredAt = s.now()

	if err := s.notifier.Notify(ctx, *event); err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": req.ID,
			"event":      event.Type,
		}).Warnf("failed to deliver negotiation event: %v", err)
	}
}
