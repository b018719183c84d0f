package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/errs"
	"github.com/locadora/reservation-service/internal/metrics"
	"github.com/locadora/reservation-service/internal/model"
	"github.com/locadora/reservation-service/internal/repository"
	"github.com/locadora/reservation-service/pkg/kafka"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	enq      Enqueuer
	notifier Notifier
	metrics  *metrics.ValidationMetrics
}

func NewService(repo repository.Repository, enq Enqueuer, notifier Notifier, m *metrics.ValidationMetrics, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		enq:      enq,
		notifier: notifier,
		metrics:  m,
	}
}

// CreateReservation persists a pending, not-yet-validated reservation and
// announces it on the reservations.created topic. The reservation is kept even
// if the announcement fails: the sweep picks up unvalidated rows later.
func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	if req.StartDate.After(req.EndDate.Time) {
		return model.Reservation{}, errs.ErrInvalidDateRange
	}

	res := model.Reservation{
		ID:          uuid.NewString(),
		EquipmentID: req.EquipmentUid,
		Username:    req.UserName,
		UserEmail:   req.UserEmail,
		OrderID:     req.OrderUid,
		Status:      model.StatusPending,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
	}

	created, err := s.repo.CreateReservation(ctx, res)
	if err != nil {
		return model.Reservation{}, err
	}

	if err := s.enq.Enqueue(kafka.ReservationsCreatedTopic, created); err != nil {
		s.log.Warn("enqueue reservation created",
			zap.String("reservation", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *Service) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}
