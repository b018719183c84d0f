package handler

import (
	"context"

	"github.com/locadora/reservation-service/internal/model"
	"github.com/locadora/reservation-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	GetReservation(ctx context.Context, id string) (model.Reservation, error)
	CheckConflicts(ctx context.Context, reservaID string) (model.ConflictReport, error)
}

var _ ReservationService = (*service.Service)(nil)
