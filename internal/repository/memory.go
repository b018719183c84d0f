package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/locadora/reservation-service/internal/errs"
	"github.com/locadora/reservation-service/internal/model"
)

// memoryRepository is an in-process Repository for local development and tests.
type memoryRepository struct {
	mu           sync.RWMutex
	reservations map[string]model.Reservation
	orders       map[string]model.Order
}

func NewMemoryRepository() *memoryRepository {
	return &memoryRepository{
		reservations: make(map[string]model.Reservation),
		orders:       make(map[string]model.Order),
	}
}

var _ Repository = (*memoryRepository)(nil)

func (r *memoryRepository) CreateReservation(_ context.Context, res model.Reservation) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reservations[res.ID]; exists {
		return model.Reservation{}, errs.ErrAlreadyExists
	}
	now := time.Now().UTC()
	res.Validated = false
	res.CreatedAt = now
	res.UpdatedAt = now
	r.reservations[res.ID] = res
	return res, nil
}

func (r *memoryRepository) GetReservation(_ context.Context, id string) (model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return res, nil
}

func (r *memoryRepository) ListActiveByEquipment(_ context.Context, equipmentID string) ([]model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []model.Reservation
	for _, res := range r.reservations {
		if res.EquipmentID == equipmentID && res.Status.IsActive() {
			items = append(items, res)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartDate.Equal(items[j].StartDate) {
			return items[i].StartDate.Before(items[j].StartDate)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *memoryRepository) ListUnvalidated(_ context.Context, olderThan time.Time, limit int) ([]model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []model.Reservation
	for _, res := range r.reservations {
		if !res.Validated && !res.ValidationError && !res.CreatedAt.After(olderThan) {
			items = append(items, res)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *memoryRepository) MarkValidated(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return errs.ErrNotFound
	}
	res.Validated = true
	res.ValidatedAt = &at
	res.UpdatedAt = time.Now().UTC()
	r.reservations[id] = res
	return nil
}

func (r *memoryRepository) RejectReservation(_ context.Context, id, conflictingID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return errs.ErrNotFound
	}
	res.Status = model.StatusRejected
	res.RejectionReason = model.ReasonConflictDates
	res.ConflictingReservationID = conflictingID
	res.Validated = true
	res.ValidatedAt = &at
	res.UpdatedAt = time.Now().UTC()
	r.reservations[id] = res
	return nil
}

func (r *memoryRepository) RecordValidationError(_ context.Context, id, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return errs.ErrNotFound
	}
	res.ValidationError = true
	res.ValidationErrorMessage = message
	res.UpdatedAt = time.Now().UTC()
	r.reservations[id] = res
	return nil
}

func (r *memoryRepository) GetOrder(_ context.Context, orderID string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ord, ok := r.orders[orderID]
	if !ok {
		return model.Order{}, errs.ErrOrderNotFound
	}
	return ord, nil
}

func (r *memoryRepository) RejectOrder(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[orderID]
	if !ok {
		return errs.ErrOrderNotFound
	}
	ord.Status = model.StatusRejected
	ord.RejectionReason = model.ReasonReservationConflict
	ord.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = ord
	return nil
}

// PutOrder seeds an order. Orders are created by the checkout flow, which is
// outside this service, so only tests and local tooling need this.
func (r *memoryRepository) PutOrder(ord model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[ord.ID] = ord
}
