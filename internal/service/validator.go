package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/errs"
	"github.com/locadora/reservation-service/internal/model"
)

// ValidateOnCreate runs the automatic conflict check for a freshly created
// reservation snapshot. Outcomes are written back onto the reservation (and a
// linked order on rejection); infrastructure failures are recorded on the
// document instead of being returned, so the event source never redelivers.
func (s *Service) ValidateOnCreate(ctx context.Context, res model.Reservation) error {
	log := s.log.With(
		zap.String("reservation", res.ID),
		zap.String("equipment", res.EquipmentID),
	)

	if res.Validated {
		s.metrics.Skipped()
		log.Info("already validated, skipping")
		return nil
	}

	conflictID, err := s.firstConflict(ctx, res)
	if err != nil {
		return s.recordFailure(ctx, log, res.ID, err)
	}

	now := time.Now().UTC()

	if conflictID == "" {
		if err := s.repo.MarkValidated(ctx, res.ID, now); err != nil {
			return s.recordFailure(ctx, log, res.ID, err)
		}
		s.metrics.Validated()
		log.Info("reservation validated, no conflicts")
		return nil
	}

	if err := s.repo.RejectReservation(ctx, res.ID, conflictID, now); err != nil {
		return s.recordFailure(ctx, log, res.ID, err)
	}
	s.metrics.Conflict()
	log.Warn("reservation rejected, conflicting dates",
		zap.String("conflictingReservation", conflictID))

	if res.OrderID != "" {
		// best-effort: the reservation rejection is already committed and
		// is not rolled back if the order update fails
		if err := s.repo.RejectOrder(ctx, res.OrderID); err != nil {
			log.Error("reject linked order",
				zap.String("order", res.OrderID), zap.Error(err))
		}
	}

	s.notifier.ReservationRejected(res, conflictID)
	return nil
}

// CheckConflicts is the on-demand diagnostic. It reuses the same overlap rule
// but collects every conflicting id and never writes anything.
func (s *Service) CheckConflicts(ctx context.Context, reservaID string) (model.ConflictReport, error) {
	if reservaID == "" {
		return model.ConflictReport{}, errs.ErrReservaID
	}

	res, err := s.repo.GetReservation(ctx, reservaID)
	if err != nil {
		return model.ConflictReport{}, err
	}

	candidates, err := s.repo.ListActiveByEquipment(ctx, res.EquipmentID)
	if err != nil {
		return model.ConflictReport{}, err
	}

	conflicts := make([]string, 0)
	for _, c := range candidates {
		if c.ID == res.ID {
			continue
		}
		if res.Overlaps(c) {
			conflicts = append(conflicts, c.ID)
		}
	}

	report := model.ConflictReport{
		ReservaID:   reservaID,
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}
	if report.HasConflict {
		report.Message = fmt.Sprintf("found %d conflicting reservation(s) for equipment %s", len(conflicts), res.EquipmentID)
	} else {
		report.Message = fmt.Sprintf("no conflicting reservations for equipment %s", res.EquipmentID)
	}
	return report, nil
}

// firstConflict returns the id of the first active reservation for the same
// equipment that overlaps res, excluding res itself.
func (s *Service) firstConflict(ctx context.Context, res model.Reservation) (string, error) {
	candidates, err := s.repo.ListActiveByEquipment(ctx, res.EquipmentID)
	if err != nil {
		return "", err
	}
	for _, c := range candidates {
		if c.ID == res.ID {
			continue
		}
		if res.Overlaps(c) {
			return c.ID, nil
		}
	}
	return "", nil
}

func (s *Service) recordFailure(ctx context.Context, log *zap.Logger, id string, cause error) error {
	s.metrics.ValidationError()
	log.Error("validation failed", zap.Error(cause))
	if err := s.repo.RecordValidationError(ctx, id, cause.Error()); err != nil {
		log.Error("record validation error", zap.Error(err))
	}
	return nil
}
