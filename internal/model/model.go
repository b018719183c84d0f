package model

import (
	"strings"
	"time"
)

type Status string

// Reservation lifecycle states. The storefront historically wrote both
// English and Portuguese spellings, so every synonym is kept here and
// normalized through IsActive instead of being compared literally.
const (
	StatusPending         Status = "pending"
	StatusPendente        Status = "pendente"
	StatusPendingApproval Status = "pending_approval"
	StatusAguardando      Status = "aguardando_aprovacao"
	StatusConfirmed       Status = "confirmed"
	StatusConfirmada      Status = "confirmada"
	StatusApproved        Status = "approved"
	StatusAprovada        Status = "aprovada"
	StatusRented          Status = "rented"
	StatusAlugada         Status = "alugada"

	StatusRejected   Status = "rejected"
	StatusRejeitada  Status = "rejeitada"
	StatusCanceled   Status = "canceled"
	StatusCancelada  Status = "cancelada"
	StatusFinalized  Status = "finalized"
	StatusFinalizada Status = "finalizada"
)

// activeStatuses are the states that still hold the equipment and therefore
// participate in conflict detection.
var activeStatuses = []Status{
	StatusPending, StatusPendente,
	StatusPendingApproval, StatusAguardando,
	StatusConfirmed, StatusConfirmada,
	StatusApproved, StatusAprovada,
	StatusRented, StatusAlugada,
}

func ActiveStatuses() []string {
	out := make([]string, 0, len(activeStatuses))
	for _, s := range activeStatuses {
		out = append(out, string(s))
	}
	return out
}

func (s Status) IsActive() bool {
	norm := Status(strings.ToLower(strings.TrimSpace(string(s))))
	for _, a := range activeStatuses {
		if norm == a {
			return true
		}
	}
	return false
}

// Rejection reasons written by the validator.
const (
	ReasonConflictDates       = "conflict_dates"
	ReasonReservationConflict = "reservation_conflict"
)

type Reservation struct {
	ID                       string     `json:"reservationUid" db:"id"`
	EquipmentID              string     `json:"equipmentUid" db:"equipment_id"`
	Username                 string     `json:"username" db:"user_name"`
	UserEmail                string     `json:"userEmail,omitempty" db:"user_email"`
	OrderID                  string     `json:"orderUid,omitempty" db:"order_id"`
	Status                   Status     `json:"status" db:"status"`
	StartDate                time.Time  `json:"startDate" db:"start_date"`
	EndDate                  time.Time  `json:"endDate" db:"end_date"`
	Validated                bool       `json:"validated" db:"validated"`
	ValidatedAt              *time.Time `json:"validatedAt,omitempty" db:"validated_at"`
	RejectionReason          string     `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ConflictingReservationID string     `json:"conflictingReservationUid,omitempty" db:"conflicting_reservation_id"`
	ValidationError          bool       `json:"validationError,omitempty" db:"validation_error"`
	ValidationErrorMessage   string     `json:"validationErrorMessage,omitempty" db:"validation_error_message"`
	CreatedAt                time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt                time.Time  `json:"updatedAt" db:"updated_at"`
}

// Overlaps reports whether the two rental windows share at least one day.
// Both endpoints are inclusive: ending on the day another starts is a conflict.
func (r Reservation) Overlaps(other Reservation) bool {
	return !r.StartDate.After(other.EndDate) && !r.EndDate.Before(other.StartDate)
}

type Order struct {
	ID              string    `json:"orderUid" db:"id"`
	Status          Status    `json:"status" db:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Date accepts bare calendar dates ("2024-01-02") as well as RFC3339 on the wire.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type CreateReservationRequest struct {
	EquipmentUid string `json:"equipmentUid" validate:"required"`
	OrderUid     string `json:"orderUid"`
	StartDate    Date   `json:"startDate" validate:"required"`
	EndDate      Date   `json:"endDate" validate:"required"`
	UserEmail    string `json:"userEmail" validate:"omitempty,email"`
	UserName     string `validate:"required"`
}

type ValidateReservationRequest struct {
	ReservaID string `json:"reservaId"`
}

// ConflictReport is the on-demand diagnostic result. It never reflects a write.
type ConflictReport struct {
	ReservaID   string   `json:"reservaId"`
	HasConflict bool     `json:"hasConflict"`
	Conflicts   []string `json:"conflicts"`
	Message     string   `json:"message"`
}
