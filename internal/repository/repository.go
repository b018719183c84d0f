package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/errs"
	"github.com/locadora/reservation-service/internal/model"
)

type Repository interface {
	CreateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id string) (model.Reservation, error)
	ListActiveByEquipment(ctx context.Context, equipmentID string) ([]model.Reservation, error)
	ListUnvalidated(ctx context.Context, olderThan time.Time, limit int) ([]model.Reservation, error)
	MarkValidated(ctx context.Context, id string, at time.Time) error
	RejectReservation(ctx context.Context, id, conflictingID string, at time.Time) error
	RecordValidationError(ctx context.Context, id, message string) error
	GetOrder(ctx context.Context, orderID string) (model.Order, error)
	RejectOrder(ctx context.Context, orderID string) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	reservationTableName = `reservations`
	orderTableName       = `orders`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var reservationColumns = []string{
	"id", "equipment_id", "user_name", "user_email", "order_id", "status",
	"start_date", "end_date", "validated", "validated_at", "rejection_reason",
	"conflicting_reservation_id", "validation_error", "validation_error_message",
	"created_at", "updated_at",
}

func (r *repository) CreateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Insert(reservationTableName).
		Columns("id", "equipment_id", "user_name", "user_email", "order_id", "status", "start_date", "end_date", "validated").
		Values(res.ID, res.EquipmentID, res.Username, res.UserEmail, res.OrderID, res.Status, res.StartDate, res.EndDate, false).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var created model.Reservation
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Reservation{}, errs.ErrAlreadyExists
		}
		r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args))
		return model.Reservation{}, err
	}
	return created, nil
}

func (r *repository) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *repository) ListActiveByEquipment(ctx context.Context, equipmentID string) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"equipment_id": equipmentID}).
		Where(sq.Eq{"status": model.ActiveStatuses()}).
		OrderBy("start_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		r.log.Error("ListActiveByEquipment", zap.String("q", q), zap.Any("args", args))
		return nil, err
	}
	return items, nil
}

func (r *repository) ListUnvalidated(ctx context.Context, olderThan time.Time, limit int) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"validated": false}).
		Where(sq.Eq{"validation_error": false}).
		Where(sq.LtOrEq{"created_at": olderThan}).
		OrderBy("created_at").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MarkValidated(ctx context.Context, id string, at time.Time) error {
	q := `
	update reservations
	set validated = true, validated_at = $2, updated_at = now()
	where id = $1`
	return r.exec(ctx, q, id, at)
}

func (r *repository) RejectReservation(ctx context.Context, id, conflictingID string, at time.Time) error {
	q := `
	update reservations
	set status = $2,
	    rejection_reason = $3,
	    conflicting_reservation_id = $4,
	    validated = true,
	    validated_at = $5,
	    updated_at = now()
	where id = $1`
	return r.exec(ctx, q, id, model.StatusRejected, model.ReasonConflictDates, conflictingID, at)
}

func (r *repository) RecordValidationError(ctx context.Context, id, message string) error {
	q := `
	update reservations
	set validation_error = true, validation_error_message = $2, updated_at = now()
	where id = $1`
	return r.exec(ctx, q, id, message)
}

func (r *repository) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	q, args, err := qb.Select("id", "status", "rejection_reason", "updated_at").
		From(orderTableName).
		Where(sq.Eq{"id": orderID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Order{}, err
	}
	var ord model.Order
	if err := r.db.GetContext(ctx, &ord, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, errs.ErrOrderNotFound
		}
		return model.Order{}, err
	}
	return ord, nil
}

func (r *repository) RejectOrder(ctx context.Context, orderID string) error {
	q := `
	update orders
	set status = $2, rejection_reason = $3, updated_at = now()
	where id = $1`
	return r.exec(ctx, q, orderID, model.StatusRejected, model.ReasonReservationConflict)
}

func (r *repository) exec(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
