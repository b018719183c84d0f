package handler

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/model"
)

type validateOnCreate func(ctx context.Context, res model.Reservation) error

// Consumer feeds reservation-created snapshots into the automatic validator.
type Consumer struct {
	validateHandler validateOnCreate
	log             *zap.Logger
}

func NewConsumer(validateHandler validateOnCreate, log *zap.Logger) *Consumer {
	return &Consumer{
		validateHandler: validateHandler,
		log:             log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.handleMessage(session.Context(), message.Value)
			// Every message is marked exactly once: validation failures are
			// recorded on the reservation itself, never retried by redelivery.
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) handleMessage(ctx context.Context, data []byte) {
	if len(bytes.TrimSpace(data)) == 0 {
		consumer.log.Warn("empty reservation snapshot, skipping")
		return
	}
	var res model.Reservation
	if err := json.Unmarshal(data, &res); err != nil {
		consumer.log.Error("decode reservation snapshot", zap.Error(err))
		return
	}
	if res.ID == "" {
		consumer.log.Warn("reservation snapshot without id, skipping")
		return
	}
	if err := consumer.validateHandler(ctx, res); err != nil {
		consumer.log.Error("consumer.validateHandler", zap.Error(err))
		return
	}
	consumer.log.Debug("reservation snapshot processed", zap.String("reservation", res.ID))
}
