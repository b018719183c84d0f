package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/model"
)

func TestConsumer_HandleMessage(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name       string
		payload    string
		wantCalled bool
		wantID     string
	}{
		{
			name:       "valid snapshot reaches the validator",
			payload:    `{"reservationUid":"res-1","equipmentUid":"lift-3","status":"pending","startDate":"2024-05-01T00:00:00Z","endDate":"2024-05-03T00:00:00Z"}`,
			wantCalled: true,
			wantID:     "res-1",
		},
		{
			name:    "empty payload is skipped",
			payload: "  ",
		},
		{
			name:    "malformed json is skipped",
			payload: `{"reservationUid":`,
		},
		{
			name:    "snapshot without id is skipped",
			payload: `{"equipmentUid":"lift-3"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var (
				called bool
				got    model.Reservation
			)
			consumer := NewConsumer(func(ctx context.Context, res model.Reservation) error {
				called = true
				got = res
				return nil
			}, zap.NewNop())

			consumer.handleMessage(context.Background(), []byte(tt.payload))

			require.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				require.Equal(t, tt.wantID, got.ID)
				require.Equal(t, "lift-3", got.EquipmentID)
				require.True(t, got.Status.IsActive())
			}
		})
	}
}
