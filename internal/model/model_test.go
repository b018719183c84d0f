package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/locadora/reservation-service/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReservation_Overlaps(t *testing.T) {
	t.Parallel()

	rng := func(start, end time.Time) model.Reservation {
		return model.Reservation{StartDate: start, EndDate: end}
	}

	tests := []struct {
		name string
		a, b model.Reservation
		want bool
	}{
		{
			name: "shared boundary day",
			a:    rng(date(2024, 1, 1), date(2024, 1, 10)),
			b:    rng(date(2024, 1, 10), date(2024, 1, 15)),
			want: true,
		},
		{
			name: "adjacent, non-overlapping",
			a:    rng(date(2024, 1, 1), date(2024, 1, 5)),
			b:    rng(date(2024, 1, 6), date(2024, 1, 10)),
			want: false,
		},
		{
			name: "fully contained",
			a:    rng(date(2024, 1, 1), date(2024, 1, 31)),
			b:    rng(date(2024, 1, 10), date(2024, 1, 12)),
			want: true,
		},
		{
			name: "identical ranges",
			a:    rng(date(2024, 1, 1), date(2024, 1, 10)),
			b:    rng(date(2024, 1, 1), date(2024, 1, 10)),
			want: true,
		},
		{
			name: "disjoint",
			a:    rng(date(2024, 1, 1), date(2024, 1, 5)),
			b:    rng(date(2024, 2, 1), date(2024, 2, 5)),
			want: false,
		},
		{
			name: "single day ranges meeting",
			a:    rng(date(2024, 1, 5), date(2024, 1, 5)),
			b:    rng(date(2024, 1, 5), date(2024, 1, 5)),
			want: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// the rule is symmetric
			require.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestStatus_IsActive(t *testing.T) {
	t.Parallel()

	active := []model.Status{
		model.StatusPending, model.StatusPendente,
		model.StatusPendingApproval, model.StatusAguardando,
		model.StatusConfirmed, model.StatusConfirmada,
		model.StatusApproved, model.StatusAprovada,
		model.StatusRented, model.StatusAlugada,
		"Confirmed", " pending ",
	}
	for _, s := range active {
		require.True(t, s.IsActive(), "status %q", s)
	}

	inactive := []model.Status{
		model.StatusRejected, model.StatusRejeitada,
		model.StatusCanceled, model.StatusCancelada,
		model.StatusFinalized, model.StatusFinalizada,
		"", "unknown",
	}
	for _, s := range inactive {
		require.False(t, s.IsActive(), "status %q", s)
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var req model.CreateReservationRequest
	payload := `{"equipmentUid":"excavator-7","startDate":"2024-01-02","endDate":"2024-01-10T00:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.Equal(t, date(2024, 1, 2), req.StartDate.Time)
	require.Equal(t, date(2024, 1, 10), req.EndDate.Time)

	var bad model.ValidateReservationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"reservaId":"abc"}`), &bad))
	require.Equal(t, "abc", bad.ReservaID)

	var d model.Date
	require.Error(t, d.UnmarshalJSON([]byte(`"10/01/2024"`)))
}
