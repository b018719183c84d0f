package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/errs"
	"github.com/locadora/reservation-service/internal/handler"
	"github.com/locadora/reservation-service/internal/model"
	"github.com/locadora/reservation-service/pkg/auth"
	"github.com/locadora/reservation-service/pkg/validate"

	service_mocks "github.com/locadora/reservation-service/internal/handler/mocks"
)

func makeToken(t *testing.T, username string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Profile: auth.Profile{Username: username, Role: "customer"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.JWTKey)
	require.NoError(t, err)
	return token
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHandler_ValidateReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		body         string
		noAuth       bool
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok. conflicts found",
			body: `{"reservaId":"target"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckConflicts(gomock.Any(), "target").
					Return(model.ConflictReport{
						ReservaID:   "target",
						HasConflict: true,
						Conflicts:   []string{"r1", "r2"},
						Message:     "found 2 conflicting reservation(s) for equipment lift-3",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reservaId":"target","hasConflict":true,"conflicts":["r1","r2"],"message":"found 2 conflicting reservation(s) for equipment lift-3"}`,
			},
		},
		{
			name: "ok. no conflicts",
			body: `{"reservaId":"target"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckConflicts(gomock.Any(), "target").
					Return(model.ConflictReport{
						ReservaID: "target",
						Conflicts: []string{},
						Message:   "no conflicting reservations for equipment lift-3",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reservaId":"target","hasConflict":false,"conflicts":[],"message":"no conflicting reservations for equipment lift-3"}`,
			},
		},
		{
			name:         "err. missing reservaId",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"reservaId is required"}`,
			},
		},
		{
			name: "err. not found",
			body: `{"reservaId":"missing"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckConflicts(gomock.Any(), "missing").
					Return(model.ConflictReport{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"reservation not found"}`,
			},
		},
		{
			name: "err. internal",
			body: `{"reservaId":"target"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CheckConflicts(gomock.Any(), "target").
					Return(model.ConflictReport{}, errors.New("store unreachable"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"store unreachable"}`,
			},
		},
		{
			name:         "err. unauthenticated",
			body:         `{"reservaId":"target"}`,
			noAuth:       true,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"No Authorization Header"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/reservations/validate", h.ValidateReservation, handler.JwtAuthentication)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/validate", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if !tt.noAuth {
				r.Header.Set("Authorization", "Bearer "+makeToken(t, "maria"))
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ValidateReservation_InvalidToken(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockReservationService(c)
	h := handler.New(svc, zap.NewExample().Named("test"))

	e := echo.New()
	e.POST("/api/v1/reservations/validate", h.ValidateReservation, handler.JwtAuthentication)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/validate", strings.NewReader(`{"reservaId":"target"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()

	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"JwtAccessDenied"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_GetReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		uid          string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			uid:  "res-1",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					GetReservation(gomock.Any(), "res-1").
					Return(model.Reservation{
						ID:          "res-1",
						EquipmentID: "excavator-7",
						Username:    "maria",
						Status:      model.StatusPending,
						StartDate:   date(2024, 5, 1),
						EndDate:     date(2024, 5, 10),
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reservationUid":"res-1","equipmentUid":"excavator-7","username":"maria","status":"pending","startDate":"2024-05-01T00:00:00Z","endDate":"2024-05-10T00:00:00Z","validated":false,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name: "err. not found",
			uid:  "missing",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					GetReservation(gomock.Any(), "missing").
					Return(model.Reservation{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"reservation not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.GET("/api/v1/reservations/:reservationUid", h.GetReservation, handler.JwtAuthentication)

			r := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/"+tt.uid, http.NoBody)
			r.Header.Set("Authorization", "Bearer "+makeToken(t, "maria"))
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	okReq := model.CreateReservationRequest{
		EquipmentUid: "excavator-7",
		StartDate:    model.Date{Time: date(2024, 5, 1)},
		EndDate:      model.Date{Time: date(2024, 5, 10)},
		UserEmail:    "maria@example.com",
		UserName:     "maria",
	}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"equipmentUid":"excavator-7","startDate":"2024-05-01","endDate":"2024-05-10","userEmail":"maria@example.com"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CreateReservation(gomock.Any(), okReq).
					Return(model.Reservation{
						ID:          "res-1",
						EquipmentID: "excavator-7",
						Username:    "maria",
						UserEmail:   "maria@example.com",
						Status:      model.StatusPending,
						StartDate:   date(2024, 5, 1),
						EndDate:     date(2024, 5, 10),
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reservationUid":"res-1","equipmentUid":"excavator-7","username":"maria","userEmail":"maria@example.com","status":"pending","startDate":"2024-05-01T00:00:00Z","endDate":"2024-05-10T00:00:00Z","validated":false,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name:         "err. equipmentUid required",
			body:         `{"startDate":"2024-05-01","endDate":"2024-05-10"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. dates reversed",
			body: `{"equipmentUid":"excavator-7","startDate":"2024-05-10","endDate":"2024-05-01"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, errs.ErrInvalidDateRange)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"startDate must not be after endDate"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockReservationService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/reservations", h.CreateReservation, handler.JwtAuthentication)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set("Authorization", "Bearer "+makeToken(t, "maria"))
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
