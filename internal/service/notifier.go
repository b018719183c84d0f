package service

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/locadora/reservation-service/internal/model"
	"github.com/locadora/reservation-service/pkg/circuit_breaker"
)

// Notifier tells the customer their reservation was rejected. Implementations
// must not block the validator: delivery failures are logged, never returned.
type Notifier interface {
	ReservationRejected(res model.Reservation, conflictingID string)
}

type NotifyConfig struct {
	SendGridKey string `yaml:"sendgridKey" envconfig:"SENDGRID_API_KEY"`
	FromEmail   string `yaml:"fromEmail" envconfig:"NOTIFY_FROM_EMAIL" default:"reservas@locadora.example"`
	FromName    string `yaml:"fromName" envconfig:"NOTIFY_FROM_NAME" default:"Locadora"`
}

type emailNotifier struct {
	cfg NotifyConfig
	cb  circuit_breaker.CircuitBreaker
	log *zap.Logger
}

func NewEmailNotifier(cfg NotifyConfig, log *zap.Logger) Notifier {
	return &emailNotifier{
		cfg: cfg,
		cb:  circuit_breaker.New(20, 30*time.Second, 0.5, 3),
		log: log.Named("notifier"),
	}
}

func (n *emailNotifier) ReservationRejected(res model.Reservation, conflictingID string) {
	if n.cfg.SendGridKey == "" || res.UserEmail == "" {
		return
	}
	go func() {
		err := n.cb.Call(func() error {
			return n.send(res, conflictingID)
		})
		if err != nil {
			n.log.Warn("rejection email not delivered",
				zap.String("reservation", res.ID),
				zap.String("to", res.UserEmail),
				zap.Error(err))
		}
	}()
}

func (n *emailNotifier) send(res model.Reservation, conflictingID string) error {
	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromEmail)
	to := mail.NewEmail(res.Username, res.UserEmail)
	subject := fmt.Sprintf("Reserva %s recusada - datas em conflito", res.ID)
	body := fmt.Sprintf(
		"Olá %s,\n\nSua reserva do equipamento %s de %s a %s foi recusada: "+
			"as datas conflitam com outra reserva ativa (%s).\n\n"+
			"Escolha outro período e tente novamente.\n",
		res.Username, res.EquipmentID,
		res.StartDate.Format(time.DateOnly), res.EndDate.Format(time.DateOnly),
		conflictingID,
	)

	message := mail.NewSingleEmail(from, subject, to, body, "")
	client := sendgrid.NewSendClient(n.cfg.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NopNotifier is used when no mail provider is configured.
type NopNotifier struct{}

func (NopNotifier) ReservationRejected(model.Reservation, string) {}
