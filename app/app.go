package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/locadora/reservation-service/config"
	"github.com/locadora/reservation-service/internal/handler"
	"github.com/locadora/reservation-service/internal/metrics"
	"github.com/locadora/reservation-service/internal/repository"
	"github.com/locadora/reservation-service/internal/server"
	"github.com/locadora/reservation-service/internal/service"
	"github.com/locadora/reservation-service/migrations"
	"github.com/locadora/reservation-service/pkg/kafka"
	"github.com/locadora/reservation-service/pkg/logger"
	"github.com/locadora/reservation-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "reservation")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %v", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka.NewProducer %v", err)
	}
	defer producer.Close()

	consumerGroup, err := kafka.NewConsumerGroup(cfg.Kafka, kafka.ValidatorConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumerGroup %v", err)
	}
	defer consumerGroup.Close()

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.Notify.SendGridKey != "" {
		notifier = service.NewEmailNotifier(cfg.Notify, log)
	}

	svc := service.NewService(repo, service.NewEnqueuer(producer), notifier, metrics.NewValidationMetrics(), log)
	h := handler.New(svc, log)

	sweeper := service.NewSweeper(svc, cfg.Sweep, log)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("sweeper start %v", err)
	}
	defer sweeper.Stop()

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := kafka.Consume(gctx, consumerGroup, handler.NewConsumer(svc.ValidateOnCreate, log), kafka.ReservationsCreatedTopic)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
