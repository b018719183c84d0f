package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type SweepConfig struct {
	Schedule  string        `yaml:"schedule" envconfig:"SWEEP_SCHEDULE" default:"@every 5m"`
	Grace     time.Duration `yaml:"grace" envconfig:"SWEEP_GRACE" default:"2m"`
	BatchSize int           `yaml:"batchSize" envconfig:"SWEEP_BATCH" default:"100"`
}

// Sweeper re-runs the automatic validation for reservations that are still
// unvalidated past a grace window, covering lost or never-delivered creation
// events. Rows already flagged with a validation error are left for manual
// intervention.
type Sweeper struct {
	cron *cron.Cron
	svc  *Service
	cfg  SweepConfig
	log  *zap.Logger
}

func NewSweeper(svc *Service, cfg SweepConfig, log *zap.Logger) *Sweeper {
	return &Sweeper{
		cron: cron.New(),
		svc:  svc,
		cfg:  cfg,
		log:  log.Named("sweeper"),
	}
}

func (w *Sweeper) Start() error {
	if _, err := w.cron.AddFunc(w.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		w.Sweep(ctx)
	}); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

func (w *Sweeper) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.cfg.Grace)
	items, err := w.svc.repo.ListUnvalidated(ctx, cutoff, w.cfg.BatchSize)
	if err != nil {
		w.log.Error("list unvalidated reservations", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}
	w.log.Info("revalidating stale reservations", zap.Int("count", len(items)))
	for _, res := range items {
		_ = w.svc.ValidateOnCreate(ctx, res)
	}
}
