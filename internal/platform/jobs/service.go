package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shiftdesk/internal/domain/marketplace"
	"shiftdesk/internal/domain/notifications"
	"shiftdesk/internal/domain/timelog"
	"shiftdesk/internal/platform/config"
	"shiftdesk/internal/platform/metrics"
)

const (
	JobAutoCheckout  = "timelog_auto_checkout"
	JobListingExpiry = "listing_expiry"
)

type Service struct {
	DB      *pgxpool.Pool
	Cfg     config.Config
	Timelog *timelog.Service
	Market  *marketplace.Service
	Notify  *notifications.Service
	Metrics *metrics.Collector
	queue   chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, tl *timelog.Service, market *marketplace.Service, notify *notifications.Service, collector *metrics.Collector) *Service {
	return &Service{
		DB:      db,
		Cfg:     cfg,
		Timelog: tl,
		Market:  market,
		Notify:  notify,
		Metrics: collector,
		queue:   make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.AutoCheckoutInterval > 0 {
		go s.schedule(ctx, s.Cfg.AutoCheckoutInterval, JobAutoCheckout, s.runAutoCheckout)
	}
	if s.Cfg.ListingExpiryInterval > 0 {
		go s.schedule(ctx, s.Cfg.ListingExpiryInterval, JobListingExpiry, s.runListingExpiry)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, 'running')
    RETURNING id
  `, j.Type).Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

func (s *Service) runAutoCheckout(ctx context.Context) (any, error) {
	closed, err := s.Timelog.AutoCheckOut(ctx)
	if s.Metrics != nil {
		s.Metrics.RecordSweep(closed)
	}
	return map[string]any{"closed": closed}, err
}

func (s *Service) runListingExpiry(ctx context.Context) (any, error) {
	expired, err := s.Market.ExpireDueListings(ctx)
	if err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.RecordSweep(len(expired))
	}
	if s.Notify != nil {
		for _, listingID := range expired {
			s.notifyExpiredListing(ctx, listingID)
		}
	}
	return map[string]any{"expired": len(expired)}, nil
}

func (s *Service) notifyExpiredListing(ctx context.Context, listingID string) {
	var fromWorker string
	if err := s.DB.QueryRow(ctx, `
    SELECT from_worker FROM shift_listings WHERE id = $1
  `, listingID).Scan(&fromWorker); err != nil {
		slog.Warn("expired listing lookup failed", "listingId", listingID, "err", err)
		return
	}
	copyText := notifications.ListingCopy(marketplace.ListingExpired)
	if err := s.Notify.Notify(ctx, fromWorker, copyText.Title, copyText.Message, "/marketplace/"+listingID); err != nil {
		slog.Warn("expired listing notification failed", "listingId", listingID, "err", err)
	}
}
