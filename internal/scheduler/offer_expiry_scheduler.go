package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
)

// OfferExpirer is the part of the offer service the job needs.
type OfferExpirer interface {
	DeactivateExpired(now time.Time) (int64, error)
}

// OfferExpiryScheduler periodically deactivates offers past valid_until.
type OfferExpiryScheduler struct {
	cron    *cron.Cron
	spec    string
	offers  OfferExpirer
	nowFunc func() time.Time
}

func NewOfferExpiryScheduler(offers OfferExpirer, spec string) *OfferExpiryScheduler {
	return &OfferExpiryScheduler{
		cron:    cron.New(),
		spec:    spec,
		offers:  offers,
		nowFunc: time.Now,
	}
}

// RunOnce deactivates expired offers immediately.
func (s *OfferExpiryScheduler) RunOnce() {
	logger.Debug("Starting scheduled offer expiry", nil)

	n, err := s.offers.DeactivateExpired(s.nowFunc())
	if err != nil {
		logger.Error("Failed to deactivate expired offers from scheduler", err)
		return
	}

	logger.Info("Offer expiry run completed", map[string]interface{}{
		"deactivated": n,
	})
}

func (s *OfferExpiryScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for offer expiry", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Offer expiry scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop waits for a running job to finish.
func (s *OfferExpiryScheduler) Stop() {
	logger.Info("Stopping offer expiry scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Offer expiry scheduler stopped", nil)
}
