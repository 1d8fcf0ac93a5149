// Package notify delivers throttled failure alerts to the site administrator.
// Delivery is best-effort throughout: nothing in this package propagates an
// error back into the purge path.
package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mediaops/media-purge-go/internal/metrics"
	"github.com/mediaops/media-purge-go/settings"
)

// Mailer delivers a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config controls Notifier construction.
type Config struct {
	// SiteName identifies the site in subjects and message bodies.
	SiteName string
	// DefaultRecipient receives alerts when no valid address is configured.
	DefaultRecipient string
	// EditLink renders the admin edit URL for a resource ID.
	EditLink func(resourceID int64) string
	// Now can be overridden in tests. Defaults to time.Now.
	Now func() time.Time
}

// Notifier sends admin alerts for failed purges, suppressing repeats within
// the configured throttle window.
type Notifier struct {
	store    settings.Store
	throttle ThrottleStore
	mailer   Mailer
	cfg      Config
	logger   *zap.Logger
}

// New creates a Notifier.
func New(store settings.Store, throttle ThrottleStore, mailer Mailer, cfg Config, logger *zap.Logger) *Notifier {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.EditLink == nil {
		cfg.EditLink = func(int64) string { return "" }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		store:    store,
		throttle: throttle,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Notify emails the failure report to the administrator unless alerts are
// disabled or a notification already went out inside the throttle window.
// It never returns an error: a broken mail transport must not fail a purge.
func (n *Notifier) Notify(ctx context.Context, report FailureReport) {
	cfg, err := n.store.Load(ctx)
	if err != nil {
		n.logger.Warn("loading settings for notification failed, using defaults",
			zap.Error(err),
		)
		cfg = settings.Default()
	}

	if !cfg.EnableEmail {
		metrics.RecordNotification("disabled")
		return
	}

	now := n.cfg.Now()
	window := cfg.ThrottleWindow()

	last, ok, err := n.throttle.LastNotified(ctx)
	if err != nil {
		// Prefer a possible duplicate alert over a silently dropped one.
		n.logger.Warn("reading throttle state failed", zap.Error(err))
	}
	if ok && now.Sub(last) < window {
		metrics.RecordNotification("suppressed")
		n.logger.Info("notification suppressed by throttle",
			zap.Int64("attachment_id", report.ResourceID),
			zap.Time("last_notified_at", last),
			zap.Duration("window", window),
		)
		return
	}

	// Record first so repeated failures cannot storm a broken mail transport.
	if err := n.throttle.MarkNotified(ctx, now, window); err != nil {
		n.logger.Warn("writing throttle state failed", zap.Error(err))
	}

	recipient := n.recipient(cfg)
	subject := fmt.Sprintf("[%s] CDN purge failed", n.cfg.SiteName)
	body := FormatFailure(n.cfg.SiteName, n.cfg.EditLink(report.ResourceID), report)

	if err := n.mailer.Send(ctx, recipient, subject, body); err != nil {
		metrics.RecordNotification("send_error")
		n.logger.Warn("sending purge failure alert failed",
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return
	}

	metrics.RecordNotification("sent")
	n.logger.Info("purge failure alert sent",
		zap.String("recipient", recipient),
		zap.Int64("attachment_id", report.ResourceID),
		zap.String("trigger", report.Trigger),
	)
}

func (n *Notifier) recipient(cfg settings.Settings) string {
	address := strings.TrimSpace(cfg.NotifyEmail)
	if address == "" {
		return n.cfg.DefaultRecipient
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return n.cfg.DefaultRecipient
	}
	return address
}
