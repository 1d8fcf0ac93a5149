// Package purge decides whether a change event requires a CDN cache purge,
// issues the single-attempt invalidation call, and routes failures to the
// admin notifier. Nothing here retries: a failed purge is terminal for its
// invocation and the edge serves stale content until the next change event.
package purge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mediaops/media-purge-go/cloudflare"
	"github.com/mediaops/media-purge-go/internal/metrics"
	"github.com/mediaops/media-purge-go/notify"
	"github.com/mediaops/media-purge-go/settings"
)

// CachePurger issues a single cache-invalidation call against one zone.
type CachePurger interface {
	PurgeFiles(ctx context.Context, zoneID string, files []string) error
}

// FailureNotifier receives reports for every failed purge.
type FailureNotifier interface {
	Notify(ctx context.Context, report notify.FailureReport)
}

// ClientFactory builds a CachePurger for the API token loaded from settings.
// Settings are read fresh per attempt, so the client is built per attempt too.
type ClientFactory func(token string) (CachePurger, error)

// Purger orchestrates event filtering, the purge call, and failure alerts.
type Purger struct {
	store     settings.Store
	media     MediaLibrary
	notifier  FailureNotifier
	clientFor ClientFactory
	logger    *zap.Logger
}

// New creates a Purger. A nil clientFor defaults to the Cloudflare client.
func New(store settings.Store, media MediaLibrary, notifier FailureNotifier, clientFor ClientFactory, logger *zap.Logger) *Purger {
	if clientFor == nil {
		clientFor = func(token string) (CachePurger, error) {
			return cloudflare.New(token)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Purger{
		store:     store,
		media:     media,
		notifier:  notifier,
		clientFor: clientFor,
		logger:    logger,
	}
}

// HandleMetaUpdate processes a post-metadata-updated notification.
func (p *Purger) HandleMetaUpdate(ctx context.Context, resourceID int64, metaKey, metaValue string) Outcome {
	_ = metaValue // the stored path is not needed; the public URL is resolved fresh

	ev := ChangeEvent{
		ResourceID: resourceID,
		MetaKey:    metaKey,
		Trigger:    TriggerMetaUpdate,
	}
	return p.handle(ctx, ev)
}

// HandleAttachmentMetadata processes an attachment-metadata update and returns
// the payload unchanged; callers sit in the platform's filter chain and must
// pass the metadata through untouched.
func (p *Purger) HandleAttachmentMetadata(ctx context.Context, metadata map[string]any, resourceID int64) (map[string]any, Outcome) {
	ev := ChangeEvent{
		ResourceID:     resourceID,
		MetadataUpdate: true,
		Trigger:        TriggerMetadataUpdate,
	}
	return metadata, p.handle(ctx, ev)
}

func (p *Purger) handle(ctx context.Context, ev ChangeEvent) Outcome {
	resourceURL, ok := p.shouldPurge(ctx, ev)
	if !ok {
		outcome := Skipped("event filtered")
		metrics.RecordPurgeOutcome(outcome.Status.String(), ev.Trigger)
		return outcome
	}
	return p.Purge(ctx, []string{resourceURL}, ev.ResourceID, ev.Trigger)
}

// Purge invalidates urls at the CDN and reports the outcome. The call is
// synchronous and single-attempt; every failure path produces exactly one
// notifier invocation.
func (p *Purger) Purge(ctx context.Context, urls []string, resourceID int64, trigger string) Outcome {
	cleanURLs := dedupeURLs(urls)
	if len(cleanURLs) == 0 {
		outcome := Skipped("no urls")
		metrics.RecordPurgeOutcome(outcome.Status.String(), trigger)
		return outcome
	}

	cfg, err := p.store.Load(ctx)
	if err != nil {
		return p.fail(ctx, fmt.Sprintf("settings: %v", err), cleanURLs, resourceID, trigger)
	}
	if !cfg.HasCredentials() {
		return p.fail(ctx, "missing credentials", cleanURLs, resourceID, trigger)
	}

	client, err := p.clientFor(strings.TrimSpace(cfg.APIToken))
	if err != nil {
		return p.fail(ctx, fmt.Sprintf("client: %v", err), cleanURLs, resourceID, trigger)
	}

	started := time.Now()
	err = client.PurgeFiles(ctx, strings.TrimSpace(cfg.ZoneID), cleanURLs)
	metrics.ObserveCDNRequest(time.Since(started))

	if err != nil {
		return p.fail(ctx, purgeDetail(err), cleanURLs, resourceID, trigger)
	}

	metrics.RecordPurgeOutcome(StatusSuccess.String(), trigger)
	p.logger.Info("edge cache purged",
		zap.Int64("attachment_id", resourceID),
		zap.String("trigger", trigger),
		zap.Strings("urls", cleanURLs),
	)
	return Success()
}

func (p *Purger) fail(ctx context.Context, detail string, urls []string, resourceID int64, trigger string) Outcome {
	metrics.RecordPurgeOutcome(StatusFailed.String(), trigger)
	p.logger.Warn("edge cache purge failed",
		zap.Int64("attachment_id", resourceID),
		zap.String("trigger", trigger),
		zap.String("detail", detail),
	)

	resourceURL, err := p.media.URL(ctx, resourceID)
	if err != nil {
		resourceURL = ""
	}

	p.notifier.Notify(ctx, notify.FailureReport{
		Trigger:     trigger,
		ResourceID:  resourceID,
		ResourceURL: resourceURL,
		PurgedURLs:  urls,
		Detail:      detail,
	})
	return Failed(detail)
}

// purgeDetail renders one diagnostic line per error kind: transport failures
// are prefixed, CDN status failures keep the numeric status and raw body.
func purgeDetail(err error) string {
	var statusErr *cloudflare.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	var rejection *cloudflare.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Error()
	}

	return "transport: " + err.Error()
}

func dedupeURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := map[string]struct{}{}
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
