package purge

import (
	"context"
	"strings"
)

// MetaKeyAttachedFile is the tracked attachment-path meta key. Only updates to
// this key (or whole-metadata updates) can trigger a purge.
const MetaKeyAttachedFile = "_wp_attached_file"

// MIMEPDF is the only media type this module purges.
const MIMEPDF = "application/pdf"

// Trigger labels carried into outcome logs and admin alerts.
const (
	TriggerMetaUpdate     = "attached file meta update"
	TriggerMetadataUpdate = "attachment metadata update"
)

// ChangeEvent is one platform change notification about a media resource.
// MimeType and ResourceURL are optional; absent values are resolved through
// the media library.
type ChangeEvent struct {
	ResourceID     int64
	MetaKey        string
	MetadataUpdate bool
	MimeType       string
	ResourceURL    string
	Trigger        string
}

// MediaLibrary resolves attachment facts from the platform. An empty return
// value with a nil error means the fact does not exist for that resource.
type MediaLibrary interface {
	MimeType(ctx context.Context, resourceID int64) (string, error)
	URL(ctx context.Context, resourceID int64) (string, error)
}

// shouldPurge reports the canonical URL to purge for an accepted event.
// Events about other meta keys, non-PDF resources, or resources with no
// resolvable URL are dropped silently.
func (p *Purger) shouldPurge(ctx context.Context, ev ChangeEvent) (string, bool) {
	if !ev.MetadataUpdate && ev.MetaKey != MetaKeyAttachedFile {
		return "", false
	}

	mimeType := strings.TrimSpace(ev.MimeType)
	if mimeType == "" {
		resolved, err := p.media.MimeType(ctx, ev.ResourceID)
		if err != nil {
			return "", false
		}
		mimeType = strings.TrimSpace(resolved)
	}
	if mimeType != MIMEPDF {
		return "", false
	}

	resourceURL := strings.TrimSpace(ev.ResourceURL)
	if resourceURL == "" {
		resolved, err := p.media.URL(ctx, ev.ResourceID)
		if err != nil {
			return "", false
		}
		resourceURL = strings.TrimSpace(resolved)
	}
	if resourceURL == "" {
		return "", false
	}

	return resourceURL, true
}
