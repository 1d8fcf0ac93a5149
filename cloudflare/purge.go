package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// PurgeFiles invalidates the given absolute URLs in a zone's edge cache.
func (c *Client) PurgeFiles(ctx context.Context, zoneID string, files []string) error {
	cleanZoneID := strings.TrimSpace(zoneID)
	if cleanZoneID == "" {
		return errors.New("zone ID must not be empty")
	}
	if len(files) == 0 {
		return errors.New("purge file list must not be empty")
	}

	var result PurgeResult
	return c.Do(
		ctx,
		http.MethodPost,
		fmt.Sprintf("/zones/%s/purge_cache", url.PathEscape(cleanZoneID)),
		purgeRequest{Files: files},
		&result,
	)
}
