package cloudflare

import "encoding/json"

// APIErrorItem represents a single error returned by Cloudflare.
type APIErrorItem struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool            `json:"success"`
	Errors  []APIErrorItem  `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type purgeRequest struct {
	Files []string `json:"files"`
}

// PurgeResult identifies a completed purge operation.
type PurgeResult struct {
	ID string `json:"id"`
}
