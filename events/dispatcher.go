// Package events routes the platform's two trigger shapes to registered
// handlers. Registration happens at startup in the platform adapter; the core
// packages never reach into a process-wide hook table.
package events

import (
	"context"
	"sync"
)

// MetaUpdated carries a post-metadata-updated notification.
type MetaUpdated struct {
	PostID    int64
	MetaKey   string
	MetaValue string
}

// AttachmentMetadata carries an attachment-metadata update payload.
type AttachmentMetadata struct {
	PostID   int64
	Metadata map[string]any
}

// MetaUpdatedHandler handles a post-metadata-updated notification.
type MetaUpdatedHandler func(ctx context.Context, ev MetaUpdated)

// AttachmentMetadataHandler handles an attachment-metadata update and returns
// the metadata to pass down the chain. Handlers must not mutate or drop it.
type AttachmentMetadataHandler func(ctx context.Context, ev AttachmentMetadata) map[string]any

// Dispatcher maps trigger shapes to their handlers.
type Dispatcher struct {
	mu                 sync.RWMutex
	metaHandlers       []MetaUpdatedHandler
	attachmentHandlers []AttachmentMetadataHandler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnMetaUpdated registers a handler for post-metadata-updated notifications.
func (d *Dispatcher) OnMetaUpdated(h MetaUpdatedHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metaHandlers = append(d.metaHandlers, h)
}

// OnAttachmentMetadata registers a handler for attachment-metadata updates.
func (d *Dispatcher) OnAttachmentMetadata(h AttachmentMetadataHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attachmentHandlers = append(d.attachmentHandlers, h)
}

// DispatchMetaUpdated delivers the notification to every registered handler.
func (d *Dispatcher) DispatchMetaUpdated(ctx context.Context, ev MetaUpdated) {
	d.mu.RLock()
	handlers := d.metaHandlers
	d.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}

// DispatchAttachmentMetadata threads the payload through every registered
// handler and returns the result. With no handlers the payload comes back
// untouched, preserving the filter chain's pass-through semantics.
func (d *Dispatcher) DispatchAttachmentMetadata(ctx context.Context, ev AttachmentMetadata) map[string]any {
	d.mu.RLock()
	handlers := d.attachmentHandlers
	d.mu.RUnlock()

	metadata := ev.Metadata
	for _, h := range handlers {
		metadata = h(ctx, AttachmentMetadata{PostID: ev.PostID, Metadata: metadata})
	}
	return metadata
}
