package events

import (
	"context"
	"testing"
)

func TestDispatchMetaUpdated_CallsEveryHandler(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	var calls []string
	d.OnMetaUpdated(func(_ context.Context, ev MetaUpdated) {
		calls = append(calls, "first:"+ev.MetaKey)
	})
	d.OnMetaUpdated(func(_ context.Context, ev MetaUpdated) {
		calls = append(calls, "second:"+ev.MetaKey)
	})

	d.DispatchMetaUpdated(context.Background(), MetaUpdated{PostID: 1, MetaKey: "_wp_attached_file"})

	if len(calls) != 2 || calls[0] != "first:_wp_attached_file" || calls[1] != "second:_wp_attached_file" {
		t.Fatalf("unexpected handler calls: %#v", calls)
	}
}

func TestDispatchAttachmentMetadata_NoHandlersPassesThrough(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	metadata := map[string]any{"file": "report.pdf"}

	returned := d.DispatchAttachmentMetadata(context.Background(), AttachmentMetadata{PostID: 1, Metadata: metadata})

	if len(returned) != 1 || returned["file"] != "report.pdf" {
		t.Fatalf("payload must pass through untouched: %#v", returned)
	}
}

func TestDispatchAttachmentMetadata_ThreadsPayloadThroughChain(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	var seen []int64
	handler := func(_ context.Context, ev AttachmentMetadata) map[string]any {
		seen = append(seen, ev.PostID)
		return ev.Metadata
	}
	d.OnAttachmentMetadata(handler)
	d.OnAttachmentMetadata(handler)

	metadata := map[string]any{"file": "report.pdf", "filesize": 99}
	returned := d.DispatchAttachmentMetadata(context.Background(), AttachmentMetadata{PostID: 7, Metadata: metadata})

	if len(seen) != 2 {
		t.Fatalf("expected both handlers invoked, got: %#v", seen)
	}
	if returned["file"] != "report.pdf" || returned["filesize"] != 99 {
		t.Fatalf("payload changed in the chain: %#v", returned)
	}
}
