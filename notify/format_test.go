package notify

import (
	"strings"
	"testing"
)

func TestFormatFailure_ContainsEveryURLVerbatim(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://acme.com/wp-content/uploads/report.pdf",
		"https://acme.com/files/weird name (1)?.pdf",
		"https://acme.com/files/%E2%9C%93.pdf",
	}
	report := FailureReport{
		Trigger:     "attachment metadata update",
		ResourceID:  1071,
		ResourceURL: "https://acme.com/wp-content/uploads/report.pdf",
		PurgedURLs:  urls,
		Detail:      "cloudflare rejected request with status 200: {\"success\":false}",
	}

	body := FormatFailure("Acme Docs", "https://acme.com/wp-admin/post.php?post=1071&action=edit", report)

	if !strings.Contains(body, "Attachment ID: 1071") {
		t.Fatalf("missing resource ID:\n%s", body)
	}
	if !strings.Contains(body, "Trigger:       attachment metadata update") {
		t.Fatalf("missing trigger label:\n%s", body)
	}
	for _, u := range urls {
		if !strings.Contains(body, "- "+u+"\n") {
			t.Fatalf("missing bulleted URL %q:\n%s", u, body)
		}
	}
	if !strings.Contains(body, report.Detail) {
		t.Fatalf("missing detail:\n%s", body)
	}
}

func TestFormatFailure_UnknownResourceURLPlaceholder(t *testing.T) {
	t.Parallel()

	body := FormatFailure("Acme", "", FailureReport{
		Trigger:    "attached file meta update",
		ResourceID: 7,
		PurgedURLs: []string{"https://acme.com/a.pdf"},
		Detail:     "missing credentials",
	})

	if !strings.Contains(body, "Current URL:   (unknown)") {
		t.Fatalf("expected placeholder for unknown URL:\n%s", body)
	}
}

func TestFormatFailure_Deterministic(t *testing.T) {
	t.Parallel()

	report := FailureReport{
		Trigger:    "attached file meta update",
		ResourceID: 9,
		PurgedURLs: []string{"https://acme.com/a.pdf", "https://acme.com/b.pdf"},
		Detail:     "transport: dial tcp: i/o timeout",
	}

	first := FormatFailure("Acme", "https://acme.com/edit", report)
	second := FormatFailure("Acme", "https://acme.com/edit", report)
	if first != second {
		t.Fatalf("expected deterministic output")
	}
}
