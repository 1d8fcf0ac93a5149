package notify

import (
	"fmt"
	"strings"
)

// unknownURLPlaceholder stands in when the resource's current URL could not
// be resolved.
const unknownURLPlaceholder = "(unknown)"

// FailureReport carries everything the admin alert needs about a failed purge.
type FailureReport struct {
	Trigger     string
	ResourceID  int64
	ResourceURL string
	PurgedURLs  []string
	Detail      string
}

// FormatFailure renders the plain-text alert body. Output is deterministic and
// for human consumption only; every attempted URL appears verbatim in the
// bulleted list.
func FormatFailure(siteName string, editLink string, report FailureReport) string {
	resourceURL := report.ResourceURL
	if strings.TrimSpace(resourceURL) == "" {
		resourceURL = unknownURLPlaceholder
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A CDN cache purge failed on %s.\n\n", siteName)
	fmt.Fprintf(&b, "Trigger:       %s\n", report.Trigger)
	fmt.Fprintf(&b, "Attachment ID: %d\n", report.ResourceID)
	fmt.Fprintf(&b, "Edit link:     %s\n", editLink)
	fmt.Fprintf(&b, "Current URL:   %s\n\n", resourceURL)

	b.WriteString("URLs sent for purging:\n")
	for _, u := range report.PurgedURLs {
		fmt.Fprintf(&b, "- %s\n", u)
	}

	fmt.Fprintf(&b, "\nError detail:\n%s\n", report.Detail)
	return b.String()
}
