package services

import "testing"

func TestContentFilter_Check(t *testing.T) {
	filter := NewContentFilter()

	cases := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"clean text", "The streetlight on Oak Avenue has been out for a week.", true, ""},
		{"empty text", "", true, ""},
		{"banned word", "This is complete bullshit, fix the road", false, "inappropriate_language"},
		{"banned word case insensitive", "What a SCAM this pothole repair was", false, "inappropriate_language"},
		{"banned word inside another word passes", "The classic facade is crumbling", true, ""},
		{"http url", "See https://example.com/photo for details", false, "url_not_allowed"},
		{"www url", "Details at www.example.com/report", false, "url_not_allowed"},
		{"email address", "Contact me at jane.doe@example.com please", false, "contact_info_not_allowed"},
		{"phone number", "Call 555-123-4567 about the leak", false, "contact_info_not_allowed"},
		{"parenthesized phone", "Reach the office at (555) 123 4567", false, "contact_info_not_allowed"},
		{"repeated characters", "Fix this nowwwwww", false, "spam_detected"},
		{"street number passes", "Broken hydrant at 2214 Elm Street", true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := filter.Check(tc.text)
			if ok != tc.ok || reason != tc.reason {
				t.Errorf("Check(%q) = (%v, %q), want (%v, %q)", tc.text, ok, reason, tc.ok, tc.reason)
			}
		})
	}
}

func TestContentFilter_RejectionMessage(t *testing.T) {
	filter := NewContentFilter()

	if msg := filter.RejectionMessage("url_not_allowed"); msg != "URLs and web links are not allowed in reports." {
		t.Errorf("unexpected message: %q", msg)
	}
	if msg := filter.RejectionMessage("something_else"); msg != "Your report does not meet our content guidelines." {
		t.Errorf("unexpected fallback message: %q", msg)
	}
}
