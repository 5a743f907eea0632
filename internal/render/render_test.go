package render

import (
	"strings"
	"testing"
)

func TestContent_Autop(t *testing.T) {
	t.Parallel()

	got := Content("first paragraph\n\nsecond paragraph")
	want := "<p>first paragraph</p>\n<p>second paragraph</p>"
	if got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
}

func TestContent_AutopLeavesBlockMarkup(t *testing.T) {
	t.Parallel()

	got := Content("<p>already wrapped</p>\n\n<iframe src=\"x\"></iframe>")
	if strings.Contains(got, "<p><p>") || strings.Contains(got, "<p><iframe") {
		t.Errorf("block markup was re-wrapped: %q", got)
	}
}

func TestContent_ExpandsEmbedShortcode(t *testing.T) {
	t.Parallel()

	got := Content("[embed]https://video.example.com/v/1[/embed]")
	if !strings.Contains(got, `<iframe src="https://video.example.com/v/1"`) {
		t.Errorf("embed shortcode not expanded: %q", got)
	}
}

func TestContent_AutoEmbedsBareURLLine(t *testing.T) {
	t.Parallel()

	got := Content("intro text\n\nhttps://video.example.com/v/2\n\noutro")
	if !strings.Contains(got, `<iframe src="https://video.example.com/v/2"`) {
		t.Errorf("bare URL line not embedded: %q", got)
	}
	if !strings.Contains(got, "<p>intro text</p>") {
		t.Errorf("surrounding text lost: %q", got)
	}
}

func TestContent_SkipEmbedLeavesBareURL(t *testing.T) {
	t.Parallel()

	got := Content("https://video.example.com/v/2", FilterEmbed)
	if strings.Contains(got, "<iframe") {
		t.Errorf("embed ran despite skip: %q", got)
	}
}

func TestContent_URLInsideSentenceNotEmbedded(t *testing.T) {
	t.Parallel()

	got := Content("see https://example.com for details")
	if strings.Contains(got, "<iframe") {
		t.Errorf("inline URL should not be embedded: %q", got)
	}
}

func TestContent_SkipShortcode(t *testing.T) {
	t.Parallel()

	body := "[embed]https://video.example.com/v/1[/embed]"
	got := Content(body, FilterShortcode)
	if strings.Contains(got, "<iframe") {
		t.Errorf("shortcode executed despite skip: %q", got)
	}
	if !strings.Contains(got, "[embed]") {
		t.Errorf("shortcode markup should survive when skipped: %q", got)
	}
}

func TestContent_UnknownShortcodePassesThrough(t *testing.T) {
	t.Parallel()

	got := Content("[gallery ids=\"1,2\"]")
	if !strings.Contains(got, "[gallery") {
		t.Errorf("unknown shortcode should pass through: %q", got)
	}
}
