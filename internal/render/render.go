// Package render implements the display filter pipeline applied to content
// bodies before they are returned for display.
package render

import (
	"regexp"
	"strings"
)

// Filter names. Callers can skip individual filters by name.
const (
	FilterAutop     = "autop"
	FilterEmbed     = "embed"
	FilterShortcode = "shortcode"
)

var (
	embedShortcodeRe = regexp.MustCompile(`(?s)\[embed\](.*?)\[/embed\]`)
	bareURLLineRe    = regexp.MustCompile(`(?m)^https?://\S+$`)
	blockStartRe     = regexp.MustCompile(`(?i)^<(p|div|ul|ol|li|blockquote|pre|h[1-6]|table|figure|iframe|script)\b`)
)

// Content runs the display filter chain over a content body and returns the
// rendered markup. Filters named in skip are left out; the inbound API skips
// shortcode execution to avoid double-processing on the consumer side.
func Content(body string, skip ...string) string {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	if !skipped[FilterEmbed] {
		body = autoEmbed(body)
	}
	if !skipped[FilterShortcode] {
		body = doShortcodes(body)
	}
	if !skipped[FilterAutop] {
		body = autop(body)
	}

	return body
}

// autoEmbed turns a URL standing alone on its own line into embed markup.
// URLs inside surrounding text are left untouched.
func autoEmbed(body string) string {
	return bareURLLineRe.ReplaceAllStringFunc(body, func(url string) string {
		return `<iframe src="` + url + `" frameborder="0" allowfullscreen></iframe>`
	})
}

// doShortcodes expands executable shortcodes. Only the embed shortcode is
// registered; unknown shortcodes pass through untouched.
func doShortcodes(body string) string {
	return embedShortcodeRe.ReplaceAllStringFunc(body, func(m string) string {
		url := strings.TrimSpace(embedShortcodeRe.FindStringSubmatch(m)[1])
		if url == "" {
			return ""
		}
		return `<iframe src="` + url + `" frameborder="0" allowfullscreen></iframe>`
	})
}

// autop wraps plain-text blocks separated by blank lines in paragraph tags.
// Blocks that already start with block-level markup are left alone.
func autop(body string) string {
	blocks := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n")

	var out []string
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if blockStartRe.MatchString(block) {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+block+"</p>")
	}

	return strings.Join(out, "\n")
}
