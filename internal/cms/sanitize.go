package cms

import "regexp"

// The default save path strips markup an untrusted author must not persist,
// the same way the host platform's save filters do. Integrations that are
// trusted to deliver embeds (iframes) bypass this with SaveOptions.SkipSanitize.
var (
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	iframeRe = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>|<iframe\b[^>]*/?>`)
	eventRe  = regexp.MustCompile(`(?i)\son[a-z]+\s*=\s*("[^"]*"|'[^']*')`)
)

// SaveOptions controls how content is written to the store.
type SaveOptions struct {
	// SkipSanitize disables the markup-stripping save filters.
	SkipSanitize bool
}

// sanitizeHTML removes script blocks, iframes and inline event handlers.
func sanitizeHTML(body string) string {
	body = scriptRe.ReplaceAllString(body, "")
	body = iframeRe.ReplaceAllString(body, "")
	body = eventRe.ReplaceAllString(body, "")
	return body
}

// applySaveFilters returns the body as it should be persisted for the given options.
func applySaveFilters(body string, opts SaveOptions) string {
	if opts.SkipSanitize {
		return body
	}
	return sanitizeHTML(body)
}
