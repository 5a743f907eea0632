// Package notify pushes content and plugin status changes to the external
// platform. Notifications are fire-and-forget: delivery failures are logged
// and counted, never surfaced to the editorial flow that triggered them.
package notify

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/contentbird/stork-bridge/internal/auth"
	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/metrics"
	"github.com/contentbird/stork-bridge/internal/stork"
)

// Sender abstracts the Stork client for testing.
type Sender interface {
	Fire(ctx context.Context, token string, req *stork.Request) (*stork.Result, error)
}

// OptionReader provides access to the stored installation token.
type OptionReader interface {
	GetOption(ctx context.Context, name string) (string, error)
}

// Notifier reacts to content status transitions and reports them upstream.
type Notifier struct {
	store    OptionReader
	client   Sender
	siteURL  string
	adminURL string
	logger   *slog.Logger

	wg sync.WaitGroup
}

// New creates a Notifier. If logger is nil, slog.Default() will be used.
func New(store OptionReader, client Sender, siteURL, adminURL string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		store:    store,
		client:   client,
		siteURL:  siteURL,
		adminURL: adminURL,
		logger:   logger,
	}
}

// HandleTransition is the hook registered with the content store. It decides
// whether a transition is reportable and dispatches the notification on its
// own goroutine so the editorial operation never waits on the network.
//
// Only transitions into the published state are reported; every other status
// has no upstream meaning. Events carrying no record, unlinked records and
// instances without a token are skipped silently.
func (n *Notifier) HandleTransition(oldStatus, newStatus cms.Status, content *cms.Content) {
	if content == nil {
		metrics.RecordNotification("skipped")
		return
	}
	if newStatus == oldStatus {
		return
	}
	if newStatus != cms.StatusPublish {
		metrics.RecordNotification("skipped")
		return
	}
	if content.ExternalID == 0 {
		metrics.RecordNotification("skipped")
		return
	}

	token, err := n.store.GetOption(context.Background(), cms.OptionAPIToken)
	if err != nil {
		n.logger.Error("failed to load installation token for notification", "error", err)
		metrics.RecordNotification("error")
		return
	}
	if token == "" {
		metrics.RecordNotification("skipped")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.sendContentStatus(token, content)
	}()
}

// Wait blocks until all in-flight notifications have finished. Used during
// shutdown and in tests.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// sendContentStatus delivers one published-content notification.
func (n *Notifier) sendContentStatus(token string, content *cms.Content) {
	payload := stork.Payload{
		"cms_content_id":  content.ID,
		"content_id":      content.ExternalID,
		"content_url":     cms.Permalink(n.siteURL, content),
		"content_status":  "published",
		"instance_domain": instanceDomain(token),
		"future_post":     isFuturePost(content.Date, time.Now()),
	}
	if !content.Date.IsZero() {
		payload["content_published_date"] = content.Date.UTC().Format("2006-01-02 15:04:05")
	} else {
		payload["content_published_date"] = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	result, err := n.client.Fire(ctx, token, &stork.Request{
		Method:   http.MethodPut,
		Endpoint: stork.PathContentStatus,
		Payload:  payload,
	})
	if err != nil {
		n.logger.Warn("content status notification failed",
			"content_id", content.ID, "external_id", content.ExternalID, "error", err)
		metrics.RecordNotification("error")
		return
	}

	if result.StatusCode != http.StatusOK {
		n.logger.Warn("content status notification rejected",
			"content_id", content.ID, "external_id", content.ExternalID,
			"status_code", result.StatusCode)
		metrics.RecordNotification("rejected")
		return
	}

	n.logger.Info("content status notification sent",
		"content_id", content.ID, "external_id", content.ExternalID)
	metrics.RecordNotification("sent")
}

// instanceDomain extracts the tenant domain from the token, best effort.
func instanceDomain(token string) string {
	inst, err := auth.ParseInstance(token)
	if err != nil {
		return ""
	}
	return inst.Domain
}

// isFuturePost reports whether the publish date lies on a later UTC day
// than now. Same-day scheduling counts as a regular publish.
func isFuturePost(date, now time.Time) bool {
	if date.IsZero() {
		return false
	}
	return date.UTC().Truncate(24 * time.Hour).After(now.UTC().Truncate(24 * time.Hour))
}
