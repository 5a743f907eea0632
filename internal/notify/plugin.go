package notify

import (
	"context"
	"net/http"

	"github.com/contentbird/stork-bridge/internal/stork"
)

// Plugin lifecycle states reported upstream.
const (
	PluginActivated   = "activated"
	PluginDeactivated = "deactivated"
)

// ReportPluginStatus tells the platform that this installation went active
// or inactive, carrying the URLs the platform needs to reach the instance.
//
// Unlike content notifications this call is synchronous: the settings flow
// depends on its outcome to accept or roll back a token.
func (n *Notifier) ReportPluginStatus(ctx context.Context, token, status string) (*stork.Result, error) {
	payload := stork.Payload{
		"instance_domain":    instanceDomain(token),
		"plugin_status":      status,
		"cms_frontend_url":   n.siteURL,
		"cms_admin_url":      n.adminURL,
		"cms_editor_url":     n.adminURL + "/edit",
		"cms_plugin_api_url": n.siteURL + "/lbcm",
	}

	return n.client.Fire(ctx, token, &stork.Request{
		Method:   http.MethodPost,
		Endpoint: stork.PathPluginStatus,
		Payload:  payload,
	})
}
