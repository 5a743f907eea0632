package mockstork

import (
	"bytes"
	"net/http"
	"testing"
)

func TestRecordsNotifications(t *testing.T) {
	t.Parallel()

	mock := New()
	srv := mock.Start()
	defer srv.Close()

	body := bytes.NewReader([]byte(`{"content_status":"published","content_id":42}`))
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/public/content/status", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer test-token")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	notifs := mock.Notifications()
	if len(notifs) != 1 {
		t.Fatalf("recorded %d notifications, want 1", len(notifs))
	}
	n := notifs[0]
	if n.Method != http.MethodPut || n.Path != "/public/content/status" {
		t.Errorf("recorded %s %s", n.Method, n.Path)
	}
	if n.Authorization != "Bearer test-token" {
		t.Errorf("authorization = %q", n.Authorization)
	}
	if n.Payload["content_status"] != "published" {
		t.Errorf("payload = %v", n.Payload)
	}
}

func TestInjectedStatusCodes(t *testing.T) {
	t.Parallel()

	mock := New()
	mock.SetPluginStatusCode(http.StatusUnauthorized)
	srv := mock.Start()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/public/plugin/status", "application/json",
		bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	mock.Reset()
	if len(mock.Notifications()) != 0 {
		t.Error("Reset did not clear notifications")
	}
}
