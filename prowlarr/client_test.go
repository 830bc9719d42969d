package prowlarr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/declarr/declarr/faults"
)

func TestPingSendsAPIKey(t *testing.T) {
	t.Parallel()

	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/system/status" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"appName":"Prowlarr","version":"1.21.2.4649"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-api-key")
	if err != nil {
		t.Fatalf("client setup failed: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if gotKey != "test-api-key" {
		t.Fatalf("X-Api-Key = %q", gotKey)
	}
}

func TestPingRejectsOtherApplications(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"appName":"Sonarr","version":"4.0.0"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "key")
	err := client.Ping(context.Background())
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error for a non-Prowlarr instance, got %v", err)
	}
}

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		status   int
		body     string
		category faults.ErrorCategory
	}{
		{"unauthorized", http.StatusUnauthorized, "", faults.AuthError},
		{"forbidden", http.StatusForbidden, "", faults.AuthError},
		{"not found", http.StatusNotFound, "", faults.NotFoundError},
		{"bad request", http.StatusBadRequest, `[{"propertyName":"Name","errorMessage":"must be unique"}]`, faults.RemoteOperationError},
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, faults.RemoteOperationError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, _ := NewClient(server.URL, "key")
			err := client.get(context.Background(), "/api/v1/tag", nil)
			if !faults.IsCategory(err, tc.category) {
				t.Fatalf("status %d classified as %v", tc.status, err)
			}
		})
	}
}

func TestRemoteValidationDetailsSurface(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"propertyName":"Host","errorMessage":"must not be empty","attemptedValue":""}]`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "key")
	err := client.post(context.Background(), "/api/v1/indexerProxy", map[string]any{}, nil)
	if err == nil {
		t.Fatal("expected a remote rejection")
	}
	want := "Host: must not be empty"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Fatalf("error %q does not surface %q", got, want)
	}
}

func TestConnectionRefusedIsConnectivity(t *testing.T) {
	t.Parallel()

	// A closed port on localhost.
	client, _ := NewClient("http://127.0.0.1:1", "key")
	err := client.Ping(context.Background())
	if !faults.IsCategory(err, faults.ConnectivityError) {
		t.Fatalf("expected a connectivity error, got %v", err)
	}
}

func TestDiscoverAPIKeyFromInitializeJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/initialize.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"apiKey":"0123456789abcdef0123456789abcdef","urlBase":""}`))
	}))
	defer server.Close()

	key, err := DiscoverAPIKey(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	if key != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("discovered key %q", key)
	}
}

func TestDiscoverAPIKeyFallsBackToScript(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/initialize.js":
			w.Write([]byte("window.Prowlarr = {\n  apiKey: 'fedcba9876543210fedcba9876543210',\n  urlBase: ''\n};\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	key, err := DiscoverAPIKey(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}
	if key != "fedcba9876543210fedcba9876543210" {
		t.Fatalf("discovered key %q", key)
	}
}
