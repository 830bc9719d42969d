package config

import (
	"testing"

	"github.com/declarr/declarr/faults"
	"github.com/declarr/declarr/schema"
)

const sampleDocument = `
instance:
  hostname: prowlarr.internal
  port: 9696
  protocol: http
  api_key: 0123456789abcdef0123456789abcdef
settings:
  tags:
    definitions:
      - movies
      - tv
  ui:
    theme: dark
  sync_profiles:
    definitions:
      Standard:
        minimum_seeders: 2
  applications:
    delete_unmanaged: true
    definitions:
      Radarr:
        type: radarr
        prowlarr_url: http://prowlarr.internal:9696
        base_url: http://radarr.internal:7878
        api_key: fedcba9876543210
        tags:
          - movies
  indexers:
    definitions:
      1337x:
        type: 1337x
        sync_profile: Standard
        fields:
          torrentBaseSettings.seedRatio: 1.5
        secret_fields:
          passkey: super-secret
`

func TestParseSampleDocument(t *testing.T) {
	t.Parallel()

	document, err := Parse([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := document.Instance.HostURL(); got != "http://prowlarr.internal:9696" {
		t.Fatalf("host URL = %q", got)
	}

	desired, err := document.DesiredState()
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	tags := desired[schema.Tags]
	if len(tags.Definitions) != 2 {
		t.Fatalf("tags = %+v", tags.Definitions)
	}

	ui := desired[schema.UI].Definitions["ui"]
	if ui.Attrs["theme"] != "dark" {
		t.Fatalf("ui theme = %#v", ui.Attrs["theme"])
	}

	radarr := desired[schema.Applications].Definitions["Radarr"]
	if radarr.Type != "radarr" {
		t.Fatalf("radarr type = %q", radarr.Type)
	}
	if len(radarr.Tags) != 1 || radarr.Tags[0] != "movies" {
		t.Fatalf("radarr tags = %#v", radarr.Tags)
	}
	if _, leaked := radarr.Attrs["tags"]; leaked {
		t.Fatal("tags key must not land in attrs")
	}
	if !desired[schema.Applications].DeleteUnmanaged {
		t.Fatal("delete_unmanaged lost in conversion")
	}

	indexer := desired[schema.Indexers].Definitions["1337x"]
	if indexer.Attrs["sync_profile"] != "Standard" {
		t.Fatalf("sync_profile = %#v", indexer.Attrs["sync_profile"])
	}
	if indexer.Fields["torrentBaseSettings.seedRatio"] != 1.5 {
		t.Fatalf("fields = %#v", indexer.Fields)
	}
	if indexer.Secrets["passkey"] != "super-secret" {
		t.Fatalf("secret_fields = %#v", indexer.Secrets)
	}

	if _, declared := desired[schema.DownloadClients]; declared {
		t.Fatal("absent categories must stay undeclared")
	}
}

func TestParseRejectsUnknownSettingsBlock(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
instance:
  hostname: localhost
settings:
  donload_clients:
    definitions: {}
`))
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error for a misspelled block, got %v", err)
	}
}

func TestParseRejectsBadInstance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"missing instance", "settings: {}"},
		{"bad protocol", "instance:\n  protocol: gopher"},
		{"bad port", "instance:\n  port: 99999"},
		{"not yaml", ":\t this is not yaml {{{"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.body)); !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestInstanceDefaults(t *testing.T) {
	t.Parallel()

	instance := Instance{}
	if got := instance.HostURL(); got != "http://localhost:9696" {
		t.Fatalf("default host URL = %q", got)
	}

	instance = Instance{Protocol: "https", URLBase: "/prowlarr/"}
	if got := instance.HostURL(); got != "https://localhost:443/prowlarr" {
		t.Fatalf("https host URL = %q", got)
	}

	if instance.InsecureTLS() {
		t.Fatal("verification must default to on")
	}
	off := false
	instance.VerifyTLS = &off
	if !instance.InsecureTLS() {
		t.Fatal("verify_tls: false must disable verification")
	}
}
