package schema

import (
	"strings"
	"testing"

	"github.com/declarr/declarr/faults"
	"github.com/declarr/declarr/resource"
)

func TestValidateDefinition(t *testing.T) {
	t.Parallel()

	apps, _ := Lookup(Applications)
	proxies, _ := Lookup(Proxies)
	indexers, _ := Lookup(Indexers)
	general, _ := Lookup(General)

	cases := []struct {
		name       string
		spec       CategorySpec
		definition resource.Definition
		wantErr    string
	}{
		{
			name: "valid application",
			spec: apps,
			definition: resource.Definition{
				Name: "Radarr (4K)",
				Type: "radarr",
				Attrs: map[string]resource.Value{
					"prowlarr_url": "http://prowlarr:9696",
					"base_url":     "http://radarr:7878",
					"api_key":      "0123456789abcdef",
					"sync_level":   "full_sync",
				},
				Tags: []string{"movies"},
			},
		},
		{
			name: "empty name",
			spec: apps,
			definition: resource.Definition{
				Type: "radarr",
			},
			wantErr: "name: must not be empty",
		},
		{
			name: "unknown type",
			spec: apps,
			definition: resource.Definition{
				Name: "Plex",
				Type: "plex",
			},
			wantErr: `unknown type "plex"`,
		},
		{
			name: "missing required field",
			spec: apps,
			definition: resource.Definition{
				Name: "Sonarr",
				Type: "sonarr",
				Attrs: map[string]resource.Value{
					"prowlarr_url": "http://prowlarr:9696",
					"api_key":      "0123456789abcdef",
				},
			},
			wantErr: "base_url: required field is not set",
		},
		{
			name: "secret below minimum length",
			spec: apps,
			definition: resource.Definition{
				Name: "Sonarr",
				Type: "sonarr",
				Attrs: map[string]resource.Value{
					"prowlarr_url": "http://prowlarr:9696",
					"base_url":     "http://sonarr:8989",
					"api_key":      "short",
				},
			},
			wantErr: "api_key: must be at least 8 characters",
		},
		{
			name: "undeclared attribute",
			spec: proxies,
			definition: resource.Definition{
				Name: "corp-proxy",
				Type: "http",
				Attrs: map[string]resource.Value{
					"hostname":  "proxy.internal",
					"turbo_mode": true,
				},
			},
			wantErr: "turbo_mode: field is not declared for this type",
		},
		{
			name: "integer out of range",
			spec: proxies,
			definition: resource.Definition{
				Name: "corp-proxy",
				Type: "socks5",
				Attrs: map[string]resource.Value{
					"hostname": "proxy.internal",
					"port":     70000,
				},
			},
			wantErr: "port: must be between 1 and 65535",
		},
		{
			name: "invalid enum option",
			spec: apps,
			definition: resource.Definition{
				Name: "Radarr",
				Type: "radarr",
				Attrs: map[string]resource.Value{
					"prowlarr_url": "http://prowlarr:9696",
					"base_url":     "http://radarr:7878",
					"api_key":      "0123456789abcdef",
					"sync_level":   "extreme",
				},
			},
			wantErr: `sync_level: invalid value "extreme"`,
		},
		{
			name: "free-form fields on a closed category",
			spec: proxies,
			definition: resource.Definition{
				Name: "corp-proxy",
				Type: "http",
				Attrs: map[string]resource.Value{
					"hostname": "proxy.internal",
				},
				Fields: map[string]resource.Value{"extra": 1},
			},
			wantErr: "fields: category does not accept free-form fields",
		},
		{
			name: "free-form fields on indexers",
			spec: indexers,
			definition: resource.Definition{
				Name: "1337x",
				Type: "1337x",
				Attrs: map[string]resource.Value{
					"sync_profile": "Standard",
				},
				Fields: map[string]resource.Value{
					"torrentBaseSettings.seedRatio": 1.5,
				},
			},
		},
		{
			name: "field declared both plain and secret",
			spec: indexers,
			definition: resource.Definition{
				Name: "secret-tracker",
				Type: "secret-tracker",
				Attrs: map[string]resource.Value{
					"sync_profile": "Standard",
				},
				Fields:  map[string]resource.Value{"passkey": "a"},
				Secrets: map[string]resource.Value{"passkey": "b"},
			},
			wantErr: "passkey: defined in both fields and secret_fields",
		},
		{
			name: "missing sync profile reference",
			spec: indexers,
			definition: resource.Definition{
				Name: "1337x",
				Type: "1337x",
			},
			wantErr: "sync_profile: required field is not set",
		},
		{
			name: "empty tag name",
			spec: apps,
			definition: resource.Definition{
				Name: "Radarr",
				Type: "radarr",
				Attrs: map[string]resource.Value{
					"prowlarr_url": "http://prowlarr:9696",
					"base_url":     "http://radarr:7878",
					"api_key":      "0123456789abcdef",
				},
				Tags: []string{"movies", "  "},
			},
			wantErr: "tags: tag names must not be empty",
		},
		{
			name: "singleton with wrong value type",
			spec: general,
			definition: resource.Definition{
				Name:  "general",
				Attrs: map[string]resource.Value{"port": "9696"},
			},
			wantErr: "port: must be an integer",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDefinition(tc.spec, tc.definition)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
			if !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	t.Parallel()

	apps, _ := Lookup(Applications)
	collection := resource.Collection{
		Definitions: map[string]resource.Definition{
			"Radarr": {Name: "Radarr", Type: "radarr"},
			"Plex":   {Name: "Plex", Type: "plex"},
		},
	}

	err := Validate(apps, collection)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	message := err.Error()
	for _, want := range []string{`"Plex"`, `"Radarr"`, "prowlarr_url", "base_url"} {
		if !strings.Contains(message, want) {
			t.Fatalf("aggregate error %q missing %q", message, want)
		}
	}
}

func TestValidateRemoteDefinitionAcceptsPlaceholders(t *testing.T) {
	t.Parallel()

	apps, _ := Lookup(Applications)
	definition := resource.Definition{
		Name: "Radarr",
		Type: "radarr",
		Attrs: map[string]resource.Value{
			"prowlarr_url": "http://prowlarr:9696",
			"base_url":     "http://radarr:7878",
			"api_key":      "********",
		},
	}

	if err := ValidateRemoteDefinition(apps, definition); err != nil {
		t.Fatalf("placeholder read from the remote must validate, got %v", err)
	}
	if err := ValidateDefinition(apps, definition); err == nil {
		t.Fatal("a literal placeholder in desired state must not validate")
	}
}
