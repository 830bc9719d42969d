package diff

import (
	"testing"

	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
)

func proxySpec(t *testing.T) schema.CategorySpec {
	t.Helper()
	spec, found := schema.Lookup(schema.Proxies)
	if !found {
		t.Fatal("proxies spec not registered")
	}
	return spec
}

func indexerSpec(t *testing.T) schema.CategorySpec {
	t.Helper()
	spec, found := schema.Lookup(schema.Indexers)
	if !found {
		t.Fatal("indexers spec not registered")
	}
	return spec
}

func proxyDefinition(name string, typeValue string, attrs map[string]resource.Value) resource.Definition {
	return resource.Definition{Name: name, Type: typeValue, Attrs: attrs}
}

func TestComputeCreatesMissingRecords(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "http", map[string]resource.Value{
				"hostname": "proxy.internal",
			}),
		},
	}

	changeSet := Compute(proxySpec(t), desired, nil)
	if len(changeSet.Creates) != 1 || len(changeSet.Updates) != 0 || len(changeSet.Deletes) != 0 {
		t.Fatalf("unexpected plan: %+v", changeSet)
	}
	if changeSet.Creates[0].Definition.Name != "corp-proxy" {
		t.Fatalf("created %q", changeSet.Creates[0].Definition.Name)
	}
}

func TestComputeIsEmptyWhenConverged(t *testing.T) {
	t.Parallel()

	attrs := map[string]resource.Value{
		"hostname":        "proxy.internal",
		"port":            1080,
		"request_timeout": nil,
	}
	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
				"port":     1080,
			}),
		},
	}
	remote := []resource.Remote{{
		ID:         3,
		Definition: proxyDefinition("corp-proxy", "socks5", attrs),
	}}

	changeSet := Compute(proxySpec(t), desired, remote)
	if !changeSet.Empty() {
		t.Fatalf("expected empty plan, got %+v", changeSet)
	}
}

func TestComputeNumericRepresentationDoesNotDrift(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
				"port":     1080,
			}),
		},
	}
	// JSON decoding yields float64 for every number.
	remote := []resource.Remote{{
		ID: 3,
		Definition: proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
			"hostname": "proxy.internal",
			"port":     float64(1080),
		}),
	}}

	if changeSet := Compute(proxySpec(t), desired, remote); !changeSet.Empty() {
		t.Fatalf("1080 and 1080.0 must compare equal, got %+v", changeSet)
	}
}

func TestComputeUpdateListsOnlyDriftedFields(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
				"port":     9050,
			}),
		},
	}
	remote := []resource.Remote{{
		ID: 3,
		Definition: proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
			"hostname": "proxy.internal",
			"port":     1080,
		}),
	}}

	changeSet := Compute(proxySpec(t), desired, remote)
	if len(changeSet.Updates) != 1 {
		t.Fatalf("expected one update, got %+v", changeSet)
	}
	changes := changeSet.Updates[0].Changes
	if len(changes) != 1 || changes[0].Field != "port" {
		t.Fatalf("unexpected change list: %+v", changes)
	}
	if changes[0].Before != int64(1080) || changes[0].After != 9050 {
		t.Fatalf("unexpected before/after: %+v", changes[0])
	}
}

func TestComputeTypeChangeRecreates(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
			}),
		},
	}
	remote := []resource.Remote{{
		ID: 3,
		Definition: proxyDefinition("corp-proxy", "http", map[string]resource.Value{
			"hostname": "proxy.internal",
		}),
	}}

	changeSet := Compute(proxySpec(t), desired, remote)
	if len(changeSet.Updates) != 0 {
		t.Fatalf("a type change must never update in place: %+v", changeSet)
	}
	if len(changeSet.Deletes) != 1 || changeSet.Deletes[0].Reason != TypeChanged {
		t.Fatalf("expected a type-change delete, got %+v", changeSet.Deletes)
	}
	if len(changeSet.Creates) != 1 {
		t.Fatalf("expected a replacement create, got %+v", changeSet.Creates)
	}
}

func TestComputeEnumSetCasingDoesNotDrift(t *testing.T) {
	t.Parallel()

	applications, _ := schema.Lookup(schema.Applications)
	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"Radarr": {
				Name: "Radarr",
				Type: "radarr",
				Attrs: map[string]resource.Value{
					"prowlarr_url":    "http://prowlarr:9696",
					"base_url":        "http://radarr:7878",
					"api_key":         "0123456789abcdef",
					"sync_categories": []any{"movies/sd"},
				},
			},
		},
	}
	// Select-option names decode with the remote's casing.
	remote := []resource.Remote{{
		ID: 5,
		Definition: resource.Definition{
			Name: "Radarr",
			Type: "radarr",
			Attrs: map[string]resource.Value{
				"prowlarr_url":    "http://prowlarr:9696",
				"base_url":        "http://radarr:7878",
				"api_key":         "****************",
				"sync_categories": []any{"Movies/SD"},
			},
		},
	}}

	if changeSet := Compute(applications, desired, remote); !changeSet.Empty() {
		t.Fatalf("option casing must not drift, got %+v", changeSet)
	}
}

func TestComputeEnumSetDefaultMatchesRemoteCasing(t *testing.T) {
	t.Parallel()

	applications, _ := schema.Lookup(schema.Applications)
	// Nothing declared beyond the required fields: sync_categories falls back
	// to the lowercase schema default, while the remote reports the full
	// default set in display casing.
	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"Mylar": {
				Name: "Mylar",
				Type: "mylar",
				Attrs: map[string]resource.Value{
					"prowlarr_url": "http://prowlarr:9696",
					"base_url":     "http://mylar:8090",
					"api_key":      "0123456789abcdef",
				},
			},
		},
	}
	remote := []resource.Remote{{
		ID: 6,
		Definition: resource.Definition{
			Name: "Mylar",
			Type: "mylar",
			Attrs: map[string]resource.Value{
				"prowlarr_url":    "http://prowlarr:9696",
				"base_url":        "http://mylar:8090",
				"api_key":         "****************",
				"sync_categories": []any{"Books/Comics"},
			},
		},
	}}

	if changeSet := Compute(applications, desired, remote); !changeSet.Empty() {
		t.Fatalf("default sync categories must converge, got %+v", changeSet)
	}
}

func TestComputeCaseOnlyRenameUpdatesName(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"Corp-Proxy": proxyDefinition("Corp-Proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
			}),
		},
	}
	remote := []resource.Remote{{
		ID:         3,
		Definition: proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{"hostname": "proxy.internal"}),
	}}

	changeSet := Compute(proxySpec(t), desired, remote)
	if len(changeSet.Creates) != 0 || len(changeSet.Deletes) != 0 {
		t.Fatalf("a case rename must not recreate: %+v", changeSet)
	}
	if len(changeSet.Updates) != 1 {
		t.Fatalf("expected one update, got %+v", changeSet)
	}
	changes := changeSet.Updates[0].Changes
	if len(changes) != 1 || changes[0].Field != "name" {
		t.Fatalf("expected a single name change, got %+v", changes)
	}
	if changes[0].Before != "corp-proxy" || changes[0].After != "Corp-Proxy" {
		t.Fatalf("unexpected rename: %+v", changes[0])
	}
}

func TestComputeTypeAliasIsNotAChange(t *testing.T) {
	t.Parallel()

	clients, _ := schema.Lookup(schema.DownloadClients)
	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"seedbox": {Name: "seedbox", Type: "rutorrent", Attrs: map[string]resource.Value{
				"hostname": "seedbox.internal",
			}},
		},
	}
	remote := []resource.Remote{{
		ID: 9,
		Definition: resource.Definition{Name: "seedbox", Type: "rtorrent", Attrs: map[string]resource.Value{
			"hostname": "seedbox.internal",
		}},
	}}

	changeSet := Compute(clients, desired, remote)
	if len(changeSet.Deletes) != 0 || len(changeSet.Creates) != 0 {
		t.Fatalf("alias types must match, got %+v", changeSet)
	}
}

func TestComputeDeleteUnmanaged(t *testing.T) {
	t.Parallel()

	remote := []resource.Remote{{
		ID:         7,
		Definition: proxyDefinition("forgotten", "http", map[string]resource.Value{"hostname": "old.internal"}),
	}}

	keep := Compute(proxySpec(t), resource.Collection{}, remote)
	if !keep.Empty() {
		t.Fatalf("unmanaged records must survive by default, got %+v", keep)
	}

	drop := Compute(proxySpec(t), resource.Collection{DeleteUnmanaged: true}, remote)
	if len(drop.Deletes) != 1 || drop.Deletes[0].Reason != Unmanaged {
		t.Fatalf("expected an unmanaged delete, got %+v", drop)
	}
}

func TestComputeTagsNeverDelete(t *testing.T) {
	t.Parallel()

	tags, _ := schema.Lookup(schema.Tags)
	remote := []resource.Remote{{
		ID:         1,
		Definition: resource.Definition{Name: "old-tag"},
	}}

	changeSet := Compute(tags, resource.Collection{DeleteUnmanaged: true}, remote)
	if len(changeSet.Deletes) != 0 {
		t.Fatalf("tag records must never be deleted, got %+v", changeSet.Deletes)
	}
}

func TestComputeSecretPlaceholderDoesNotDrift(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
				"username": "svc",
				"password": "real-password",
			}),
		},
	}
	remote := []resource.Remote{{
		ID: 3,
		Definition: proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
			"hostname": "proxy.internal",
			"username": "svc",
			"password": "****************",
		}),
	}}

	if changeSet := Compute(proxySpec(t), desired, remote); !changeSet.Empty() {
		t.Fatalf("a remote placeholder must not drift, got %+v", changeSet)
	}
}

func TestComputeSecretChangeIsMasked(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
				"hostname": "proxy.internal",
				"password": "new-password",
			}),
		},
	}
	remote := []resource.Remote{{
		ID: 3,
		Definition: proxyDefinition("corp-proxy", "socks5", map[string]resource.Value{
			"hostname": "proxy.internal",
			"password": "old-password",
		}),
	}}

	changeSet := Compute(proxySpec(t), desired, remote)
	if len(changeSet.Updates) != 1 || len(changeSet.Updates[0].Changes) != 1 {
		t.Fatalf("expected one masked change, got %+v", changeSet)
	}
	change := changeSet.Updates[0].Changes[0]
	if change.Before != "********" || change.After != "********" {
		t.Fatalf("secret values leaked into the plan: %+v", change)
	}
}

func TestComputeTagSetIsOrderInsensitive(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"corp-proxy": {
				Name:  "corp-proxy",
				Type:  "http",
				Attrs: map[string]resource.Value{"hostname": "proxy.internal"},
				Tags:  []string{"movies", "tv", "movies"},
			},
		},
	}
	remote := []resource.Remote{{
		ID: 3,
		Definition: resource.Definition{
			Name:  "corp-proxy",
			Type:  "http",
			Attrs: map[string]resource.Value{"hostname": "proxy.internal"},
			Tags:  []string{"tv", "movies"},
		},
	}}

	if changeSet := Compute(proxySpec(t), desired, remote); !changeSet.Empty() {
		t.Fatalf("tag order and duplicates must not drift, got %+v", changeSet)
	}
}

func TestComputeOpenFieldsIgnoreUnmanagedRemoteFields(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"1337x": {
				Name:  "1337x",
				Type:  "1337x",
				Attrs: map[string]resource.Value{"sync_profile": "Standard"},
				Fields: map[string]resource.Value{
					"torrentBaseSettings.seedRatio": 2.0,
				},
			},
		},
	}
	remote := []resource.Remote{{
		ID: 12,
		Definition: resource.Definition{
			Name:  "1337x",
			Type:  "1337x",
			Attrs: map[string]resource.Value{"sync_profile": "Standard", "enable": true, "redirect": false, "priority": 25},
			Fields: map[string]resource.Value{
				"torrentBaseSettings.seedRatio": 1.0,
				"newFeatureFlag":                "surprise",
			},
		},
	}}

	changeSet := Compute(indexerSpec(t), desired, remote)
	if len(changeSet.Updates) != 1 {
		t.Fatalf("expected one update, got %+v", changeSet)
	}
	changes := changeSet.Updates[0].Changes
	if len(changes) != 1 || changes[0].Field != "torrentBaseSettings.seedRatio" {
		t.Fatalf("only declared fields may drift: %+v", changes)
	}
}

func TestComputeMappingComparesValuesAsSets(t *testing.T) {
	t.Parallel()

	clients, _ := schema.Lookup(schema.DownloadClients)
	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"sab": {Name: "sab", Type: "sabnzbd", Attrs: map[string]resource.Value{
				"hostname": "sab.internal",
				"api_key":  "0123456789abcdef",
				"category_mappings": map[string]resource.Value{
					"prowlarr": []any{"Movies", "TV"},
				},
			}},
		},
	}
	remote := []resource.Remote{{
		ID: 4,
		Definition: resource.Definition{Name: "sab", Type: "sabnzbd", Attrs: map[string]resource.Value{
			"hostname": "sab.internal",
			"api_key":  "****************",
			"category_mappings": map[string]resource.Value{
				"prowlarr": []any{"TV", "Movies"},
			},
		}},
	}}

	if changeSet := Compute(clients, desired, remote); !changeSet.Empty() {
		t.Fatalf("mapping value order must not drift, got %+v", changeSet)
	}
}

func TestComputePlanOrderIsStable(t *testing.T) {
	t.Parallel()

	desired := resource.Collection{
		Definitions: map[string]resource.Definition{
			"zeta":  proxyDefinition("zeta", "http", map[string]resource.Value{"hostname": "z"}),
			"alpha": proxyDefinition("alpha", "http", map[string]resource.Value{"hostname": "a"}),
			"mid":   proxyDefinition("mid", "http", map[string]resource.Value{"hostname": "m"}),
		},
	}

	changeSet := Compute(proxySpec(t), desired, nil)
	if len(changeSet.Creates) != 3 {
		t.Fatalf("expected three creates, got %+v", changeSet)
	}
	for idx, want := range []string{"alpha", "mid", "zeta"} {
		if got := changeSet.Creates[idx].Definition.Name; got != want {
			t.Fatalf("creates[%d] = %q, want %q", idx, got, want)
		}
	}
}
