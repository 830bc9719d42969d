// Package config loads the declared desired-state document: instance
// connection settings plus per-category resource definitions.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/declarr/declarr/faults"
	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
)

// Document is the root of the declared configuration file.
type Document struct {
	Instance Instance `yaml:"instance"`
	Settings Settings `yaml:"settings"`
}

// Instance describes how to reach the remote instance.
type Instance struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Protocol string `yaml:"protocol"`
	URLBase  string `yaml:"url_base"`
	// APIKey may be left empty; it is then discovered from the instance's
	// bootstrap endpoint, which only works while authentication is disabled.
	APIKey         string `yaml:"api_key"`
	VerifyTLS      *bool  `yaml:"verify_tls"`
	RequestTimeout int    `yaml:"request_timeout"`
}

// Settings holds one block per reconciled category. Absent blocks leave the
// category untouched.
type Settings struct {
	Tags            *TagsDoc       `yaml:"tags"`
	General         map[string]any `yaml:"general"`
	UI              map[string]any `yaml:"ui"`
	SyncProfiles    *CategoryDoc   `yaml:"sync_profiles"`
	Proxies         *CategoryDoc   `yaml:"proxies"`
	DownloadClients *CategoryDoc   `yaml:"download_clients"`
	Notifications   *CategoryDoc   `yaml:"notifications"`
	Applications    *CategoryDoc   `yaml:"applications"`
	Indexers        *CategoryDoc   `yaml:"indexers"`
}

// TagsDoc declares tag names. Tags are never deleted remotely; the instance
// garbage collects unused ones itself.
type TagsDoc struct {
	Definitions []string `yaml:"definitions"`
}

// CategoryDoc is the YAML shape of one non-singleton category.
type CategoryDoc struct {
	DeleteUnmanaged bool                      `yaml:"delete_unmanaged"`
	Definitions     map[string]map[string]any `yaml:"definitions"`
}

const (
	keyType    = "type"
	keyTags    = "tags"
	keyFields  = "fields"
	keySecrets = "secret_fields"
)

func (i Instance) hostname() string {
	if strings.TrimSpace(i.Hostname) == "" {
		return "localhost"
	}
	return strings.TrimSpace(i.Hostname)
}

func (i Instance) protocol() string {
	if strings.TrimSpace(i.Protocol) == "" {
		return "http"
	}
	return strings.ToLower(strings.TrimSpace(i.Protocol))
}

func (i Instance) port() int {
	if i.Port > 0 {
		return i.Port
	}
	if i.protocol() == "https" {
		return 443
	}
	return 9696
}

// HostURL builds the base URL of the instance.
func (i Instance) HostURL() string {
	host := fmt.Sprintf("%s:%d", i.hostname(), i.port())
	base := &url.URL{
		Scheme: i.protocol(),
		Host:   host,
		Path:   "/" + strings.Trim(i.URLBase, "/"),
	}
	return strings.TrimRight(base.String(), "/")
}

// Timeout returns the per-request timeout, zero meaning the client default.
func (i Instance) Timeout() time.Duration {
	if i.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(i.RequestTimeout) * time.Second
}

// InsecureTLS reports whether certificate verification is disabled.
func (i Instance) InsecureTLS() bool {
	return i.VerifyTLS != nil && !*i.VerifyTLS
}

// DesiredState converts the settings blocks into per-category collections in
// the local schema representation.
func (d *Document) DesiredState() (map[schema.Category]resource.Collection, error) {
	desired := make(map[schema.Category]resource.Collection)

	if d.Settings.Tags != nil {
		definitions := make(map[string]resource.Definition, len(d.Settings.Tags.Definitions))
		for _, name := range d.Settings.Tags.Definitions {
			definitions[name] = resource.Definition{Name: name}
		}
		desired[schema.Tags] = resource.Collection{Definitions: definitions}
	}

	if d.Settings.General != nil {
		desired[schema.General] = singletonCollection(schema.General, "general", d.Settings.General)
	}
	if d.Settings.UI != nil {
		desired[schema.UI] = singletonCollection(schema.UI, "ui", d.Settings.UI)
	}

	categoryDocs := map[schema.Category]*CategoryDoc{
		schema.SyncProfiles:    d.Settings.SyncProfiles,
		schema.Proxies:         d.Settings.Proxies,
		schema.DownloadClients: d.Settings.DownloadClients,
		schema.Notifications:   d.Settings.Notifications,
		schema.Applications:    d.Settings.Applications,
		schema.Indexers:        d.Settings.Indexers,
	}
	for category, doc := range categoryDocs {
		if doc == nil {
			continue
		}
		collection, err := doc.collection(category)
		if err != nil {
			return nil, err
		}
		desired[category] = collection
	}

	return desired, nil
}

func singletonCollection(category schema.Category, name string, attrs map[string]any) resource.Collection {
	return resource.Collection{
		Definitions: map[string]resource.Definition{
			name: {Name: name, Attrs: attrs},
		},
	}
}

func (c *CategoryDoc) collection(category schema.Category) (resource.Collection, error) {
	collection := resource.Collection{
		DeleteUnmanaged: c.DeleteUnmanaged,
		Definitions:     make(map[string]resource.Definition, len(c.Definitions)),
	}

	for name, body := range c.Definitions {
		definition := resource.Definition{
			Name:  name,
			Attrs: make(map[string]resource.Value, len(body)),
		}
		for key, value := range body {
			switch key {
			case keyType:
				text, ok := value.(string)
				if !ok {
					return resource.Collection{}, faults.NewTypedError(faults.ValidationError,
						fmt.Sprintf("%s.definitions[%q].type: must be a string", category, name), nil)
				}
				definition.Type = text
			case keyTags:
				tags, err := stringList(value)
				if err != nil {
					return resource.Collection{}, faults.NewTypedError(faults.ValidationError,
						fmt.Sprintf("%s.definitions[%q].tags: must be a list of strings", category, name), nil)
				}
				definition.Tags = tags
			case keyFields:
				fields, ok := value.(map[string]any)
				if !ok {
					return resource.Collection{}, faults.NewTypedError(faults.ValidationError,
						fmt.Sprintf("%s.definitions[%q].fields: must be a mapping", category, name), nil)
				}
				definition.Fields = fields
			case keySecrets:
				fields, ok := value.(map[string]any)
				if !ok {
					return resource.Collection{}, faults.NewTypedError(faults.ValidationError,
						fmt.Sprintf("%s.definitions[%q].secret_fields: must be a mapping", category, name), nil)
				}
				definition.Secrets = fields
			default:
				definition.Attrs[key] = value
			}
		}
		collection.Definitions[name] = definition
	}

	return collection, nil
}

func stringList(value any) ([]string, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return typed, nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("not a string: %#v", item)
			}
			out = append(out, text)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list: %#v", value)
}
