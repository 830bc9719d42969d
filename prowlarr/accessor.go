package prowlarr

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/declarr/declarr/diff"
	"github.com/declarr/declarr/reconcile"
	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
)

var _ reconcile.RemoteAccessor = (*Accessor)(nil)

// Accessor adapts the REST client to the reconciler's remote surface. Remote
// type schemas are fetched once per category and cached for the lifetime of
// the accessor, which is one reconciliation run.
type Accessor struct {
	client      *Client
	logger      zerolog.Logger
	translators map[schema.Category]*translator
}

type AccessorOption func(*Accessor)

func WithAccessorLogger(logger zerolog.Logger) AccessorOption {
	return func(a *Accessor) {
		a.logger = logger
	}
}

func NewAccessor(client *Client, options ...AccessorOption) *Accessor {
	accessor := &Accessor{
		client:      client,
		logger:      zerolog.Nop(),
		translators: make(map[schema.Category]*translator),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(accessor)
	}
	return accessor
}

func (a *Accessor) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *Accessor) translator(ctx context.Context, spec schema.CategorySpec) (*translator, error) {
	if cached, found := a.translators[spec.Category]; found {
		return cached, nil
	}

	var schemaPayloads []map[string]any
	if spec.SchemaEndpoint != "" {
		if err := a.client.get(ctx, spec.SchemaEndpoint, &schemaPayloads); err != nil {
			return nil, err
		}
		a.logger.Debug().
			Str("category", string(spec.Category)).
			Int("types", len(schemaPayloads)).
			Msg("fetched remote type schemas")
	}

	built := newTranslator(spec, schemaPayloads)
	a.translators[spec.Category] = built
	return built, nil
}

func (a *Accessor) List(ctx context.Context, spec schema.CategorySpec, refs resource.RefTable) ([]resource.Remote, error) {
	t, err := a.translator(ctx, spec)
	if err != nil {
		return nil, err
	}

	if spec.Singleton {
		var payload map[string]any
		if err := a.client.get(ctx, spec.Endpoint, &payload); err != nil {
			return nil, err
		}
		record, err := t.decode(payload, refs)
		if err != nil {
			return nil, err
		}
		return []resource.Remote{record}, nil
	}

	var payloads []map[string]any
	if err := a.client.get(ctx, spec.Endpoint, &payloads); err != nil {
		return nil, err
	}
	records := make([]resource.Remote, 0, len(payloads))
	for _, payload := range payloads {
		record, err := t.decode(payload, refs)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (a *Accessor) Create(ctx context.Context, spec schema.CategorySpec, definition resource.Definition, refs resource.RefTable) (resource.Remote, error) {
	if spec.Singleton {
		return resource.Remote{}, internalError(fmt.Sprintf("%s is a singleton and cannot be created", spec.Category), nil)
	}

	t, err := a.translator(ctx, spec)
	if err != nil {
		return resource.Remote{}, err
	}
	payload, err := t.encodeCreate(definition, refs)
	if err != nil {
		return resource.Remote{}, err
	}

	var created map[string]any
	if err := a.client.post(ctx, spec.Endpoint, payload, &created); err != nil {
		return resource.Remote{}, err
	}
	return t.decode(created, refs)
}

func (a *Accessor) Update(ctx context.Context, spec schema.CategorySpec, update diff.Update, refs resource.RefTable) (resource.Remote, error) {
	t, err := a.translator(ctx, spec)
	if err != nil {
		return resource.Remote{}, err
	}
	payload, err := t.encodeUpdate(update, refs)
	if err != nil {
		return resource.Remote{}, err
	}

	var updated map[string]any
	path := fmt.Sprintf("%s/%d", spec.Endpoint, update.Remote.ID)
	if err := a.client.put(ctx, path, payload, &updated); err != nil {
		return resource.Remote{}, err
	}
	return t.decode(updated, refs)
}

func (a *Accessor) Delete(ctx context.Context, spec schema.CategorySpec, record resource.Remote) error {
	if spec.Singleton || spec.NoDelete {
		return internalError(fmt.Sprintf("%s records cannot be deleted", spec.Category), nil)
	}
	return a.client.delete(ctx, fmt.Sprintf("%s/%d", spec.Endpoint, record.ID))
}
