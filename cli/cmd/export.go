package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/declarr/declarr/reconcile"
	"github.com/declarr/declarr/schema"
	"github.com/declarr/declarr/yamlutil"
)

func newExportCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the instance configuration in declarable form",
		Long: `Export reads the remote configuration and prints it in the same shape the
configuration document uses, ready to be committed as desired state. Secret
values are masked; fill them in before syncing the exported document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := buildLogger(cmd)

			document, err := loadDocument(ctx, cmd)
			if err != nil {
				return err
			}
			reconciler, err := buildReconciler(ctx, document.Instance, logger, false)
			if err != nil {
				return err
			}

			exported, err := reconciler.Export(ctx)
			if err != nil {
				return err
			}
			settings := exportSettings(exported)

			if strings.TrimSpace(query) != "" {
				return runQuery(cmd, settings, query)
			}

			encoded, err := yamlutil.MarshalWithIndent(map[string]any{"settings": settings}, 2)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "jq expression to apply to the exported settings")
	return cmd
}

// exportSettings reshapes the per-category collections into the settings
// block of a configuration document.
func exportSettings(exported reconcile.DesiredState) map[string]any {
	settings := make(map[string]any, len(exported))
	for category, collection := range exported {
		spec, _ := schema.Lookup(category)

		if category == schema.Tags {
			names := make([]string, 0, len(collection.Definitions))
			for name := range collection.Definitions {
				names = append(names, name)
			}
			sort.Strings(names)
			settings[string(category)] = map[string]any{"definitions": names}
			continue
		}

		if spec.Singleton {
			if definition, found := collection.Definitions[spec.SingletonName]; found {
				settings[string(category)] = definition.Attrs
			}
			continue
		}

		definitions := make(map[string]any, len(collection.Definitions))
		for name, definition := range collection.Definitions {
			body := make(map[string]any, len(definition.Attrs)+4)
			if definition.Type != "" {
				body["type"] = definition.Type
			}
			for key, value := range definition.Attrs {
				body[key] = value
			}
			if len(definition.Tags) > 0 {
				body["tags"] = definition.Tags
			}
			if len(definition.Fields) > 0 {
				body["fields"] = definition.Fields
			}
			if len(definition.Secrets) > 0 {
				body["secret_fields"] = definition.Secrets
			}
			definitions[name] = body
		}
		settings[string(category)] = map[string]any{"definitions": definitions}
	}
	return settings
}

func runQuery(cmd *cobra.Command, settings map[string]any, query string) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	// gojq expects JSON-decoded values.
	encoded, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	var input any
	if err := json.Unmarshal(encoded, &input); err != nil {
		return err
	}

	iter := parsed.Run(input)
	for {
		value, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := value.(error); isErr {
			return err
		}
		line, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(line))
	}
	return nil
}
