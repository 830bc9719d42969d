package schema

// Indexer definitions are schema-driven on the remote side: the set of
// provider fields depends on the definition name and is only known from the
// remote type schema. The category therefore declares the handful of stable
// attributes and leaves the rest to the open fields/secret_fields maps.
func indexersSpec() CategorySpec {
	return CategorySpec{
		Category:       Indexers,
		Endpoint:       "/api/v1/indexer",
		SchemaEndpoint: "/api/v1/indexer/schema",
		NameKey:        "name",
		TypeKey:        "definitionName",
		OpenFields:     true,
		Common: []FieldSpec{
			{Name: "enable", APIName: "enable", Kind: Bool, Default: true},
			{Name: "sync_profile", APIName: "appProfileId", Kind: ProfileRef, Required: true},
			{Name: "redirect", APIName: "redirect", Kind: Bool, Default: false},
			{Name: "priority", APIName: "priority", Kind: Int, Default: int64(25), MinInt: 1, MaxInt: 50, HasRange: true},
			{Name: "query_limit", APIName: "baseSettings.queryLimit", Kind: Int, IsField: true, MinInt: 0, MaxInt: 1000000, HasRange: true},
			{Name: "grab_limit", APIName: "baseSettings.grabLimit", Kind: Int, IsField: true, MinInt: 0, MaxInt: 1000000, HasRange: true},
			{Name: "tags", APIName: "tags", Kind: TagSet},
		},
	}
}
