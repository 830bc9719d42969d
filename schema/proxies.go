package schema

// Indexer proxies route indexer traffic through an intermediary. A proxy
// applies to indexers carrying at least one of its tags; an untagged proxy
// applies to all indexers.
func proxiesSpec() CategorySpec {
	socksFields := func(defaultPort int64) []FieldSpec {
		return []FieldSpec{
			{Name: "hostname", APIName: "host", Kind: String, IsField: true, Required: true},
			{Name: "port", APIName: "port", Kind: Int, IsField: true, Default: defaultPort, MinInt: 1, MaxInt: 65535, HasRange: true},
			{Name: "username", APIName: "username", Kind: String, IsField: true, Default: ""},
			{Name: "password", APIName: "password", Kind: Secret, IsField: true, Default: ""},
		}
	}

	return CategorySpec{
		Category:       Proxies,
		Endpoint:       "/api/v1/indexerProxy",
		SchemaEndpoint: "/api/v1/indexerProxy/schema",
		NameKey:        "name",
		TypeKey:        "implementation",
		Common: []FieldSpec{
			{Name: "tags", APIName: "tags", Kind: TagSet},
		},
		Types: []TypeSpec{
			{
				Value:          "flaresolverr",
				Implementation: "FlareSolverr",
				Fields: []FieldSpec{
					{Name: "host_url", APIName: "host", Kind: String, IsField: true, Required: true},
					{Name: "request_timeout", APIName: "requestTimeout", Kind: Int, IsField: true, Default: int64(60), MinInt: 1, MaxInt: 3600, HasRange: true},
				},
			},
			{Value: "http", Implementation: "Http", Fields: socksFields(8080)},
			{Value: "socks4", Implementation: "Socks4", Fields: socksFields(1080)},
			{Value: "socks5", Implementation: "Socks5", Fields: socksFields(1080)},
		},
	}
}
