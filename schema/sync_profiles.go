package schema

func syncProfilesSpec() CategorySpec {
	return CategorySpec{
		Category: SyncProfiles,
		Endpoint: "/api/v1/appProfile",
		NameKey:  "name",
		Common: []FieldSpec{
			{Name: "enable_rss", APIName: "enableRss", Kind: Bool, Default: true},
			{Name: "enable_interactive_search", APIName: "enableInteractiveSearch", Kind: Bool, Default: true},
			{Name: "enable_automatic_search", APIName: "enableAutomaticSearch", Kind: Bool, Default: true},
			{Name: "minimum_seeders", APIName: "minimumSeeders", Kind: Int, Default: int64(1), MinInt: 1, MaxInt: 100000000, HasRange: true},
		},
	}
}
