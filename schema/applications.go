package schema

// Applications are the media managers Prowlarr pushes indexer definitions
// to. Each type carries the same connection shape: the Prowlarr URL as seen
// from the application, the application's own base URL, an API key, and the
// set of sync categories to forward.
func applicationsSpec() CategorySpec {
	appFields := func(syncCategories ...string) []FieldSpec {
		defaults := make([]any, 0, len(syncCategories))
		for _, category := range syncCategories {
			defaults = append(defaults, category)
		}
		return []FieldSpec{
			{Name: "api_key", APIName: "apiKey", Kind: Secret, IsField: true, Required: true, MinLength: 8},
			{Name: "sync_categories", APIName: "syncCategories", Kind: EnumSet, IsField: true, Default: defaults},
		}
	}

	return CategorySpec{
		Category:       Applications,
		Endpoint:       "/api/v1/applications",
		SchemaEndpoint: "/api/v1/applications/schema",
		NameKey:        "name",
		TypeKey:        "implementation",
		Common: []FieldSpec{
			{Name: "prowlarr_url", APIName: "prowlarrUrl", Kind: String, IsField: true, Required: true},
			{Name: "base_url", APIName: "baseUrl", Kind: String, IsField: true, Required: true},
			{
				Name:    "sync_level",
				APIName: "syncLevel",
				Kind:    Enum,
				Default: "add_and_remove_only",
				Enum: map[string]any{
					"disabled":            "disabled",
					"add_only":            "addOnly",
					"add_and_remove_only": "addAndRemoveOnly",
					"full_sync":           "fullSync",
				},
			},
			{Name: "tags", APIName: "tags", Kind: TagSet},
		},
		Types: []TypeSpec{
			{
				Value:          "lazylibrarian",
				Aliases:        []string{"lazylibrary"},
				Implementation: "LazyLibrarian",
				Fields:         appFields("audio/audiobook", "books/ebook"),
			},
			{
				Value:          "lidarr",
				Implementation: "Lidarr",
				Fields:         appFields("audio/audiobook", "audio/lossless", "audio/mp3", "audio/other"),
			},
			{
				Value:          "mylar",
				Implementation: "Mylar",
				Fields:         appFields("books/comics"),
			},
			{
				Value:          "radarr",
				Implementation: "Radarr",
				Fields: appFields(
					"movies/bluray", "movies/dvd", "movies/foreign", "movies/hd",
					"movies/sd", "movies/uhd", "movies/web-dl", "movies/x265",
				),
			},
			{
				Value:          "readarr",
				Implementation: "Readarr",
				Fields:         appFields("audio/audiobook", "books/ebook"),
			},
			{
				Value:          "sonarr",
				Implementation: "Sonarr",
				Fields: append(
					appFields("tv/hd", "tv/sd", "tv/uhd", "tv/web-dl"),
					FieldSpec{Name: "anime_sync_categories", APIName: "animeSyncCategories", Kind: EnumSet, IsField: true, Default: []any{"tv/anime"}},
					FieldSpec{Name: "sync_anime_standard_format_search", APIName: "syncAnimeStandardFormatSearch", Kind: Bool, IsField: true, Default: false},
				),
			},
			{
				Value:          "whisparr",
				Implementation: "Whisparr",
				Fields:         appFields("xxx/dvd", "xxx/hd", "xxx/sd"),
			},
		},
	}
}
