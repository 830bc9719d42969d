package schema

// Tags are plain labels referenced by most other categories. Prowlarr cleans
// up unused tags itself, so the category only ever creates.
func tagsSpec() CategorySpec {
	return CategorySpec{
		Category: Tags,
		Endpoint: "/api/v1/tag",
		NameKey:  "label",
		NoDelete: true,
	}
}
