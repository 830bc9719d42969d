package schema

// UI settings are a singleton record on /config/ui; only updates apply.
func uiSpec() CategorySpec {
	return CategorySpec{
		Category:      UI,
		Endpoint:      "/api/v1/config/ui",
		Singleton:     true,
		SingletonName: "ui",
		NameKey:       "id",
		Common: []FieldSpec{
			{
				Name: "first_day_of_week", APIName: "firstDayOfWeek", Kind: Enum, Default: "sunday",
				Enum: map[string]any{"sunday": int64(0), "monday": int64(1)},
			},
			{
				Name: "week_column_header", APIName: "calendarWeekColumnHeader", Kind: Enum, Default: "month-first",
				Enum: map[string]any{
					"month-first":        "ddd M/D",
					"month-first-padded": "ddd MM/DD",
					"day-first":          "ddd D/M",
					"day-first-padded":   "ddd DD/MM",
				},
			},
			{
				Name: "short_date_format", APIName: "shortDateFormat", Kind: Enum, Default: "word-month-first",
				Enum: map[string]any{
					"word-month-first":          "MMM D YYYY",
					"word-month-second":         "DD MMM YYYY",
					"slash-month-first":         "MM/D/YYYY",
					"slash-month-first-padded":  "MM/DD/YYYY",
					"slash-day-first":           "DD/MM/YYYY",
					"iso8601":                   "YYYY-MM-DD",
				},
			},
			{
				Name: "long_date_format", APIName: "longDateFormat", Kind: Enum, Default: "month-first",
				Enum: map[string]any{
					"month-first": "dddd, MMMM D YYYY",
					"day-first":   "dddd, D MMMM YYYY",
				},
			},
			{
				Name: "time_format", APIName: "timeFormat", Kind: Enum, Default: "twelve-hour",
				Enum: map[string]any{"twelve-hour": "h(:mm)a", "twentyfour-hour": "HH:mm"},
			},
			{Name: "show_relative_dates", APIName: "showRelativeDates", Kind: Bool, Default: true},
			{Name: "enable_color_impaired_mode", APIName: "enableColorImpairedMode", Kind: Bool, Default: false},
			{
				Name: "theme", APIName: "theme", Kind: Enum, Default: "light",
				Enum: map[string]any{"auto": "auto", "light": "light", "dark": "dark"},
			},
			{Name: "ui_language", APIName: "uiLanguage", Kind: String, Default: "en"},
		},
	}
}
