package schema

func notificationsSpec() CategorySpec {
	return CategorySpec{
		Category:       Notifications,
		Endpoint:       "/api/v1/notification",
		SchemaEndpoint: "/api/v1/notification/schema",
		NameKey:        "name",
		TypeKey:        "implementation",
		Common: []FieldSpec{
			{Name: "on_health_issue", APIName: "onHealthIssue", Kind: Bool, Default: false},
			{Name: "include_health_warnings", APIName: "includeHealthWarnings", Kind: Bool, Default: false},
			{Name: "on_application_update", APIName: "onApplicationUpdate", Kind: Bool, Default: false},
			{Name: "tags", APIName: "tags", Kind: TagSet},
		},
		Types: []TypeSpec{
			{
				Value:          "custom_script",
				Aliases:        []string{"customscript"},
				Implementation: "CustomScript",
				Fields: []FieldSpec{
					{Name: "path", APIName: "path", Kind: String, IsField: true, Required: true},
				},
			},
			{
				Value:          "discord",
				Implementation: "Discord",
				Fields: []FieldSpec{
					{Name: "webhook_url", APIName: "webHookUrl", Kind: String, IsField: true, Required: true},
					{Name: "username", APIName: "username", Kind: String, IsField: true, Default: ""},
					{Name: "avatar", APIName: "avatar", Kind: String, IsField: true, Default: ""},
				},
			},
			{
				Value:          "email",
				Implementation: "Email",
				Fields: []FieldSpec{
					{Name: "server", APIName: "server", Kind: String, IsField: true, Required: true},
					{Name: "port", APIName: "port", Kind: Int, IsField: true, Default: int64(587), MinInt: 1, MaxInt: 65535, HasRange: true},
					{
						Name: "use_encryption", APIName: "requireEncryption", Kind: Enum, IsField: true, Default: "preferred",
						Enum: map[string]any{"preferred": int64(0), "always": int64(1), "never": int64(2)},
					},
					{Name: "username", APIName: "username", Kind: String, IsField: true, Default: ""},
					{Name: "password", APIName: "password", Kind: Secret, IsField: true, Default: ""},
					{Name: "from_address", APIName: "from", Kind: String, IsField: true, Required: true},
					{Name: "recipient_addresses", APIName: "to", Kind: StringSet, IsField: true, Required: true},
					{Name: "cc_addresses", APIName: "cc", Kind: StringSet, IsField: true},
					{Name: "bcc_addresses", APIName: "bcc", Kind: StringSet, IsField: true},
				},
			},
			{
				Value:          "gotify",
				Implementation: "Gotify",
				Fields: []FieldSpec{
					{Name: "server", APIName: "server", Kind: String, IsField: true, Required: true},
					{Name: "app_token", APIName: "appToken", Kind: Secret, IsField: true, Required: true},
					{
						Name: "priority", APIName: "priority", Kind: Enum, IsField: true, Default: "normal",
						Enum: map[string]any{"min": int64(0), "low": int64(2), "normal": int64(5), "high": int64(8)},
					},
				},
			},
			{
				Value:          "notifiarr",
				Implementation: "Notifiarr",
				Fields: []FieldSpec{
					{Name: "api_key", APIName: "apiKey", Kind: Secret, IsField: true, Required: true, MinLength: 8},
				},
			},
			{
				Value:          "pushover",
				Implementation: "Pushover",
				Fields: []FieldSpec{
					{Name: "user_key", APIName: "userKey", Kind: Secret, IsField: true, Required: true, MinLength: 8},
					{Name: "api_key", APIName: "apiKey", Kind: Secret, IsField: true, Required: true, MinLength: 8},
					{Name: "devices", APIName: "devices", Kind: StringSet, IsField: true},
					{
						Name: "priority", APIName: "priority", Kind: Enum, IsField: true, Default: "normal",
						Enum: map[string]any{
							"silent": int64(-2), "quiet": int64(-1), "normal": int64(0),
							"high": int64(1), "emergency": int64(2),
						},
					},
					{Name: "retry", APIName: "retry", Kind: Int, IsField: true, Default: int64(0), MinInt: 0, MaxInt: 86400, HasRange: true},
					{Name: "expire", APIName: "expire", Kind: Int, IsField: true, Default: int64(0), MinInt: 0, MaxInt: 86400, HasRange: true},
				},
			},
			{
				Value:          "telegram",
				Implementation: "Telegram",
				Fields: []FieldSpec{
					{Name: "bot_token", APIName: "botToken", Kind: Secret, IsField: true, Required: true, MinLength: 8},
					{Name: "chat_id", APIName: "chatId", Kind: String, IsField: true, Required: true},
					{Name: "send_silently", APIName: "sendSilently", Kind: Bool, IsField: true, Default: false},
				},
			},
			{
				Value:          "webhook",
				Implementation: "Webhook",
				Fields: []FieldSpec{
					{Name: "url", APIName: "url", Kind: String, IsField: true, Required: true},
					{
						Name: "method", APIName: "method", Kind: Enum, IsField: true, Default: "post",
						Enum: map[string]any{"post": int64(1), "put": int64(2)},
					},
					{Name: "username", APIName: "username", Kind: String, IsField: true, Default: ""},
					{Name: "password", APIName: "password", Kind: Secret, IsField: true, Default: ""},
				},
			},
		},
	}
}
