package schema

// General host settings are a singleton record on /config/host; only updates
// apply.
func generalSpec() CategorySpec {
	return CategorySpec{
		Category:      General,
		Endpoint:      "/api/v1/config/host",
		Singleton:     true,
		SingletonName: "general",
		NameKey:       "id",
		Common: []FieldSpec{
			{Name: "bind_address", APIName: "bindAddress", Kind: String, Default: "*"},
			{Name: "port", APIName: "port", Kind: Int, Default: int64(9696), MinInt: 1, MaxInt: 65535, HasRange: true},
			{Name: "url_base", APIName: "urlBase", Kind: String, Default: ""},
			{Name: "instance_name", APIName: "instanceName", Kind: String, Default: "Prowlarr"},
			{Name: "enable_ssl", APIName: "enableSsl", Kind: Bool, Default: false},
			{Name: "ssl_port", APIName: "sslPort", Kind: Int, Default: int64(6969), MinInt: 1, MaxInt: 65535, HasRange: true},
			{Name: "ssl_cert_path", APIName: "sslCertPath", Kind: String, Default: ""},
			{Name: "ssl_cert_password", APIName: "sslCertPassword", Kind: Secret, Default: ""},
			{Name: "launch_browser", APIName: "launchBrowser", Kind: Bool, Default: true},
			{
				Name: "authentication_method", APIName: "authenticationMethod", Kind: Enum, Default: "none",
				Enum: map[string]any{"none": "none", "basic": "basic", "form": "forms"},
			},
			{
				Name: "authentication_required", APIName: "authenticationRequired", Kind: Enum, Default: "enabled",
				Enum: map[string]any{"enabled": "enabled", "local-disabled": "disabledForLocalAddresses"},
			},
			{
				Name: "certificate_validation", APIName: "certificateValidation", Kind: Enum, Default: "enabled",
				Enum: map[string]any{
					"enabled":        "enabled",
					"local-disabled": "disabledForLocalAddresses",
					"disabled":       "disabled",
				},
			},
			{
				Name: "log_level", APIName: "logLevel", Kind: Enum, Default: "info",
				Enum: map[string]any{"info": "info", "debug": "debug", "trace": "trace"},
			},
			{Name: "analytics_enabled", APIName: "analyticsEnabled", Kind: Bool, Default: true},
			{Name: "backup_folder", APIName: "backupFolder", Kind: String, Default: "Backups"},
			{Name: "backup_interval", APIName: "backupInterval", Kind: Int, Default: int64(7), MinInt: 1, MaxInt: 7, HasRange: true},
			{Name: "backup_retention", APIName: "backupRetention", Kind: Int, Default: int64(28), MinInt: 1, MaxInt: 90, HasRange: true},
		},
	}
}
