package schema

func downloadClientsSpec() CategorySpec {
	hostPort := func(defaultPort int64) []FieldSpec {
		return []FieldSpec{
			{Name: "host", APIName: "host", Kind: String, IsField: true, Required: true},
			{Name: "port", APIName: "port", Kind: Int, IsField: true, Default: defaultPort, MinInt: 1, MaxInt: 65535, HasRange: true},
			{Name: "use_ssl", APIName: "useSsl", Kind: Bool, IsField: true, Default: false},
		}
	}
	urlBase := FieldSpec{Name: "url_base", APIName: "urlBase", Kind: String, IsField: true, Default: ""}
	username := FieldSpec{Name: "username", APIName: "username", Kind: String, IsField: true, Default: ""}
	password := FieldSpec{Name: "password", APIName: "password", Kind: Secret, IsField: true, Default: ""}
	categoryMappings := FieldSpec{Name: "category_mappings", APIName: "categories", Kind: Mapping, IsField: true}
	lastFirst := map[string]any{"last": int64(0), "first": int64(1)}

	return CategorySpec{
		Category:       DownloadClients,
		Endpoint:       "/api/v1/downloadclient",
		SchemaEndpoint: "/api/v1/downloadclient/schema",
		NameKey:        "name",
		TypeKey:        "implementation",
		Common: []FieldSpec{
			{Name: "enable", APIName: "enable", Kind: Bool, Default: true},
			{Name: "priority", APIName: "priority", Kind: Int, Default: int64(1), MinInt: 1, MaxInt: 50, HasRange: true},
			{Name: "tags", APIName: "tags", Kind: TagSet},
		},
		Types: []TypeSpec{
			{
				Value:          "aria2",
				Implementation: "Aria2",
				Fields: append(hostPort(6800),
					FieldSpec{Name: "rpc_path", APIName: "rpcPath", Kind: String, IsField: true, Default: "/rpc"},
					FieldSpec{Name: "secret_token", APIName: "secretToken", Kind: Secret, IsField: true, Default: ""},
				),
			},
			{
				Value:          "deluge",
				Implementation: "Deluge",
				Fields: append(hostPort(8112),
					urlBase,
					password,
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "last", Enum: lastFirst},
					categoryMappings,
				),
			},
			{
				Value:          "qbittorrent",
				Implementation: "QBittorrent",
				Fields: append(hostPort(8080),
					urlBase,
					FieldSpec{Name: "username", APIName: "username", Kind: String, IsField: true, Required: true},
					FieldSpec{Name: "password", APIName: "password", Kind: Secret, IsField: true, Required: true},
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "last", Enum: lastFirst},
					FieldSpec{
						Name: "initial_state", APIName: "initialState", Kind: Enum, IsField: true, Default: "start",
						Enum: map[string]any{"start": int64(0), "force-start": int64(1), "pause": int64(2)},
					},
					categoryMappings,
				),
			},
			{
				Value:          "rtorrent",
				Aliases:        []string{"rutorrent"},
				Implementation: "RTorrent",
				Fields: append(hostPort(8080),
					FieldSpec{Name: "url_base", APIName: "urlBase", Kind: String, IsField: true, Default: "RPC2"},
					username,
					password,
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{
						Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "normal",
						Enum: map[string]any{"verylow": int64(0), "low": int64(1), "normal": int64(2), "high": int64(3)},
					},
					categoryMappings,
				),
			},
			{
				Value:          "transmission",
				Implementation: "Transmission",
				Fields: append(hostPort(9091),
					FieldSpec{Name: "url_base", APIName: "urlBase", Kind: String, IsField: true, Default: "/transmission/"},
					username,
					password,
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "last", Enum: lastFirst},
					categoryMappings,
				),
			},
			{
				Value:          "vuze",
				Implementation: "Vuze",
				Fields: append(hostPort(9091),
					FieldSpec{Name: "url_base", APIName: "urlBase", Kind: String, IsField: true, Default: "/transmission/"},
					username,
					password,
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "last", Enum: lastFirst},
					categoryMappings,
				),
			},
			{
				Value:          "torrent_blackhole",
				Implementation: "TorrentBlackhole",
				Fields: []FieldSpec{
					{Name: "torrent_folder", APIName: "torrentFolder", Kind: String, IsField: true, Required: true},
					{Name: "save_magnet_files", APIName: "saveMagnetFiles", Kind: Bool, IsField: true, Default: false},
					{Name: "magnet_file_extension", APIName: "magnetFileExtension", Kind: String, IsField: true, Default: ".magnet"},
				},
			},
			{
				Value:          "nzbget",
				Implementation: "Nzbget",
				Fields: append(hostPort(6789),
					urlBase,
					FieldSpec{Name: "username", APIName: "username", Kind: String, IsField: true, Default: "nzbget"},
					FieldSpec{Name: "password", APIName: "password", Kind: Secret, IsField: true, Default: "tegbzn6789"},
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{
						Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "normal",
						Enum: map[string]any{
							"verylow": int64(-100), "low": int64(-50), "normal": int64(0),
							"high": int64(50), "veryhigh": int64(100), "force": int64(900),
						},
					},
					categoryMappings,
				),
			},
			{
				Value:          "nzbvortex",
				Implementation: "NzbVortex",
				Fields: append(hostPort(4321),
					urlBase,
					FieldSpec{Name: "api_key", APIName: "apiKey", Kind: Secret, IsField: true, Required: true},
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: "prowlarr"},
					FieldSpec{
						Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "normal",
						Enum: map[string]any{"low": int64(-1), "normal": int64(0), "high": int64(1)},
					},
					categoryMappings,
				),
			},
			{
				Value:          "sabnzbd",
				Implementation: "Sabnzbd",
				Fields: append(hostPort(4321),
					urlBase,
					FieldSpec{Name: "api_key", APIName: "apiKey", Kind: Secret, IsField: true, Default: ""},
					username,
					password,
					FieldSpec{Name: "category", APIName: "category", Kind: String, IsField: true, Default: ""},
					FieldSpec{
						Name: "client_priority", APIName: "priority", Kind: Enum, IsField: true, Default: "default",
						Enum: map[string]any{
							"default": int64(-100), "paused": int64(-2), "low": int64(-1),
							"normal": int64(0), "high": int64(1), "force": int64(2),
						},
					},
					categoryMappings,
				),
			},
			{
				Value:          "usenet_blackhole",
				Implementation: "UsenetBlackhole",
				Fields: []FieldSpec{
					{Name: "nzb_folder", APIName: "nzbFolder", Kind: String, IsField: true, Required: true},
				},
			},
		},
	}
}
