package config

const (
	defaultConfigPath      = "~/.config/xbvrkit/config.toml"
	defaultServerURL       = "http://localhost:9999"
	defaultRequestTimeout  = 30
	defaultScrapeWait      = 10
	defaultMatchWorkers    = 8
	defaultAltAttribute    = "Available from Alternate Sites"
	defaultSLRSite         = "slr-single_scene"
	defaultSLRBaseURL      = "https://www.sexlikereal.com/"
	defaultStateDir        = "~/.local/share/xbvrkit"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	idFormatDVD            = "dvd"
	idFormatContent        = "content"
	defaultNoisyPrefix     = "czech"
)

// Default returns a Config populated with repository defaults. The provider
// order mirrors how reliably each scraper resolves VR releases; javland is
// listed but disabled because its scrapes routinely time out.
func Default() Config {
	return Config{
		Server: Server{
			URL:            defaultServerURL,
			RequestTimeout: defaultRequestTimeout,
		},
		JAV: JAV{
			ScrapeWait:    defaultScrapeWait,
			NoisyPrefixes: []string{defaultNoisyPrefix},
			Providers: []Provider{
				{Name: "javdatabase", IDFormat: idFormatDVD, Enabled: true},
				{Name: "r18d", IDFormat: idFormatContent, Enabled: true},
				{Name: "javlibrary", IDFormat: idFormatDVD, Enabled: true},
				{Name: "javland", IDFormat: idFormatDVD, Enabled: false},
			},
		},
		Match: Match{
			Workers: defaultMatchWorkers,
		},
		Alt: Alt{
			Attribute: defaultAltAttribute,
		},
		SLR: SLR{
			Site:    defaultSLRSite,
			BaseURL: defaultSLRBaseURL,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
