package config

// Config is the top-level mkdw configuration, corresponding to .mkdw.yml.
type Config struct {
	// Port the HTTP server listens on.
	Port int `yaml:"port" koanf:"port"`
	// BaseURL is the externally visible location shareable links are
	// built against, e.g. "http://localhost:8080/".
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	// SiteTitle is shown on the dashboard and exported pages.
	SiteTitle string `yaml:"site_title" koanf:"site_title"`
	// Database is the SQLite file path. Empty means an in-memory store
	// that vanishes with the process, which is the product default.
	Database string `yaml:"database" koanf:"database"`
	// AllowAllOrigins relaxes CORS for development.
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// MaxUploadBytes caps a single upload request body.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" koanf:"max_upload_bytes"`
	// Include/Exclude are glob patterns for the bulk import command.
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
	// HighlightStyle names the chroma style for rendered code blocks.
	HighlightStyle string `yaml:"highlight_style" koanf:"highlight_style"`
}
