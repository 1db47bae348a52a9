package config

// DefaultExcludes are glob patterns skipped by the bulk import by default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"README.md",
	"CHANGELOG.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		BaseURL:        "http://localhost:8080/",
		SiteTitle:      "mkdw",
		Database:       "",
		MaxUploadBytes: 10 << 20,
		Include:        []string{"**/*.md"},
		Exclude:        DefaultExcludes,
		HighlightStyle: "github",
	}
}
