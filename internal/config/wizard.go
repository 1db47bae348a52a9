package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .mkdw.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to mkdw! Let's configure your workspace.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Site title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: defaults.SiteTitle,
	}
	siteTitle, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}

	// 2. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "Listen port",
		Default: strconv.Itoa(defaults.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 3. Base URL for shared links.
	basePrompt := promptui.Prompt{
		Label:   "Public base URL",
		Default: fmt.Sprintf("http://localhost:%d/", port),
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}

	// 4. Database location.
	dbPrompt := promptui.Select{
		Label: "Document storage",
		Items: []string{
			"memory — documents are discarded on shutdown",
			"file   — documents persist in mkdw.db",
		},
	}
	dbIdx, _, err := dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	database := ""
	if dbIdx == 1 {
		database = "mkdw.db"
	}

	// 5. Include patterns for bulk import.
	includePrompt := promptui.Prompt{
		Label:   "Import include patterns (comma-separated globs)",
		Default: strings.Join(defaults.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	cfg := &Config{
		Port:           port,
		BaseURL:        baseURL,
		SiteTitle:      siteTitle,
		Database:       database,
		MaxUploadBytes: defaults.MaxUploadBytes,
		Include:        splitAndTrim(includeStr),
		Exclude:        DefaultExcludes,
		HighlightStyle: defaults.HighlightStyle,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configPath := ".mkdw.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
