package config

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	TemplatePath string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	return ServerConfig{
		Port:         getenvOrDefault(getenv, "PORT", "5000"),
		TemplatePath: getenvOrDefault(getenv, "REPORT_TEMPLATE", "templates/report.html"),
	}
}
