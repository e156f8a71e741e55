package http

type Config struct {
	Port        uint      `mapstructure:"port"`
	AdminAPIKey string    `mapstructure:"admin_api_key"`
	TLS         TLSConfig `mapstructure:"tls"`
}

// TLSConfig serves the dashboard over HTTPS. With no certificate files on
// disk a self-signed pair is generated for Hosts.
type TLSConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	CertFile string   `mapstructure:"cert_file"`
	KeyFile  string   `mapstructure:"key_file"`
	Hosts    []string `mapstructure:"hosts"`
}
