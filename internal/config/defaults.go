package config

const (
	defaultDataDir      = "~/.local/share/verbatim/tenants"
	defaultStagingDir   = "~/.local/share/verbatim/staging"
	defaultLogDir       = "~/.local/share/verbatim/logs"
	defaultBind         = "0.0.0.0:8081"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultMaxUploadMiB = 64
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			Bind:       defaultBind,
		},
		Server: Server{
			AllowedOrigins: []string{"*"},
			MaxUploadMiB:   defaultMaxUploadMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
