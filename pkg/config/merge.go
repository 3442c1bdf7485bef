package config

// Merge applies the non-zero values of source to target and records their
// source.
func Merge(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Host != "" {
		target.Host = source.Host
		target.Sources["host"] = sourceType
	}
	if source.Port != 0 {
		target.Port = source.Port
		target.Sources["port"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		target.Sources["logFile"] = sourceType
	}
	if source.MetricsAddr != "" {
		target.MetricsAddr = source.MetricsAddr
		target.Sources["metricsAddr"] = sourceType
	}
	if source.ShutdownTimeout != 0 {
		target.ShutdownTimeout = source.ShutdownTimeout
		target.Sources["shutdownTimeout"] = sourceType
	}
}
