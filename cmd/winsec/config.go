package main

import (
	"os"
	"strconv"

	"github.com/jet/winsec/log"
)

const DefaultLogMaxSizeMB = 10
const DefaultLogMaxFiles = 5
const DefaultMetricsEndpoint = "/metrics"

const (
	EnvWinsecLogDir       = "WINSEC_LOG_DIR"
	EnvWinsecLogName      = "WINSEC_LOG_NAME"
	EnvWinsecLogMaxSizeMB = "WINSEC_LOG_MAX_SIZE"
	EnvWinsecLogMaxFiles  = "WINSEC_LOG_MAX_FILES"
	EnvWinsecLogConsole   = "WINSEC_LOG_CONSOLE"
	EnvWinsecMetricsAddr  = "WINSEC_METRICS_ADDR"
)

func LogConfigFromEnvironment() log.LogConfig {
	cfg := log.LogConfig{
		LogDir:      os.Getenv(EnvWinsecLogDir),
		LogName:     os.Getenv(EnvWinsecLogName),
		MaxLogFiles: DefaultLogMaxFiles,
		MaxSizeMB:   DefaultLogMaxSizeMB,
	}
	if sz := os.Getenv(EnvWinsecLogMaxSizeMB); sz != "" {
		if i, err := strconv.ParseInt(sz, 10, 64); err == nil {
			cfg.MaxSizeMB = int(i)
		}
	}
	if sz := os.Getenv(EnvWinsecLogMaxFiles); sz != "" {
		if i, err := strconv.ParseInt(sz, 10, 64); err == nil {
			cfg.MaxLogFiles = int(i)
		}
	}
	if c := os.Getenv(EnvWinsecLogConsole); c != "" && c != "0" && c != "false" {
		cfg.Console = true
	}
	return cfg
}

func MetricsAddress() string {
	return os.Getenv(EnvWinsecMetricsAddr)
}
