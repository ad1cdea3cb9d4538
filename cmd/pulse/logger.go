package main

import (
	"go.uber.org/zap"
)

// newLogger builds a development-style logger writing to the given zap
// output paths ("stderr" or a file path).
func newLogger(output string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
