/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logger builds the zap logger used by the command line tools.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a production logger for "prod"/"production" and a development
// logger otherwise. debug lowers the level to debug in both modes.
func New(mode string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
