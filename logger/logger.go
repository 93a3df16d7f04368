/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logger builds the zap logger used by the services and the CLI.
package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kamileo242/EventManager/config"
)

// New builds a production logger, or a development one when
// cfg.Development is set, at cfg.Level.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}

// Must is like New but panics on error.
func Must(cfg config.LogConfig) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}
