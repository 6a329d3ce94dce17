// ============================================================================
// DexComX - Bulk Scripting Toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers with an
//              optional rotating log file
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service or component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt
	Format string

	// Log file path; empty disables file output
	File     string
	Rotation config.RotationConfig

	// Console output, defaults to stderr; nil with Quiet disables it
	Console io.Writer
	Quiet   bool

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "console",
	}
}

// FromConfig derives the logger configuration from the application config
func FromConfig(cfg *config.Config, serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
		File:        cfg.General.LogFile,
		Rotation:    cfg.General.Rotation,
	}
}

// NewLogger creates a logger. The returned closer releases the log file
// and is never nil.
func NewLogger(cfg LoggerConfig) (*mdwlog.Logger, io.Closer, error) {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	var writers []io.Writer
	if !cfg.Quiet {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		writers = append(writers, console)
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, nil, err
		}
		file := newRotatingFile(cfg.File, cfg.Rotation)
		writers = append(writers, file)
		closer = file
	}

	writers = append(writers, cfg.AdditionalOutputs...)

	var output io.Writer
	switch len(writers) {
	case 0:
		output = io.Discard
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
	return logger, closer, nil
}

// NewSimpleLogger creates a console logger at info level
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	logger, _, err := NewLogger(DefaultLoggerConfig(serviceName))
	if err != nil {
		return mdwlog.New().WithName(serviceName)
	}
	return logger
}

func newRotatingFile(path string, rot config.RotationConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
