package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// Settings holds the script settings an owner may change at runtime.
// Runs take a snapshot when they start; later changes affect only new runs.
type Settings struct {
	mu         sync.RWMutex
	debug      bool
	runTimeout time.Duration
}

// NewSettings seeds runtime settings from the script configuration
func NewSettings(cfg ScriptConfig) *Settings {
	return &Settings{debug: cfg.Debug, runTimeout: cfg.RunTimeout.Duration}
}

// Apply replaces every setting with the values of cfg, e.g. after the
// configuration file was reloaded
func (s *Settings) Apply(cfg ScriptConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = cfg.Debug
	s.runTimeout = cfg.RunTimeout.Duration
}

// Debug reports whether full diagnostics are enabled
func (s *Settings) Debug() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debug
}

// RunTimeout returns the current per-run time limit
func (s *Settings) RunTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runTimeout
}

// Names lists the settings that Set accepts
func (s *Settings) Names() []string {
	names := []string{"debug", "run_timeout"}
	sort.Strings(names)
	return names
}

// Set changes a setting and returns its new value rendered as text.
// Boolean settings toggle when value is empty.
func (s *Settings) Set(name, value string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "debug":
		if value == "" {
			s.debug = !s.debug
		} else {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return "", invalidValue(name, value)
			}
			s.debug = b
		}
		return strconv.FormatBool(s.debug), nil

	case "run_timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return "", invalidValue(name, value)
		}
		s.runTimeout = d
		return d.String(), nil

	default:
		return "", mdwerror.New(fmt.Sprintf("`%s` is not a valid setting.", name)).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("settings.Set")
	}
}

func invalidValue(name, value string) error {
	return mdwerror.New(fmt.Sprintf("`%s` is not a valid value for `%s`.", value, name)).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("settings.Set")
}
