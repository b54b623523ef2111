package config

import "errors"

// Error variables for config loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config")
	ErrIssuesDirEmpty     = errors.New("issues-dir cannot be empty")
	ErrInvalidColor       = errors.New("color must be auto, always or never")
)
