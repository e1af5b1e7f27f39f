package config

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid config")
	ErrInvalidTestMode = errors.New("invalid test mode")
	ErrLoadConfig      = errors.New("load config failed")
)
