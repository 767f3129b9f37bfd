package service

import "errors"

// Validation errors map to 400 in handlers.
var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidReading = errors.New("invalid reading")
)

var (
	// ErrDispatchFailed wraps device errors; handlers answer 502.
	ErrDispatchFailed = errors.New("device dispatch failed")
	// ErrNoReadings is returned when no sensor reading has been stored yet.
	ErrNoReadings = errors.New("no sensor readings yet")
)
