//go:build !linux

package main

import (
	"context"
	"errors"

	"kuldippatel.dev/touchtrack/internal/config"
	"kuldippatel.dev/touchtrack/mt"
)

func runDevice(context.Context, config.TouchtrackConfig, mt.Sink) error {
	return errors.New("touch devices are only supported on linux, use a demo config")
}
