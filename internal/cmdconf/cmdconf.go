// Copyright (c) 2020 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdconf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"abigen.computer/internal/error/stage"
)

// Context is canceled on SIGINT or SIGTERM, terminating subprocesses.
func Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Usage writes a synopsis to stderr and exits with status 2.
func Usage(synopsis string) {
	fmt.Fprintf(os.Stderr, "Usage: %s %s\n", path.Base(os.Args[0]), synopsis)
	os.Exit(2)
}

// Check exits with status 1 if err is non-nil.  The failed generation stage is
// logged with the error.
func Check(log *slog.Logger, err error) {
	if err == nil {
		return
	}

	if s := stage.Get(err); s != "" {
		log.Error("generation failed", "stage", s, "error", err)
	} else {
		log.Error("generation failed", "error", err)
	}
	os.Exit(1)
}

// Getenv returns the value of an environment variable or a default.
func Getenv(key, value string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return value
}
