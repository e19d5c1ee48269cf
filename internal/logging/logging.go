// Copyright (c) 2024 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"log/slog"
	"os"
	"time"

	"import.name/sjournal"
)

// Config of the generator commands.
type Config struct {
	Journal bool
	Debug   bool
}

func (c Config) level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Init returns some kind of logger on error.  Without journal the records are
// written to stderr as text, so that the build log shows them.
func Init(c Config) (*slog.Logger, error) {
	if !c.Journal {
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.level()}))
		slog.SetDefault(log)
		return log, nil
	}

	opts := &sjournal.HandlerOptions{
		Delimiter:  sjournal.ColonDelimiter,
		TimeFormat: time.RFC3339Nano,
	}

	h, err := sjournal.NewHandler(opts)
	if err != nil {
		return slog.Default(), err
	}

	log := slog.New(h)

	slog.SetDefault(log)
	slog.SetLogLoggerLevel(c.level())

	return log, nil
}
