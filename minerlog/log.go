// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package minerlog is the root logging backend: it owns the rotating log
// file and hands out a btclog.Logger per subsystem, the same shape the
// btcsuite/btcd family of daemons uses for their own log.go.
package minerlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter tees writes to stdout and the rotator, matching the
// backend-plus-rotator wiring used throughout the btcsuite ecosystem.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})
	logRotator *rotator.Rotator

	rpcLog   = backendLog.Logger("RPCC")
	pollLog  = backendLog.Logger("POLL")
	assmLog  = backendLog.Logger("ASSM")
	cpueLog  = backendLog.Logger("CPUE")
	gpueLog  = backendLog.Logger("GPUE")
	minrLog  = backendLog.Logger("MINR")
	cnfgLog  = backendLog.Logger("CNFG")

	subsystemLoggers = map[string]btclog.Logger{
		"RPCC": rpcLog,
		"POLL": pollLog,
		"ASSM": assmLog,
		"CPUE": cpueLog,
		"GPUE": gpueLog,
		"MINR": minrLog,
		"CNFG": cnfgLog,
	}
)

// InitLogRotator creates a rotating log file at logFile (10 MiB per file,
// 3 files kept), creating its parent directory if necessary. It must be
// called once during startup before relying on file-backed logging; until
// then, loggers still write to stdout.
func InitLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("minerlog: create log directory: %w", err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("minerlog: create log rotator: %w", err)
	}
	logRotator = r
	return nil
}

// Close flushes and closes the log rotator, if one was initialized.
func Close() {
	if logRotator != nil {
		logRotator.Close()
	}
}

// Logger returns the named subsystem's logger. Known tags: RPCC, POLL,
// ASSM, CPUE, GPUE, MINR, CNFG.
func Logger(tag string) btclog.Logger {
	if logger, ok := subsystemLoggers[tag]; ok {
		return logger
	}
	return btclog.Disabled
}

// SetLevel sets the log level for one subsystem tag. Invalid tags and
// levels are ignored.
func SetLevel(tag, level string) {
	logger, ok := subsystemLoggers[tag]
	if !ok {
		return
	}
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return
	}
	logger.SetLevel(lvl)
}

// SetLevels sets every subsystem logger to the same level.
func SetLevels(level string) {
	for tag := range subsystemLoggers {
		SetLevel(tag, level)
	}
}

// ParseAndSetDebugLevels parses a debugLevel string in either the
// single-level ("info") or per-subsystem ("CPUE=debug,POLL=trace") form
// used across the btcsuite daemons and applies it.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if _, ok := btclog.LevelFromString(debugLevel); !ok {
			return fmt.Errorf("minerlog: invalid debug level %q", debugLevel)
		}
		SetLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("minerlog: invalid subsystem/level pair %q", pair)
		}
		tag, level := fields[0], fields[1]
		if _, ok := subsystemLoggers[tag]; !ok {
			return fmt.Errorf("minerlog: unknown subsystem %q (supported: %s)",
				tag, strings.Join(SupportedSubsystems(), ", "))
		}
		if _, ok := btclog.LevelFromString(level); !ok {
			return fmt.Errorf("minerlog: invalid debug level %q", level)
		}
		SetLevel(tag, level)
	}
	return nil
}

// SupportedSubsystems returns the known subsystem tags, sorted.
func SupportedSubsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
