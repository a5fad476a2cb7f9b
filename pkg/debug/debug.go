// Package debug provides category-based debug logging for reactivities.
//
// Categories select WHAT is logged (REACTIVITIES_DEBUG or config), levels
// select HOW MUCH (REACTIVITIES_LOG_LEVEL or config):
//
//	debug.Log("agent", "response", "method", "GET", "status", 200)
//	if debug.Enabled("storage") { /* expensive formatting */ }
//
// Categories: agent, activities, transport, storage, auth, config, all.
// Levels: ERROR, WARN, INFO, DEBUG, TRACE.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
)

const (
	envCategories = "REACTIVITIES_DEBUG"
	envLevel      = "REACTIVITIES_LOG_LEVEL"
)

// LevelTrace is below slog.LevelDebug. At TRACE, full request and response
// bodies are logged.
const LevelTrace = slog.LevelDebug - 4

// categories is read-only after Init.
var categories = parseCategories(os.Getenv(envCategories))

// rawOut receives Raw output.
var rawOut io.Writer = os.Stderr

// Init configures categories and the default slog level. Environment
// variables take precedence over the supplied config values.
func Init(configCategories, configLevel string) {
	InitWriter(configCategories, configLevel, os.Stderr)
}

// InitWriter is Init with log and Raw output sent to w.
func InitWriter(configCategories, configLevel string, w io.Writer) {
	cats := os.Getenv(envCategories)
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv(envLevel)
	if level == "" {
		level = configLevel
	}

	rawOut = w
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a DEBUG message tagged with category. No-op when the category
// is disabled.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a TRACE message tagged with category.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether TRACE level is active for the given category.
func TraceIsEnabled(category string) bool {
	return Enabled(category) && slog.Default().Enabled(context.Background(), LevelTrace)
}

// Raw writes plain text without slog formatting, for copy-paste-ready
// bodies. Only emitted at TRACE with the category enabled.
func Raw(category string, text string) {
	if !TraceIsEnabled(category) {
		return
	}
	fmt.Fprintln(rawOut, text)
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to
// INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the enabled categories in sorted order.
func Categories() []string {
	return slices.Sorted(maps.Keys(categories))
}

// Truncate shortens s to maxLen bytes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
