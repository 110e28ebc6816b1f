// Package logging provides slog setup and shared logging helpers.
//
// Attribute keys are defined as constants so log output stays consistent
// across the codebase, and credential material is always passed through
// SanitizeToken before it reaches a log line.
package logging
