// Package logging provides structured logging for the mood-node.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, plus default service/version fields on every record.
//
// Components receive a *Logger (usually narrowed with With) at construction
// time; nothing logs through a package-level global.
package logging
