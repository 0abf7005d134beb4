// Package logger provides structured logging for sessionvault.
//
// It wraps log/slog with automatic redaction of session material. The vault
// stores authentication secrets; a stray debug line must never leak a token,
// an encryption key, or a sealed envelope into log output.
package logger
