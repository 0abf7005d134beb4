// Package command provides CLI command definitions for sessionvault.
//
// It uses urfave/cli/v2 for command parsing. All commands operate on the
// local store under the configured data directory; there is no server.
package command
