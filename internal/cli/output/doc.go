// Package output provides output formatting for the sessionvault CLI.
package output
