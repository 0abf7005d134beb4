// Package main provides the entry point for the sessionvault CLI.
package main
