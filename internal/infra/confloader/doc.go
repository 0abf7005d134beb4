// Package confloader loads sessionvault configuration.
//
// It uses koanf to merge sources with priority Env > File > Default, and can
// watch the config file for changes so an embedding application can adjust
// the log level without restarting.
package confloader
