// Package config loads, normalizes, and validates stdlnotify configuration.
//
// Configuration is optional: the notify command works with repository
// defaults when no file exists. When present, the TOML file tunes the HTTP
// client, log output, and the delivery journal. It never supplies notice
// fields or the endpoint; those always come from positional arguments.
package config
