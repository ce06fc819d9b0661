// Package main hosts the stdlnotify CLI entrypoint and command graph.
//
// The root command reports a finished stream download job:
//
//	stdlnotify <endpoint> <status> <ptype> <uid> <vidname>
//
// It posts one Completion Notice to <endpoint>/api/stdl/done and prints the
// decoded JSON reply. Operator subcommands read the server's health and queue
// stats, browse the local delivery journal, and scaffold a config file.
//
// Keep this package lean: protocol and storage logic belong in internal/stdl
// and internal/journal; commands here only wire them to flags and output.
package main
