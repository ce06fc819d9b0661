// Package journal records completion notice deliveries in a local SQLite
// database so operators can see what was sent, where, and how the server
// answered.
//
// The journal is opt-in. Writing to it never changes the outcome of a notify
// call: callers log journal failures and carry on. Schema creation is guarded
// by a file lock next to the database so two first runs cannot race.
package journal
