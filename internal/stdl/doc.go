// Package stdl talks to the stdl done endpoint of a video task server.
//
// A Notice reports that a stream download job finished. It carries four
// caller-supplied fields taken verbatim from the command line plus the fixed
// storage tag fstype=local. Client.NotifyDone sends exactly one POST per call
// and decodes whatever JSON comes back without looking at the HTTP status, so
// a server rejection with a JSON body is returned as a normal value and one
// with a non-JSON body surfaces as a decode failure.
//
// Health and Stats read the server's status routes and are used by the
// operator commands; they do check the status code.
package stdl
