// Package cli provides the interactive user-management console.
//
// It presents the session, user list and user edit controllers from the
// services package as a read-eval-print loop: sign in, browse pages of users,
// narrow the current page with a search query, edit a user or delete one
// after confirmation.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits
// or input ends. See App and runREPL for details.
package cli
