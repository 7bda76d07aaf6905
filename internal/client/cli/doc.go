// Package cli provides the interactive PharmaIntel console.
//
// It wires the gateway services into a line-oriented REPL: restore the
// persisted session, keep the unread notification badge fresh while logged
// in, and execute user commands against the REST resources.
//
// Key features:
//   - Register / Login / Logout / Whoami
//   - Dashboard with recent insights
//   - List, show, add, edit and delete competitors, insights, crawl jobs,
//     subscriptions and users (role permitting)
//   - Trigger crawl runs and read notifications
//
// Global fault messages are printed by the Notifier returned from
// NewNotifier; commands add their own follow-up line on failure.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
