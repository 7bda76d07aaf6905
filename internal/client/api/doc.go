// Package api wires the console's feature services: one typed resource
// client per gateway collection, the session manager, the unread counter and
// the dashboard aggregation, all sharing a single transport.
package api
