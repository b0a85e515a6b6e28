// Package preferences persists the dashboard layout chosen by each user.
//
// A layout is an opaque JSON document stored in the same client storage as
// the session token under dashboardLayout:<userID>. Only its shape is
// checked, against a JSON Schema; the last write wins.
package preferences
