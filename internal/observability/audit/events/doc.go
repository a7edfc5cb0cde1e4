// Package events defines canonical audit event names for the server.
package events

const (
	// HTTPRequest captures durable audit events for handled HTTP requests.
	HTTPRequest = "audit.http.request"
	// AuthLogin captures successful credential exchanges.
	AuthLogin = "audit.auth.login"
	// AuthDenied captures rejected credential or token checks.
	AuthDenied = "audit.auth.denied"
	// OwnershipDecision captures ownership allow/deny decisions on posts.
	OwnershipDecision = "audit.ownership.decision"
)
