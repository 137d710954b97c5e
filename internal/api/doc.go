// Package api exposes the vocabulary and study-statistics services over
// HTTP. Handlers decode and validate JSON, read the user ID placed on the
// request by the auth middleware, and map service errors to status codes
// with client-safe messages.
package api
