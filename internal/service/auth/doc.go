// Package auth verifies bearer tokens issued by an external identity
// provider and extracts the calling user's ID from their subject claim.
package auth
