// Package utils provides shared utility functions and constants
package utils

// ContextKeyClaims is the key used to store the verified token claims in the echo context
const ContextKeyClaims = "claims"

// BearerPrefix precedes the token in the Authorization header
const BearerPrefix = "Bearer "
