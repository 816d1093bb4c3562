// File: utils/constants.go
package utils

// Context keys set by the auth middlewares.
const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
)
