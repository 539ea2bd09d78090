// Package policy holds the pure authorization decision table. It has no
// dependencies on HTTP or storage so every cell can be tested directly.
package policy

import (
	"github.com/Yu-yu0202/FileShareService/models"
)

// Operation enumerates everything a request can ask the service to do.
type Operation int

const (
	OpListVisible Operation = iota // GET /files
	OpListAll                      // GET /all-files
	OpUpload                       // POST /upload
	OpRead                         // GET /download/:identifier, GET /view-file/:id
	OpSetVisibility                // PUT /update-visibility/:id
	OpDelete                       // DELETE /delete-file/:id
	OpRegisterUser                 // POST /register
	OpBackup                       // POST /backup
)

// Decision is the outcome of the gate check for an operation.
type Decision int

const (
	// Allow lets the request proceed.
	Allow Decision = iota
	// RedirectToLogin sends an unauthenticated browser to the login page,
	// preserving the requested URL.
	RedirectToLogin
	// LoginRequired is a hard 401: authentication missing on a surface that
	// never redirects.
	LoginRequired
	// Forbidden is a 403: authenticated but the role is insufficient.
	Forbidden
)

// Decide applies the gate half of the access table: operation x role, with
// loggedIn standing in for the anonymous row. Ownership is handled separately
// by OwnerScoped because a denied read must look like a missing file, not a
// forbidden one.
func Decide(op Operation, loggedIn bool, role models.Role) Decision {
	switch op {
	case OpListVisible, OpUpload, OpRead:
		if !loggedIn {
			return RedirectToLogin
		}
		switch role {
		case models.RoleAdmin, models.RoleUser:
			return Allow
		}
		return Forbidden

	case OpListAll, OpSetVisibility, OpDelete, OpRegisterUser, OpBackup:
		if !loggedIn {
			return LoginRequired
		}
		switch role {
		case models.RoleAdmin:
			return Allow
		case models.RoleUser:
			return Forbidden
		}
		return Forbidden
	}
	return Forbidden
}

// OwnerScoped reports whether a read operation must be restricted to the
// requester's own files. Admins see every owner's files; users only their
// own, with foreign files resolving as not found.
func OwnerScoped(op Operation, role models.Role) bool {
	if op != OpRead {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return false
	case models.RoleUser:
		return true
	}
	return true
}
