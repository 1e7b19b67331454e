// Package models defines the client-side data models shared by the console's
// storage, transport and workflow packages.
package models

// Profile is the minimal operator profile returned by the login endpoint.
type Profile struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the authenticated identity of the current operator. Its presence
// in the session store is the only authentication predicate.
type Session struct {
	Token string
	Profile
}
