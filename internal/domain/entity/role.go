package entity

// Role names stored on users.role
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)
