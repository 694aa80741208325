package common

import "context"

type ctxKey string

const (
	staffIDKey   ctxKey = "auth/staff-id"
	staffRoleKey ctxKey = "auth/staff-role"
)

// WithStaff stores the authenticated staff identifier and role on the context.
func WithStaff(ctx context.Context, id, role string) context.Context {
	ctx = context.WithValue(ctx, staffIDKey, id)
	return context.WithValue(ctx, staffRoleKey, role)
}

// StaffID extracts the authenticated staff identifier from the context.
func StaffID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(staffIDKey).(string)
	return id, ok
}

// StaffRole extracts the authenticated staff role from the context.
func StaffRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(staffRoleKey).(string)
	return role, ok
}
