package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyRequestID CtxKey = "RequestID"
)

// WithPrincipal stores the caller under the Key* context keys.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, p.UserID)
	ctx = context.WithValue(ctx, KeyUserEmail, p.Email)
	return context.WithValue(ctx, KeyUserRole, string(p.Role))
}

// PrincipalFrom reads the caller back. Gin contexts expose values set with
// c.Set under plain string keys, so both key forms are checked.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	id := lookup(ctx, KeyUserID)
	if id == "" {
		return Principal{}, false
	}
	return Principal{
		UserID: id,
		Email:  lookup(ctx, KeyUserEmail),
		Role:   Role(lookup(ctx, KeyUserRole)),
	}, true
}

func RequestIDFrom(ctx context.Context) string {
	return lookup(ctx, KeyRequestID)
}

func lookup(ctx context.Context, key CtxKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	if v, ok := ctx.Value(string(key)).(string); ok {
		return v
	}
	return ""
}
