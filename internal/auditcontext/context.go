package auditcontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "audit_request_id"
	actorIDKey   contextKey = "audit_actor_id"
	actorNameKey contextKey = "audit_actor_name"
	actorRoleKey contextKey = "audit_actor_role"
	ipAddressKey contextKey = "audit_ip_address"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithActor(ctx context.Context, actorID, actorName, actorRole string) context.Context {
	if actorID != "" {
		ctx = context.WithValue(ctx, actorIDKey, actorID)
	}
	if actorName != "" {
		ctx = context.WithValue(ctx, actorNameKey, actorName)
	}
	if actorRole != "" {
		ctx = context.WithValue(ctx, actorRoleKey, actorRole)
	}
	return ctx
}

func ActorFromContext(ctx context.Context) (string, string, string) {
	actorID, _ := ctx.Value(actorIDKey).(string)
	actorName, _ := ctx.Value(actorNameKey).(string)
	actorRole, _ := ctx.Value(actorRoleKey).(string)
	return actorID, actorName, actorRole
}

func WithIPAddress(ctx context.Context, ipAddress string) context.Context {
	if ipAddress == "" {
		return ctx
	}
	return context.WithValue(ctx, ipAddressKey, ipAddress)
}

func IPAddressFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ipAddressKey).(string)
	return value
}
