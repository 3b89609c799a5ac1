package core

import (
	"context"

	"github.com/JonMunkholm/c2m2filter/internal/logging"
)

type contextKey string

const (
	ctxKeyIPAddress contextKey = "audit_ip"
	ctxKeyUserAgent contextKey = "audit_ua"
)

// ContextWithIPAddress adds the client IP to ctx for activity logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// ContextWithUserAgent adds the User-Agent to ctx for activity logging.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ctxKeyUserAgent, ua)
}

// RequestMeta identifies who triggered an operation.
type RequestMeta struct {
	SessionID string
	IPAddress string
	UserAgent string
}

// RequestMetaFrom collects the request metadata stored in ctx.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	m := RequestMeta{SessionID: logging.SessionID(ctx)}
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		m.IPAddress = v
	}
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		m.UserAgent = v
	}
	return m
}
