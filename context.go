package goCredStore

import "context"

type callerContextKey struct{}

// WithCaller attaches the name of the initiating component ("cli",
// "token-refresher", ...) to ctx. The dispatcher copies it into the audit
// trail so rejections can be traced back to the caller that raced.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

func callerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	caller, _ := ctx.Value(callerContextKey{}).(string)
	return caller
}
