package console

import "context"

type ctxIndex int

const (
	ctxIndexVerbose ctxIndex = iota
	ctxIndexAssumeYes
)

func SetVerbose(parent context.Context, value bool) context.Context {
	return context.WithValue(parent, ctxIndexVerbose, value)
}

func IsVerbose(ctx context.Context) bool {
	val, _ := ctx.Value(ctxIndexVerbose).(bool)
	return val
}

// SetAssumeYes makes Confirm-guarded commands skip the prompt.
func SetAssumeYes(parent context.Context, value bool) context.Context {
	return context.WithValue(parent, ctxIndexAssumeYes, value)
}

func AssumeYes(ctx context.Context) bool {
	val, _ := ctx.Value(ctxIndexAssumeYes).(bool)
	return val
}
