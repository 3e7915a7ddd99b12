package tools

import "context"

type senderKey struct{}

// WithSender tags the context with the utterance's sender so tools that
// act on someone's behalf (remind) know who asked.
func WithSender(ctx context.Context, sender string) context.Context {
	return context.WithValue(ctx, senderKey{}, sender)
}

func SenderFromContext(ctx context.Context) string {
	sender, _ := ctx.Value(senderKey{}).(string)
	return sender
}
