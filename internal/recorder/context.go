package recorder

import "context"

type contextKey int

const recorderKey contextKey = 0

// NewContext returns a copy of ctx carrying r, so that functions called from
// the producer goroutine can find its recorder.
func NewContext(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey, r)
}

func FromContext(ctx context.Context) (*Recorder, bool) {
	r, ok := ctx.Value(recorderKey).(*Recorder)
	return r, ok && r != nil
}
