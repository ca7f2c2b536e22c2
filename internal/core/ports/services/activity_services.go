package services

import "context"

// ActivitySvc is the fire-and-forget activity log sink. Record is called
// after a lifecycle command committed; it is never part of the atomic unit
// and its failures must not affect the result returned to the caller.
type ActivitySvc interface {
	Record(ctx context.Context, actor string, action string, properties map[string]any)
	Close()
}
