package services

import (
	"context"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/utils/activitylog"
)

// activityService records lifecycle events to the activity log. It runs after
// the atomic batch committed and never fails the caller.
type activityService struct {
	client *activitylog.Client
}

// NewActivityService creates a new ActivitySvc backed by the activity log client.
func NewActivityService(client *activitylog.Client) portssvc.ActivitySvc {
	return &activityService{client: client}
}

var _ portssvc.ActivitySvc = (*activityService)(nil)

func (s *activityService) Record(_ context.Context, actor string, action string, properties map[string]any) {
	s.client.Enqueue(actor, action, properties)
}

func (s *activityService) Close() {
	s.client.Close()
}
