package domain

import "context"

// Handler routes for deferred work.
const (
	RouteSetFeaturedSpeaker    = "/tasks/set_featured_speaker"
	RouteSendConfirmationEmail = "/tasks/send_confirmation_email"
	RouteSetAnnouncement       = "/crons/set_announcement"
	TaskParamSessionKey        = "sessionKey"
	TaskParamEmail             = "email"
	TaskParamConferenceInfo    = "conferenceInfo"
)

// Task is a unit of deferred work addressed to a handler route.
type Task struct {
	ID       string            `json:"id"`
	Route    string            `json:"route"`
	Params   map[string]string `json:"params"`
	Attempts int               `json:"attempts"`
}

// TaskDispatcher submits tasks for asynchronous, at-least-once execution.
// No ordering is guaranteed across tasks.
type TaskDispatcher interface {
	Enqueue(ctx context.Context, route string, params map[string]string) error
}

// TaskHandler executes one task. Handlers must be idempotent.
type TaskHandler func(ctx context.Context, params map[string]string) error
