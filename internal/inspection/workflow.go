package inspection

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rcastellanos/fleet-admin/internal/models"
)

// Workflow events.
const (
	EventSubmit     = "submit"
	EventFlagReview = "flag_review"
	EventClose      = "close"
)

// Workflow is the approval state machine layered on an inspection record:
//
//	in_progress -> completed -> {pending_review | closed}
//	pending_review -> closed
//
// Approval is an orthogonal boolean, settable only while the record is
// completed or pending review, not a state of its own.
type Workflow struct {
	fsm *fsm.FSM
}

// NewWorkflow builds the state machine positioned at the record's current
// status.
func NewWorkflow(status models.InspectionStatus) *Workflow {
	return &Workflow{
		fsm: fsm.NewFSM(
			string(status),
			fsm.Events{
				{Name: EventSubmit, Src: []string{string(models.StatusInProgress)}, Dst: string(models.StatusCompleted)},
				{Name: EventFlagReview, Src: []string{string(models.StatusCompleted)}, Dst: string(models.StatusPendingReview)},
				{Name: EventClose, Src: []string{string(models.StatusCompleted), string(models.StatusPendingReview)}, Dst: string(models.StatusClosed)},
			},
			fsm.Callbacks{},
		),
	}
}

// Current returns the machine's current status.
func (w *Workflow) Current() models.InspectionStatus {
	return models.InspectionStatus(w.fsm.Current())
}

// CanApprove reports whether the approval flag may be set in the current
// state.
func (w *Workflow) CanApprove() bool {
	cur := w.Current()
	return cur == models.StatusCompleted || cur == models.StatusPendingReview
}

// Submit fires the submit transition.
func (w *Workflow) Submit(ctx context.Context) error {
	return w.trigger(ctx, EventSubmit)
}

// FlagReview fires the flag_review transition.
func (w *Workflow) FlagReview(ctx context.Context) error {
	return w.trigger(ctx, EventFlagReview)
}

// Close fires the terminal close transition.
func (w *Workflow) Close(ctx context.Context) error {
	return w.trigger(ctx, EventClose)
}

func (w *Workflow) trigger(ctx context.Context, event string) error {
	if err := w.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("%w: %s from %s", ErrInvalidStateTransition, event, w.fsm.Current())
	}
	return nil
}
