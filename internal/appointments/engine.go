package appointments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"appointments-server/internal/models"
)

// Decision is the outcome of a manager sign-off.
type Decision string

const (
	DecisionAccept Decision = "accepted"
	DecisionReject Decision = "rejected"
)

// Trigger names a transition request against the state table.
type Trigger string

const (
	TriggerReschedule Trigger = "reschedule"
	TriggerSign       Trigger = "sign"
	TriggerExpire     Trigger = "expire"
	TriggerRemove     Trigger = "remove"
)

// transitionTable lists the source states each trigger is defined for.
var transitionTable = map[Trigger][]models.AppointmentStatus{
	TriggerReschedule: {models.StatusCreated, models.StatusRescheduled},
	TriggerSign:       {models.StatusCreated, models.StatusRescheduled},
	TriggerExpire:     {models.StatusCreated, models.StatusRescheduled},
	TriggerRemove:     {models.StatusRejected, models.StatusExpired},
}

// checkTransition validates a (status, trigger) pair against the table.
// A status outside the enumeration fails with ErrInvalidTransition; a known
// status that the trigger is not defined for fails with ErrInvalidState.
func checkTransition(status models.AppointmentStatus, trig Trigger) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q is not part of the lifecycle", ErrInvalidTransition, status)
	}
	for _, s := range transitionTable[trig] {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidState, trig, status)
}

// Engine validates and applies status transitions. All checks run before any
// field is written, so a failing check never leaves a partial mutation
// behind. Transitions on the same appointment id are serialized through a
// keyed mutex, which makes the read-check-write sequence atomic per record
// over any Repository implementation.
type Engine struct {
	repo  Repository
	clock Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a transition engine over the given repository and clock.
func NewEngine(repo Repository, clock Clock) *Engine {
	return &Engine{
		repo:  repo,
		clock: clock,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockFor acquires the per-id mutex and returns its release func.
func (e *Engine) lockFor(id string) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Reschedule moves a pending appointment to a strictly future instant and
// sets its status to rescheduled. The requestor must be a participant.
func (e *Engine) Reschedule(ctx context.Context, id, actor string, newDate models.Date, newTime models.TimeOfDay) (*models.Appointment, error) {
	unlock := e.lockFor(id)
	defer unlock()

	appt, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !IsParticipant(actor, appt) {
		return nil, fmt.Errorf("%w: %s is neither sender nor recipient", ErrUnauthorized, actor)
	}

	scheduled := (&models.Appointment{Date: newDate, Time: newTime}).ScheduledAt()
	if !scheduled.After(e.clock.Now()) {
		return nil, fmt.Errorf("%w: new date and time must be in the future", ErrInvalidArgument)
	}

	if err := checkTransition(appt.Status, TriggerReschedule); err != nil {
		return nil, err
	}

	appt.Date = newDate
	appt.Time = newTime
	appt.Status = models.StatusRescheduled

	if err := e.repo.UpdateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Sign resolves a pending appointment to approved or rejected. The signer
// must be a participant and must hold the manager role.
func (e *Engine) Sign(ctx context.Context, id, actor string, decision Decision) (*models.Appointment, error) {
	unlock := e.lockFor(id)
	defer unlock()

	appt, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !IsParticipant(actor, appt) {
		return nil, fmt.Errorf("%w: %s is neither sender nor recipient", ErrUnauthorized, actor)
	}

	roster, err := e.repo.ListManagers(ctx)
	if err != nil {
		return nil, err
	}
	if !IsManager(actor, roster) {
		return nil, fmt.Errorf("%w: %s is not a registered manager", ErrForbidden, actor)
	}

	var target models.AppointmentStatus
	switch decision {
	case DecisionAccept:
		target = models.StatusApproved
	case DecisionReject:
		target = models.StatusRejected
	default:
		return nil, fmt.Errorf("%w: unknown signature %q", ErrInvalidArgument, decision)
	}

	if err := checkTransition(appt.Status, TriggerSign); err != nil {
		return nil, err
	}

	appt.Status = target
	if err := e.repo.UpdateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Remove deletes a rejected or expired appointment. The requestor must be a
// participant holding the manager role. Removal is not reversible.
func (e *Engine) Remove(ctx context.Context, id, actor string) error {
	unlock := e.lockFor(id)
	defer unlock()

	appt, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	if !IsParticipant(actor, appt) {
		return fmt.Errorf("%w: %s is neither sender nor recipient", ErrUnauthorized, actor)
	}

	roster, err := e.repo.ListManagers(ctx)
	if err != nil {
		return err
	}
	if !IsManager(actor, roster) {
		return fmt.Errorf("%w: %s is not a registered manager", ErrForbidden, actor)
	}

	if err := checkTransition(appt.Status, TriggerRemove); err != nil {
		return err
	}

	return e.repo.DeleteAppointment(ctx, id)
}

// ExpireDue transitions every pending appointment whose scheduled instant is
// strictly before now to expired. It is idempotent: a second run with the
// same now finds nothing left to expire. Per-record failures are collected
// and do not stop the scan; a failure to list appointments aborts the whole
// batch. The scan honors context cancellation between records.
func (e *Engine) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	appts, err := e.repo.ListAppointments(ctx)
	if err != nil {
		return 0, err
	}

	var expired int
	var errs []error
	for i := range appts {
		if err := ctx.Err(); err != nil {
			return expired, err
		}

		a := &appts[i]
		if !a.Status.Pending() || !a.ScheduledAt().Before(now) {
			continue
		}

		changed, err := e.expire(ctx, a.ID, now)
		if err != nil {
			// A concurrent transition may have resolved or removed the
			// record since the snapshot was taken; that is not a failure.
			if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
				continue
			}
			errs = append(errs, fmt.Errorf("appointment %s: %w", a.ID, err))
			continue
		}
		if changed {
			expired++
		}
	}
	return expired, errors.Join(errs...)
}

// expire re-reads the record under its per-id lock and applies the expired
// status if it is still pending and overdue.
func (e *Engine) expire(ctx context.Context, id string, now time.Time) (bool, error) {
	unlock := e.lockFor(id)
	defer unlock()

	appt, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return false, err
	}
	if err := checkTransition(appt.Status, TriggerExpire); err != nil {
		return false, err
	}
	if !appt.ScheduledAt().Before(now) {
		return false, nil
	}

	appt.Status = models.StatusExpired
	if err := e.repo.UpdateAppointment(ctx, appt); err != nil {
		return false, err
	}
	return true, nil
}
