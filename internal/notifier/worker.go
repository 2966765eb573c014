package notifier

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"colorin/internal/dto"
	"colorin/internal/mailer"
	"colorin/internal/rabbit"
	"colorin/internal/repo"
	"colorin/pkg/validator"
)

// Worker drains the assignment notification queue and mails the
// administrator about each new assignment.
type Worker struct {
	rmq    *rabbit.Client
	repo   repo.Repository
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewWorker(rmq *rabbit.Client, repository repo.Repository, mail *mailer.Mailer) *Worker {
	return &Worker{
		rmq:  rmq,
		repo: repository,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	zlog.Logger.Info().Msg("assignment notifier started")

	go func() {
		defer close(w.done)

		handler := func(body []byte) error {
			var msg dto.AssignmentCreatedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal notification: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("assignment_id", msg.AssignmentID).
				Int64("staff_id", msg.StaffID).
				Int64("event_id", msg.EventID).
				Msg("received assignment notification")

			staff, err := w.repo.GetStaffByID(cctx, msg.StaffID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("staff_id", msg.StaffID).
					Msg("failed to resolve staff for notification")
				return nil
			}

			event, err := w.repo.GetEventByID(cctx, msg.EventID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("event_id", msg.EventID).
					Msg("failed to resolve event for notification")
				return nil
			}

			if !w.mail.Enabled() {
				zlog.Logger.Info().
					Str("staff", staff.Name).
					Str("event", event.Name).
					Msg("mail disabled, notification logged only")
				return nil
			}

			if err := w.mail.SendAssignmentEmail(
				staff.Name,
				event.Name,
				event.Date.Format(validator.DateLayout),
				msg.Role,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Int64("assignment_id", msg.AssignmentID).
					Msg("failed to send assignment email")
			}

			return nil
		}

		if err := w.rmq.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming notifications")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("assignment notifier stopped by context")
	}()
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
