package service

import (
	"context"
	"sync"
	"time"

	"aircon_control/internal/logger"
	"aircon_control/internal/models"
	"aircon_control/internal/repository"
)

// SessionService counts down the remaining seconds of the active auto
// command and closes the session when it reaches zero.
type SessionService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	stateMu   *sync.Mutex
	log       *logger.Logger
}

// NewSessionService builds the countdown; stateMu and log may be nil.
func NewSessionService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, stateMu *sync.Mutex, log *logger.Logger) *SessionService {
	if stateMu == nil {
		stateMu = &sync.Mutex{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SessionService{stateRepo: stateRepo, eventRepo: eventRepo, stateMu: stateMu, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SessionService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if err := s.step(ctx, now.UTC()); err != nil {
				s.log.Warnw("session tick failed", "err", err)
			}
		}
	}
}

// step consumes the whole seconds elapsed since the last update.
func (s *SessionService) step(ctx context.Context, now time.Time) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 || !st.AutoActive {
		return nil
	}

	dec := int(now.Sub(st.UpdatedAt) / time.Second)
	if dec < 1 {
		return nil
	}

	if st.RemainingSeconds > dec {
		st.RemainingSeconds -= dec
		// keep the sub-second remainder for the next tick
		st.UpdatedAt = st.UpdatedAt.Add(time.Duration(dec) * time.Second)
		return s.stateRepo.Save(ctx, st)
	}

	st.RemainingSeconds = 0
	st.AutoActive = false
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return err
	}
	s.log.Infow("auto_session_finished", "mode", st.Mode, "setpoint", st.SetpointC)
	return s.eventRepo.Append(ctx, models.ControlEvent{
		OccurredAt:  now,
		Type:        models.EventAutoStop,
		Description: "Duration elapsed",
		Metadata:    map[string]any{"mode": st.Mode, "setpoint_c": st.SetpointC},
	})
}
