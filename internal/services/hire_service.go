package services

import (
	"context"
	"errors"
	"fmt"

	"gymfit/internal/domain"
	"gymfit/internal/events"
	applog "gymfit/internal/log"
	"gymfit/internal/validate"
)

type HireService struct {
	Hires  HireStore
	Events events.Publisher
}

func (s *HireService) Trainers(ctx context.Context) ([]domain.Trainer, error) {
	return s.Hires.Trainers(ctx)
}

func (s *HireService) Trainer(ctx context.Context, id string) (domain.Trainer, error) {
	return s.Hires.Trainer(ctx, id)
}

// Hire books trainerID for the session's user. Only regular users hire,
// and a user holds at most one active hire per trainer.
func (s *HireService) Hire(ctx context.Context, sess *Session, trainerID string) (domain.TrainerHire, error) {
	if !sess.Authenticated() {
		return domain.TrainerHire{}, ErrNotAuthenticated
	}
	if sess.User.Role != domain.RoleUser {
		return domain.TrainerHire{}, ErrForbiddenRole
	}
	t, err := s.Hires.Trainer(ctx, trainerID)
	if err != nil {
		return domain.TrainerHire{}, err
	}
	if !t.Available {
		return domain.TrainerHire{}, ErrTrainerBusy
	}
	h, err := s.Hires.CreateHire(ctx, sess.User.ID, t.ID)
	if errors.Is(err, domain.ErrConflict) {
		return domain.TrainerHire{}, ErrAlreadyHired
	}
	if err != nil {
		return domain.TrainerHire{}, fmt.Errorf("create hire: %w", err)
	}
	s.publish(ctx, events.HireCreated, h)
	return h, nil
}

// participant reports whether the session's user is on either side of h.
func (s *HireService) participant(ctx context.Context, sess *Session, h domain.TrainerHire) (bool, error) {
	if sess.User.ID == h.UserID {
		return true, nil
	}
	t, err := s.Hires.Trainer(ctx, h.TrainerID)
	if err != nil {
		return false, err
	}
	return t.UserID != "" && t.UserID == sess.User.ID, nil
}

func (s *HireService) SendMessage(ctx context.Context, sess *Session, hireID, content string) (domain.Message, error) {
	if !sess.Authenticated() {
		return domain.Message{}, ErrNotAuthenticated
	}
	content, ok := validate.Message(content)
	if !ok {
		return domain.Message{}, invalid("content", "message must have 1-1000 characters")
	}
	h, err := s.Hires.Hire(ctx, hireID)
	if err != nil {
		return domain.Message{}, err
	}
	ok, err = s.participant(ctx, sess, h)
	if err != nil {
		return domain.Message{}, err
	}
	if !ok {
		return domain.Message{}, ErrForbiddenRole
	}
	name := sess.User.Name
	if name == "" {
		name = sess.User.Email
	}
	return s.Hires.AppendMessage(ctx, h.ID, domain.Message{
		SenderID:   sess.User.ID,
		SenderName: name,
		Content:    content,
	})
}

func (s *HireService) HiresForUser(ctx context.Context, sess *Session) ([]domain.TrainerHire, error) {
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.Hires.ByUser(ctx, sess.User.ID)
}

// HiresForTrainer lists the hires of the trainer profile linked to the
// session's user. A trainer account without a profile gets a default one.
func (s *HireService) HiresForTrainer(ctx context.Context, sess *Session) (domain.Trainer, []domain.TrainerHire, error) {
	if !sess.Authenticated() {
		return domain.Trainer{}, nil, ErrNotAuthenticated
	}
	if sess.User.Role != domain.RoleTrainer {
		return domain.Trainer{}, nil, ErrForbiddenRole
	}
	t, err := s.Hires.EnsureTrainer(ctx, *sess.User)
	if err != nil {
		return domain.Trainer{}, nil, fmt.Errorf("trainer profile: %w", err)
	}
	hs, err := s.Hires.ByTrainer(ctx, t.ID)
	return t, hs, err
}

// SetStatus moves a hire along. Participants and admins may do it.
func (s *HireService) SetStatus(ctx context.Context, sess *Session, hireID, status string) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	switch status {
	case domain.HireActive, domain.HireCompleted, domain.HireCancelled:
	default:
		return invalid("status", "unknown hire status")
	}
	h, err := s.Hires.Hire(ctx, hireID)
	if err != nil {
		return err
	}
	if sess.User.Role != domain.RoleAdmin {
		ok, err := s.participant(ctx, sess, h)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbiddenRole
		}
	}
	if err := s.Hires.SetStatus(ctx, h.ID, status); err != nil {
		return err
	}
	s.publish(ctx, events.HireStatusChanged, map[string]any{"hireId": h.ID, "status": status})
	return nil
}

func (s *HireService) publish(ctx context.Context, key string, v any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, key, v); err != nil {
		applog.Warn("hire.publish", err, map[string]any{"key": key})
	}
}
