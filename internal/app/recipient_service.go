package app

import (
	"context"
	"fmt"

	"pilot_license_tracker/internal/domain/recipient"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RecipientInput is the form payload for the manager mailing list.
type RecipientInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position,omitempty"`
}

// RecipientService owns CRUD for the manager mailing list.
type RecipientService struct {
	repo   recipient.Repository
	logger *logrus.Logger
}

func NewRecipientService(repo recipient.Repository, logger *logrus.Logger) *RecipientService {
	return &RecipientService{repo: repo, logger: logger}
}

func (s *RecipientService) Create(ctx context.Context, in RecipientInput) (*recipient.ManagerRecipient, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalidf("%v", err)
	}
	m := &recipient.ManagerRecipient{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Position: in.Position,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating manager recipient: %w", err)
	}
	s.logger.WithField("recipient_id", m.ID).Info("manager recipient added")
	return m, nil
}

func (s *RecipientService) Update(ctx context.Context, id string, in RecipientInput) (*recipient.ManagerRecipient, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalidf("%v", err)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = in.Name
	existing.Email = in.Email
	existing.Position = in.Position
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating manager recipient: %w", err)
	}
	s.logger.WithField("recipient_id", id).Info("manager recipient updated")
	return existing, nil
}

func (s *RecipientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("recipient_id", id).Info("manager recipient removed")
	return nil
}

func (s *RecipientService) List(ctx context.Context) ([]*recipient.ManagerRecipient, error) {
	return s.repo.ListAll(ctx)
}
