package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pilot_license_tracker/internal/domain/pilot"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// PilotInput is the form payload for creating or updating a pilot.
type PilotInput struct {
	FirstName         string     `json:"first_name" validate:"required"`
	LastName          string     `json:"last_name" validate:"required"`
	Email             string     `json:"email" validate:"required,email"`
	Certification     string     `json:"certification" validate:"required"`
	Categories        []string   `json:"categories" validate:"required,min=1"`
	MedicalExpiry     time.Time  `json:"medical_expiry" validate:"required"`
	IsInstructor      bool       `json:"is_instructor"`
	InstructorExpiry  *time.Time `json:"instructor_expiry,omitempty"`
	Restriction       string     `json:"restriction"`
	CustomRestriction string     `json:"custom_restriction,omitempty"`
}

// PilotService owns pilot CRUD. All inputs are validated here so repositories
// only ever see well-formed records.
type PilotService struct {
	repo   pilot.Repository
	logger *logrus.Logger
}

func NewPilotService(repo pilot.Repository, logger *logrus.Logger) *PilotService {
	return &PilotService{repo: repo, logger: logger}
}

func (s *PilotService) Create(ctx context.Context, in PilotInput) (*pilot.Pilot, error) {
	p, err := s.fromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating pilot: %w", err)
	}
	s.logger.WithField("pilot_id", p.ID).Info("pilot created")
	return p, nil
}

func (s *PilotService) Update(ctx context.Context, id string, in PilotInput) (*pilot.Pilot, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.fromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating pilot: %w", err)
	}
	s.logger.WithField("pilot_id", p.ID).Info("pilot updated")
	return p, nil
}

func (s *PilotService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("pilot_id", id).Info("pilot deleted")
	return nil
}

func (s *PilotService) Get(ctx context.Context, id string) (*pilot.Pilot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PilotService) List(ctx context.Context) ([]*pilot.Pilot, error) {
	return s.repo.ListAll(ctx)
}

// fromInput validates the form payload and converts it to a normalized Pilot.
func (s *PilotService) fromInput(in PilotInput) (*pilot.Pilot, error) {
	if err := validate.Struct(in); err != nil {
		return nil, invalidf("%v", err)
	}

	cert := pilot.Certification(in.Certification)
	if !cert.Valid() {
		return nil, invalidf("unknown certification %q", in.Certification)
	}

	categories := make([]pilot.Category, 0, len(in.Categories))
	seen := make(map[pilot.Category]struct{}, len(in.Categories))
	for _, raw := range in.Categories {
		c := pilot.Category(raw)
		if !c.Valid() {
			return nil, invalidf("unknown category %q", raw)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}

	restriction := pilot.Restriction(in.Restriction)
	if in.Restriction == "" {
		restriction = pilot.RestrictionNone
	}
	if !restriction.Valid() {
		return nil, invalidf("unknown restriction %q", in.Restriction)
	}

	p := &pilot.Pilot{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Certification: cert,
		Categories:    categories,
		MedicalExpiry: in.MedicalExpiry,
		IsInstructor:  in.IsInstructor,
		Restriction:   restriction,
	}
	if in.InstructorExpiry != nil {
		p.InstructorExpiry = sql.NullTime{Time: *in.InstructorExpiry, Valid: true}
	}
	// Free-text detail only makes sense for the "other" restriction.
	if restriction == pilot.RestrictionOther && in.CustomRestriction != "" {
		p.CustomRestriction = sql.NullString{String: in.CustomRestriction, Valid: true}
	}
	return p, nil
}
