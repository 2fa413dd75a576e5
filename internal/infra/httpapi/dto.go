package httpapi

import (
	"time"

	"pilot_license_tracker/internal/domain/pilot"
	"pilot_license_tracker/internal/domain/recipient"
	"pilot_license_tracker/internal/domain/reminder"
)

// PilotResponse is the dashboard view of a pilot, including derived expiry
// statuses so the client never recomputes date arithmetic.
type PilotResponse struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email"`
	Certification     string     `json:"certification"`
	Categories        []string   `json:"categories"`
	MedicalExpiry     time.Time  `json:"medical_expiry"`
	MedicalStatus     string     `json:"medical_status"`
	IsInstructor      bool       `json:"is_instructor"`
	InstructorExpiry  *time.Time `json:"instructor_expiry,omitempty"`
	InstructorStatus  string     `json:"instructor_status,omitempty"`
	Restriction       string     `json:"restriction"`
	CustomRestriction string     `json:"custom_restriction,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toPilotResponse(p *pilot.Pilot, now time.Time) PilotResponse {
	categories := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, string(c))
	}

	resp := PilotResponse{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Certification: string(p.Certification),
		Categories:    categories,
		MedicalExpiry: p.MedicalExpiry,
		MedicalStatus: string(reminder.StatusOf(reminder.DaysUntil(now, p.MedicalExpiry))),
		IsInstructor:  p.IsInstructor,
		Restriction:   string(p.Restriction),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.InstructorExpiry.Valid {
		t := p.InstructorExpiry.Time
		resp.InstructorExpiry = &t
		if p.IsInstructor {
			resp.InstructorStatus = string(reminder.StatusOf(reminder.DaysUntil(now, t)))
		}
	}
	if p.CustomRestriction.Valid {
		resp.CustomRestriction = p.CustomRestriction.String
	}
	return resp
}

func toPilotResponses(pilots []*pilot.Pilot, now time.Time) []PilotResponse {
	out := make([]PilotResponse, 0, len(pilots))
	for _, p := range pilots {
		out = append(out, toPilotResponse(p, now))
	}
	return out
}

// RecipientResponse is the dashboard view of a mailing-list entry.
type RecipientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toRecipientResponse(m *recipient.ManagerRecipient) RecipientResponse {
	return RecipientResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Position:  m.Position,
		CreatedAt: m.CreatedAt,
	}
}
