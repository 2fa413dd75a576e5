package app

import (
	"context"
	"fmt"
	"time"

	"pilot_license_tracker/internal/domain/reminder"
)

// ExpiryBuckets counts tracked dates per display status.
type ExpiryBuckets struct {
	Expired  int `json:"expired"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Good     int `json:"good"`
}

func (b *ExpiryBuckets) add(status reminder.Status) {
	switch status {
	case reminder.StatusExpired:
		b.Expired++
	case reminder.StatusCritical:
		b.Critical++
	case reminder.StatusWarning:
		b.Warning++
	default:
		b.Good++
	}
}

// DashboardStats is the summary block shown at the top of the dashboard.
type DashboardStats struct {
	TotalPilots         int           `json:"total_pilots"`
	Instructors         int           `json:"instructors"`
	Medical             ExpiryBuckets `json:"medical"`
	Instructor          ExpiryBuckets `json:"instructor"`
	UpcomingExpirations int           `json:"upcoming_expirations"` // tracked dates within 30 days
}

// Stats computes dashboard counters from the current pilot set.
func (s *PilotService) Stats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	pilots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pilots for stats: %w", err)
	}

	stats := &DashboardStats{TotalPilots: len(pilots)}
	for _, p := range pilots {
		if p.IsInstructor {
			stats.Instructors++
		}
		for _, f := range p.TrackedFields() {
			days := reminder.DaysUntil(now, f.Expiry)
			status := reminder.StatusOf(days)
			if f.Kind == reminder.KindMedical {
				stats.Medical.add(status)
			} else {
				stats.Instructor.add(status)
			}
			if days >= 0 && days <= 30 {
				stats.UpcomingExpirations++
			}
		}
	}
	return stats, nil
}
