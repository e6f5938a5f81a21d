package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kuisin/internal/domain"
)

type WaitlistService struct {
	entries WaitlistRepository
	now     func() time.Time
}

func NewWaitlistService(entries WaitlistRepository) *WaitlistService {
	return &WaitlistService{entries: entries, now: time.Now}
}

// WithClock is test-only for deterministic timestamps.
func (s *WaitlistService) WithClock(now func() time.Time) *WaitlistService {
	s.now = now
	return s
}

// Join records a pending signup. Emails are unique case-insensitively.
func (s *WaitlistService) Join(ctx context.Context, in domain.WaitlistInput) (domain.WaitlistEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return domain.WaitlistEntry{}, err
	}
	now := s.now()
	entry := domain.WaitlistEntry{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Organization: strings.TrimSpace(in.Organization),
		Purpose:      strings.TrimSpace(in.Purpose),
		Status:       domain.WaitlistPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.entries.CreateWaitlistEntry(ctx, entry); err != nil {
		return domain.WaitlistEntry{}, fmt.Errorf("join waitlist: %w", err)
	}
	return entry, nil
}

// List returns all entries, newest first.
func (s *WaitlistService) List(ctx context.Context) ([]domain.WaitlistEntry, error) {
	return s.entries.ListWaitlistEntries(ctx)
}

// Invite marks the entry invited. Inviting twice keeps the first invited_at.
func (s *WaitlistService) Invite(ctx context.Context, entryID string) (domain.WaitlistEntry, error) {
	if err := required("id", entryID); err != nil {
		return domain.WaitlistEntry{}, err
	}
	entry, err := s.entries.GetWaitlistEntry(ctx, entryID)
	if err != nil {
		return domain.WaitlistEntry{}, err
	}
	if entry.Status == domain.WaitlistInvited {
		return entry, nil
	}
	now := s.now()
	entry.Status = domain.WaitlistInvited
	entry.InvitedAt = &now
	entry.UpdatedAt = now
	if err := s.entries.UpdateWaitlistEntry(ctx, entry); err != nil {
		return domain.WaitlistEntry{}, fmt.Errorf("invite: %w", err)
	}
	return entry, nil
}
