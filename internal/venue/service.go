// Package venue manages venue accounts: who owns them, who may edit them
// and the snapshot history of their seat maps.
package venue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seatforge/seatforge/internal/db"
	"github.com/seatforge/seatforge/internal/layout"
	"github.com/seatforge/seatforge/internal/typeid"
)

var (
	ErrNotFound  = errors.New("venue not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a venue member")
)

type Service struct {
	queries *db.Queries
}

func NewService(queries *db.Queries) *Service {
	return &Service{queries: queries}
}

type Venue struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Create registers a venue, adds the owner as a member and seeds version 1
// of its layout with an empty seat map.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*Venue, error) {
	venueID := typeid.NewVenueID()

	dbVenue, err := s.queries.CreateVenue(ctx, db.CreateVenueParams{
		ID:      venueID,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}

	err = s.queries.AddVenueMember(ctx, db.AddVenueMemberParams{
		VenueID: venueID,
		UserID:  ownerID,
		Role:    db.RoleOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	empty := layout.NewEmptyDocument()
	docJSON, err := json.Marshal(layout.PersistedDocument{
		Sections:     empty.Sections,
		Stage:        empty.Stage,
		Aisles:       empty.Aisles,
		SeatStatuses: nil,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal empty layout: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		VenueID:  venueID,
		Version:  1,
		Document: docJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbVenueToVenue(dbVenue), nil
}

func (s *Service) Get(ctx context.Context, venueID, userID string) (*Venue, error) {
	if err := s.checkMembership(ctx, venueID, userID); err != nil {
		return nil, err
	}

	dbVenue, err := s.queries.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}

	return dbVenueToVenue(dbVenue), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Venue, error) {
	dbVenues, err := s.queries.ListVenuesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	venues := make([]Venue, len(dbVenues))
	for i, v := range dbVenues {
		venues[i] = *dbVenueToVenue(v)
	}

	return venues, nil
}

func (s *Service) Delete(ctx context.Context, venueID, userID string) error {
	dbVenue, err := s.queries.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get venue: %w", err)
	}

	if dbVenue.OwnerID != userID {
		return ErrForbidden
	}

	return s.queries.DeleteVenue(ctx, venueID)
}

func (s *Service) InviteByEmail(ctx context.Context, venueID, ownerID, inviteeEmail string) error {
	dbVenue, err := s.queries.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get venue: %w", err)
	}

	if dbVenue.OwnerID != ownerID {
		return ErrForbidden
	}

	invitee, err := s.queries.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.queries.AddVenueMember(ctx, db.AddVenueMemberParams{
		VenueID: venueID,
		UserID:  invitee.ID,
		Role:    db.RoleEditor,
	})
}

func (s *Service) ListMembers(ctx context.Context, venueID, userID string) ([]Member, error) {
	if err := s.checkMembership(ctx, venueID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.queries.ListVenueMembers(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        m.Role,
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}

	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, venueID, ownerID, targetUserID string) error {
	dbVenue, err := s.queries.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get venue: %w", err)
	}

	if dbVenue.OwnerID != ownerID {
		return ErrForbidden
	}

	if targetUserID == ownerID {
		return errors.New("cannot remove venue owner")
	}

	return s.queries.RemoveVenueMember(ctx, db.RemoveVenueMemberParams{
		VenueID: venueID,
		UserID:  targetUserID,
	})
}

// GetLatestSnapshot returns the newest stored layout for a member.
func (s *Service) GetLatestSnapshot(ctx context.Context, venueID, userID string) (json.RawMessage, error) {
	if err := s.checkMembership(ctx, venueID, userID); err != nil {
		return nil, err
	}
	return s.LoadDocument(ctx, venueID)
}

// LoadDocument fetches the newest layout without a membership check. The
// live-session hub uses it after it has authenticated the client itself.
func (s *Service) LoadDocument(ctx context.Context, venueID string) (json.RawMessage, error) {
	snap, err := s.queries.GetLatestSnapshot(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

// SaveDocument appends a new snapshot version for the venue.
func (s *Service) SaveDocument(ctx context.Context, venueID string, doc json.RawMessage) error {
	version, err := s.queries.NextSnapshotVersion(ctx, venueID)
	if err != nil {
		return fmt.Errorf("next version: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		VenueID:  venueID,
		Version:  version,
		Document: doc,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

// CheckAccess reports whether the user may open the venue's live session.
func (s *Service) CheckAccess(ctx context.Context, venueID, userID string) error {
	return s.checkMembership(ctx, venueID, userID)
}

func (s *Service) checkMembership(ctx context.Context, venueID, userID string) error {
	_, err := s.queries.GetVenueMember(ctx, db.GetVenueMemberParams{
		VenueID: venueID,
		UserID:  userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func dbVenueToVenue(v db.Venue) *Venue {
	return &Venue{
		ID:        v.ID,
		Name:      v.Name,
		OwnerID:   v.OwnerID,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: v.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
