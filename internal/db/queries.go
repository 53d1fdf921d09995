package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Venue member roles.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Venue struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type VenueMember struct {
	VenueID     string
	UserID      string
	Role        string
	DisplayName string
	Email       string
}

type LayoutSnapshot struct {
	ID        string
	VenueID   string
	Version   int64
	Document  json.RawMessage
	CreatedAt time.Time
}

// Queries runs the application's SQL against the pool.
type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`,
		email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`,
		id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type CreateVenueParams struct {
	ID      string
	Name    string
	OwnerID string
}

func (q *Queries) CreateVenue(ctx context.Context, arg CreateVenueParams) (Venue, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO venues (id, name, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, owner_id, created_at, updated_at`,
		arg.ID, arg.Name, arg.OwnerID)
	var v Venue
	err := row.Scan(&v.ID, &v.Name, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (q *Queries) GetVenue(ctx context.Context, id string) (Venue, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM venues WHERE id = $1`,
		id)
	var v Venue
	err := row.Scan(&v.ID, &v.Name, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (q *Queries) ListVenuesForUser(ctx context.Context, userID string) ([]Venue, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT v.id, v.name, v.owner_id, v.created_at, v.updated_at
		 FROM venues v
		 JOIN venue_members m ON m.venue_id = v.id
		 WHERE m.user_id = $1
		 ORDER BY v.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		var v Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (q *Queries) DeleteVenue(ctx context.Context, id string) error {
	_, err := q.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	return err
}

type AddVenueMemberParams struct {
	VenueID string
	UserID  string
	Role    string
}

func (q *Queries) AddVenueMember(ctx context.Context, arg AddVenueMemberParams) error {
	_, err := q.pool.Exec(ctx,
		`INSERT INTO venue_members (venue_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (venue_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		arg.VenueID, arg.UserID, arg.Role)
	return err
}

type GetVenueMemberParams struct {
	VenueID string
	UserID  string
}

func (q *Queries) GetVenueMember(ctx context.Context, arg GetVenueMemberParams) (VenueMember, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT m.venue_id, m.user_id, m.role, u.display_name, u.email
		 FROM venue_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.venue_id = $1 AND m.user_id = $2`,
		arg.VenueID, arg.UserID)
	var m VenueMember
	err := row.Scan(&m.VenueID, &m.UserID, &m.Role, &m.DisplayName, &m.Email)
	return m, err
}

func (q *Queries) ListVenueMembers(ctx context.Context, venueID string) ([]VenueMember, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT m.venue_id, m.user_id, m.role, u.display_name, u.email
		 FROM venue_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.venue_id = $1
		 ORDER BY m.added_at`,
		venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []VenueMember
	for rows.Next() {
		var m VenueMember
		if err := rows.Scan(&m.VenueID, &m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type RemoveVenueMemberParams struct {
	VenueID string
	UserID  string
}

func (q *Queries) RemoveVenueMember(ctx context.Context, arg RemoveVenueMemberParams) error {
	_, err := q.pool.Exec(ctx,
		`DELETE FROM venue_members WHERE venue_id = $1 AND user_id = $2`,
		arg.VenueID, arg.UserID)
	return err
}

type CreateSnapshotParams struct {
	ID       string
	VenueID  string
	Version  int64
	Document json.RawMessage
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (LayoutSnapshot, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO layout_snapshots (id, venue_id, version, document)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, venue_id, version, document, created_at`,
		arg.ID, arg.VenueID, arg.Version, arg.Document)
	var s LayoutSnapshot
	err := row.Scan(&s.ID, &s.VenueID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

func (q *Queries) GetLatestSnapshot(ctx context.Context, venueID string) (LayoutSnapshot, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, venue_id, version, document, created_at
		 FROM layout_snapshots
		 WHERE venue_id = $1
		 ORDER BY version DESC
		 LIMIT 1`,
		venueID)
	var s LayoutSnapshot
	err := row.Scan(&s.ID, &s.VenueID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

// NextSnapshotVersion returns one past the highest stored version.
func (q *Queries) NextSnapshotVersion(ctx context.Context, venueID string) (int64, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM layout_snapshots WHERE venue_id = $1`,
		venueID)
	var version int64
	err := row.Scan(&version)
	return version, err
}
