// Package services – GroupService
//
// GroupService manages the study-group lifecycle: creation (with join-code
// issuance and the creator installed as leader in the same transaction),
// code-based lookup, and membership joins. Capacity and double-join checks
// run inside the membership-insert transaction so concurrent joins cannot
// oversubscribe a group.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/joincode"
	"github.com/tbourn/go-study-backend/internal/repo"
)

// CreateGroupInput carries the caller-supplied fields for a new study group.
type CreateGroupInput struct {
	Name               string
	Description        string
	SubjectID          *string
	Topic              string
	MaxMembers         int
	MeetingType        string
	MeetingLocation    string
	MeetingLink        string
	PreferredTimeSlots []string
}

// GroupPreview is the public view of a group fetched by join code, including
// derived occupancy figures and whether the viewer already belongs to it.
type GroupPreview struct {
	Group           *domain.StudyGroup `json:"group"`
	MemberCount     int64              `json:"member_count"`
	AvailableSpots  int64              `json:"available_spots"`
	IsAlreadyMember bool               `json:"is_already_member"`
}

// GroupService provides study-group operations.
type GroupService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// BaseURL is the public app origin used to build shareable join links.
	BaseURL string
}

// NewGroupService constructs a GroupService.
func NewGroupService(db *gorm.DB, baseURL string) *GroupService {
	return &GroupService{DB: db, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Create validates the input, issues a unique join code, and creates the
// group together with the creator's leader membership in one transaction.
// It returns the group and a shareable join link.
func (s *GroupService) Create(ctx context.Context, userID string, in CreateGroupInput) (*domain.StudyGroup, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.MaxMembers <= 0 {
		return nil, "", ErrGroupFieldsRequired
	}
	if in.MeetingType == "" {
		in.MeetingType = domain.MeetingVirtual
	}

	code, err := joincode.Issue(ctx, func(ctx context.Context, candidate string) (bool, error) {
		taken, err := repo.JoinCodeExists(ctx, s.DB, candidate)
		if err == nil && taken {
			joinCodeCollisions.Inc()
		}
		return taken, err
	})
	if err != nil {
		if errors.Is(err, joincode.ErrExhausted) {
			return nil, "", ErrJoinCodeExhausted
		}
		return nil, "", err
	}

	g := &domain.StudyGroup{
		Name:               in.Name,
		Description:        in.Description,
		SubjectID:          in.SubjectID,
		Topic:              in.Topic,
		MaxMembers:         in.MaxMembers,
		MeetingType:        in.MeetingType,
		MeetingLocation:    in.MeetingLocation,
		MeetingLink:        in.MeetingLink,
		PreferredTimeSlots: in.PreferredTimeSlots,
		CreatedBy:          userID,
		IsActive:           true,
		JoinCode:           code,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateGroup(ctx, tx, g); err != nil {
			return err
		}
		_, err := repo.AddMember(ctx, tx, g.ID, userID, domain.MemberRoleLeader)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return g, s.joinLink(code), nil
}

// GetByCode returns the group carrying the (normalized) join code together
// with occupancy figures. viewerID may be empty for anonymous previews.
func (s *GroupService) GetByCode(ctx context.Context, code, viewerID string) (*GroupPreview, error) {
	code = normalizeJoinCode(code)
	if code == "" {
		return nil, ErrJoinCodeRequired
	}
	g, err := repo.GetActiveGroupByCode(ctx, s.DB, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidJoinCode
		}
		return nil, err
	}

	count := int64(len(g.Members))
	spots := int64(g.MaxMembers) - count
	if spots < 0 {
		spots = 0
	}
	member := false
	if viewerID != "" {
		for _, m := range g.Members {
			if m.UserID == viewerID {
				member = true
				break
			}
		}
	}
	return &GroupPreview{Group: g, MemberCount: count, AvailableSpots: spots, IsAlreadyMember: member}, nil
}

// JoinByCode adds the user to the active group carrying the join code.
func (s *GroupService) JoinByCode(ctx context.Context, userID, code string) (*domain.StudyGroup, *domain.GroupMember, error) {
	code = normalizeJoinCode(code)
	if code == "" {
		return nil, nil, ErrJoinCodeRequired
	}
	g, err := repo.GetActiveGroupByCode(ctx, s.DB, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidJoinCode
		}
		return nil, nil, err
	}
	m, err := s.join(ctx, g, userID)
	if err != nil {
		return nil, nil, err
	}
	return g, m, nil
}

// JoinByID adds the user to the active group with the given id.
func (s *GroupService) JoinByID(ctx context.Context, userID, groupID string) (*domain.StudyGroup, *domain.GroupMember, error) {
	g, err := repo.GetActiveGroup(ctx, s.DB, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGroupNotFound
		}
		return nil, nil, err
	}
	m, err := s.join(ctx, g, userID)
	if err != nil {
		return nil, nil, err
	}
	return g, m, nil
}

// ListActive returns all active groups, newest first, with subject and
// member associations loaded.
func (s *GroupService) ListActive(ctx context.Context) ([]domain.StudyGroup, error) {
	return repo.ListActiveGroups(ctx, s.DB)
}

// join inserts a membership row. Membership and capacity are re-checked
// inside the transaction; the unique index on (group_id, user_id) is the
// final backstop against concurrent double joins.
func (s *GroupService) join(ctx context.Context, g *domain.StudyGroup, userID string) (*domain.GroupMember, error) {
	var member *domain.GroupMember
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		already, err := repo.IsMember(ctx, tx, g.ID, userID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyMember
		}
		count, err := repo.CountMembers(ctx, tx, g.ID)
		if err != nil {
			return err
		}
		if count >= int64(g.MaxMembers) {
			return ErrGroupFull
		}
		member, err = repo.AddMember(ctx, tx, g.ID, userID, domain.MemberRoleMember)
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrAlreadyMember
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// joinLink builds the shareable invite URL for a join code.
func (s *GroupService) joinLink(code string) string {
	if s.BaseURL == "" {
		return "/groups/join/" + code
	}
	return s.BaseURL + "/groups/join/" + code
}

// normalizeJoinCode upper-cases and trims a user-supplied join code.
func normalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
