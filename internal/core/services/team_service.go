package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type TeamService struct {
	repo   domain.TeamRepository
	irRepo domain.IRRepository
}

func NewTeamService(repo domain.TeamRepository, irRepo domain.IRRepository) *TeamService {
	return &TeamService{
		repo:   repo,
		irRepo: irRepo,
	}
}

// creatorOf resolves a team's creator IR, tolerating creators that were
// deleted after the team was made.
func (s *TeamService) creatorOf(ctx context.Context, team *domain.Team) (*domain.IR, error) {
	if team.CreatedBy == nil {
		return nil, nil
	}
	creator, err := s.irRepo.GetByID(ctx, *team.CreatedBy)
	if err != nil {
		if errors.Is(err, domain.ErrIRNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return creator, nil
}

func (s *TeamService) memberRole(ctx context.Context, teamID, irID string) domain.TeamRole {
	m, err := s.repo.GetMember(ctx, teamID, irID)
	if err != nil {
		return ""
	}
	return m.Role
}

func (s *TeamService) Create(ctx context.Context, actorID, name string) (*domain.Team, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !domain.CanCreateTeam(actor) {
		return nil, domain.ErrUnauthorized
	}

	team, err := domain.NewTeam(name, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("team service: failed to create team: %w", err)
	}

	// The creator joins with a role mirroring its access level.
	member := &domain.TeamMember{
		TeamID:   team.ID,
		IRID:     actor.ID,
		Role:     domain.TeamRole(actor.AccessLevel.String()),
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("team service: failed to add creator: %w", err)
	}
	return team, nil
}

func (s *TeamService) Get(ctx context.Context, actorID, teamID string) (*domain.Team, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	creator, err := s.creatorOf(ctx, team)
	if err != nil {
		return nil, err
	}
	isMember := s.memberRole(ctx, team.ID, actor.ID) != ""
	if !domain.CanViewTeam(actor, creator, isMember) {
		return nil, domain.ErrUnauthorized
	}
	return team, nil
}

// List returns the teams visible to the actor: all of them for admins,
// subtree-created plus own memberships for subtree viewers, memberships only
// for everyone else.
func (s *TeamService) List(ctx context.Context, actorID string) ([]*domain.Team, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if actor.AccessLevel.Has(domain.CapViewAll) {
		return s.repo.List(ctx)
	}

	own, err := s.repo.ListTeamsByIR(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !actor.AccessLevel.Has(domain.CapViewSubtree) {
		return own, nil
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(own))
	result := make([]*domain.Team, 0, len(own))
	for _, t := range own {
		seen[t.ID] = true
		result = append(result, t)
	}
	for _, t := range all {
		if seen[t.ID] {
			continue
		}
		creator, err := s.creatorOf(ctx, t)
		if err != nil {
			return nil, err
		}
		if creator != nil && creator.IsInSubtreeOf(actor) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *TeamService) requireEdit(ctx context.Context, actorID, teamID string) (*domain.IR, *domain.Team, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	creator, err := s.creatorOf(ctx, team)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanEditTeam(actor, creator, s.memberRole(ctx, team.ID, actor.ID)) {
		return nil, nil, domain.ErrUnauthorized
	}
	return actor, team, nil
}

func (s *TeamService) Rename(ctx context.Context, actorID, teamID, name string) (*domain.Team, error) {
	_, team, err := s.requireEdit(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}
	if err := team.Rename(name); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Delete(ctx context.Context, actorID, teamID string) error {
	_, _, err := s.requireEdit(ctx, actorID, teamID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, teamID)
}

func (s *TeamService) AddMember(ctx context.Context, actorID, teamID, irID string, role domain.TeamRole) (*domain.TeamMember, error) {
	_, team, err := s.requireEdit(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}

	ir, err := s.irRepo.GetByID(ctx, irID)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = domain.TeamRole(ir.AccessLevel.String())
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidTeamRole
	}

	member := &domain.TeamMember{
		TeamID:   team.ID,
		IRID:     ir.ID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, actorID, teamID, irID string) error {
	_, _, err := s.requireEdit(ctx, actorID, teamID)
	if err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, teamID, irID)
}

func (s *TeamService) ListMembers(ctx context.Context, actorID, teamID string) ([]*domain.TeamMember, error) {
	if _, err := s.Get(ctx, actorID, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, teamID)
}

func (s *TeamService) CreatePocket(ctx context.Context, actorID, teamID, name string) (*domain.Pocket, error) {
	actor, team, err := s.requireEdit(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListPockets(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Name == name {
			return nil, domain.ErrPocketNameTaken
		}
	}

	pocket, err := domain.NewPocket(team.ID, name, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePocket(ctx, pocket); err != nil {
		return nil, err
	}
	return pocket, nil
}

func (s *TeamService) ListPockets(ctx context.Context, actorID, teamID string) ([]*domain.Pocket, error) {
	if _, err := s.Get(ctx, actorID, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListPockets(ctx, teamID)
}

func (s *TeamService) DeletePocket(ctx context.Context, actorID, pocketID string) error {
	pocket, err := s.repo.GetPocket(ctx, pocketID)
	if err != nil {
		return err
	}
	if _, _, err := s.requireEdit(ctx, actorID, pocket.TeamID); err != nil {
		return err
	}
	return s.repo.DeletePocket(ctx, pocketID)
}

// AddPocketMember requires the IR to already belong to the parent team; the
// pocket member inherits the team member's role.
func (s *TeamService) AddPocketMember(ctx context.Context, actorID, pocketID, irID string, isHead bool) (*domain.PocketMember, error) {
	pocket, err := s.repo.GetPocket(ctx, pocketID)
	if err != nil {
		return nil, err
	}
	actor, _, err := s.requireEdit(ctx, actorID, pocket.TeamID)
	if err != nil {
		return nil, err
	}

	teamMember, err := s.repo.GetMember(ctx, pocket.TeamID, irID)
	if err != nil {
		return nil, err
	}

	member := &domain.PocketMember{
		PocketID: pocket.ID,
		TeamID:   pocket.TeamID,
		IRID:     irID,
		Role:     teamMember.Role,
		IsHead:   isHead,
		AddedBy:  &actor.ID,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.AddPocketMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *TeamService) RemovePocketMember(ctx context.Context, actorID, pocketID, irID string) error {
	pocket, err := s.repo.GetPocket(ctx, pocketID)
	if err != nil {
		return err
	}
	if _, _, err := s.requireEdit(ctx, actorID, pocket.TeamID); err != nil {
		return err
	}
	return s.repo.RemovePocketMember(ctx, pocketID, irID)
}

func (s *TeamService) ListPocketMembers(ctx context.Context, actorID, pocketID string) ([]*domain.PocketMember, error) {
	pocket, err := s.repo.GetPocket(ctx, pocketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, actorID, pocket.TeamID); err != nil {
		return nil, err
	}
	return s.repo.ListPocketMembers(ctx, pocketID)
}
