package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type IRService struct {
	repo     domain.IRRepository
	teamRepo domain.TeamRepository
}

func NewIRService(repo domain.IRRepository, teamRepo domain.TeamRepository) *IRService {
	return &IRService{
		repo:     repo,
		teamRepo: teamRepo,
	}
}

// teamScope loads the membership facts the pure visibility checks need.
func teamScope(ctx context.Context, teamRepo domain.TeamRepository, actor, target *domain.IR) (domain.TeamScope, error) {
	if actor.ID == target.ID {
		return domain.TeamScope{}, nil
	}

	actorTeams, err := teamRepo.ListTeamsByIR(ctx, actor.ID)
	if err != nil {
		return domain.TeamScope{}, fmt.Errorf("team scope: %w", err)
	}
	targetTeams, err := teamRepo.ListTeamsByIR(ctx, target.ID)
	if err != nil {
		return domain.TeamScope{}, fmt.Errorf("team scope: %w", err)
	}

	actorTeamIDs := make(map[string]bool, len(actorTeams))
	for _, t := range actorTeams {
		actorTeamIDs[t.ID] = true
	}

	var scope domain.TeamScope
	for _, t := range targetTeams {
		if actorTeamIDs[t.ID] {
			scope.SharedTeam = true
		}
		if t.CreatedBy != nil && *t.CreatedBy == actor.ID {
			scope.TargetInOwnedTeam = true
		}
	}
	return scope, nil
}

func (s *IRService) loadPair(ctx context.Context, actorID, targetID string) (actor, target *domain.IR, err error) {
	actor, err = s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err = s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

func (s *IRService) Get(ctx context.Context, actorID, targetID string) (*domain.IR, error) {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	scope, err := teamScope(ctx, s.teamRepo, actor, target)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewIR(actor, target, scope) {
		return nil, domain.ErrUnauthorized
	}
	return target, nil
}

// List returns every IR the actor may view, per its role capabilities.
func (s *IRService) List(ctx context.Context, actorID string) ([]*domain.IR, error) {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.AccessLevel.Has(domain.CapViewAll):
		return s.repo.List(ctx)
	case actor.AccessLevel.Has(domain.CapViewSubtree):
		return s.repo.ListSubtree(ctx, actor.HierarchyPath)
	case actor.AccessLevel.Has(domain.CapViewSharedTeams):
		return s.listTeammates(ctx, actor)
	default:
		return []*domain.IR{actor}, nil
	}
}

func (s *IRService) listTeammates(ctx context.Context, actor *domain.IR) ([]*domain.IR, error) {
	teams, err := s.teamRepo.ListTeamsByIR(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{actor.ID: true}
	result := []*domain.IR{actor}

	for _, team := range teams {
		members, err := s.teamRepo.ListMembers(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if seen[m.IRID] {
				continue
			}
			seen[m.IRID] = true

			ir, err := s.repo.GetByID(ctx, m.IRID)
			if err != nil {
				return nil, err
			}
			result = append(result, ir)
		}
	}
	return result, nil
}

type UpdateIRInput struct {
	ActorID  string
	TargetID string
	Name     string
	Email    string
}

func (s *IRService) UpdateProfile(ctx context.Context, input UpdateIRInput) (*domain.IR, error) {
	actor, target, err := s.loadPair(ctx, input.ActorID, input.TargetID)
	if err != nil {
		return nil, err
	}

	scope, err := teamScope(ctx, s.teamRepo, actor, target)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditIR(actor, target, scope) {
		return nil, domain.ErrUnauthorized
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if len(name) > domain.MaxIRNameLen {
			return nil, domain.ErrInvalidIRName
		}
		target.Name = name
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		fresh, err := domain.NewIR(target.ID, target.Name, email, target.AccessLevel)
		if err != nil {
			return nil, err
		}
		target.Email = fresh.Email
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *IRService) ChangeAccessLevel(ctx context.Context, actorID, targetID string, level int) (*domain.IR, error) {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if !domain.CanPromote(actor) {
		return nil, domain.ErrUnauthorized
	}

	if err := target.Promote(domain.AccessLevel(level)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Reparent moves an IR (and its whole subtree) under a new parent. An empty
// newParentID turns the IR into a root. Descendant paths are rewritten by
// prefix replacement so the subtree stays internally consistent.
func (s *IRService) Reparent(ctx context.Context, actorID, targetID, newParentID string) error {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !domain.CanPromote(actor) {
		return domain.ErrUnauthorized
	}

	var parent *domain.IR
	if newParentID != "" {
		parent, err = s.repo.GetByID(ctx, newParentID)
		if err != nil {
			return err
		}
	}

	oldPath := target.HierarchyPath
	oldLevel := target.HierarchyLevel

	if err := target.SetParent(parent); err != nil {
		return err
	}
	if err := s.repo.UpdateHierarchy(ctx, target.ID, target.ParentID, target.HierarchyPath, target.HierarchyLevel); err != nil {
		return err
	}

	return s.rewriteDescendants(ctx, target, oldPath, oldLevel)
}

func (s *IRService) rewriteDescendants(ctx context.Context, moved *domain.IR, oldPath string, oldLevel int) error {
	descendants, err := s.repo.ListSubtree(ctx, oldPath)
	if err != nil {
		return err
	}

	levelDelta := moved.HierarchyLevel - oldLevel
	for _, d := range descendants {
		if d.ID == moved.ID {
			continue
		}
		newPath := moved.HierarchyPath + strings.TrimPrefix(d.HierarchyPath, oldPath)
		if err := s.repo.UpdateHierarchy(ctx, d.ID, d.ParentID, newPath, d.HierarchyLevel+levelDelta); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an IR after reconnecting its direct children to the
// grandparent, keeping every descendant path valid.
func (s *IRService) Delete(ctx context.Context, actorID, targetID string) error {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	scope, err := teamScope(ctx, s.teamRepo, actor, target)
	if err != nil {
		return err
	}
	if !domain.CanEditIR(actor, target, scope) {
		return domain.ErrUnauthorized
	}

	var grandparent *domain.IR
	if target.ParentID != nil {
		grandparent, err = s.repo.GetByID(ctx, *target.ParentID)
		if err != nil {
			return err
		}
	}

	children, err := s.repo.ListChildren(ctx, target.ID)
	if err != nil {
		return err
	}

	for _, child := range children {
		oldPath := child.HierarchyPath
		oldLevel := child.HierarchyLevel

		if err := child.SetParent(grandparent); err != nil {
			return err
		}
		if err := s.repo.UpdateHierarchy(ctx, child.ID, child.ParentID, child.HierarchyPath, child.HierarchyLevel); err != nil {
			return err
		}
		if err := s.rewriteDescendants(ctx, child, oldPath, oldLevel); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, target.ID)
}

func (s *IRService) DirectDownlines(ctx context.Context, actorID, targetID string) ([]*domain.IR, error) {
	if _, err := s.Get(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	return s.repo.ListChildren(ctx, targetID)
}

type TreeNode struct {
	IR       *domain.IR  `json:"ir"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Tree materializes the subtree rooted at targetID as nested nodes.
func (s *IRService) Tree(ctx context.Context, actorID, targetID string) (*TreeNode, error) {
	target, err := s.Get(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	subtree, err := s.repo.ListSubtree(ctx, target.HierarchyPath)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*TreeNode, len(subtree))
	for _, ir := range subtree {
		nodes[ir.ID] = &TreeNode{IR: ir}
	}

	root := nodes[target.ID]
	if root == nil {
		return nil, domain.ErrIRNotFound
	}

	for _, ir := range subtree {
		if ir.ID == target.ID || ir.ParentID == nil {
			continue
		}
		if parent, ok := nodes[*ir.ParentID]; ok {
			parent.Children = append(parent.Children, nodes[ir.ID])
		}
	}
	return root, nil
}
