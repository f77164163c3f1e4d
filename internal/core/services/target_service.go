package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type TargetService struct {
	repo     domain.TargetRepository
	irRepo   domain.IRRepository
	teamRepo domain.TeamRepository
	resolver *domain.WeekResolver
}

func NewTargetService(
	repo domain.TargetRepository,
	irRepo domain.IRRepository,
	teamRepo domain.TeamRepository,
	resolver *domain.WeekResolver,
) *TargetService {
	return &TargetService{
		repo:     repo,
		irRepo:   irRepo,
		teamRepo: teamRepo,
		resolver: resolver,
	}
}

type SetTargetInput struct {
	ActorID    string
	Key        domain.WeekKey
	InfoTarget int
	PlanTarget int
	UVTarget   int
}

// newTarget builds a target with the Friday window denormalized onto it, so a
// later resolver change cannot silently move rows between weeks.
func (s *TargetService) newTarget(input SetTargetInput) (*domain.WeeklyTarget, error) {
	win, err := s.resolver.FridayWindow(input.Key)
	if err != nil {
		return nil, err
	}
	return domain.NewWeeklyTarget(input.Key, win, input.InfoTarget, input.PlanTarget, input.UVTarget)
}

func (s *TargetService) SetIRTarget(ctx context.Context, input SetTargetInput, irID string) (*domain.WeeklyTarget, error) {
	actor, err := s.irRepo.GetByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	target, err := s.irRepo.GetByID(ctx, irID)
	if err != nil {
		return nil, err
	}

	scope, err := teamScope(ctx, s.teamRepo, actor, target)
	if err != nil {
		return nil, err
	}
	if !domain.CanAddDataFor(actor, target, scope) {
		return nil, domain.ErrUnauthorized
	}

	t, err := s.newTarget(input)
	if err != nil {
		return nil, err
	}
	t.IRID = &target.ID

	if err := s.repo.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("target service: failed to set ir target: %w", err)
	}
	return t, nil
}

func (s *TargetService) requireTeamEdit(ctx context.Context, actorID, teamID string) (*domain.Team, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var creator *domain.IR
	if team.CreatedBy != nil {
		if c, err := s.irRepo.GetByID(ctx, *team.CreatedBy); err == nil {
			creator = c
		}
	}

	var role domain.TeamRole
	if m, err := s.teamRepo.GetMember(ctx, team.ID, actor.ID); err == nil {
		role = m.Role
	}

	if !domain.CanEditTeam(actor, creator, role) {
		return nil, domain.ErrUnauthorized
	}
	return team, nil
}

func (s *TargetService) SetTeamTarget(ctx context.Context, input SetTargetInput, teamID string) (*domain.WeeklyTarget, error) {
	team, err := s.requireTeamEdit(ctx, input.ActorID, teamID)
	if err != nil {
		return nil, err
	}

	t, err := s.newTarget(input)
	if err != nil {
		return nil, err
	}
	t.TeamID = &team.ID

	if err := s.repo.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("target service: failed to set team target: %w", err)
	}
	return t, nil
}

func (s *TargetService) SetPocketTarget(ctx context.Context, input SetTargetInput, pocketID string) (*domain.WeeklyTarget, error) {
	pocket, err := s.teamRepo.GetPocket(ctx, pocketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireTeamEdit(ctx, input.ActorID, pocket.TeamID); err != nil {
		return nil, err
	}

	t, err := s.newTarget(input)
	if err != nil {
		return nil, err
	}
	t.PocketID = &pocket.ID

	if err := s.repo.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("target service: failed to set pocket target: %w", err)
	}
	return t, nil
}

// SplitTeamTargetToPockets divides the team's target for the week evenly over
// its active pockets. Remainders go to the earliest pockets so the totals
// still add up to the team target.
func (s *TargetService) SplitTeamTargetToPockets(ctx context.Context, actorID, teamID string, key domain.WeekKey) ([]*domain.WeeklyTarget, error) {
	team, err := s.requireTeamEdit(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}

	teamTarget, err := s.repo.GetForTeam(ctx, team.ID, key)
	if err != nil {
		return nil, err
	}

	pockets, err := s.teamRepo.ListPockets(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	active := pockets[:0]
	for _, p := range pockets {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil, domain.ErrPocketNotFound
	}

	win, err := s.resolver.FridayWindow(key)
	if err != nil {
		return nil, err
	}

	n := len(active)
	result := make([]*domain.WeeklyTarget, 0, n)
	for i, pocket := range active {
		share := func(total int) int {
			v := total / n
			if i < total%n {
				v++
			}
			return v
		}

		t, err := domain.NewWeeklyTarget(key, win,
			share(teamTarget.InfoTarget), share(teamTarget.PlanTarget), share(teamTarget.UVTarget))
		if err != nil {
			return nil, err
		}
		t.PocketID = &pocket.ID

		if err := s.repo.Upsert(ctx, t); err != nil {
			return nil, fmt.Errorf("target service: failed to split target: %w", err)
		}
		result = append(result, t)
	}
	return result, nil
}

func (s *TargetService) GetIRTarget(ctx context.Context, actorID, irID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.irRepo.GetByID(ctx, irID)
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
	if err := s.validateKey(key); err != nil {
		return nil, err
	}
	return s.repo.GetForIR(ctx, irID, key)
}

func (s *TargetService) GetTeamTarget(ctx context.Context, actorID, teamID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var creator *domain.IR
	if team.CreatedBy != nil {
		if c, err := s.irRepo.GetByID(ctx, *team.CreatedBy); err == nil {
			creator = c
		}
	}
	isMember := false
	if _, err := s.teamRepo.GetMember(ctx, team.ID, actor.ID); err == nil {
		isMember = true
	}
	if !domain.CanViewTeam(actor, creator, isMember) {
		return nil, domain.ErrUnauthorized
	}
	if err := s.validateKey(key); err != nil {
		return nil, err
	}
	return s.repo.GetForTeam(ctx, teamID, key)
}

func (s *TargetService) validateKey(key domain.WeekKey) error {
	// Window derivation doubles as key validation.
	_, err := s.resolver.FridayWindow(key)
	return err
}

// AvailableWeeks lists every week that has at least one target set, newest
// first. Drives the week picker.
func (s *TargetService) AvailableWeeks(ctx context.Context) ([]domain.WeekKey, error) {
	return s.repo.ListWeeks(ctx)
}

// CurrentWeek resolves "now" to its WeekKey.
func (s *TargetService) CurrentWeek() (domain.WeekKey, error) {
	return s.resolver.ResolveWeek(time.Now())
}
