package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type ReportService struct {
	activityRepo domain.ActivityRepository
	irRepo       domain.IRRepository
	teamRepo     domain.TeamRepository
	targetRepo   domain.TargetRepository
	resolver     *domain.WeekResolver
}

func NewReportService(
	activityRepo domain.ActivityRepository,
	irRepo domain.IRRepository,
	teamRepo domain.TeamRepository,
	targetRepo domain.TargetRepository,
	resolver *domain.WeekResolver,
) *ReportService {
	return &ReportService{
		activityRepo: activityRepo,
		irRepo:       irRepo,
		teamRepo:     teamRepo,
		targetRepo:   targetRepo,
		resolver:     resolver,
	}
}

// progressFor recomputes one IR's done counts from detail records: infos over
// the Friday window, plans and uvs over the Monday window.
func (s *ReportService) progressFor(ctx context.Context, ir *domain.IR, key domain.WeekKey, friday, monday domain.WindowSpec) (domain.IRProgress, error) {
	p := domain.IRProgress{
		IRID:    ir.ID,
		IRName:  ir.Name,
		WeekKey: key,
	}

	ids := []string{ir.ID}
	infos, err := s.activityRepo.CountInfos(ctx, ids, friday)
	if err != nil {
		return p, fmt.Errorf("report service: info count: %w", err)
	}
	plans, err := s.activityRepo.CountPlans(ctx, ids, monday)
	if err != nil {
		return p, fmt.Errorf("report service: plan count: %w", err)
	}
	uvs, err := s.activityRepo.SumUVs(ctx, ids, monday)
	if err != nil {
		return p, fmt.Errorf("report service: uv sum: %w", err)
	}
	p.InfoDone = infos[ir.ID]
	p.PlanDone = plans[ir.ID]
	p.UVDone = uvs[ir.ID]

	target, err := s.targetRepo.GetForIR(ctx, ir.ID, key)
	switch {
	case err == nil:
		p.InfoTarget = target.InfoTarget
		p.PlanTarget = target.PlanTarget
		p.UVTarget = target.UVTarget
	case errors.Is(err, domain.ErrTargetNotFound):
		// No target set is a valid state, progress reads as done/0.
	default:
		return p, err
	}
	return p, nil
}

// Dashboard builds the weekly report for one IR. Supervisor roles also get
// per-team progress for the teams they can view.
func (s *ReportService) Dashboard(ctx context.Context, actorID string, key domain.WeekKey) (*domain.Dashboard, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	friday, err := s.resolver.FridayWindow(key)
	if err != nil {
		return nil, err
	}
	monday, err := s.resolver.MondayWindow(key)
	if err != nil {
		return nil, err
	}

	personal, err := s.progressFor(ctx, actor, key, friday, monday)
	if err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{
		Personal:     personal,
		FridayWindow: friday,
		MondayWindow: monday,
	}

	if actor.AccessLevel.Has(domain.CapViewAll) || actor.AccessLevel.Has(domain.CapViewSubtree) ||
		actor.AccessLevel.Has(domain.CapViewSharedTeams) {
		teams, err := s.teamRepo.ListTeamsByIR(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, team := range teams {
			tp, err := s.teamProgress(ctx, team, key, friday, monday, false)
			if err != nil {
				return nil, err
			}
			dash.Teams = append(dash.Teams, *tp)
		}
	}

	return dash, nil
}

// TeamReport is the detailed per-member breakdown for one team and week.
func (s *ReportService) TeamReport(ctx context.Context, actorID, teamID string, key domain.WeekKey) (*domain.TeamProgress, error) {
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

	friday, err := s.resolver.FridayWindow(key)
	if err != nil {
		return nil, err
	}
	monday, err := s.resolver.MondayWindow(key)
	if err != nil {
		return nil, err
	}

	return s.teamProgress(ctx, team, key, friday, monday, true)
}

func (s *ReportService) teamProgress(ctx context.Context, team *domain.Team, key domain.WeekKey, friday, monday domain.WindowSpec, withMembers bool) (*domain.TeamProgress, error) {
	members, err := s.teamRepo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.IRID)
	}

	tp := &domain.TeamProgress{
		TeamID:   team.ID,
		TeamName: team.Name,
		WeekKey:  key,
	}

	target, err := s.targetRepo.GetForTeam(ctx, team.ID, key)
	switch {
	case err == nil:
		tp.InfoTarget = target.InfoTarget
		tp.PlanTarget = target.PlanTarget
		tp.UVTarget = target.UVTarget
	case errors.Is(err, domain.ErrTargetNotFound):
	default:
		return nil, err
	}

	if len(ids) == 0 {
		return tp, nil
	}

	infos, err := s.activityRepo.CountInfos(ctx, ids, friday)
	if err != nil {
		return nil, err
	}
	plans, err := s.activityRepo.CountPlans(ctx, ids, monday)
	if err != nil {
		return nil, err
	}
	uvs, err := s.activityRepo.SumUVs(ctx, ids, monday)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		tp.InfoDone += infos[id]
		tp.PlanDone += plans[id]
		tp.UVDone += uvs[id]
	}

	if !withMembers {
		return tp, nil
	}

	for _, id := range ids {
		ir, err := s.irRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrIRNotFound) {
				continue
			}
			return nil, err
		}

		mp := domain.IRProgress{
			IRID:     ir.ID,
			IRName:   ir.Name,
			WeekKey:  key,
			InfoDone: infos[id],
			PlanDone: plans[id],
			UVDone:   uvs[id],
		}
		if t, err := s.targetRepo.GetForIR(ctx, id, key); err == nil {
			mp.InfoTarget = t.InfoTarget
			mp.PlanTarget = t.PlanTarget
			mp.UVTarget = t.UVTarget
		}
		tp.Members = append(tp.Members, mp)
	}
	return tp, nil
}
