package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

// RecountEnqueuer is the slice of the recount worker this service needs.
type RecountEnqueuer interface {
	Enqueue(irID string, key domain.WeekKey)
}

type ActivityService struct {
	repo     domain.ActivityRepository
	irRepo   domain.IRRepository
	teamRepo domain.TeamRepository
	notifs   domain.NotificationRepository
	resolver *domain.WeekResolver
	recount  RecountEnqueuer
}

func NewActivityService(
	repo domain.ActivityRepository,
	irRepo domain.IRRepository,
	teamRepo domain.TeamRepository,
	notifs domain.NotificationRepository,
	resolver *domain.WeekResolver,
	recount RecountEnqueuer,
) *ActivityService {
	return &ActivityService{
		repo:     repo,
		irRepo:   irRepo,
		teamRepo: teamRepo,
		notifs:   notifs,
		resolver: resolver,
		recount:  recount,
	}
}

// requireAddAccess loads actor and target and checks the actor may record
// data on the target's behalf. Returns the resolved week for recordedAt so
// callers can enqueue a recount.
func (s *ActivityService) requireAddAccess(ctx context.Context, actorID, targetID string, recordedAt time.Time) (domain.WeekKey, error) {
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return domain.WeekKey{}, err
	}
	target := actor
	if targetID != actorID {
		target, err = s.irRepo.GetByID(ctx, targetID)
		if err != nil {
			return domain.WeekKey{}, err
		}
		scope, err := teamScope(ctx, s.teamRepo, actor, target)
		if err != nil {
			return domain.WeekKey{}, err
		}
		if !domain.CanAddDataFor(actor, target, scope) {
			return domain.WeekKey{}, domain.ErrUnauthorized
		}
	}

	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	key, err := s.resolver.ResolveWeek(recordedAt)
	if err != nil {
		return domain.WeekKey{}, err
	}
	return key, nil
}

func (s *ActivityService) requireViewAccess(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return nil
	}
	actor, err := s.irRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.irRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	scope, err := teamScope(ctx, s.teamRepo, actor, target)
	if err != nil {
		return err
	}
	if !domain.CanViewIR(actor, target, scope) {
		return domain.ErrUnauthorized
	}
	return nil
}

type AddInfoInput struct {
	ActorID      string
	TargetID     string
	ProspectName string
	Response     domain.InfoResponse
	Type         domain.InfoType
	Comments     string
	RecordedAt   time.Time
}

func (s *ActivityService) AddInfo(ctx context.Context, input AddInfoInput) (*domain.InfoDetail, error) {
	key, err := s.requireAddAccess(ctx, input.ActorID, input.TargetID, input.RecordedAt)
	if err != nil {
		return nil, err
	}

	info, err := domain.NewInfoDetail(input.TargetID, input.ProspectName, input.Response, input.Type, input.RecordedAt)
	if err != nil {
		return nil, err
	}
	info.Comments = input.Comments

	if err := s.repo.CreateInfo(ctx, info); err != nil {
		return nil, fmt.Errorf("activity service: failed to create info: %w", err)
	}

	s.recount.Enqueue(info.IRID, key)
	return info, nil
}

type UpdateInfoInput struct {
	ActorID      string
	InfoID       string
	ProspectName string
	Response     domain.InfoResponse
	Type         domain.InfoType
	Comments     *string
	Version      int
}

func (s *ActivityService) UpdateInfo(ctx context.Context, input UpdateInfoInput) (*domain.InfoDetail, error) {
	info, err := s.repo.GetInfo(ctx, input.InfoID)
	if err != nil {
		return nil, err
	}
	key, err := s.requireAddAccess(ctx, input.ActorID, info.IRID, info.RecordedAt)
	if err != nil {
		return nil, err
	}

	if input.ProspectName != "" {
		info.ProspectName = input.ProspectName
	}
	if input.Response != "" {
		if !input.Response.Valid() {
			return nil, domain.ErrInvalidResponse
		}
		info.Response = input.Response
	}
	if input.Type != "" {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidInfoType
		}
		info.Type = input.Type
	}
	if input.Comments != nil {
		info.Comments = *input.Comments
	}
	info.Version = input.Version

	if err := s.repo.UpdateInfo(ctx, info); err != nil {
		return nil, err
	}

	s.recount.Enqueue(info.IRID, key)
	return info, nil
}

func (s *ActivityService) DeleteInfo(ctx context.Context, actorID, infoID string) error {
	info, err := s.repo.GetInfo(ctx, infoID)
	if err != nil {
		return err
	}
	key, err := s.requireAddAccess(ctx, actorID, info.IRID, info.RecordedAt)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteInfo(ctx, infoID, info.IRID); err != nil {
		return err
	}

	s.recount.Enqueue(info.IRID, key)
	return nil
}

// CurrentWeek resolves "now" to its WeekKey.
func (s *ActivityService) CurrentWeek() (domain.WeekKey, error) {
	return s.resolver.ResolveWeek(time.Now())
}

// ListInfos returns the target's info records for the week's Friday window.
func (s *ActivityService) ListInfos(ctx context.Context, actorID, targetID string, key domain.WeekKey) ([]*domain.InfoDetail, error) {
	if err := s.requireViewAccess(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	win, err := s.resolver.FridayWindow(key)
	if err != nil {
		return nil, err
	}
	return s.repo.ListInfos(ctx, targetID, win)
}

type AddPlanInput struct {
	ActorID    string
	TargetID   string
	Name       string
	Status     domain.PlanStatus
	Comments   string
	RecordedAt time.Time
}

func (s *ActivityService) AddPlan(ctx context.Context, input AddPlanInput) (*domain.PlanDetail, error) {
	key, err := s.requireAddAccess(ctx, input.ActorID, input.TargetID, input.RecordedAt)
	if err != nil {
		return nil, err
	}

	plan, err := domain.NewPlanDetail(input.TargetID, input.Name, input.Status, input.RecordedAt)
	if err != nil {
		return nil, err
	}
	plan.Comments = input.Comments

	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("activity service: failed to create plan: %w", err)
	}

	s.recount.Enqueue(plan.IRID, key)
	return plan, nil
}

type UpdatePlanInput struct {
	ActorID  string
	PlanID   string
	Name     string
	Status   domain.PlanStatus
	Comments *string
	Version  int
}

func (s *ActivityService) UpdatePlan(ctx context.Context, input UpdatePlanInput) (*domain.PlanDetail, error) {
	plan, err := s.repo.GetPlan(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	key, err := s.requireAddAccess(ctx, input.ActorID, plan.IRID, plan.RecordedAt)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		plan.Name = input.Name
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, domain.ErrInvalidPlanStatus
		}
		plan.Status = input.Status
	}
	if input.Comments != nil {
		plan.Comments = *input.Comments
	}
	plan.Version = input.Version

	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.recount.Enqueue(plan.IRID, key)
	return plan, nil
}

func (s *ActivityService) DeletePlan(ctx context.Context, actorID, planID string) error {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	key, err := s.requireAddAccess(ctx, actorID, plan.IRID, plan.RecordedAt)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePlan(ctx, planID, plan.IRID); err != nil {
		return err
	}

	s.recount.Enqueue(plan.IRID, key)
	return nil
}

// ListPlans filters by the week's Monday window, the calendar week plans are
// scheduled against.
func (s *ActivityService) ListPlans(ctx context.Context, actorID, targetID string, key domain.WeekKey) ([]*domain.PlanDetail, error) {
	if err := s.requireViewAccess(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	win, err := s.resolver.MondayWindow(key)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPlans(ctx, targetID, win)
}

type AddUVInput struct {
	ActorID      string
	TargetID     string
	ProspectName string
	Count        int
	Comments     string
	RecordedAt   time.Time
}

func (s *ActivityService) AddUV(ctx context.Context, input AddUVInput) (*domain.UVDetail, error) {
	key, err := s.requireAddAccess(ctx, input.ActorID, input.TargetID, input.RecordedAt)
	if err != nil {
		return nil, err
	}

	uv, err := domain.NewUVDetail(input.TargetID, input.ProspectName, input.Count, input.RecordedAt)
	if err != nil {
		return nil, err
	}
	uv.Comments = input.Comments

	if err := s.repo.CreateUV(ctx, uv); err != nil {
		return nil, fmt.Errorf("activity service: failed to create uv: %w", err)
	}

	s.recount.Enqueue(uv.IRID, key)
	s.notifyUVAdded(ctx, uv)
	return uv, nil
}

// notifyUVAdded tells the IR's parent about new UVs. Best effort, a failed
// notification never fails the write.
func (s *ActivityService) notifyUVAdded(ctx context.Context, uv *domain.UVDetail) {
	owner, err := s.irRepo.GetByID(ctx, uv.IRID)
	if err != nil || owner.ParentID == nil {
		return
	}
	n := domain.NewNotification(*owner.ParentID, domain.NotificationUVAdded,
		"UVs added", fmt.Sprintf("%s recorded %d UV(s)", owner.Name, uv.Count), uv.ID)
	_ = s.notifs.Create(ctx, n)
}

func (s *ActivityService) DeleteUV(ctx context.Context, actorID, uvID string) error {
	uv, err := s.repo.GetUV(ctx, uvID)
	if err != nil {
		return err
	}
	key, err := s.requireAddAccess(ctx, actorID, uv.IRID, uv.RecordedAt)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUV(ctx, uvID, uv.IRID); err != nil {
		return err
	}

	s.recount.Enqueue(uv.IRID, key)
	return nil
}

func (s *ActivityService) ListUVs(ctx context.Context, actorID, targetID string, key domain.WeekKey) ([]*domain.UVDetail, error) {
	if err := s.requireViewAccess(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	win, err := s.resolver.MondayWindow(key)
	if err != nil {
		return nil, err
	}
	return s.repo.ListUVs(ctx, targetID, win)
}
