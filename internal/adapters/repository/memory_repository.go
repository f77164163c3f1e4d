package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

// In-memory implementations of the repository ports, used by handler and
// lifecycle tests that should not need Postgres.

type InMemoryIRRepository struct {
	store map[string]*domain.IR

	mu sync.RWMutex
}

func NewInMemoryIRRepository() *InMemoryIRRepository {
	return &InMemoryIRRepository{
		store: make(map[string]*domain.IR),
	}
}

func (r *InMemoryIRRepository) Create(ctx context.Context, ir *domain.IR) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[ir.ID]; ok {
		return domain.ErrIRIDTaken
	}
	for _, existing := range r.store {
		if existing.Email == ir.Email {
			return domain.ErrIRIDTaken
		}
	}

	r.store[ir.ID] = ir
	return nil
}

func (r *InMemoryIRRepository) GetByID(ctx context.Context, id string) (*domain.IR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ir, ok := r.store[id]
	if !ok {
		return nil, domain.ErrIRNotFound
	}
	return ir, nil
}

func (r *InMemoryIRRepository) GetByEmail(ctx context.Context, email string) (*domain.IR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ir := range r.store {
		if ir.Email == email {
			return ir, nil
		}
	}
	return nil, domain.ErrIRNotFound
}

func (r *InMemoryIRRepository) List(ctx context.Context) ([]*domain.IR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var irs []*domain.IR
	for _, ir := range r.store {
		if ir.Active {
			irs = append(irs, ir)
		}
	}

	sort.Slice(irs, func(i, j int) bool {
		return irs[i].HierarchyPath < irs[j].HierarchyPath
	})

	return irs, nil
}

func (r *InMemoryIRRepository) Update(ctx context.Context, ir *domain.IR) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[ir.ID]; !ok {
		return domain.ErrIRNotFound
	}

	r.store[ir.ID] = ir
	return nil
}

func (r *InMemoryIRRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrIRNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryIRRepository) ListChildren(ctx context.Context, parentID string) ([]*domain.IR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var children []*domain.IR
	for _, ir := range r.store {
		if ir.ParentID != nil && *ir.ParentID == parentID && ir.Active {
			children = append(children, ir)
		}
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].ID < children[j].ID
	})

	return children, nil
}

func (r *InMemoryIRRepository) ListSubtree(ctx context.Context, pathPrefix string) ([]*domain.IR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var irs []*domain.IR
	for _, ir := range r.store {
		if strings.HasPrefix(ir.HierarchyPath, pathPrefix) && ir.Active {
			irs = append(irs, ir)
		}
	}

	sort.Slice(irs, func(i, j int) bool {
		return irs[i].HierarchyLevel < irs[j].HierarchyLevel
	})

	return irs, nil
}

func (r *InMemoryIRRepository) UpdateHierarchy(ctx context.Context, id string, parentID *string, path string, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ir, ok := r.store[id]
	if !ok {
		return domain.ErrIRNotFound
	}

	ir.ParentID = parentID
	ir.HierarchyPath = path
	ir.HierarchyLevel = level
	ir.UpdatedAt = time.Now().UTC()
	return nil
}

type teamMemberKey struct {
	teamID string
	irID   string
}

type pocketMemberKey struct {
	pocketID string
	irID     string
}

type InMemoryTeamRepository struct {
	teams         map[string]*domain.Team
	members       map[teamMemberKey]*domain.TeamMember
	pockets       map[string]*domain.Pocket
	pocketMembers map[pocketMemberKey]*domain.PocketMember

	mu sync.RWMutex
}

func NewInMemoryTeamRepository() *InMemoryTeamRepository {
	return &InMemoryTeamRepository{
		teams:         make(map[string]*domain.Team),
		members:       make(map[teamMemberKey]*domain.TeamMember),
		pockets:       make(map[string]*domain.Pocket),
		pocketMembers: make(map[pocketMemberKey]*domain.PocketMember),
	}
}

func (r *InMemoryTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[team.ID] = team
	return nil
}

func (r *InMemoryTeamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return team, nil
}

func (r *InMemoryTeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]*domain.Team, 0, len(r.teams))
	for _, t := range r.teams {
		teams = append(teams, t)
	}

	sort.Slice(teams, func(i, j int) bool {
		return teams[i].CreatedAt.After(teams[j].CreatedAt)
	})

	return teams, nil
}

func (r *InMemoryTeamRepository) Update(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[team.ID]; !ok {
		return domain.ErrTeamNotFound
	}

	r.teams[team.ID] = team
	return nil
}

func (r *InMemoryTeamRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[id]; !ok {
		return domain.ErrTeamNotFound
	}

	delete(r.teams, id)
	for key := range r.members {
		if key.teamID == id {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *InMemoryTeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamMemberKey{teamID: member.TeamID, irID: member.IRID}
	if _, ok := r.members[key]; ok {
		return domain.ErrAlreadyMember
	}

	r.members[key] = member
	return nil
}

func (r *InMemoryTeamRepository) RemoveMember(ctx context.Context, teamID, irID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamMemberKey{teamID: teamID, irID: irID}
	if _, ok := r.members[key]; !ok {
		return domain.ErrNotMember
	}

	delete(r.members, key)
	return nil
}

func (r *InMemoryTeamRepository) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*domain.TeamMember
	for key, m := range r.members {
		if key.teamID == teamID {
			members = append(members, m)
		}
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	return members, nil
}

func (r *InMemoryTeamRepository) ListTeamsByIR(ctx context.Context, irID string) ([]*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var teams []*domain.Team
	for key := range r.members {
		if key.irID != irID {
			continue
		}
		if team, ok := r.teams[key.teamID]; ok {
			teams = append(teams, team)
		}
	}

	sort.Slice(teams, func(i, j int) bool {
		return teams[i].CreatedAt.After(teams[j].CreatedAt)
	})

	return teams, nil
}

func (r *InMemoryTeamRepository) GetMember(ctx context.Context, teamID, irID string) (*domain.TeamMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[teamMemberKey{teamID: teamID, irID: irID}]
	if !ok {
		return nil, domain.ErrNotMember
	}
	return member, nil
}

func (r *InMemoryTeamRepository) CreatePocket(ctx context.Context, pocket *domain.Pocket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pockets {
		if p.TeamID == pocket.TeamID && p.Name == pocket.Name {
			return domain.ErrPocketNameTaken
		}
	}

	r.pockets[pocket.ID] = pocket
	return nil
}

func (r *InMemoryTeamRepository) GetPocket(ctx context.Context, id string) (*domain.Pocket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pocket, ok := r.pockets[id]
	if !ok {
		return nil, domain.ErrPocketNotFound
	}
	return pocket, nil
}

func (r *InMemoryTeamRepository) ListPockets(ctx context.Context, teamID string) ([]*domain.Pocket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pockets []*domain.Pocket
	for _, p := range r.pockets {
		if p.TeamID == teamID {
			pockets = append(pockets, p)
		}
	}

	sort.Slice(pockets, func(i, j int) bool {
		return pockets[i].Name < pockets[j].Name
	})

	return pockets, nil
}

func (r *InMemoryTeamRepository) UpdatePocket(ctx context.Context, pocket *domain.Pocket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pockets[pocket.ID]; !ok {
		return domain.ErrPocketNotFound
	}

	r.pockets[pocket.ID] = pocket
	return nil
}

func (r *InMemoryTeamRepository) DeletePocket(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pockets[id]; !ok {
		return domain.ErrPocketNotFound
	}

	delete(r.pockets, id)
	for key := range r.pocketMembers {
		if key.pocketID == id {
			delete(r.pocketMembers, key)
		}
	}
	return nil
}

func (r *InMemoryTeamRepository) AddPocketMember(ctx context.Context, member *domain.PocketMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pocketMemberKey{pocketID: member.PocketID, irID: member.IRID}
	if _, ok := r.pocketMembers[key]; ok {
		return domain.ErrAlreadyInPocket
	}

	r.pocketMembers[key] = member
	return nil
}

func (r *InMemoryTeamRepository) RemovePocketMember(ctx context.Context, pocketID, irID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pocketMemberKey{pocketID: pocketID, irID: irID}
	if _, ok := r.pocketMembers[key]; !ok {
		return domain.ErrNotPocketMember
	}

	delete(r.pocketMembers, key)
	return nil
}

func (r *InMemoryTeamRepository) ListPocketMembers(ctx context.Context, pocketID string) ([]*domain.PocketMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*domain.PocketMember
	for key, m := range r.pocketMembers {
		if key.pocketID == pocketID {
			members = append(members, m)
		}
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	return members, nil
}

type InMemoryActivityRepository struct {
	infos map[string]*domain.InfoDetail
	plans map[string]*domain.PlanDetail
	uvs   map[string]*domain.UVDetail

	mu sync.RWMutex
}

func NewInMemoryActivityRepository() *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		infos: make(map[string]*domain.InfoDetail),
		plans: make(map[string]*domain.PlanDetail),
		uvs:   make(map[string]*domain.UVDetail),
	}
}

func (r *InMemoryActivityRepository) CreateInfo(ctx context.Context, info *domain.InfoDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.infos[info.ID] = info
	return nil
}

func (r *InMemoryActivityRepository) GetInfo(ctx context.Context, id string) (*domain.InfoDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.infos[id]
	if !ok || info.DeletedAt != nil {
		return nil, domain.ErrActivityNotFound
	}

	// Copy, so callers mutating the result cannot bypass the version check
	// in UpdateInfo.
	c := *info
	return &c, nil
}

func (r *InMemoryActivityRepository) UpdateInfo(ctx context.Context, info *domain.InfoDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.infos[info.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	if current.Version != info.Version {
		return domain.ErrActivityConflict
	}

	info.Version++
	info.UpdatedAt = time.Now().UTC()
	r.infos[info.ID] = info
	return nil
}

func (r *InMemoryActivityRepository) DeleteInfo(ctx context.Context, id, irID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.infos[id]
	if !ok || info.DeletedAt != nil || info.IRID != irID {
		return domain.ErrActivityNotFound
	}

	now := time.Now().UTC()
	info.DeletedAt = &now
	return nil
}

func (r *InMemoryActivityRepository) ListInfos(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.InfoDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var infos []*domain.InfoDetail
	for _, info := range r.infos {
		if info.IRID == irID && info.DeletedAt == nil && win.Contains(info.RecordedAt) {
			infos = append(infos, info)
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].RecordedAt.Before(infos[j].RecordedAt)
	})

	return infos, nil
}

func (r *InMemoryActivityRepository) CreatePlan(ctx context.Context, plan *domain.PlanDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans[plan.ID] = plan
	return nil
}

func (r *InMemoryActivityRepository) GetPlan(ctx context.Context, id string) (*domain.PlanDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok || plan.DeletedAt != nil {
		return nil, domain.ErrActivityNotFound
	}

	c := *plan
	return &c, nil
}

func (r *InMemoryActivityRepository) UpdatePlan(ctx context.Context, plan *domain.PlanDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.plans[plan.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	if current.Version != plan.Version {
		return domain.ErrActivityConflict
	}

	plan.Version++
	plan.UpdatedAt = time.Now().UTC()
	r.plans[plan.ID] = plan
	return nil
}

func (r *InMemoryActivityRepository) DeletePlan(ctx context.Context, id, irID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[id]
	if !ok || plan.DeletedAt != nil || plan.IRID != irID {
		return domain.ErrActivityNotFound
	}

	now := time.Now().UTC()
	plan.DeletedAt = &now
	return nil
}

func (r *InMemoryActivityRepository) ListPlans(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.PlanDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*domain.PlanDetail
	for _, plan := range r.plans {
		if plan.IRID == irID && plan.DeletedAt == nil && win.Contains(plan.RecordedAt) {
			plans = append(plans, plan)
		}
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].RecordedAt.Before(plans[j].RecordedAt)
	})

	return plans, nil
}

func (r *InMemoryActivityRepository) CreateUV(ctx context.Context, uv *domain.UVDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.uvs[uv.ID] = uv
	return nil
}

func (r *InMemoryActivityRepository) GetUV(ctx context.Context, id string) (*domain.UVDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uv, ok := r.uvs[id]
	if !ok || uv.DeletedAt != nil {
		return nil, domain.ErrActivityNotFound
	}

	c := *uv
	return &c, nil
}

func (r *InMemoryActivityRepository) UpdateUV(ctx context.Context, uv *domain.UVDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.uvs[uv.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	if current.Version != uv.Version {
		return domain.ErrActivityConflict
	}

	uv.Version++
	uv.UpdatedAt = time.Now().UTC()
	r.uvs[uv.ID] = uv
	return nil
}

func (r *InMemoryActivityRepository) DeleteUV(ctx context.Context, id, irID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uv, ok := r.uvs[id]
	if !ok || uv.DeletedAt != nil || uv.IRID != irID {
		return domain.ErrActivityNotFound
	}

	now := time.Now().UTC()
	uv.DeletedAt = &now
	return nil
}

func (r *InMemoryActivityRepository) ListUVs(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.UVDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var uvs []*domain.UVDetail
	for _, uv := range r.uvs {
		if uv.IRID == irID && uv.DeletedAt == nil && win.Contains(uv.RecordedAt) {
			uvs = append(uvs, uv)
		}
	}

	sort.Slice(uvs, func(i, j int) bool {
		return uvs[i].RecordedAt.Before(uvs[j].RecordedAt)
	})

	return uvs, nil
}

func (r *InMemoryActivityRepository) CountInfos(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	counts := make(map[string]int)
	for _, irID := range irIDs {
		infos, err := r.ListInfos(ctx, irID, win)
		if err != nil {
			return nil, err
		}
		if len(infos) > 0 {
			counts[irID] = len(infos)
		}
	}
	return counts, nil
}

func (r *InMemoryActivityRepository) CountPlans(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	counts := make(map[string]int)
	for _, irID := range irIDs {
		plans, err := r.ListPlans(ctx, irID, win)
		if err != nil {
			return nil, err
		}
		if len(plans) > 0 {
			counts[irID] = len(plans)
		}
	}
	return counts, nil
}

func (r *InMemoryActivityRepository) SumUVs(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	sums := make(map[string]int)
	for _, irID := range irIDs {
		uvs, err := r.ListUVs(ctx, irID, win)
		if err != nil {
			return nil, err
		}
		for _, uv := range uvs {
			sums[irID] += uv.Count
		}
	}
	return sums, nil
}

type targetOwnerKey struct {
	owner string
	week  int
	year  int
}

type InMemoryTargetRepository struct {
	store map[targetOwnerKey]*domain.WeeklyTarget

	mu sync.RWMutex
}

func NewInMemoryTargetRepository() *InMemoryTargetRepository {
	return &InMemoryTargetRepository{
		store: make(map[targetOwnerKey]*domain.WeeklyTarget),
	}
}

func targetOwner(t *domain.WeeklyTarget) string {
	switch {
	case t.IRID != nil:
		return "ir:" + *t.IRID
	case t.TeamID != nil:
		return "team:" + *t.TeamID
	case t.PocketID != nil:
		return "pocket:" + *t.PocketID
	}
	return ""
}

func (r *InMemoryTargetRepository) Upsert(ctx context.Context, target *domain.WeeklyTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[targetOwnerKey{owner: targetOwner(target), week: target.Week, year: target.Year}] = target
	return nil
}

func (r *InMemoryTargetRepository) get(owner string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target, ok := r.store[targetOwnerKey{owner: owner, week: key.Week, year: key.Year}]
	if !ok {
		return nil, domain.ErrTargetNotFound
	}
	return target, nil
}

func (r *InMemoryTargetRepository) GetForIR(ctx context.Context, irID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.get("ir:"+irID, key)
}

func (r *InMemoryTargetRepository) GetForTeam(ctx context.Context, teamID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.get("team:"+teamID, key)
}

func (r *InMemoryTargetRepository) GetForPocket(ctx context.Context, pocketID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.get("pocket:"+pocketID, key)
}

func (r *InMemoryTargetRepository) ListWeeks(ctx context.Context) ([]domain.WeekKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.WeekKey]bool)
	var keys []domain.WeekKey
	for k := range r.store {
		key := domain.WeekKey{Week: k.week, Year: k.year}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year > keys[j].Year
		}
		return keys[i].Week > keys[j].Week
	})

	return keys, nil
}

type InMemoryNotificationRepository struct {
	store []*domain.Notification

	mu sync.RWMutex
}

func NewInMemoryNotificationRepository() *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{}
}

func (r *InMemoryNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = append(r.store, n)
	return nil
}

func (r *InMemoryNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notifications []*domain.Notification
	for _, n := range r.store {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		notifications = append(notifications, n)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

func (r *InMemoryNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.store {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrIRNotFound
}

func (r *InMemoryNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.store {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (r *InMemoryNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.store {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

type weekCountKey struct {
	irID string
	week int
	year int
}

type InMemoryWeekCountRepository struct {
	store map[weekCountKey]*domain.WeekCounts

	mu sync.RWMutex
}

func NewInMemoryWeekCountRepository() *InMemoryWeekCountRepository {
	return &InMemoryWeekCountRepository{
		store: make(map[weekCountKey]*domain.WeekCounts),
	}
}

func (r *InMemoryWeekCountRepository) SaveCounts(ctx context.Context, counts *domain.WeekCounts) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[weekCountKey{irID: counts.IRID, week: counts.Week, year: counts.Year}] = counts
	return nil
}

func (r *InMemoryWeekCountRepository) GetCounts(ctx context.Context, irID string, key domain.WeekKey) (*domain.WeekCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts, ok := r.store[weekCountKey{irID: irID, week: key.Week, year: key.Year}]
	if !ok {
		return &domain.WeekCounts{IRID: irID, Week: key.Week, Year: key.Year}, nil
	}
	return counts, nil
}
