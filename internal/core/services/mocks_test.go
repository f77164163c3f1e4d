package services_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

type MockIRRepo struct {
	store         map[string]*domain.IR
	simulateError error
}

func NewMockIRRepo() *MockIRRepo {
	return &MockIRRepo{store: make(map[string]*domain.IR)}
}

func (m *MockIRRepo) Create(ctx context.Context, ir *domain.IR) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, exists := m.store[ir.ID]; exists {
		return domain.ErrIRIDTaken
	}
	clone := *ir
	m.store[ir.ID] = &clone
	return nil
}

func (m *MockIRRepo) GetByID(ctx context.Context, id string) (*domain.IR, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	ir, ok := m.store[id]
	if !ok {
		return nil, domain.ErrIRNotFound
	}
	clone := *ir
	return &clone, nil
}

func (m *MockIRRepo) GetByEmail(ctx context.Context, email string) (*domain.IR, error) {
	for _, ir := range m.store {
		if ir.Email == email {
			clone := *ir
			return &clone, nil
		}
	}
	return nil, domain.ErrIRNotFound
}

func (m *MockIRRepo) List(ctx context.Context) ([]*domain.IR, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.IR
	for _, ir := range m.store {
		clone := *ir
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockIRRepo) Update(ctx context.Context, ir *domain.IR) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[ir.ID]; !ok {
		return domain.ErrIRNotFound
	}
	clone := *ir
	m.store[ir.ID] = &clone
	return nil
}

func (m *MockIRRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return domain.ErrIRNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockIRRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.IR, error) {
	var list []*domain.IR
	for _, ir := range m.store {
		if ir.ParentID != nil && *ir.ParentID == parentID {
			clone := *ir
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockIRRepo) ListSubtree(ctx context.Context, pathPrefix string) ([]*domain.IR, error) {
	var list []*domain.IR
	for _, ir := range m.store {
		if strings.HasPrefix(ir.HierarchyPath, pathPrefix) {
			clone := *ir
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].HierarchyLevel < list[j].HierarchyLevel })
	return list, nil
}

func (m *MockIRRepo) UpdateHierarchy(ctx context.Context, id string, parentID *string, path string, level int) error {
	ir, ok := m.store[id]
	if !ok {
		return domain.ErrIRNotFound
	}
	ir.ParentID = parentID
	ir.HierarchyPath = path
	ir.HierarchyLevel = level
	ir.UpdatedAt = time.Now().UTC()
	return nil
}

type memberKey struct{ teamID, irID string }

type MockTeamRepo struct {
	teams         map[string]*domain.Team
	members       map[memberKey]*domain.TeamMember
	pockets       map[string]*domain.Pocket
	pocketMembers map[memberKey]*domain.PocketMember
	simulateError error
}

func NewMockTeamRepo() *MockTeamRepo {
	return &MockTeamRepo{
		teams:         make(map[string]*domain.Team),
		members:       make(map[memberKey]*domain.TeamMember),
		pockets:       make(map[string]*domain.Pocket),
		pocketMembers: make(map[memberKey]*domain.PocketMember),
	}
}

func (m *MockTeamRepo) Create(ctx context.Context, team *domain.Team) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *team
	m.teams[team.ID] = &clone
	return nil
}

func (m *MockTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	team, ok := m.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	clone := *team
	return &clone, nil
}

func (m *MockTeamRepo) List(ctx context.Context) ([]*domain.Team, error) {
	var list []*domain.Team
	for _, t := range m.teams {
		clone := *t
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockTeamRepo) Update(ctx context.Context, team *domain.Team) error {
	if _, ok := m.teams[team.ID]; !ok {
		return domain.ErrTeamNotFound
	}
	clone := *team
	m.teams[team.ID] = &clone
	return nil
}

func (m *MockTeamRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.teams[id]; !ok {
		return domain.ErrTeamNotFound
	}
	delete(m.teams, id)
	return nil
}

func (m *MockTeamRepo) AddMember(ctx context.Context, member *domain.TeamMember) error {
	key := memberKey{member.TeamID, member.IRID}
	if _, exists := m.members[key]; exists {
		return domain.ErrAlreadyMember
	}
	clone := *member
	m.members[key] = &clone
	return nil
}

func (m *MockTeamRepo) RemoveMember(ctx context.Context, teamID, irID string) error {
	key := memberKey{teamID, irID}
	if _, ok := m.members[key]; !ok {
		return domain.ErrNotMember
	}
	delete(m.members, key)
	return nil
}

func (m *MockTeamRepo) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMember, error) {
	var list []*domain.TeamMember
	for key, member := range m.members {
		if key.teamID == teamID {
			clone := *member
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].IRID < list[j].IRID })
	return list, nil
}

func (m *MockTeamRepo) ListTeamsByIR(ctx context.Context, irID string) ([]*domain.Team, error) {
	var list []*domain.Team
	for key := range m.members {
		if key.irID == irID {
			if team, ok := m.teams[key.teamID]; ok {
				clone := *team
				list = append(list, &clone)
			}
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockTeamRepo) GetMember(ctx context.Context, teamID, irID string) (*domain.TeamMember, error) {
	member, ok := m.members[memberKey{teamID, irID}]
	if !ok {
		return nil, domain.ErrNotMember
	}
	clone := *member
	return &clone, nil
}

func (m *MockTeamRepo) CreatePocket(ctx context.Context, pocket *domain.Pocket) error {
	clone := *pocket
	m.pockets[pocket.ID] = &clone
	return nil
}

func (m *MockTeamRepo) GetPocket(ctx context.Context, id string) (*domain.Pocket, error) {
	pocket, ok := m.pockets[id]
	if !ok {
		return nil, domain.ErrPocketNotFound
	}
	clone := *pocket
	return &clone, nil
}

func (m *MockTeamRepo) ListPockets(ctx context.Context, teamID string) ([]*domain.Pocket, error) {
	var list []*domain.Pocket
	for _, p := range m.pockets {
		if p.TeamID == teamID {
			clone := *p
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *MockTeamRepo) UpdatePocket(ctx context.Context, pocket *domain.Pocket) error {
	if _, ok := m.pockets[pocket.ID]; !ok {
		return domain.ErrPocketNotFound
	}
	clone := *pocket
	m.pockets[pocket.ID] = &clone
	return nil
}

func (m *MockTeamRepo) DeletePocket(ctx context.Context, id string) error {
	if _, ok := m.pockets[id]; !ok {
		return domain.ErrPocketNotFound
	}
	delete(m.pockets, id)
	return nil
}

func (m *MockTeamRepo) AddPocketMember(ctx context.Context, member *domain.PocketMember) error {
	key := memberKey{member.PocketID, member.IRID}
	if _, exists := m.pocketMembers[key]; exists {
		return domain.ErrAlreadyInPocket
	}
	clone := *member
	m.pocketMembers[key] = &clone
	return nil
}

func (m *MockTeamRepo) RemovePocketMember(ctx context.Context, pocketID, irID string) error {
	key := memberKey{pocketID, irID}
	if _, ok := m.pocketMembers[key]; !ok {
		return domain.ErrNotPocketMember
	}
	delete(m.pocketMembers, key)
	return nil
}

func (m *MockTeamRepo) ListPocketMembers(ctx context.Context, pocketID string) ([]*domain.PocketMember, error) {
	var list []*domain.PocketMember
	for key, member := range m.pocketMembers {
		if key.teamID == pocketID {
			clone := *member
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].IRID < list[j].IRID })
	return list, nil
}

type MockActivityRepo struct {
	infos         map[string]*domain.InfoDetail
	plans         map[string]*domain.PlanDetail
	uvs           map[string]*domain.UVDetail
	simulateError error
}

func NewMockActivityRepo() *MockActivityRepo {
	return &MockActivityRepo{
		infos: make(map[string]*domain.InfoDetail),
		plans: make(map[string]*domain.PlanDetail),
		uvs:   make(map[string]*domain.UVDetail),
	}
}

func (m *MockActivityRepo) CreateInfo(ctx context.Context, info *domain.InfoDetail) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *info
	m.infos[info.ID] = &clone
	return nil
}

func (m *MockActivityRepo) GetInfo(ctx context.Context, id string) (*domain.InfoDetail, error) {
	info, ok := m.infos[id]
	if !ok || info.DeletedAt != nil {
		return nil, domain.ErrActivityNotFound
	}
	clone := *info
	return &clone, nil
}

func (m *MockActivityRepo) UpdateInfo(ctx context.Context, info *domain.InfoDetail) error {
	stored, ok := m.infos[info.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	if stored.Version != info.Version {
		return domain.ErrActivityConflict
	}
	clone := *info
	clone.Version++
	clone.UpdatedAt = time.Now().UTC()
	m.infos[info.ID] = &clone
	return nil
}

func (m *MockActivityRepo) DeleteInfo(ctx context.Context, id, irID string) error {
	info, ok := m.infos[id]
	if !ok || info.IRID != irID || info.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	now := time.Now().UTC()
	info.DeletedAt = &now
	return nil
}

func (m *MockActivityRepo) ListInfos(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.InfoDetail, error) {
	var list []*domain.InfoDetail
	for _, info := range m.infos {
		if info.IRID == irID && info.DeletedAt == nil && win.Contains(info.RecordedAt) {
			clone := *info
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockActivityRepo) CreatePlan(ctx context.Context, plan *domain.PlanDetail) error {
	clone := *plan
	m.plans[plan.ID] = &clone
	return nil
}

func (m *MockActivityRepo) GetPlan(ctx context.Context, id string) (*domain.PlanDetail, error) {
	plan, ok := m.plans[id]
	if !ok || plan.DeletedAt != nil {
		return nil, domain.ErrActivityNotFound
	}
	clone := *plan
	return &clone, nil
}

func (m *MockActivityRepo) UpdatePlan(ctx context.Context, plan *domain.PlanDetail) error {
	stored, ok := m.plans[plan.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	if stored.Version != plan.Version {
		return domain.ErrActivityConflict
	}
	clone := *plan
	clone.Version++
	clone.UpdatedAt = time.Now().UTC()
	m.plans[plan.ID] = &clone
	return nil
}

func (m *MockActivityRepo) DeletePlan(ctx context.Context, id, irID string) error {
	plan, ok := m.plans[id]
	if !ok || plan.IRID != irID || plan.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	now := time.Now().UTC()
	plan.DeletedAt = &now
	return nil
}

func (m *MockActivityRepo) ListPlans(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.PlanDetail, error) {
	var list []*domain.PlanDetail
	for _, plan := range m.plans {
		if plan.IRID == irID && plan.DeletedAt == nil && win.Contains(plan.RecordedAt) {
			clone := *plan
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockActivityRepo) CreateUV(ctx context.Context, uv *domain.UVDetail) error {
	clone := *uv
	m.uvs[uv.ID] = &clone
	return nil
}

func (m *MockActivityRepo) GetUV(ctx context.Context, id string) (*domain.UVDetail, error) {
	uv, ok := m.uvs[id]
	if !ok || uv.DeletedAt != nil {
		return nil, domain.ErrActivityNotFound
	}
	clone := *uv
	return &clone, nil
}

func (m *MockActivityRepo) UpdateUV(ctx context.Context, uv *domain.UVDetail) error {
	stored, ok := m.uvs[uv.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	if stored.Version != uv.Version {
		return domain.ErrActivityConflict
	}
	clone := *uv
	clone.Version++
	m.uvs[uv.ID] = &clone
	return nil
}

func (m *MockActivityRepo) DeleteUV(ctx context.Context, id, irID string) error {
	uv, ok := m.uvs[id]
	if !ok || uv.IRID != irID || uv.DeletedAt != nil {
		return domain.ErrActivityNotFound
	}
	now := time.Now().UTC()
	uv.DeletedAt = &now
	return nil
}

func (m *MockActivityRepo) ListUVs(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.UVDetail, error) {
	var list []*domain.UVDetail
	for _, uv := range m.uvs {
		if uv.IRID == irID && uv.DeletedAt == nil && win.Contains(uv.RecordedAt) {
			clone := *uv
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockActivityRepo) CountInfos(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	counts := make(map[string]int)
	for _, id := range irIDs {
		infos, _ := m.ListInfos(ctx, id, win)
		counts[id] = len(infos)
	}
	return counts, nil
}

func (m *MockActivityRepo) CountPlans(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	counts := make(map[string]int)
	for _, id := range irIDs {
		plans, _ := m.ListPlans(ctx, id, win)
		counts[id] = len(plans)
	}
	return counts, nil
}

func (m *MockActivityRepo) SumUVs(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	sums := make(map[string]int)
	for _, id := range irIDs {
		uvs, _ := m.ListUVs(ctx, id, win)
		for _, uv := range uvs {
			sums[id] += uv.Count
		}
	}
	return sums, nil
}

type targetKey struct {
	owner string
	week  int
	year  int
}

type MockTargetRepo struct {
	store map[targetKey]*domain.WeeklyTarget
}

func NewMockTargetRepo() *MockTargetRepo {
	return &MockTargetRepo{store: make(map[targetKey]*domain.WeeklyTarget)}
}

func ownerOf(t *domain.WeeklyTarget) string {
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

func (m *MockTargetRepo) Upsert(ctx context.Context, target *domain.WeeklyTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	clone := *target
	m.store[targetKey{ownerOf(target), target.Week, target.Year}] = &clone
	return nil
}

func (m *MockTargetRepo) get(owner string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	t, ok := m.store[targetKey{owner, key.Week, key.Year}]
	if !ok {
		return nil, domain.ErrTargetNotFound
	}
	clone := *t
	return &clone, nil
}

func (m *MockTargetRepo) GetForIR(ctx context.Context, irID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return m.get("ir:"+irID, key)
}

func (m *MockTargetRepo) GetForTeam(ctx context.Context, teamID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return m.get("team:"+teamID, key)
}

func (m *MockTargetRepo) GetForPocket(ctx context.Context, pocketID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return m.get("pocket:"+pocketID, key)
}

func (m *MockTargetRepo) ListWeeks(ctx context.Context) ([]domain.WeekKey, error) {
	seen := make(map[domain.WeekKey]bool)
	var keys []domain.WeekKey
	for k := range m.store {
		wk := domain.WeekKey{Week: k.week, Year: k.year}
		if !seen[wk] {
			seen[wk] = true
			keys = append(keys, wk)
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

type MockNotificationRepo struct {
	store         []*domain.Notification
	simulateError error
}

func NewMockNotificationRepo() *MockNotificationRepo {
	return &MockNotificationRepo{}
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *n
	m.store = append(m.store, &clone)
	return nil
}

func (m *MockNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	var list []*domain.Notification
	for _, n := range m.store {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		clone := *n
		list = append(list, &clone)
	}
	return list, nil
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, recipientID string) error {
	for _, n := range m.store {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrIRNotFound
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	for _, n := range m.store {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count := 0
	for _, n := range m.store {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

// MockRecounter records what the service asked the worker to recompute.
type MockRecounter struct {
	jobs []struct {
		IRID string
		Key  domain.WeekKey
	}
}

func (m *MockRecounter) Enqueue(irID string, key domain.WeekKey) {
	m.jobs = append(m.jobs, struct {
		IRID string
		Key  domain.WeekKey
	}{irID, key})
}
