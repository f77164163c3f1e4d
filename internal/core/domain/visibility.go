package domain

// Capability is one grant in the role table below. Visibility checks are pure
// functions over the actor, the target and membership facts the caller has
// already loaded; they never touch storage.
type Capability uint16

const (
	CapViewAll Capability = 1 << iota
	CapViewSubtree
	CapViewSharedTeams
	CapEditAll
	CapEditSubtree
	CapEditOwnedTeams
	CapAddForSubtree
	CapAddForOwnedTeams
	CapAddForSharedTeams
	CapCreateTeam
	CapPromote
)

var roleCapabilities = map[AccessLevel]Capability{
	AccessAdmin: CapViewAll | CapEditAll | CapAddForSubtree | CapCreateTeam | CapPromote,
	AccessCTC:   CapViewSubtree | CapEditSubtree | CapAddForSubtree | CapCreateTeam | CapPromote,
	AccessLDC:   CapViewSubtree | CapEditOwnedTeams | CapAddForOwnedTeams | CapCreateTeam,
	AccessLS:    CapViewSharedTeams | CapAddForSharedTeams,
	AccessGC:    0,
	AccessIR:    0,
}

func (l AccessLevel) Has(c Capability) bool {
	return roleCapabilities[l]&c != 0
}

// TeamScope carries the membership facts a visibility decision needs, looked
// up by the caller beforehand.
type TeamScope struct {
	// SharedTeam: actor and target belong to at least one common team.
	SharedTeam bool
	// TargetInOwnedTeam: target is a member of a team the actor created.
	TargetInOwnedTeam bool
}

// CanViewIR reports whether actor may read target's data and progress.
func CanViewIR(actor, target *IR, scope TeamScope) bool {
	if actor.ID == target.ID {
		return true
	}
	if actor.AccessLevel.Has(CapViewAll) {
		return true
	}
	if actor.AccessLevel.Has(CapViewSubtree) && target.IsInSubtreeOf(actor) {
		return true
	}
	return actor.AccessLevel.Has(CapViewSharedTeams) && scope.SharedTeam
}

// CanEditIR reports whether actor may modify target's profile.
func CanEditIR(actor, target *IR, scope TeamScope) bool {
	if actor.ID == target.ID {
		return true
	}
	if actor.AccessLevel.Has(CapEditAll) {
		return true
	}
	if actor.AccessLevel.Has(CapEditSubtree) && target.IsInSubtreeOf(actor) {
		return true
	}
	return actor.AccessLevel.Has(CapEditOwnedTeams) && scope.TargetInOwnedTeam
}

// CanAddDataFor reports whether actor may record info/plan/uv entries on
// target's behalf.
func CanAddDataFor(actor, target *IR, scope TeamScope) bool {
	if actor.ID == target.ID {
		return true
	}
	if actor.AccessLevel.Has(CapAddForSubtree) && (actor.AccessLevel.Has(CapViewAll) || target.IsInSubtreeOf(actor)) {
		return true
	}
	if actor.AccessLevel.Has(CapAddForOwnedTeams) && scope.TargetInOwnedTeam {
		return true
	}
	return actor.AccessLevel.Has(CapAddForSharedTeams) && scope.SharedTeam
}

// CanViewTeam: admins see every team, subtree viewers see teams created
// inside their subtree, everyone else only teams they belong to.
func CanViewTeam(actor *IR, creator *IR, isMember bool) bool {
	if actor.AccessLevel.Has(CapViewAll) {
		return true
	}
	if actor.AccessLevel.Has(CapViewSubtree) && creator != nil && creator.IsInSubtreeOf(actor) {
		return true
	}
	return isMember
}

// CanEditTeam: admins edit everything, CTC edits teams created in its
// subtree, LDC edits teams it created or where it holds the LDC member role.
func CanEditTeam(actor *IR, creator *IR, memberRole TeamRole) bool {
	if actor.AccessLevel.Has(CapEditAll) {
		return true
	}
	if actor.AccessLevel.Has(CapEditSubtree) && creator != nil && creator.IsInSubtreeOf(actor) {
		return true
	}
	if !actor.AccessLevel.Has(CapEditOwnedTeams) {
		return false
	}
	if creator != nil && creator.ID == actor.ID {
		return true
	}
	return memberRole == TeamRoleLDC
}

func CanCreateTeam(actor *IR) bool {
	return actor.AccessLevel.Has(CapCreateTeam)
}

func CanPromote(actor *IR) bool {
	return actor.AccessLevel.Has(CapPromote)
}
