package domain

// IRProgress is one IR's recomputed weekly achievement against its targets.
// Done values always come from summing detail records over the week's
// windows, never from stored running counters.
type IRProgress struct {
	IRID   string `json:"ir_id"`
	IRName string `json:"ir_name"`

	WeekKey

	InfoTarget int `json:"info_target"`
	PlanTarget int `json:"plan_target"`
	UVTarget   int `json:"uv_target"`

	InfoDone int `json:"info_done"`
	PlanDone int `json:"plan_done"`
	UVDone   int `json:"uv_done"`
}

type TeamProgress struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`

	WeekKey

	InfoTarget int `json:"info_target"`
	PlanTarget int `json:"plan_target"`
	UVTarget   int `json:"uv_target"`

	InfoDone int `json:"info_done"`
	PlanDone int `json:"plan_done"`
	UVDone   int `json:"uv_done"`

	Members []IRProgress `json:"members,omitempty"`
}

// Dashboard is the per-IR report: personal progress, the windows the sums
// were computed over, and team progress for supervisor roles.
type Dashboard struct {
	Personal     IRProgress     `json:"personal"`
	FridayWindow WindowSpec     `json:"friday_window"`
	MondayWindow WindowSpec     `json:"monday_window"`
	Teams        []TeamProgress `json:"teams,omitempty"`
}
