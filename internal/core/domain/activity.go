package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrActivityNotFound  = errors.New("activity record not found")
	ErrActivityConflict  = errors.New("activity record version conflict")
	ErrUnauthorized      = errors.New("actor is not allowed to perform this action")
	ErrInvalidResponse   = errors.New("invalid info response (must be A, B or C)")
	ErrInvalidInfoType   = errors.New("invalid info type")
	ErrInvalidPlanStatus = errors.New("invalid plan status")
	ErrProspectNameEmpty = errors.New("prospect name cannot be empty")
	ErrInvalidUVCount    = errors.New("uv count must be positive")
)

type InfoResponse string

const (
	InfoResponseA InfoResponse = "A"
	InfoResponseB InfoResponse = "B"
	InfoResponseC InfoResponse = "C"
)

func (r InfoResponse) Valid() bool {
	return r == InfoResponseA || r == InfoResponseB || r == InfoResponseC
}

type InfoType string

const (
	InfoTypeFresh  InfoType = "Fresh"
	InfoTypeReinfo InfoType = "Re-info"
)

func (t InfoType) Valid() bool {
	return t == InfoTypeFresh || t == InfoTypeReinfo
}

type PlanStatus string

const (
	PlanStatusClosingPending PlanStatus = "closing_pending"
	PlanStatusClosed         PlanStatus = "closed"
	PlanStatusRejected       PlanStatus = "rejected"
	PlanStatusUVsOnCounter   PlanStatus = "uvs_on_counter"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusClosingPending, PlanStatusClosed, PlanStatusRejected, PlanStatusUVsOnCounter:
		return true
	}
	return false
}

// InfoDetail is one client interaction. RecordedAt is the single timestamp
// the week resolver's Friday window filters on.
type InfoDetail struct {
	ID           string       `json:"id" db:"id"`
	IRID         string       `json:"ir_id" db:"ir_id"`
	ProspectName string       `json:"prospect_name" db:"prospect_name"`
	Response     InfoResponse `json:"response" db:"response"`
	Type         InfoType     `json:"info_type" db:"info_type"`
	Comments     string       `json:"comments,omitempty" db:"comments"`
	RecordedAt   time.Time    `json:"recorded_at" db:"recorded_at"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewInfoDetail(irID, prospectName string, response InfoResponse, infoType InfoType, recordedAt time.Time) (*InfoDetail, error) {
	prospectName = strings.TrimSpace(prospectName)
	if prospectName == "" {
		return nil, ErrProspectNameEmpty
	}
	if !response.Valid() {
		return nil, ErrInvalidResponse
	}
	if infoType == "" {
		infoType = InfoTypeFresh
	}
	if !infoType.Valid() {
		return nil, ErrInvalidInfoType
	}

	now := time.Now().UTC()
	if recordedAt.IsZero() {
		recordedAt = now
	}

	return &InfoDetail{
		ID:           uuid.NewString(),
		IRID:         irID,
		ProspectName: prospectName,
		Response:     response,
		Type:         infoType,
		RecordedAt:   recordedAt.UTC(),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// PlanDetail is one scheduled activity, filtered by the Monday window.
type PlanDetail struct {
	ID         string     `json:"id" db:"id"`
	IRID       string     `json:"ir_id" db:"ir_id"`
	Name       string     `json:"plan_name" db:"plan_name"`
	Status     PlanStatus `json:"status" db:"status"`
	Comments   string     `json:"comments,omitempty" db:"comments"`
	RecordedAt time.Time  `json:"recorded_at" db:"recorded_at"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewPlanDetail(irID, name string, status PlanStatus, recordedAt time.Time) (*PlanDetail, error) {
	if status == "" {
		status = PlanStatusClosingPending
	}
	if !status.Valid() {
		return nil, ErrInvalidPlanStatus
	}

	now := time.Now().UTC()
	if recordedAt.IsZero() {
		recordedAt = now
	}

	return &PlanDetail{
		ID:         uuid.NewString(),
		IRID:       irID,
		Name:       strings.TrimSpace(name),
		Status:     status,
		RecordedAt: recordedAt.UTC(),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UVDetail records prospect UVs; summed over the Monday window.
type UVDetail struct {
	ID           string    `json:"id" db:"id"`
	IRID         string    `json:"ir_id" db:"ir_id"`
	ProspectName string    `json:"prospect_name" db:"prospect_name"`
	Count        int       `json:"uv_count" db:"uv_count"`
	Comments     string    `json:"comments,omitempty" db:"comments"`
	RecordedAt   time.Time `json:"recorded_at" db:"recorded_at"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewUVDetail(irID, prospectName string, count int, recordedAt time.Time) (*UVDetail, error) {
	if count <= 0 {
		return nil, ErrInvalidUVCount
	}

	now := time.Now().UTC()
	if recordedAt.IsZero() {
		recordedAt = now
	}

	return &UVDetail{
		ID:           uuid.NewString(),
		IRID:         irID,
		ProspectName: strings.TrimSpace(prospectName),
		Count:        count,
		RecordedAt:   recordedAt.UTC(),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
