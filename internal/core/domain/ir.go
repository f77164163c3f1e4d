package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrIRNotFound         = errors.New("ir not found")
	ErrIRIDTaken          = errors.New("ir id already registered")
	ErrInvalidIRID        = errors.New("invalid ir id (1-18 chars, no slashes)")
	ErrInvalidIRName      = errors.New("invalid ir name (1-45 chars)")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAccessLevel = errors.New("invalid access level (must be 1-6)")
	ErrCyclicHierarchy    = errors.New("ir cannot be reparented under its own subtree")
)

// AccessLevel ranks an IR's role, 1 being the widest.
type AccessLevel int

const (
	AccessAdmin AccessLevel = 1
	AccessCTC   AccessLevel = 2
	AccessLDC   AccessLevel = 3
	AccessLS    AccessLevel = 4
	AccessGC    AccessLevel = 5
	AccessIR    AccessLevel = 6

	MaxIRIDLen   = 18
	MaxIRNameLen = 45
)

var accessLevelNames = map[AccessLevel]string{
	AccessAdmin: "ADMIN",
	AccessCTC:   "CTC",
	AccessLDC:   "LDC",
	AccessLS:    "LS",
	AccessGC:    "GC",
	AccessIR:    "IR",
}

func (l AccessLevel) String() string {
	if name, ok := accessLevelNames[l]; ok {
		return name
	}
	return "IR"
}

func (l AccessLevel) Valid() bool {
	_, ok := accessLevelNames[l]
	return ok
}

// IR is an individual representative. HierarchyPath is the materialized chain
// of ancestor IDs ("/root/parent/self/"), kept consistent with ParentID by
// SetParent and by the IR service's reparent/delete flows.
type IR struct {
	ID           string      `json:"ir_id" db:"ir_id"`
	Name         string      `json:"ir_name" db:"ir_name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"`
	AccessLevel  AccessLevel `json:"access_level" db:"access_level"`
	Active       bool        `json:"active" db:"active"`

	ParentID       *string `json:"parent_ir_id,omitempty" db:"parent_ir_id"`
	HierarchyPath  string  `json:"hierarchy_path" db:"hierarchy_path"`
	HierarchyLevel int     `json:"hierarchy_level" db:"hierarchy_level"`

	StartedAt time.Time `json:"started_at" db:"started_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func validIRID(id string) bool {
	if id == "" || len(id) > MaxIRIDLen {
		return false
	}
	return !strings.Contains(id, "/")
}

func NewIR(id, name, email string, level AccessLevel) (*IR, error) {
	id = strings.TrimSpace(id)
	if !validIRID(id) {
		return nil, ErrInvalidIRID
	}

	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxIRNameLen {
		return nil, ErrInvalidIRName
	}

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if !level.Valid() {
		return nil, ErrInvalidAccessLevel
	}

	now := time.Now().UTC()
	return &IR{
		ID:             id,
		Name:           name,
		Email:          strings.ToLower(email),
		AccessLevel:    level,
		Active:         true,
		HierarchyPath:  fmt.Sprintf("/%s/", id),
		HierarchyLevel: 0,
		StartedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (ir *IR) SetPassword(plain string) error {
	if utf8.RuneCountInString(plain) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return err
	}

	ir.PasswordHash = string(hash)
	ir.UpdatedAt = time.Now().UTC()
	return nil
}

func (ir *IR) CheckPassword(plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(ir.PasswordHash), []byte(plain)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// SetParent recomputes the materialized path and level from the new parent.
// A nil parent makes the IR a root. Descendant paths are the caller's job
// (see IRService.Reparent).
func (ir *IR) SetParent(parent *IR) error {
	if parent == nil {
		ir.ParentID = nil
		ir.HierarchyPath = fmt.Sprintf("/%s/", ir.ID)
		ir.HierarchyLevel = 0
		ir.UpdatedAt = time.Now().UTC()
		return nil
	}

	if parent.ID == ir.ID || parent.IsInSubtreeOf(ir) {
		return ErrCyclicHierarchy
	}

	id := parent.ID
	ir.ParentID = &id
	ir.HierarchyPath = parent.HierarchyPath + ir.ID + "/"
	ir.HierarchyLevel = parent.HierarchyLevel + 1
	ir.UpdatedAt = time.Now().UTC()
	return nil
}

// IsInSubtreeOf reports whether ir sits at or below ancestor in the
// hierarchy. An IR is always in its own subtree.
func (ir *IR) IsInSubtreeOf(ancestor *IR) bool {
	return strings.HasPrefix(ir.HierarchyPath, ancestor.HierarchyPath)
}

func (ir *IR) Promote(level AccessLevel) error {
	if !level.Valid() {
		return ErrInvalidAccessLevel
	}
	ir.AccessLevel = level
	ir.UpdatedAt = time.Now().UTC()
	return nil
}
