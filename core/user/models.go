package user

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/devanshuyeole/college-event-hub/core"
)

// Roles
const (
	RoleStudent      = "student"
	RoleCollegeAdmin = "college_admin"
	RoleSuperAdmin   = "super_admin"
)

var (
	AllRoles   = []string{RoleStudent, RoleCollegeAdmin, RoleSuperAdmin}
	AdminRoles = []string{RoleCollegeAdmin, RoleSuperAdmin}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Badge is a named achievement embedded on a user, awarded once.
type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

// BadgeList is stored as a JSONB column on the users table.
type BadgeList []Badge

func (bl BadgeList) Has(name string) bool {
	for _, b := range bl {
		if b.Name == name {
			return true
		}
	}
	return false
}

func (bl BadgeList) Value() (driver.Value, error) {
	if bl == nil {
		bl = BadgeList{}
	}
	return json.Marshal(bl)
}

func (bl *BadgeList) Scan(src interface{}) error {
	if src == nil {
		*bl = BadgeList{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported badge list source %T", src)
	}
	return json.Unmarshal(data, bl)
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	College      string    `json:"college" db:"college"`
	Role         string    `json:"role" db:"role"`
	Points       int       `json:"points" db:"points"`
	Badges       BadgeList `json:"badges" db:"badges"`
	ProfilePhoto string    `json:"profile_photo" db:"profile_photo"`
	Bio          string    `json:"bio" db:"bio"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), 12)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool    { return u.Role == RoleStudent }
func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

func (u *User) IsAdmin() bool {
	return u.Role == RoleCollegeAdmin || u.Role == RoleSuperAdmin
}

// NewUser contains information needed to sign a new User up.
type NewUser struct {
	Name              string `json:"name" validate:"required,min=2,max=50,alpha_space"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8,pwdcplx"`
	College           string `json:"college" validate:"required,min=2,max=100"`
	Role              string `json:"role" validate:"required,oneof=student college_admin super_admin"`
	AuthorizationCode string `json:"authorizationCode" validate:"omitempty"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.College = core.CleanString(nu.College)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if err := svc.checkAuthorizationCode(nu.Role, nu.AuthorizationCode); err != nil {
		return err
	}
	return svc.checkEmailUniqueness(nu.Email)
}

// UpdateProfile defines what a user may change on their own profile.
type UpdateProfile struct {
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePhoto string  `json:"-"`
}

func (up *UpdateProfile) IsEmpty() bool {
	return up.Bio == nil && up.ProfilePhoto == ""
}

func (up *UpdateProfile) Validate() error {
	return core.Validate.Struct(up)
}

// AdminUserRow is the super-admin user listing with per-user aggregates.
type AdminUserRow struct {
	ID                 string `json:"id" db:"id"`
	Name               string `json:"name" db:"name"`
	Email              string `json:"email" db:"email"`
	College            string `json:"college" db:"college"`
	Role               string `json:"role" db:"role"`
	EventsCreated      int    `json:"events_created" db:"events_created"`
	RegistrationsCount int    `json:"registrations_count" db:"registrations_count"`
}

// LeaderboardEntry ranks students by gamification points.
type LeaderboardEntry struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	ProfilePhoto   string    `json:"profile_photo" db:"profile_photo"`
	Points         int       `json:"points" db:"points"`
	Badges         BadgeList `json:"badges" db:"badges"`
	EventsAttended int       `json:"events_attended" db:"events_attended"`
	FeedbackGiven  int       `json:"feedback_given" db:"feedback_given"`
}

// AdminStats is the super-admin dashboard aggregate.
type AdminStats struct {
	Users struct {
		Total       int `json:"total" db:"total"`
		Students    int `json:"students" db:"students"`
		Admins      int `json:"admins" db:"admins"`
		SuperAdmins int `json:"super_admins" db:"super_admins"`
	} `json:"users"`
	Events struct {
		TotalEvents           int `json:"total_events" db:"total_events"`
		CollegesWithEvents    int `json:"colleges_with_events" db:"colleges_with_events"`
		TotalRegistrations    int `json:"total_registrations" db:"total_registrations"`
		ApprovedRegistrations int `json:"approved_registrations" db:"approved_registrations"`
	} `json:"events"`
	TopColleges    []CollegeStat    `json:"topColleges"`
	RecentActivity []ActivityRecord `json:"recentActivity"`
}

type CollegeStat struct {
	College           string `json:"college" db:"college"`
	EventCount        int    `json:"event_count" db:"event_count"`
	RegistrationCount int    `json:"registration_count" db:"registration_count"`
}

type ActivityRecord struct {
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	User        string    `json:"user" db:"user"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}
