package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	errBadAuthCode = "invalid authorization code for this role"
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUserProfile(ctx context.Context, id string, up UpdateProfile) (User, error)
		SetUserRole(ctx context.Context, id, role string) error
		AddUserPoints(ctx context.Context, id string, points int) error
		SetUserBadges(ctx context.Context, id string, badges BadgeList) error
		QueryAdminUsers(ctx context.Context) ([]AdminUserRow, error)
		GetAdminStats(ctx context.Context) (AdminStats, error)
		LogAdminAction(ctx context.Context, action, actorID string) error
		QueryLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
		// GetUserRank counts students with strictly more points and adds 1.
		GetUserRank(ctx context.Context, id string) (int, error)
	}

	Service struct {
		repo Repository
		conf *core.Config
		mail core.EmailService
		log  core.Logger
	}
)

func NewService(repo Repository, conf *core.Config, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{repo: repo, conf: conf, mail: mailSvc, log: log}
}

// checkEmailUniqueness surfaces ErrEmailExists as-is so the transport layer
// can map it to a conflict response rather than a field error.
func (svc *Service) checkEmailUniqueness(email string, exclUsers ...User) error {
	return svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers...)
}

// checkAuthorizationCode gates admin-role signups behind the configured codes.
func (svc *Service) checkAuthorizationCode(role, code string) error {
	var want string
	switch role {
	case RoleSuperAdmin:
		want = svc.conf.SuperAdminAuthCode
	case RoleCollegeAdmin:
		want = svc.conf.CollegeAdminAuthCode
	default:
		return nil
	}
	if code == "" || code != want {
		return core.NewValidationError(nil, core.FieldError{Field: "authorizationCode", Error: errBadAuthCode})
	}
	return nil
}

func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		College:   nu.College,
		Role:      nu.Role,
		Badges:    BadgeList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// sendWelcomeEmail is best-effort; signup never fails on it.
func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mail == nil {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour account has been created. Browse upcoming events at %s and start earning points!\n",
			usr.Name, svc.conf.FrontendBaseURL,
		),
	})
}

// Authenticate returns the user matching email/password, or ErrNotFound for
// both unknown emails and bad passwords so callers cannot tell them apart.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error) {
	return svc.repo.UpdateUserProfile(ctx, id, up)
}

// ChangeRole sets a user's role and records the action in the admin log.
// Only super admins reach this; the API layer enforces that.
func (svc *Service) ChangeRole(ctx context.Context, actorID, userID, role string) error {
	if !IsValidRole(role) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role specified"})
	}
	if err := svc.repo.SetUserRole(ctx, userID, role); err != nil {
		return errors.Wrap(err, "setting user role")
	}
	action := fmt.Sprintf("Updated user %s role to %s", userID, role)
	if err := svc.repo.LogAdminAction(ctx, action, actorID); err != nil {
		svc.log.Error("recording admin action", err)
	}
	return nil
}

func (svc *Service) AdminUsers(ctx context.Context) ([]AdminUserRow, error) {
	return svc.repo.QueryAdminUsers(ctx)
}

func (svc *Service) AdminStats(ctx context.Context) (AdminStats, error) {
	return svc.repo.GetAdminStats(ctx)
}

func (svc *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	return svc.repo.QueryLeaderboard(ctx, 20)
}

func (svc *Service) Rank(ctx context.Context, userID string) (int, error) {
	return svc.repo.GetUserRank(ctx, userID)
}
