package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/devanshuyeole/college-event-hub/core/registration"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.user.table))
	for _, u := range repo.db.user.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	excluded := make(map[string]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}
	for _, usr := range repo.query() {
		if usr.Email == email && !excluded[usr.ID] {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	for _, existing := range repo.db.user.table {
		if existing.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = nextID()
	repo.db.user.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUserProfile(ctx context.Context, id string, up user.UpdateProfile) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if up.Bio != nil {
		usr.Bio = *up.Bio
	}
	if up.ProfilePhoto != "" {
		usr.ProfilePhoto = up.ProfilePhoto
	}
	usr.UpdatedAt = time.Now().UTC()
	return *usr, nil
}

func (repo *userRepository) SetUserRole(ctx context.Context, id, role string) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.Role = role
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) AddUserPoints(ctx context.Context, id string, points int) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.Points += points
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) SetUserBadges(ctx context.Context, id string, badges user.BadgeList) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.Badges = badges
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) QueryAdminUsers(ctx context.Context) ([]user.AdminUserRow, error) {
	repo.db.user.RLock()
	users := repo.query()
	repo.db.user.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	rows := make([]user.AdminUserRow, 0, len(users))
	for _, usr := range users {
		rows = append(rows, user.AdminUserRow{
			ID:                 usr.ID,
			Name:               usr.Name,
			Email:              usr.Email,
			College:            usr.College,
			Role:               usr.Role,
			EventsCreated:      repo.countEventsCreated(usr.ID),
			RegistrationsCount: repo.countRegistrations(usr.ID, ""),
		})
	}
	return rows, nil
}

func (repo *userRepository) countEventsCreated(userID string) int {
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	var n int
	for _, evt := range repo.db.event.table {
		if evt.CollegeID == userID {
			n++
		}
	}
	return n
}

func (repo *userRepository) countRegistrations(userID, status string) int {
	repo.db.registration.RLock()
	defer repo.db.registration.RUnlock()

	var n int
	for _, reg := range repo.db.registration.table {
		if reg.UserID == userID && (status == "" || reg.Status == status) {
			n++
		}
	}
	return n
}

func (repo *userRepository) countFeedback(userID string) int {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	var n int
	for _, fb := range repo.db.feedback.table {
		if fb.UserID == userID {
			n++
		}
	}
	return n
}

func (repo *userRepository) GetAdminStats(ctx context.Context) (user.AdminStats, error) {
	repo.db.user.RLock()
	users := repo.query()
	repo.db.user.RUnlock()

	var stats user.AdminStats
	colleges := make(map[string]*user.CollegeStat)
	userCollege := make(map[string]string, len(users))

	for _, usr := range users {
		userCollege[usr.ID] = usr.College
		stats.Users.Total++
		switch usr.Role {
		case user.RoleStudent:
			stats.Users.Students++
		case user.RoleCollegeAdmin:
			stats.Users.Admins++
		case user.RoleSuperAdmin:
			stats.Users.SuperAdmins++
		}
	}

	repo.db.event.RLock()
	eventColleges := make(map[string]string, len(repo.db.event.table))
	seen := make(map[string]bool)
	for _, evt := range repo.db.event.table {
		stats.Events.TotalEvents++
		college := userCollege[evt.CollegeID]
		eventColleges[evt.ID] = college
		if college != "" && !seen[college] {
			seen[college] = true
			stats.Events.CollegesWithEvents++
		}
		if college != "" {
			cs, ok := colleges[college]
			if !ok {
				cs = &user.CollegeStat{College: college}
				colleges[college] = cs
			}
			cs.EventCount++
		}
	}
	repo.db.event.RUnlock()

	repo.db.registration.RLock()
	for _, reg := range repo.db.registration.table {
		stats.Events.TotalRegistrations++
		if reg.Status == registration.StatusApproved {
			stats.Events.ApprovedRegistrations++
		}
		if college := eventColleges[reg.EventID]; college != "" {
			if cs, ok := colleges[college]; ok {
				cs.RegistrationCount++
			}
		}
	}
	repo.db.registration.RUnlock()

	stats.TopColleges = make([]user.CollegeStat, 0, len(colleges))
	for _, cs := range colleges {
		stats.TopColleges = append(stats.TopColleges, *cs)
	}
	sort.Slice(stats.TopColleges, func(i, j int) bool {
		return stats.TopColleges[i].EventCount > stats.TopColleges[j].EventCount
	})
	if len(stats.TopColleges) > 5 {
		stats.TopColleges = stats.TopColleges[:5]
	}
	stats.RecentActivity = []user.ActivityRecord{}
	return stats, nil
}

func (repo *userRepository) LogAdminAction(ctx context.Context, action, actorID string) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	repo.db.user.adminLogs = append(repo.db.user.adminLogs, adminLogRow{
		Action:    action,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (repo *userRepository) QueryLeaderboard(ctx context.Context, limit int) ([]user.LeaderboardEntry, error) {
	repo.db.user.RLock()
	users := repo.query()
	repo.db.user.RUnlock()

	students := users[:0]
	for _, usr := range users {
		if usr.Role == user.RoleStudent {
			students = append(students, usr)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Points != students[j].Points {
			return students[i].Points > students[j].Points
		}
		return students[i].Name < students[j].Name
	})
	if len(students) > limit {
		students = students[:limit]
	}

	entries := make([]user.LeaderboardEntry, 0, len(students))
	for _, usr := range students {
		entries = append(entries, user.LeaderboardEntry{
			ID:             usr.ID,
			Name:           usr.Name,
			ProfilePhoto:   usr.ProfilePhoto,
			Points:         usr.Points,
			Badges:         usr.Badges,
			EventsAttended: repo.countRegistrations(usr.ID, registration.StatusApproved),
			FeedbackGiven:  repo.countFeedback(usr.ID),
		})
	}
	return entries, nil
}

func (repo *userRepository) GetUserRank(ctx context.Context, id string) (int, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return 0, user.ErrNotFound
	}

	rank := 1
	for _, other := range repo.db.user.table {
		if other.Role == user.RoleStudent && other.Points > usr.Points {
			rank++
		}
	}
	return rank, nil
}
