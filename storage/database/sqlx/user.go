package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT COUNT(*) FROM users WHERE email = $1`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT COUNT(*) FROM users WHERE email = ? AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building email uniqueness query")
		}
		query = repo.db.Rebind(query)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	const query = `
	INSERT INTO users (id, name, email, college, role, points, badges, profile_photo, bio, password_hash, created_at, updated_at)
	VALUES (:id, :name, :email, :college, :role, :points, :badges, :profile_photo, :bio, :password_hash, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, usr); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	const query = `SELECT * FROM users WHERE id = $1`
	if err := repo.db.GetContext(ctx, &usr, query, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	const query = `SELECT * FROM users WHERE email = $1`
	if err := repo.db.GetContext(ctx, &usr, query, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by email")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUserProfile(ctx context.Context, id string, up user.UpdateProfile) (user.User, error) {
	const query = `
	UPDATE users
	SET bio = COALESCE($2, bio),
	    profile_photo = COALESCE(NULLIF($3, ''), profile_photo),
	    updated_at = $4
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id, up.Bio, up.ProfilePhoto, time.Now().UTC())
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, id)
}

func (repo *userRepository) SetUserRole(ctx context.Context, id, role string) error {
	const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id, role, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "updating user role")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) AddUserPoints(ctx context.Context, id string, points int) error {
	const query = `UPDATE users SET points = points + $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id, points, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "incrementing user points")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) SetUserBadges(ctx context.Context, id string, badges user.BadgeList) error {
	const query = `UPDATE users SET badges = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id, badges, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "updating user badges")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) QueryAdminUsers(ctx context.Context) ([]user.AdminUserRow, error) {
	rows := []user.AdminUserRow{}
	const query = `
	SELECT u.id, u.name, u.email, u.college, u.role,
	       (SELECT COUNT(*) FROM events e WHERE e.college_id = u.id) AS events_created,
	       (SELECT COUNT(*) FROM registrations r WHERE r.user_id = u.id) AS registrations_count
	FROM users u
	ORDER BY u.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "selecting admin users")
	}
	return rows, nil
}

func (repo *userRepository) GetAdminStats(ctx context.Context) (user.AdminStats, error) {
	var stats user.AdminStats

	const userQuery = `
	SELECT COUNT(*) AS total,
	       COUNT(*) FILTER (WHERE role = 'student') AS students,
	       COUNT(*) FILTER (WHERE role = 'college_admin') AS admins,
	       COUNT(*) FILTER (WHERE role = 'super_admin') AS super_admins
	FROM users`
	if err := repo.db.GetContext(ctx, &stats.Users, userQuery); err != nil {
		return user.AdminStats{}, errors.Wrap(err, "aggregating users")
	}

	const eventQuery = `
	SELECT (SELECT COUNT(*) FROM events) AS total_events,
	       (SELECT COUNT(DISTINCT u.college) FROM events e JOIN users u ON u.id = e.college_id) AS colleges_with_events,
	       (SELECT COUNT(*) FROM registrations) AS total_registrations,
	       (SELECT COUNT(*) FROM registrations WHERE status = 'approved') AS approved_registrations`
	if err := repo.db.GetContext(ctx, &stats.Events, eventQuery); err != nil {
		return user.AdminStats{}, errors.Wrap(err, "aggregating events")
	}

	stats.TopColleges = []user.CollegeStat{}
	const collegeQuery = `
	SELECT u.college,
	       COUNT(DISTINCT e.id) AS event_count,
	       COUNT(r.id) AS registration_count
	FROM events e
	JOIN users u ON u.id = e.college_id
	LEFT JOIN registrations r ON r.event_id = e.id
	GROUP BY u.college
	ORDER BY event_count DESC
	LIMIT 5`
	if err := repo.db.SelectContext(ctx, &stats.TopColleges, collegeQuery); err != nil {
		return user.AdminStats{}, errors.Wrap(err, "aggregating colleges")
	}

	stats.RecentActivity = []user.ActivityRecord{}
	const activityQuery = `
	SELECT 'registration' AS type,
	       'Registered for ' || e.title AS description,
	       u.name AS "user",
	       r.created_at AS timestamp
	FROM registrations r
	JOIN users u ON u.id = r.user_id
	JOIN events e ON e.id = r.event_id
	ORDER BY r.created_at DESC
	LIMIT 10`
	if err := repo.db.SelectContext(ctx, &stats.RecentActivity, activityQuery); err != nil {
		return user.AdminStats{}, errors.Wrap(err, "aggregating recent activity")
	}
	return stats, nil
}

// admin_logs rows get their id from the table's BIGSERIAL; the acting admin
// lands in user_id.
const insertAdminLogQuery = `INSERT INTO admin_logs (action, user_id, created_at) VALUES ($1, $2, $3)`

func (repo *userRepository) LogAdminAction(ctx context.Context, action, actorID string) error {
	if _, err := repo.db.ExecContext(ctx, insertAdminLogQuery, action, actorID, time.Now().UTC()); err != nil {
		return errors.Wrap(err, "inserting admin log")
	}
	return nil
}

func (repo *userRepository) QueryLeaderboard(ctx context.Context, limit int) ([]user.LeaderboardEntry, error) {
	rows := []user.LeaderboardEntry{}
	const query = `
	SELECT u.id, u.name, u.profile_photo, u.points, u.badges,
	       (SELECT COUNT(*) FROM registrations r WHERE r.user_id = u.id AND r.status = 'approved') AS events_attended,
	       (SELECT COUNT(*) FROM feedback f WHERE f.user_id = u.id) AS feedback_given
	FROM users u
	WHERE u.role = 'student'
	ORDER BY u.points DESC, u.name ASC
	LIMIT $1`
	if err := repo.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "selecting leaderboard")
	}
	return rows, nil
}

func (repo *userRepository) GetUserRank(ctx context.Context, id string) (int, error) {
	var rank int
	// Anchored on the user's own row so an unknown id surfaces as ErrNoRows
	// instead of an empty count.
	const query = `
	SELECT (SELECT COUNT(*) + 1
	        FROM users s
	        WHERE s.role = 'student' AND s.points > u.points)
	FROM users u
	WHERE u.id = $1`
	if err := repo.db.GetContext(ctx, &rank, query, id); err != nil {
		if err == sql.ErrNoRows {
			return 0, user.ErrNotFound
		}
		return 0, errors.Wrap(err, "computing user rank")
	}
	return rank, nil
}
