// internal/backend/sqlstore.go
//
// Maktab – Backend collaborator: relational queries over sqlx.
//
// Context
//   The hosted service exposes its tables over the MySQL wire protocol, so
//   DataAPI is implemented with plain parameterised queries on a *sqlx.DB.
//   Helpers are thin; callers wanting memoization wrap them with the lookup
//   cache rather than caching here.
//
// Schema (external, read-only)
//   groups           (id PK, group_name, closed, created_at)
//   student_profiles (id PK, fullname, username, email, group_name,
//                     date_of_birth)
//   teacher_profiles (id PK, fullname, username, email, role)
//   group_lessons    (group_id, lesson_id)
//   lessons          (id PK, lesson_name, lesson_book)
//
//------------------------------------------------------------------------------

package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Compile-time assertion: *SQLStore satisfies DataAPI.
var _ DataAPI = (*SQLStore)(nil)

// SQLStore implements DataAPI against the service's relational tables.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open pool.  The caller owns the pool's lifecycle.
func NewSQLStore(db *sqlx.DB) *SQLStore { return &SQLStore{db: db} }

// Groups returns every group, most recently created first.
func (s *SQLStore) Groups(ctx context.Context) ([]Group, error) {
	const q = `SELECT id, group_name, closed, created_at
	             FROM groups
	            ORDER BY created_at DESC`

	groups := make([]Group, 0, 16)
	if err := s.db.SelectContext(ctx, &groups, q); err != nil {
		return nil, fmt.Errorf("select groups: %w", err)
	}
	return groups, nil
}

// GroupByName resolves one group by exact name.
func (s *SQLStore) GroupByName(ctx context.Context, name string) (*Group, error) {
	const q = `SELECT id, group_name, closed, created_at
	             FROM groups
	            WHERE group_name = ?`

	var g Group
	err := s.db.GetContext(ctx, &g, q, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select group %q: %w", name, err)
	}
	return &g, nil
}

// GroupMembers returns the full names of the group's students.
func (s *SQLStore) GroupMembers(ctx context.Context, groupName string) ([]string, error) {
	const q = `SELECT fullname
	             FROM student_profiles
	            WHERE group_name = ?
	            ORDER BY fullname`

	names := make([]string, 0, 16)
	if err := s.db.SelectContext(ctx, &names, q, groupName); err != nil {
		return nil, fmt.Errorf("select group members: %w", err)
	}
	return names, nil
}

// GroupLessons joins the group's lesson associations to their content rows.
func (s *SQLStore) GroupLessons(ctx context.Context, groupID string) ([]Lesson, error) {
	const q = `SELECT l.lesson_name, l.lesson_book
	             FROM group_lessons gl
	             JOIN lessons l ON l.id = gl.lesson_id
	            WHERE gl.group_id = ?`

	lessons := make([]Lesson, 0, 8)
	if err := s.db.SelectContext(ctx, &lessons, q, groupID); err != nil {
		return nil, fmt.Errorf("select group lessons: %w", err)
	}
	return lessons, nil
}

// Students returns every student's roster projection.
func (s *SQLStore) Students(ctx context.Context) ([]StudentProfile, error) {
	const q = `SELECT fullname, group_name, date_of_birth
	             FROM student_profiles`

	students := make([]StudentProfile, 0, 64)
	if err := s.db.SelectContext(ctx, &students, q); err != nil {
		return nil, fmt.Errorf("select students: %w", err)
	}
	return students, nil
}

// UsernamesByRole returns one identity class's username pool.  Students live
// in their own table; teachers and admins share teacher_profiles partitioned
// by the role column.
func (s *SQLStore) UsernamesByRole(ctx context.Context, role string) ([]string, error) {
	var (
		q    string
		args []any
	)
	switch strings.ToLower(role) {
	case "student":
		q = `SELECT username FROM student_profiles`
	case "teacher", "admin":
		q = `SELECT username FROM teacher_profiles WHERE role = ?`
		args = append(args, strings.ToLower(role))
	default:
		return nil, fmt.Errorf("usernames: unknown role %q", role)
	}

	names := make([]string, 0, 64)
	if err := s.db.SelectContext(ctx, &names, q, args...); err != nil {
		return nil, fmt.Errorf("select %s usernames: %w", role, err)
	}
	return names, nil
}

// EmailExists checks both profile tables for the lower-cased address.
func (s *SQLStore) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (
	         SELECT 1 FROM student_profiles WHERE email = ?
	          UNION
	         SELECT 1 FROM teacher_profiles WHERE email = ?
	       )`

	addr := strings.ToLower(email)
	var exists bool
	if err := s.db.GetContext(ctx, &exists, q, addr, addr); err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return exists, nil
}
