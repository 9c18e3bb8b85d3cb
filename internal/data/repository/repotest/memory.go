// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository"

	"github.com/google/uuid"
)

// Store backs every in-memory repository and counts calls so tests can assert
// that nothing was touched.
type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[string]*entity.Session
	reports  map[uuid.UUID]*entity.Report
	support  []*entity.SupportRequest
	calls    int

	// FailReportCreate makes Report.Create return this error when set.
	FailReportCreate error
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[string]*entity.Session),
		reports:  make(map[uuid.UUID]*entity.Report),
	}
}

// Repository returns a repository.Repository backed by s.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:    &userRepo{s},
		Session: &sessionRepo{s},
		Report:  &reportRepo{s},
		Support: &supportRepo{s},
	}
}

// Calls is the number of repository calls made so far.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Store) touch() {
	s.calls++
}

// AddUser stores a copy of user directly, bypassing call counting.
func (s *Store) AddUser(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
}

// AddReport stores a copy of report directly, bypassing call counting.
func (s *Store) AddReport(report *entity.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *report
	cp.ImageKeys = append([]string(nil), report.ImageKeys...)
	s.reports[report.ID] = &cp
}

func (s *Store) Session(token string) *entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[token]; ok {
		cp := *sess
		return &cp
	}
	return nil
}

func copyReport(r *entity.Report) *entity.Report {
	cp := *r
	cp.ImageKeys = append([]string(nil), r.ImageKeys...)
	cp.Normalize()
	return &cp
}

func newestFirst(reports []*entity.Report) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}

// ==================== USERS ====================

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if u, ok := r.s.users[id]; ok && u.DeletedAt == nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) active() []*entity.User {
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *userRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	users := r.active()
	if offset >= len(users) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

func (r *userRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	return int64(len(r.active())), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	existing, ok := r.s.users[user.ID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("delete user: %w", repository.ErrNotFound)
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

// ==================== SESSIONS ====================

type sessionRepo struct{ s *Store }

func (r *sessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	cp := *session
	r.s.sessions[session.Token.String()] = &cp
	return nil
}

func (r *sessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if sess, ok := r.s.sessions[token]; ok && sess.Active(time.Now()) {
		cp := *sess
		return &cp, nil
	}
	return nil, nil
}

func (r *sessionRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return fmt.Errorf("revoke session: %w", repository.ErrNotFound)
	}
	now := time.Now()
	sess.RevokedAt = &now
	return nil
}

func (r *sessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return r.RevokeOtherSessions(ctx, userID, "")
}

func (r *sessionRepo) RevokeOtherSessions(_ context.Context, userID uuid.UUID, keepToken string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	now := time.Now()
	for token, sess := range r.s.sessions {
		if sess.UserID == userID && token != keepToken && sess.RevokedAt == nil {
			sess.RevokedAt = &now
		}
	}
	return nil
}

func (r *sessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var removed int64
	for token, sess := range r.s.sessions {
		if !sess.Active(time.Now()) {
			delete(r.s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// ==================== REPORTS ====================

type reportRepo struct{ s *Store }

func (r *reportRepo) Create(_ context.Context, report *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if r.s.FailReportCreate != nil {
		return r.s.FailReportCreate
	}
	r.s.reports[report.ID] = copyReport(report)
	return nil
}

func (r *reportRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if rep, ok := r.s.reports[id]; ok {
		return copyReport(rep), nil
	}
	return nil, nil
}

func (r *reportRepo) filter(keep func(*entity.Report) bool) []*entity.Report {
	out := make([]*entity.Report, 0)
	for _, rep := range r.s.reports {
		cp := copyReport(rep)
		if keep(cp) {
			out = append(out, cp)
		}
	}
	newestFirst(out)
	return out
}

func (r *reportRepo) FindAll(_ context.Context) ([]*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	return r.filter(func(*entity.Report) bool { return true }), nil
}

func (r *reportRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	return r.filter(func(rep *entity.Report) bool { return rep.UserID == userID }), nil
}

func (r *reportRepo) FindByStatus(_ context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	return r.filter(func(rep *entity.Report) bool { return rep.Status == status }), nil
}

func (r *reportRepo) UpdateContent(_ context.Context, id uuid.UUID, description string, flag entity.Flag, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	rep, ok := r.s.reports[id]
	if !ok {
		return fmt.Errorf("update report: %w", repository.ErrNotFound)
	}
	rep.Description = description
	rep.Flag = flag
	rep.UpdatedAt = updatedAt
	return nil
}

func (r *reportRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.ReportStatus, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	rep, ok := r.s.reports[id]
	if !ok {
		return fmt.Errorf("update report status: %w", repository.ErrNotFound)
	}
	rep.Status = status
	rep.UpdatedAt = updatedAt
	return nil
}

func (r *reportRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if _, ok := r.s.reports[id]; !ok {
		return fmt.Errorf("delete report: %w", repository.ErrNotFound)
	}
	delete(r.s.reports, id)
	return nil
}

func (r *reportRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	return int64(len(r.s.reports)), nil
}

// ==================== SUPPORT ====================

type supportRepo struct{ s *Store }

func (r *supportRepo) Create(_ context.Context, req *entity.SupportRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	cp := *req
	r.s.support = append(r.s.support, &cp)
	return nil
}

func (r *supportRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.SupportRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	all := make([]*entity.SupportRequest, len(r.s.support))
	copy(all, r.s.support)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*entity.SupportRequest{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *supportRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	return int64(len(r.s.support)), nil
}
