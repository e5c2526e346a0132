package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"team-planner/backend/config"
	"team-planner/backend/internal/model"
	"team-planner/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error // 非 nil 时所有操作返回该错误
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Get(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Put(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// ── Mock PlanningRepository ──

type mockPlanningRepo struct {
	mu      sync.Mutex
	entries map[string]model.PlanningEntry
	puts    int
	err     error
}

func newMockPlanningRepo() *mockPlanningRepo {
	return &mockPlanningRepo{entries: make(map[string]model.PlanningEntry)}
}

func (m *mockPlanningRepo) Get(_ context.Context, userID, date, period string) (*model.PlanningEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.entries[model.PlanningKey(userID, date, period)]; ok {
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockPlanningRepo) Put(_ context.Context, entries []model.PlanningEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.puts++
	for _, e := range entries {
		e.ID = e.Key()
		m.entries[e.ID] = e
	}
	return nil
}

func (m *mockPlanningRepo) ListByUser(_ context.Context, userID string) ([]model.PlanningEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.PlanningEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockPlanningRepo) ListAll(_ context.Context) ([]model.PlanningEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.PlanningEntry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	return result, nil
}

func (m *mockPlanningRepo) seed(entries ...model.PlanningEntry) {
	for _, e := range entries {
		e.ID = e.Key()
		m.entries[e.ID] = e
	}
}

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.Email = model.NormalizeEmail(account.Email)
	if _, ok := m.accounts[account.Email]; ok {
		return repository.ErrKeyExists
	}
	cp := *account
	m.accounts[account.Email] = &cp
	return nil
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[model.NormalizeEmail(email)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

// ── Mock metrics.Recorder ──

type mockRecorder struct {
	mu      sync.Mutex
	saved   int
	signups int
}

func (r *mockRecorder) RecordEntriesSaved(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved += n
}

func (r *mockRecorder) RecordSignup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signups++
}

// ── 测试辅助 ──

type testEnv struct {
	repo     *repository.Repository
	users    *mockUserRepo
	planning *mockPlanningRepo
	accounts *mockAccountRepo
	recorder *mockRecorder
	cfg      *config.Config
}

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	plannings := newMockPlanningRepo()
	accounts := newMockAccountRepo()
	return &testEnv{
		repo: &repository.Repository{
			User:     users,
			Planning: plannings,
			Account:  accounts,
		},
		users:    users,
		planning: plannings,
		accounts: accounts,
		recorder: &mockRecorder{},
		cfg:      testConfig(),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, Timezone: "UTC"},
		Store:  config.StoreConfig{Driver: config.StoreDriverRedis},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-0123456789",
			Issuer:          "team-planner-test",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Planning: config.PlanningConfig{SplitPeriods: true, SummaryDays: 7},
	}
}

// fixedClock 返回固定时间的时钟
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func (e *testEnv) addUser(id, name, role string) *model.User {
	u := &model.User{ID: id, Name: name, Email: id + "@example.com", Role: role}
	e.users.users[id] = u
	return u
}

var nopLogger = zap.NewNop()
