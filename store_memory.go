package main

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore implements store with mutex-guarded slices and maps. Used when
// STORE=memory (local development without Postgres) and throughout the
// handler tests. All accessors return copies, never internal slices.
type memoryStore struct {
	mu       sync.Mutex
	users    []user
	profiles map[int]profile
	settings map[int]userSettings
	goals    map[int]goals
	logs     []logEntry

	userIDCounter int
	logIDCounter  int
}

// Ensure the interface is met.
var _ store = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		profiles: make(map[int]profile),
		settings: make(map[int]userSettings),
		goals:    make(map[int]goals),
	}
}

func (m *memoryStore) CreateUser(ctx context.Context, email, name, passwordHash, authToken string) (user, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return user{}, errDuplicateEmail
		}
	}

	m.userIDCounter++
	now := time.Now().UTC()
	u := user{
		ID:        m.userIDCounter,
		Email:     email,
		Name:      name,
		Password:  passwordHash,
		AuthToken: authToken,
		CreatedAt: &now,
	}
	m.users = append(m.users, u)
	m.profiles[u.ID] = profile{UserID: u.ID}
	m.settings[u.ID] = defaultSettings(u.ID)
	return u, nil
}

func (m *memoryStore) UserByEmail(ctx context.Context, email string) (user, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user{}, errNotFound
}

func (m *memoryStore) UserByToken(ctx context.Context, token string) (user, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.AuthToken == token {
			return u, nil
		}
	}
	return user{}, errNotFound
}

func (m *memoryStore) GetProfile(ctx context.Context, userID int) (profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return profile{}, errNotFound
	}
	return p, nil
}

func (m *memoryStore) UpsertProfile(ctx context.Context, p profile) (profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[p.UserID] = p
	return p, nil
}

func (m *memoryStore) GetSettings(ctx context.Context, userID int) (userSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.settings[userID]
	if !ok {
		return userSettings{}, errNotFound
	}
	return s, nil
}

func (m *memoryStore) UpsertSettings(ctx context.Context, s userSettings) (userSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[s.UserID] = s
	return s, nil
}

func (m *memoryStore) GetGoals(ctx context.Context, userID int) (*goals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[userID]
	if !ok {
		return nil, nil
	}
	ret := g
	return &ret, nil
}

func (m *memoryStore) UpsertGoals(ctx context.Context, g goals) (goals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.goals[g.UserID] = g
	return g, nil
}

func (m *memoryStore) AddLog(ctx context.Context, entry logEntry) (logEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logIDCounter++
	entry.ID = m.logIDCounter
	now := time.Now().UTC()
	entry.CreatedAt = &now
	m.logs = append(m.logs, entry)
	return entry, nil
}

func (m *memoryStore) ListLogs(ctx context.Context, userID int) ([]logEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]logEntry, 0, len(m.logs))
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	// Stable sort keeps insertion order among same-date rows — repeated
	// dates are additional observations, not replacements.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Time.Before(result[j].Date.Time)
	})
	return result, nil
}

// defaultSettings is the settings row every new user starts with.
func defaultSettings(userID int) userSettings {
	return userSettings{
		UserID:         userID,
		UnitSystem:     "metric",
		ShowHydration:  false,
		HydrationGoalL: 2.0,
		NudgeOptIn:     true,
	}
}
