// Package memstore keeps every repository in process memory. It backs
// STORE=memory and the end-to-end tests; all data is lost on restart.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
)

type unlockKey struct {
	userID    int64
	speciesID int
}

// Store implements the users, plant, pomodoro, stats and timer snapshot
// repositories
type Store struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	users      map[int64]*models.User
	usernames  map[string]int64
	plants     map[int64]*models.PlantState
	unlocked   map[unlockKey]*models.UnlockedPlant
	sessions   map[int64]*models.PomodoroSession
	stats      map[int64]*models.UserStats
	snapshots  map[int64]*models.TimerSnapshot
	nextUserID int64
	nextSessID int64
}

// New creates an empty store. A nil clock uses the real clock.
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:     clock,
		users:     make(map[int64]*models.User),
		usernames: make(map[string]int64),
		plants:    make(map[int64]*models.PlantState),
		unlocked:  make(map[unlockKey]*models.UnlockedPlant),
		sessions:  make(map[int64]*models.PomodoroSession),
		stats:     make(map[int64]*models.UserStats),
		snapshots: make(map[int64]*models.TimerSnapshot),
	}
}

// User methods

func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[username]; exists {
		return nil, apperr.Validation("create user", "Username already exists")
	}
	s.nextUserID++
	u := &models.User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock.Now(),
	}
	s.users[u.ID] = u
	s.usernames[username] = u.ID
	out := *u
	return &out, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.usernames[username]
	if !exists {
		return nil, apperr.NotFound("get user by username", "User not found")
	}
	out := *s.users[id]
	return &out, nil
}

// Plant methods

func (s *Store) GetPlantState(_ context.Context, userID int64) (*models.PlantState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.plants[userID]
	if !exists {
		return nil, apperr.NotFound("get plant state", "Plant not found")
	}
	out := *p
	return &out, nil
}

func (s *Store) CreatePlantState(_ context.Context, userID int64, speciesID, stage int) (*models.PlantState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plants[userID]; exists {
		return nil, false, nil
	}
	p := &models.PlantState{UserID: userID, SpeciesID: speciesID, GrowthStage: stage, UpdatedAt: s.clock.Now()}
	s.plants[userID] = p
	out := *p
	return &out, true, nil
}

func (s *Store) ResetPlantState(_ context.Context, userID int64, speciesID int) (*models.PlantState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.PlantState{UserID: userID, SpeciesID: speciesID, UpdatedAt: s.clock.Now()}
	s.plants[userID] = p
	out := *p
	return &out, nil
}

func (s *Store) IncrementGrowth(_ context.Context, userID int64) (*models.PlantState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.plants[userID]
	if !exists {
		return nil, apperr.NotFound("increment growth", "Plant not found")
	}
	p.GrowthStage = min(p.GrowthStage+1, models.MaxGrowthStage)
	p.UpdatedAt = s.clock.Now()
	out := *p
	return &out, nil
}

func (s *Store) CompleteCycle(_ context.Context, userID int64, speciesID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := unlockKey{userID: userID, speciesID: speciesID}
	_, owned := s.unlocked[key]
	if !owned {
		s.unlocked[key] = &models.UnlockedPlant{UserID: userID, SpeciesID: speciesID, UnlockedAt: s.clock.Now()}
	}
	if p, exists := s.plants[userID]; exists && p.SpeciesID == speciesID && p.IsFullyGrown() {
		delete(s.plants, userID)
	}
	return !owned, nil
}

func (s *Store) ListUnlocked(_ context.Context, userID int64) ([]models.UnlockedPlant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.UnlockedPlant{}
	for key, u := range s.unlocked {
		if key.userID == userID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpeciesID < out[j].SpeciesID })
	return out, nil
}

// Pomodoro session methods

func (s *Store) CreateSession(_ context.Context, session models.PomodoroSession) (*models.PomodoroSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSessID++
	session.ID = s.nextSessID
	session.CompletedAt = nil
	stored := session
	s.sessions[session.ID] = &stored
	return &session, nil
}

func (s *Store) CompleteSession(_ context.Context, userID, sessionID int64, completedAt time.Time) (*models.PomodoroSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists || sess.UserID != userID || sess.CompletedAt != nil {
		return nil, apperr.NotFound("complete session", "Session not found")
	}
	sess.CompletedAt = &completedAt
	out := *sess
	return &out, nil
}

// Stats methods

func (s *Store) GetUserStats(_ context.Context, userID int64) (*models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.stats[userID]
	if !exists {
		return nil, apperr.NotFound("get user stats", "Stats not found")
	}
	out := copyStats(st)
	return &out, nil
}

func (s *Store) UpdateUserStats(_ context.Context, userID int64, fn func(prev *models.UserStats) models.UserStats) (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *models.UserStats
	if st, exists := s.stats[userID]; exists {
		c := copyStats(st)
		prev = &c
	}
	next := fn(prev)
	if prev != nil {
		next.LongestStreak = max(next.LongestStreak, prev.LongestStreak)
	}
	stored := copyStats(&next)
	s.stats[userID] = &stored
	return &next, nil
}

func copyStats(st *models.UserStats) models.UserStats {
	out := *st
	if st.LastSessionDate != nil {
		d := *st.LastSessionDate
		out.LastSessionDate = &d
	}
	return out
}

// Timer snapshot methods

func (s *Store) SaveTimerSnapshot(_ context.Context, userID int64, version uint64, payload []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, exists := s.snapshots[userID]; exists && cur.Version >= version {
		return false, nil
	}
	s.snapshots[userID] = &models.TimerSnapshot{
		UserID:    userID,
		Version:   version,
		Payload:   append([]byte(nil), payload...),
		UpdatedAt: s.clock.Now(),
	}
	return true, nil
}

func (s *Store) GetTimerSnapshot(_ context.Context, userID int64) (*models.TimerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.snapshots[userID]
	if !exists {
		return nil, apperr.NotFound("get timer snapshot", "No timer state")
	}
	out := *snap
	out.Payload = append([]byte(nil), snap.Payload...)
	return &out, nil
}
