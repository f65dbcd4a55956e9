package repositories

import (
	"sort"
	"sync"
	"time"

	"ballotbox/models"
)

// InMemoryStore holds users, candidates and votes in plain maps behind
// one mutex. Users() and Candidates() expose the adapter interfaces over
// the shared state; the store itself is the BallotStore. It backs the
// unit tests so they run without postgres.
type InMemoryStore struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	candidates map[uint]*models.Candidate
	nextUser   uint
	nextCand   uint
	nextVote   uint
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[uint]*models.User),
		candidates: make(map[uint]*models.Candidate),
	}
}

// Users returns the UserStore view of the shared state.
func (s *InMemoryStore) Users() UserStore {
	return memUsers{s}
}

// Candidates returns the CandidateStore view of the shared state.
func (s *InMemoryStore) Candidates() CandidateStore {
	return memCandidates{s}
}

// Record implements BallotStore. The whole check-and-mutate runs under
// the store mutex, mirroring the transactional gorm implementation.
func (s *InMemoryStore) Record(voterID, candidateID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[voterID]
	if !ok {
		return ErrUserNotFound
	}
	if user.HasVoted {
		return ErrAlreadyVoted
	}
	candidate, ok := s.candidates[candidateID]
	if !ok {
		return ErrCandidateNotFound
	}
	user.HasVoted = true
	s.nextVote++
	candidate.Votes = append(candidate.Votes, models.Vote{
		ID:          s.nextVote,
		CandidateID: candidateID,
		UserID:      voterID,
		CastAt:      time.Now().UTC(),
	})
	candidate.VoteCount++
	return nil
}

type memUsers struct {
	s *InMemoryStore
}

func (m memUsers) Create(user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.NationalID == user.NationalID {
			return ErrDuplicateNationalID
		}
	}
	m.s.nextUser++
	user.ID = m.s.nextUser
	clone := *user
	m.s.users[user.ID] = &clone
	return nil
}

func (m memUsers) GetByID(id uint) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user, ok := m.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m memUsers) GetByNationalID(nationalID string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.NationalID == nationalID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m memUsers) AdminExists() (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) UpdatePassword(id uint, passwordHash string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user, ok := m.s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

type memCandidates struct {
	s *InMemoryStore
}

func (m memCandidates) Create(candidate *models.Candidate) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextCand++
	candidate.ID = m.s.nextCand
	clone := *candidate
	m.s.candidates[candidate.ID] = &clone
	return nil
}

func (m memCandidates) GetByID(id uint) (*models.Candidate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	candidate, ok := m.s.candidates[id]
	if !ok {
		return nil, ErrCandidateNotFound
	}
	clone := *candidate
	clone.Votes = append([]models.Vote(nil), candidate.Votes...)
	return &clone, nil
}

func (m memCandidates) Update(id uint, name, party string) (*models.Candidate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	candidate, ok := m.s.candidates[id]
	if !ok {
		return nil, ErrCandidateNotFound
	}
	candidate.Name = name
	candidate.Party = party
	clone := *candidate
	return &clone, nil
}

func (m memCandidates) Delete(id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.candidates[id]; !ok {
		return ErrCandidateNotFound
	}
	delete(m.s.candidates, id)
	return nil
}

func (m memCandidates) List() ([]models.CandidateSummary, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	list := make([]models.CandidateSummary, 0, len(m.s.candidates))
	for _, c := range m.s.sortedCandidates() {
		list = append(list, models.CandidateSummary{Name: c.Name, Party: c.Party})
	}
	return list, nil
}

func (m memCandidates) TallyByVotes() ([]models.PartyTally, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	candidates := m.s.sortedCandidates()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].VoteCount > candidates[j].VoteCount
	})
	tally := make([]models.PartyTally, 0, len(candidates))
	for _, c := range candidates {
		tally = append(tally, models.PartyTally{Party: c.Party, Count: c.VoteCount})
	}
	return tally, nil
}

// sortedCandidates returns an insertion-order snapshot. Callers must
// hold the mutex.
func (s *InMemoryStore) sortedCandidates() []*models.Candidate {
	out := make([]*models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
