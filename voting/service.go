package voting

import (
	"errors"
	"fmt"

	"ballotbox/models"
	"ballotbox/repositories"

	log "github.com/sirupsen/logrus"
)

// ErrAdminCannotVote is returned when an admin identity tries to cast a
// ballot. Admins administer the election; they never vote.
var ErrAdminCannotVote = errors.New("admin is not allowed to vote")

// Service orchestrates vote casting and role checks over the store
// adapters. It keeps no state of its own.
type Service struct {
	users      repositories.UserStore
	candidates repositories.CandidateStore
	ballots    repositories.BallotStore
}

func NewService(users repositories.UserStore, candidates repositories.CandidateStore, ballots repositories.BallotStore) *Service {
	return &Service{users: users, candidates: candidates, ballots: ballots}
}

// IsAdmin reports whether the user holds the admin role. Lookup
// failures are logged and treated as not-admin.
func (s *Service) IsAdmin(userID uint) bool {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			log.WithError(err).WithField("user_id", userID).Error("admin role check failed")
		}
		return false
	}
	return user.Role == models.RoleAdmin
}

// CastVote records one ballot from voterID for candidateID. Checks run
// in a fixed order: candidate existence, voter existence, role, then
// the already-voted gate. The ballot store re-checks the voted flag
// atomically, so concurrent calls for the same voter admit at most one
// winner.
func (s *Service) CastVote(voterID, candidateID uint) error {
	if _, err := s.candidates.GetByID(candidateID); err != nil {
		return err
	}

	user, err := s.users.GetByID(voterID)
	if err != nil {
		return err
	}

	switch user.Role {
	case models.RoleAdmin:
		return ErrAdminCannotVote
	case models.RoleVoter:
	default:
		return fmt.Errorf("unknown role %q for user %d", user.Role, voterID)
	}

	if user.HasVoted {
		return repositories.ErrAlreadyVoted
	}

	return s.ballots.Record(voterID, candidateID)
}
