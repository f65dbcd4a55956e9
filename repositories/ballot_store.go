package repositories

import (
	"time"

	"ballotbox/models"

	"gorm.io/gorm"
)

// BallotStore records votes. Record must be atomic: the has-voted flip,
// the vote row, and the count increment all land together or not at all,
// and concurrent calls for the same voter admit at most one winner.
type BallotStore interface {
	Record(voterID, candidateID uint) error
}

type GormBallotStore struct {
	db *gorm.DB
}

func NewGormBallotStore(db *gorm.DB) *GormBallotStore {
	return &GormBallotStore{db: db}
}

// Record casts a vote inside a single transaction. The conditional
// update on has_voted is the gate: zero rows affected means another
// request already claimed this voter's ballot.
func (s *GormBallotStore) Record(voterID, candidateID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND has_voted = ?", voterID, false).
			Update("has_voted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", voterID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrAlreadyVoted
		}

		vote := models.Vote{
			CandidateID: candidateID,
			UserID:      voterID,
			CastAt:      time.Now().UTC(),
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		res = tx.Model(&models.Candidate{}).
			Where("id = ?", candidateID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCandidateNotFound
		}
		return nil
	})
}
