package repositories

import (
	"errors"

	"ballotbox/models"

	"gorm.io/gorm"
)

// CandidateStore is the adapter over candidate records.
type CandidateStore interface {
	Create(candidate *models.Candidate) error
	GetByID(id uint) (*models.Candidate, error)
	Update(id uint, name, party string) (*models.Candidate, error)
	Delete(id uint) error
	List() ([]models.CandidateSummary, error)
	TallyByVotes() ([]models.PartyTally, error)
}

type GormCandidateStore struct {
	db *gorm.DB
}

func NewGormCandidateStore(db *gorm.DB) *GormCandidateStore {
	return &GormCandidateStore{db: db}
}

func (s *GormCandidateStore) Create(candidate *models.Candidate) error {
	return s.db.Create(candidate).Error
}

func (s *GormCandidateStore) GetByID(id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := s.db.Preload("Votes").First(&candidate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (s *GormCandidateStore) Update(id uint, name, party string) (*models.Candidate, error) {
	candidate, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	candidate.Name = name
	candidate.Party = party
	if err := s.db.Model(candidate).Updates(map[string]interface{}{"name": name, "party": party}).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *GormCandidateStore) Delete(id uint) error {
	res := s.db.Delete(&models.Candidate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (s *GormCandidateStore) List() ([]models.CandidateSummary, error) {
	var list []models.CandidateSummary
	if err := s.db.Model(&models.Candidate{}).Select("name", "party").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// TallyByVotes returns one {party, count} row per candidate, highest
// count first.
func (s *GormCandidateStore) TallyByVotes() ([]models.PartyTally, error) {
	var tally []models.PartyTally
	err := s.db.Model(&models.Candidate{}).
		Select("party, vote_count AS count").
		Order("vote_count DESC").
		Find(&tally).Error
	if err != nil {
		return nil, err
	}
	return tally, nil
}
