package repositories

import (
	"errors"

	"ballotbox/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrDuplicateNationalID = errors.New("user with this national id already exists")
	ErrAlreadyVoted        = errors.New("user has already voted")
)

// UserStore is the adapter over identity records.
type UserStore interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByNationalID(nationalID string) (*models.User, error)
	AdminExists() (bool, error)
	UpdatePassword(id uint, passwordHash string) error
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateNationalID
		}
		return err
	}
	return nil
}

func (s *GormUserStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) GetByNationalID(nationalID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("national_id = ?", nationalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) AdminExists() (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormUserStore) UpdatePassword(id uint, passwordHash string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
