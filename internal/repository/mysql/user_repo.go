package mysql

import (
	"campusanon/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmailHash(hash string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email_hash = ?", hash).First(&user).Error
	return &user, err
}

func (r *UserRepository) SetBanned(id uint64, banned bool) (int64, error) {
	res := r.DB.Model(&model.User{}).Where("id = ?", id).Update("is_banned", banned)
	return res.RowsAffected, res.Error
}
