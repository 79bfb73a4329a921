package mysql

import (
	"campusanon/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindGlobal() (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("is_global = ?", true).First(&community).Error
	return &community, err
}

// EnsureGlobal self-heals the "All" community if the seed never ran.
func (r *CommunityRepository) EnsureGlobal() (*model.Community, error) {
	c := &model.Community{Name: "All", Slug: "all", IsGlobal: true}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(c).Error
	if err != nil {
		return nil, err
	}
	return r.FindGlobal()
}

// FindCohort locates the community for a (year, branch, division) triple.
func (r *CommunityRepository) FindCohort(year int, branch, division string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("year = ? AND branch = ? AND division = ?", year, branch, division).
		First(&community).Error
	return &community, err
}

func (r *CommunityRepository) ListAll() ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id asc").Find(&list).Error
	return list, err
}

// ListVisible returns the union of the global community, year/branch
// auto-matches, and explicit memberships, de-duplicated by id.
func (r *CommunityRepository) ListVisible(userID uint64, year int, branch string) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.
		Where("is_global = ?", true).
		Or("(year = 0 OR year = ?) AND (branch = '' OR branch = ?)", year, branch).
		Or("id IN (?)", r.DB.Model(&model.CommunityMember{}).
			Select("community_id").Where("user_id = ?", userID)).
		Order("id asc").
		Find(&list).Error
	return list, err
}

func (r *CommunityRepository) SearchByName(query string, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Where("name LIKE ?", "%"+query+"%").Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) ListByYear(year int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Where("year = ? AND is_global = ?", year, false).Find(&list).Error
	return list, err
}
