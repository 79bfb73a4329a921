package mysql

import (
	"errors"

	"campusanon/internal/model"

	"gorm.io/gorm"
)

type PostReportRepository struct {
	DB *gorm.DB
}

// Create inserts a (reporter, post) report. A duplicate, including a racing
// one, reports created=false instead of an error.
func (r *PostReportRepository) Create(report *model.PostReport) (bool, error) {
	err := r.DB.Create(report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountDistinctReporters drives the auto-hide threshold. The unique
// (reporter, post) index makes a plain count equal to the distinct count.
func (r *PostReportRepository) CountDistinctReporters(postID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.PostReport{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *PostReportRepository) FindByID(id uint64) (*model.PostReport, error) {
	var report model.PostReport
	err := r.DB.First(&report, id).Error
	return &report, err
}

func (r *PostReportRepository) Delete(id uint64) (int64, error) {
	res := r.DB.Delete(&model.PostReport{}, id)
	return res.RowsAffected, res.Error
}

func (r *PostReportRepository) List(offset, limit int) ([]model.PostReport, error) {
	var list []model.PostReport
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// ReportedSet returns which of the given posts the viewer has reported.
func (r *PostReportRepository) ReportedSet(userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := r.DB.Model(&model.PostReport{}).
		Where("reporter_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

type CommentReportRepository struct {
	DB *gorm.DB
}

func (r *CommentReportRepository) Create(report *model.CommentReport) (bool, error) {
	err := r.DB.Create(report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CommentReportRepository) CountDistinctReporters(commentID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.CommentReport{}).Where("comment_id = ?", commentID).Count(&n).Error
	return n, err
}

func (r *CommentReportRepository) FindByID(id uint64) (*model.CommentReport, error) {
	var report model.CommentReport
	err := r.DB.First(&report, id).Error
	return &report, err
}

func (r *CommentReportRepository) Delete(id uint64) (int64, error) {
	res := r.DB.Delete(&model.CommentReport{}, id)
	return res.RowsAffected, res.Error
}

func (r *CommentReportRepository) List(offset, limit int) ([]model.CommentReport, error) {
	var list []model.CommentReport
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommentReportRepository) ReportedSet(userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := r.DB.Model(&model.CommentReport{}).
		Where("reporter_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
