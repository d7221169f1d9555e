package repository

import (
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) WithTx(tx *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: tx}
}

func (r *LectureRepository) Create(lecture *model.Lecture) error {
	return r.DB.Create(lecture).Error
}

func (r *LectureRepository) FindByIDInSection(sectionID, lectureID string) (*model.Lecture, error) {
	var lecture model.Lecture
	err := r.DB.Where("id = ? AND section_id = ?", lectureID, sectionID).First(&lecture).Error
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

// FindBySectionID 按插入顺序返回章节的全部课时
func (r *LectureRepository) FindBySectionID(sectionID string) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.DB.Where("section_id = ?", sectionID).Order("position ASC").Find(&lectures).Error
	return lectures, err
}

func (r *LectureRepository) CountBySectionID(sectionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lecture{}).Where("section_id = ?", sectionID).Count(&count).Error
	return count, err
}

func (r *LectureRepository) Delete(lectureID string) error {
	return r.DB.Delete(&model.Lecture{}, "id = ?", lectureID).Error
}
