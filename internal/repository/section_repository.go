package repository

import (
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) WithTx(tx *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: tx}
}

func (r *SectionRepository) Create(section *model.Section) error {
	return r.DB.Create(section).Error
}

// FindByIDInCourse 章节按 (courseId, sectionId) 定位，防止跨课程访问
func (r *SectionRepository) FindByIDInCourse(courseID, sectionID string) (*model.Section, error) {
	var section model.Section
	err := r.DB.Where("id = ? AND course_id = ?", sectionID, courseID).First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// FindByCourseID 按插入顺序返回课程的全部章节
func (r *SectionRepository) FindByCourseID(courseID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("course_id = ?", courseID).Order("position ASC").Find(&sections).Error
	return sections, err
}

func (r *SectionRepository) CountByCourseID(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Section{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *SectionRepository) Delete(sectionID string) error {
	return r.DB.Delete(&model.Section{}, "id = ?", sectionID).Error
}
