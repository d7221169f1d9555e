package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LectureProgress 单个课时的完成情况，quizScore 仅对测验课时有意义
// swagger:model LectureProgress
type LectureProgress struct {
	LectureID      string    `json:"lectureId"`
	Completed      bool      `json:"completed"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	QuizScore      *float64  `json:"quizScore,omitempty"`
}

// SectionProgress 镜像课程章节的进度记录
// swagger:model SectionProgress
type SectionProgress struct {
	SectionID      string            `json:"sectionId"`
	Lectures       []LectureProgress `json:"lectures"`
	Completed      bool              `json:"completed"`
	LastAccessedAt time.Time         `json:"lastAccessedAt"`
}

// SectionProgressList 整体作为一个 JSON 文档落库，不再拆表
type SectionProgressList []SectionProgress

func (l SectionProgressList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *SectionProgressList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = SectionProgressList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for SectionProgressList")
}

// Enrollment 学生与课程的绑定及其进度快照
// swagger:model Enrollment
type Enrollment struct {
	ID              string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          uint                `gorm:"index;not null" json:"userId"`
	CourseID        string              `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Sections        SectionProgressList `gorm:"type:json" json:"sections"`
	OverallProgress float64             `gorm:"default:0" json:"overallProgress"`
	EnrolledAt      time.Time           `gorm:"index" json:"enrolledAt"`
	LastAccessedAt  time.Time           `json:"lastAccessedAt"`
	CompletedAt     *time.Time          `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}
