package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// UintList 以 JSON 数组形式落库的有序 ID 列表
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *UintList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = UintList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for UintList")
}

// Course 课程，sections 存放在独立的 sections 表，按需组装
// swagger:model Course
type Course struct {
	UUIDBase
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	TeacherIDs  UintList `gorm:"type:json" json:"teacherIds"`
	CoverImage  string   `gorm:"size:512" json:"coverImage,omitempty"`

	// 仅在 GetCourseDetails 组装后的响应中出现，不落库
	Sections []Section `gorm:"-" json:"sections"`
}

func (Course) TableName() string {
	return "courses"
}

// Section 章节，归属且仅归属一个课程，position 为插入顺序
// swagger:model Section
type Section struct {
	UUIDBase
	CourseID string `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Position int    `gorm:"not null" json:"position"`

	Lectures []Lecture `gorm:"-" json:"lectures"`
}

func (Section) TableName() string {
	return "sections"
}

// Lecture 课时，四种内容类型有且仅有一种为真，对应的载荷字段非空
// swagger:model Lecture
type Lecture struct {
	UUIDBase
	SectionID string `gorm:"index;type:varchar(36);not null" json:"sectionId"`
	CourseID  string `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Position  int    `gorm:"not null" json:"position"`

	IsVideo bool `gorm:"default:false" json:"isVideo"`
	IsHTML  bool `gorm:"default:false" json:"isHTML"`
	IsPDF   bool `gorm:"default:false" json:"isPDF"`
	IsQuiz  bool `gorm:"default:false" json:"isQuiz"`

	VideoURL *string `gorm:"size:512" json:"videoUrl"`
	HTML     *string `gorm:"type:longtext" json:"html"`
	PDFURL   *string `gorm:"size:512" json:"pdfUrl"`
	QuizID   *string `gorm:"size:36" json:"quizId"`
}

func (Lecture) TableName() string {
	return "lectures"
}

// ContentKindCount 返回被置位的内容类型数量
func (l *Lecture) ContentKindCount() int {
	n := 0
	for _, f := range []bool{l.IsVideo, l.IsHTML, l.IsPDF, l.IsQuiz} {
		if f {
			n++
		}
	}
	return n
}
