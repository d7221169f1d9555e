// 手动触发 completedAt 回填脚本
//
// 早期导入的报名数据只有 overallProgress，没有 completedAt。
// 该脚本把 overallProgress >= 100 且 completedAt 为空的记录补上完成时间
// （取 lastAccessedAt，缺失时取当前时间）。
//
// 用法: go run scripts/backfill_completed_at.go

package main

import (
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/database"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var enrollments []model.Enrollment
	if err := db.Where("overall_progress >= ? AND completed_at IS NULL", 100).Find(&enrollments).Error; err != nil {
		log.Fatalf("查询报名记录失败: %v", err)
	}

	log.Printf("待回填记录: %d 条", len(enrollments))

	updated := 0
	for i := range enrollments {
		completedAt := enrollments[i].LastAccessedAt
		if completedAt.IsZero() {
			completedAt = time.Now()
		}
		err := db.Model(&model.Enrollment{}).
			Where("id = ?", enrollments[i].ID).
			Update("completed_at", completedAt).Error
		if err != nil {
			log.Printf("回填失败 id=%s: %v", enrollments[i].ID, err)
			continue
		}
		updated++
	}

	log.Printf("完成！成功回填 %d 条", updated)
}
