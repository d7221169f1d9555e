package service

import (
	"context"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/util"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MediaService 处理课程封面与课时素材（视频/PDF）的上传。
// 上传只产出 URL，落到课程/课时字段仍走 CourseService 的修改路径，
// 因此同样受报名锁约束。
type MediaService struct {
	StorageService *StorageService
	Cfg            *config.Config
}

func NewMediaService(storageService *StorageService, cfg *config.Config) *MediaService {
	return &MediaService{
		StorageService: storageService,
		Cfg:            cfg,
	}
}

// LectureVideoResult 视频上传结果
type LectureVideoResult struct {
	VideoURL     string          `json:"videoUrl"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
	Info         *util.VideoInfo `json:"info,omitempty"`
}

// UploadCoverImage 上传课程封面，深度校验 MIME 类型
func (s *MediaService) UploadCoverImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return "", util.ErrInvalidImageExt
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return "", fmt.Errorf("非法的文件内容: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	filename := "covers/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext
	return s.StorageService.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}

// UploadLecturePDF 上传课时 PDF
func (s *MediaService) UploadLecturePDF(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimePDF}); err != nil {
		return "", fmt.Errorf("非法的文件内容: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	filename := "pdfs/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ".pdf"
	return s.StorageService.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}

// UploadLectureVideo 上传课时视频并生成缩略图
func (s *MediaService) UploadLectureVideo(ctx context.Context, file *multipart.FileHeader) (*LectureVideoResult, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return nil, util.ErrInvalidVideoExt
	}

	// 先存到本地临时文件用于 ffmpeg 处理
	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}

	videoPath := filepath.Join(tempDir, fmt.Sprintf("temp_video_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(videoPath)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return nil, fmt.Errorf("非法的文件内容，仅允许视频格式: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	base := time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6)
	videoURL, err := s.StorageService.UploadFile(ctx, "videos/"+base+ext, videoPath, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	result := &LectureVideoResult{VideoURL: videoURL}

	if info, err := util.GetVideoInfo(videoPath); err == nil {
		result.Info = info
	}

	// 缩略图失败不阻断上传
	thumbnailPath := filepath.Join(tempDir, base+".jpg")
	if err := util.GenerateThumbnail(videoPath, thumbnailPath, "3"); err == nil {
		defer os.Remove(thumbnailPath)
		if thumbURL, err := s.StorageService.UploadFile(ctx, "thumbnails/"+base+".jpg", thumbnailPath, "image/jpeg"); err == nil {
			result.ThumbnailURL = thumbURL
		}
	}

	return result, nil
}
