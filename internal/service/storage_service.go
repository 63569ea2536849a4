package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 截图文件的存储抽象，返回可公开访问的 URL
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

type StorageService struct {
	provider StorageProvider
}

// NewStorageService 按配置选择存储实现：minio 或本地磁盘
func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	switch cfg.Type {
	case "minio":
		provider, err := newMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		return &StorageService{provider: provider}, nil
	case "local", "":
		return &StorageService{provider: &localStorage{
			basePath: cfg.LocalPath,
			baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		}}, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// UploadScreenshot 保存上传的截图，文件名用 UUID 重写防止冲突和路径注入
func (s *StorageService) UploadScreenshot(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectName := "screenshots/" + uuid.New().String() + ext
	contentType := file.Header.Get("Content-Type")

	url, err := s.provider.Upload(ctx, objectName, src, file.Size, contentType)
	if err != nil {
		return "", err
	}

	logger.Log.Info("Screenshot uploaded",
		zap.String("object", objectName),
		zap.Int64("size", file.Size))
	return url, nil
}

type localStorage struct {
	basePath string
	baseURL  string
}

func (l *localStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	fullPath := filepath.Join(l.basePath, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		return "", err
	}
	return l.baseURL + "/" + objectName, nil
}

type minioStorage struct {
	client *minio.Client
	bucket string
	useSSL bool
}

func newMinioStorage(cfg config.StorageConfig) (*minioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &minioStorage{client: client, bucket: cfg.MinioBucket, useSSL: cfg.MinioUseSSL}, nil
}

func (m *minioStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.client.EndpointURL().Host, m.bucket, objectName), nil
}
