package storage

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	storageServiceInstance contracts.StorageService
	onceStorageService     sync.Once
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type minioStorageService struct {
	Client     *minio.Client
	BucketName string
	Log        *zap.Logger
}

func NewMinioStorageService(client *minio.Client, driverConfig *config.DriverConfig, logger *zap.Logger) contracts.StorageService {
	onceStorageService.Do(func() {
		instance := &minioStorageService{
			Client:     client,
			BucketName: driverConfig.Minio.BucketName,
			Log:        logger,
		}
		storageServiceInstance = instance
	})
	return storageServiceInstance
}

func (s *minioStorageService) UploadImage(ctx context.Context, reader io.Reader, size int64, contentType, prefix string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	extension, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", exceptions.ErrImageValidation(nil)
	}

	objectName := utils.GenerateObjectName(prefix, extension)
	_, err := s.Client.PutObject(ctx, s.BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.Log.Error("minioStorageService.UploadImage error storing object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, s.BucketName)
	}

	return objectName, nil
}

func (s *minioStorageService) PresignedURL(ctx context.Context, objectName string) (string, error) {
	if objectName == "" {
		return "", nil
	}

	presignedURL, err := s.Client.PresignedGetObject(ctx, s.BucketName, objectName, 24*time.Hour, nil)
	if err != nil {
		return "", exceptions.ErrMinioPresignObject(err, s.BucketName)
	}
	return presignedURL.String(), nil
}
