package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// MinioService stores lesson diagram images (unit circle, triangle
// figures) in object storage.
type MinioService struct {
	appContext.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const MINIO_SVC = "minio_svc"

func (svc MinioService) Id() string {
	return MINIO_SVC
}

func (svc *MinioService) Configure(ctx *appContext.Context) error {
	svc.endpoint = envOr("MINIO_ENDPOINT", "localhost:9000")
	svc.accessKey = envOr("MINIO_ACCESS_KEY", "admin")
	svc.secretKey = envOr("MINIO_SECRET_KEY", "password123")
	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"
	svc.bucketName = envOr("MINIO_BUCKET_NAME", "trigono-diagrams")

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinioService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("MinIO service started successfully with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MinioService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.bucketName)
	}

	return nil
}

// UploadDiagram writes the image under lessons/<id>/<filename> and
// returns the public object URL.
func (svc *MinioService) UploadDiagram(lessonID, filename string, data []byte, contentType string) (string, error) {
	ctx := context.Background()
	objectName := path.Join("lessons", lessonID, filename)

	_, err := svc.client.PutObject(ctx, svc.bucketName, objectName,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload diagram to MinIO: %v", err)
	}

	scheme := "http"
	if svc.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, svc.endpoint, svc.bucketName, objectName), nil
}

// diagramObjectName recovers the object key from a URL issued by
// UploadDiagram.
func diagramObjectName(diagramURL, bucketName string) (string, error) {
	marker := "/" + bucketName + "/"
	idx := strings.Index(diagramURL, marker)
	if idx < 0 {
		return "", fmt.Errorf("url %q does not reference bucket %q", diagramURL, bucketName)
	}
	return diagramURL[idx+len(marker):], nil
}

// DeleteDiagramByURL removes the object behind a previously issued
// diagram URL.
func (svc *MinioService) DeleteDiagramByURL(diagramURL string) error {
	objectName, err := diagramObjectName(diagramURL, svc.bucketName)
	if err != nil {
		return err
	}
	return svc.DeleteDiagram(objectName)
}

func (svc *MinioService) DeleteDiagram(objectName string) error {
	ctx := context.Background()

	err := svc.client.RemoveObject(ctx, svc.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete diagram from MinIO: %v", err)
	}

	return nil
}
