// Package snapshot archives serialized quote records to S3 and hands out
// presigned download URLs for exports.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "investment-projection-engine/internal/config"
	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/utils"
)

// Service handles quote snapshot storage.
type Service struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

// DownloadURLResult contains a presigned export link.
type DownloadURLResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewService creates a new snapshot service.
func NewService(ctx context.Context) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	appCfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &Service{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: appCfg.SnapshotBucket,
	}, nil
}

// Archive serializes a quote record and uploads it, returning the object key.
func (s *Service) Archive(ctx context.Context, quote *models.Quote) (string, error) {
	data, err := json.Marshal(quote)
	if err != nil {
		return "", fmt.Errorf("failed to serialize quote: %w", err)
	}

	key := fmt.Sprintf("quotes/%s/%s.json", quote.ID, uuid.New().String())

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		utils.Logger.Error("Failed to archive quote snapshot",
			zap.String("bucket", s.bucketName),
			zap.String("quote_id", quote.ID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to archive snapshot: %w", err)
	}

	utils.Logger.Info("Archived quote snapshot",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return key, nil
}

// PresignDownload creates a time-limited export link for an archived snapshot.
func (s *Service) PresignDownload(ctx context.Context, key string, expiryMinutes int) (*DownloadURLResult, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = 15
	}
	expiry := time.Duration(expiryMinutes) * time.Minute

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	presignedReq, err := s.presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign snapshot download: %w", err)
	}

	return &DownloadURLResult{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// Fetch downloads an archived snapshot.
func (s *Service) Fetch(ctx context.Context, key string) (*models.Quote, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}

	var quote models.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return &quote, nil
}

// Delete removes an archived snapshot.
func (s *Service) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	utils.Logger.Info("Deleted quote snapshot",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
	)

	return nil
}
