package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"ghibli-backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

var AllowImage = []string{".jpg", ".jpeg", ".png", ".webp", ".heic"}

type (
	AwsS3 interface {
		// UploadFile puts raw bytes under dir and returns the object key.
		UploadFile(ctx context.Context, fileName string, data []byte, dir string, allowedExt ...string) (string, error)

		// UploadFromURL fetches the source image and re-hosts it on S3,
		// returning the public URL.
		UploadFromURL(ctx context.Context, srcURL string, dir string) (string, error)

		// FetchFile downloads the content behind any http(s) URL.
		FetchFile(ctx context.Context, fileURL string) ([]byte, error)

		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client     *s3.Client
		bucket     string
		region     string
		httpClient *http.Client
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatalf("error loading AWS configuration: %v", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, data []byte, dir string, allowedExt ...string) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if len(allowedExt) > 0 {
		allowed := false
		for _, e := range allowedExt {
			if ext == e {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("file extension %q is not allowed", ext)
		}
	}

	objectKey := fmt.Sprintf("%s/%s", strings.Trim(dir, "/"), fileName)
	contentType := http.DetectContentType(data)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return objectKey, nil
}

func (a *awsS3) UploadFromURL(ctx context.Context, srcURL string, dir string) (string, error) {
	data, err := a.FetchFile(ctx, srcURL)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(srcURL))
	if idx := strings.IndexAny(ext, "?#"); idx >= 0 {
		ext = ext[:idx]
	}
	if ext == "" {
		ext = ".jpg"
	}

	fileName := fmt.Sprintf("%s%s", utils.NanoID(utils.DefaultIDSize), ext)
	objectKey, err := a.UploadFile(ctx, fileName, data, dir, AllowImage...)
	if err != nil {
		return "", err
	}

	return a.GetPublicLinkKey(objectKey), nil
}

func (a *awsS3) FetchFile(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", fileURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Path, "/")
}
