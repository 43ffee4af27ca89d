package oss

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/unscripted/unscripted-server/config"
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// UploadAvatar 上传用户头像
func (c *Client) UploadAvatar(userID int64, data []byte, ext string) (string, error) {
	objectKey := fmt.Sprintf("avatars/%d/%d%s", userID, time.Now().Unix(), ext)

	contentType := getContentType(ext)
	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return c.GetURL(objectKey), nil
}

// GetURL 返回对象的访问地址，配置了 CDN 域名时优先使用
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimSuffix(c.cdnDomain, "/"), objectKey)
	}
	endpoint := c.client.Config.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, endpoint, objectKey)
}

func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
