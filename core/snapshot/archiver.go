package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver persists a copy of all ledger rows before destructive rewrites.
type Archiver interface {
	// Archive uploads the rows as a JSON object and returns the object name.
	Archive(ctx context.Context, storeName string, rows [][]string) (string, error)
}

// NewArchiver creates a minio-backed archiver.
func NewArchiver(cfg Config) (Archiver, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot client: %w", err)
	}

	return &minioArchiver{
		client: client,
		bucket: cfg.Bucket,
		now:    time.Now,
	}, nil
}

type minioArchiver struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func (a *minioArchiver) Archive(ctx context.Context, storeName string, rows [][]string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"store":    storeName,
		"taken_at": a.now().UTC().Format(time.RFC3339),
		"rows":     rows,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	objName := fmt.Sprintf("snapshots/%s/%s.json", storeName, a.now().UTC().Format("20060102T150405Z"))

	_, err = a.client.PutObject(ctx, a.bucket, objName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", objName, err)
	}
	return objName, nil
}
