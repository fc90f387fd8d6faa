package storage

import (
	"context"
	"fmt"
	"os"
)

type FactoryResult struct {
	Driver string
	Signer Signer
}

func FromEnv(ctx context.Context) (FactoryResult, error) {
	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = "local"
	}

	switch driver {
	case "local":
		baseDir := envOr("LOCAL_UPLOAD_DIR", "./storage/uploads")
		publicURL := envOr("LOCAL_UPLOAD_URL", "http://localhost:8080/uploads")
		secret := os.Getenv("LOCAL_UPLOAD_SECRET")
		if secret == "" {
			return FactoryResult{}, fmt.Errorf("local storage config missing: LOCAL_UPLOAD_SECRET required")
		}
		return FactoryResult{Driver: "local", Signer: NewLocal(baseDir, publicURL, secret)}, nil

	case "s3":
		region := envOr("S3_REGION", "")
		bucket := envOr("S3_BUCKET", "")
		prefix := envOr("S3_PREFIX", "designs")
		if region == "" || bucket == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET required")
		}
		s, err := NewS3(ctx, S3Config{Region: region, Bucket: bucket, Prefix: prefix})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Signer: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
