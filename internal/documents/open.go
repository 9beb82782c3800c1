package documents

import (
	"context"
	"fmt"
)

type Config struct {
	Driver string
	FSRoot string
	S3     S3Config
}

func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFilesystem, "":
		return NewFSStore(cfg.FSRoot)
	case DriverS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}
