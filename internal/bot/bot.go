package bot

import "context"

// Publisher posts a finished clip somewhere outside the local filesystem.
type Publisher interface {
	Publish(ctx context.Context, filePath, caption string) error
}
