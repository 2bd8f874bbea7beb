package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

const archiveContentType = "application/json"

// JSONArchiver stores snapshots as JSON objects under prefix/<name>/<date>-<uuid>.json.
type JSONArchiver struct {
	uploader FileUploader
	prefix   string
	now      func() time.Time
}

func NewJSONArchiver(uploader FileUploader, prefix string) *JSONArchiver {
	return &JSONArchiver{uploader: uploader, prefix: prefix, now: time.Now}
}

// ArchiveKey builds a unique object key. Keys never collide, so an archive is never overwritten.
func (a *JSONArchiver) ArchiveKey(name string) string {
	file := fmt.Sprintf("%s-%s.json", a.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	return path.Join(a.prefix, name, file)
}

func (a *JSONArchiver) Archive(ctx context.Context, name string, payload interface{}) (*UploadResult, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive %q: %w", name, err)
	}
	return a.uploader.Upload(ctx, a.ArchiveKey(name), archiveContentType, bytes.NewReader(body))
}
