package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Archive legt komprimierte Sicherungsdateien im Objektspeicher ab und rotiert alte.
type Archive struct {
	Client ObjectAPI
	Bucket string
	Prefix string
	Keep   int
	Logger *zap.Logger
}

// NewArchive erstellt ein neues Archiv.
func NewArchive(client ObjectAPI, bucket, prefix string, keep int, logger *zap.Logger) *Archive {
	return &Archive{Client: client, Bucket: bucket, Prefix: prefix, Keep: keep, Logger: logger}
}

// ArchiveKey liefert den Objektschlüssel für eine Sicherung zum Zeitpunkt t.
func (a *Archive) ArchiveKey(t time.Time) string {
	return fmt.Sprintf("%sherbal-backup-%s.json.gz", a.Prefix, t.UTC().Format("2006-01-02T15-04-05Z"))
}

// Store komprimiert den JSON-Inhalt, lädt ihn hoch und rotiert danach alte Sicherungen.
func (a *Archive) Store(ctx context.Context, t time.Time, payload []byte) (string, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}

	key := a.ArchiveKey(t)
	_, err := a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(a.Bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	a.Logger.Info("Sicherung hochgeladen", zap.String("bucket", a.Bucket), zap.String("key", key))

	if err := a.Rotate(ctx); err != nil {
		return key, fmt.Errorf("rotate: %w", err)
	}
	return key, nil
}

// Rotate löscht alle Sicherungen außer den Keep neuesten.
func (a *Archive) Rotate(ctx context.Context) error {
	output, err := a.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.Bucket),
		Prefix: aws.String(a.Prefix),
	})
	if err != nil {
		return err
	}

	objects := output.Contents[:0:0]
	for _, obj := range output.Contents {
		if obj.Key != nil && strings.Contains(*obj.Key, "herbal-backup-") {
			objects = append(objects, obj)
		}
	}
	if a.Keep <= 0 || len(objects) <= a.Keep {
		a.Logger.Debug("Keine Rotation nötig", zap.Int("backups", len(objects)), zap.Int("keep", a.Keep))
		return nil
	}

	sort.Slice(objects, func(i, j int) bool {
		return aws.ToTime(objects[i].LastModified).After(aws.ToTime(objects[j].LastModified))
	})

	for _, obj := range objects[a.Keep:] {
		a.Logger.Info("Lösche altes Backup", zap.String("key", *obj.Key))
		_, err := a.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(a.Bucket),
			Key:    obj.Key,
		})
		if err != nil {
			a.Logger.Error("Fehler beim Löschen", zap.String("key", *obj.Key), zap.Error(err))
		}
	}
	return nil
}
