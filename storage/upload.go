package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// ErrUploadFailed wird zurückgegeben, wenn der Objektspeicher den Upload ablehnt.
var ErrUploadFailed = errors.New("upload failed")

// uploadHint erklärt dem Admin die häufigste Ursache.
const uploadHint = "ודאו שהדלי (bucket) בשם %q קיים ומוגדר כציבורי באחסון"

// Uploader lädt Bilder aus dem Admin-Bereich in einen festen Bucket.
type Uploader struct {
	Client    ObjectAPI
	Bucket    string
	Prefix    string
	PublicURL func(key string) string
	Logger    *zap.Logger
	// Now ist austauschbar für Tests.
	Now func() time.Time
}

// NewUploader erstellt einen neuen Uploader.
func NewUploader(client ObjectAPI, bucket, prefix string, publicURL func(string) string, logger *zap.Logger) *Uploader {
	return &Uploader{
		Client:    client,
		Bucket:    bucket,
		Prefix:    prefix,
		PublicURL: publicURL,
		Logger:    logger,
		Now:       time.Now,
	}
}

// ObjectName erzeugt einen kollisionsarmen Objektnamen: Zeitstempel in Millisekunden
// plus Dateiname, in dem Leerraum durch "-" ersetzt ist.
func ObjectName(now time.Time, filename string) string {
	base := norm.NFC.String(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	base = strings.Join(strings.FieldsFunc(base, unicode.IsSpace), "-")
	if base == "" || base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// Upload legt die Datei ab und liefert ihre öffentliche URL.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	name := ObjectName(u.Now(), filename)
	key := name
	if u.Prefix != "" {
		key = strings.Trim(u.Prefix, "/") + "/" + name
	}
	log := u.Logger.With(zap.String("bucket", u.Bucket), zap.String("key", key))

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.Client.PutObject(ctx, input); err != nil {
		log.Error("Upload fehlgeschlagen", zap.Error(err))
		return "", fmt.Errorf("%w: %s: %v", ErrUploadFailed, fmt.Sprintf(uploadHint, u.Bucket), err)
	}
	log.Info("Datei hochgeladen", zap.Int("bytes", len(data)))
	return u.PublicURL(key), nil
}
