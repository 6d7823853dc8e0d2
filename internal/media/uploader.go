// Package media uploads product images to object storage.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/multierr"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/imaging"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/metrics"
)

const objectPrefix = "products/"

var errTooLarge = errors.New("file exceeds upload limit")

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

type uploadMetrics interface {
	IncUpload(result string)
}

// File is one uploaded part.
type File struct {
	Name string
	Body io.Reader
}

// Report lists the public URLs of the files that made it to storage, in
// upload order. Failed files are absent.
type Report struct {
	URLs []string `json:"urls"`
}

type Service struct {
	store   objectStore
	metrics uploadMetrics
	logg    *logger.Logger
	opts    imaging.Options
	maxSize int64
	now     func() time.Time
}

func NewService(store objectStore, cfg config.MediaConfig, m uploadMetrics, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		store:   store,
		metrics: m,
		logg:    logg,
		opts: imaging.Options{
			MaxWidth:  cfg.ImageMaxWidth,
			MaxHeight: cfg.ImageMaxHeight,
			Quality:   cfg.ImageQuality,
		},
		maxSize: cfg.MaxUploadBytes(),
		now:     time.Now,
	}
}

// Upload stores each file in turn under products/<unix-ms>-<name>. A file
// that cannot be read, decoded or stored is logged and skipped; the rest
// still go through.
func (s *Service) Upload(ctx context.Context, files []File) Report {
	report := Report{URLs: []string{}}
	var failures error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			failures = multierr.Append(failures, err)
			break
		}
		url, err := s.uploadOne(ctx, file)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("%s: %w", file.Name, err))
			s.count(metrics.ResultFailure)
			continue
		}
		report.URLs = append(report.URLs, url)
		s.count(metrics.ResultSuccess)
	}
	if failures != nil {
		fields := map[string]any{
			"failed":   len(multierr.Errors(failures)),
			"uploaded": len(report.URLs),
		}
		s.logg.Error(s.logg.WithFields(ctx, fields), "media.upload_partial_failure", failures)
	}
	return report
}

func (s *Service) uploadOne(ctx context.Context, file File) (string, error) {
	if file.Body == nil {
		return "", imaging.ErrEmpty
	}
	data, err := io.ReadAll(io.LimitReader(file.Body, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", errTooLarge
	}
	processed, err := imaging.Process(data, s.opts)
	if err != nil {
		return "", err
	}
	object := ObjectName(s.now(), file.Name, processed.Extension)
	return s.store.Upload(ctx, object, processed.ContentType, bytes.NewReader(processed.Data))
}

func (s *Service) count(result string) {
	if s.metrics != nil {
		s.metrics.IncUpload(result)
	}
}

// ObjectName builds products/<unix-ms>-<name>. The name is reduced to a
// safe base name and its extension follows the stored content.
func ObjectName(at time.Time, name, ext string) string {
	base := safeName(name)
	if ext != "" {
		current := path.Ext(base)
		if !strings.EqualFold(current, ext) && !(ext == ".jpg" && strings.EqualFold(current, ".jpeg")) {
			base = strings.TrimSuffix(base, current) + ext
		}
	}
	return objectPrefix + strconv.FormatInt(at.UnixMilli(), 10) + "-" + base
}

func safeName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "image"
	}
	return out
}
