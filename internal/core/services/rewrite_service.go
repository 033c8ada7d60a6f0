package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// UploadMarker is the CDN path segment that optimization parameters follow
const UploadMarker = "/upload/"

var videoSrcPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mov|ogg)$`)

// ErrNoRecords is returned when the records directory holds no record files
var ErrNoRecords = errors.New("no record files found")

// URLRewriter adds width/format/quality parameters to CDN URLs
type URLRewriter struct {
	cdnBase string
}

// NewURLRewriter creates a rewriter for URLs containing cdnBase
// (for example "res.cloudinary.com/<cloud>")
func NewURLRewriter(cdnBase string) *URLRewriter {
	return &URLRewriter{cdnBase: cdnBase}
}

// IsCDNURL reports whether url points at the configured CDN
func (u *URLRewriter) IsCDNURL(url string) bool {
	return url != "" && u.cdnBase != "" && strings.Contains(url, u.cdnBase)
}

// IsOptimized reports whether url already requests automatic format or quality
func IsOptimized(url string) bool {
	return strings.Contains(url, "f_auto") || strings.Contains(url, "q_auto")
}

// IsVideoSrc reports whether a media entry is a video, by explicit type
// or by file extension
func IsVideoSrc(src, mediaType string) bool {
	return mediaType == "video" || videoSrcPattern.MatchString(src)
}

// Params returns the parameter segment inserted for a width
func Params(width int) string {
	return fmt.Sprintf("w_%d,f_auto,q_auto", width)
}

// Rewrite inserts the parameter segment after every upload marker. URLs
// that are not on the CDN, are already optimized or have no marker are
// returned unchanged.
func (u *URLRewriter) Rewrite(url string, width int) string {
	if !u.IsCDNURL(url) || IsOptimized(url) {
		return url
	}
	if !strings.Contains(url, UploadMarker) {
		return url
	}
	return strings.ReplaceAll(url, UploadMarker, UploadMarker+Params(width)+"/")
}

// RewriteWidths are the target widths per field context
type RewriteWidths struct {
	Preview      int
	ContentImage int
	ContentVideo int
	Profile      int
}

// RewriteService rewrites CDN URLs inside record files
type RewriteService struct {
	repo     ports.RecordRepository
	rewriter *URLRewriter
	widths   RewriteWidths
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewRewriteService creates a new rewrite service
func NewRewriteService(repo ports.RecordRepository, rewriter *URLRewriter, widths RewriteWidths, log logrus.FieldLogger) *RewriteService {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &RewriteService{
		repo:     repo,
		rewriter: rewriter,
		widths:   widths,
		now:      time.Now,
		log:      log,
	}
}

// RewriteRequest represents a request to rewrite all records
type RewriteRequest struct {
	DryRun       bool
	IncludeAbout bool

	// OnResult is called after each record
	OnResult func(domain.RecordResult)
}

// RewriteResponse represents the outcome of a rewrite run
type RewriteResponse struct {
	Results   []domain.RecordResult
	BackupDir string
	Processed int
	Modified  int
	Failed    int
}

// Execute backs up every record file, then rewrites each one in place if
// any of its URLs changed. A malformed record is reported and skipped.
func (s *RewriteService) Execute(ctx context.Context, req RewriteRequest) (*RewriteResponse, error) {
	paths, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoRecords
	}

	aboutPath := ""
	if req.IncludeAbout {
		if p, ok := s.repo.AboutPath(ctx); ok {
			aboutPath = p
			paths = append(paths, p)
		}
	}

	resp := &RewriteResponse{}

	// Nothing is touched until every file has a verbatim copy
	if !req.DryRun {
		dir, err := s.repo.Backup(ctx, paths, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to back up records: %w", err)
		}
		resp.BackupDir = dir
		s.log.WithFields(logrus.Fields{"dir": dir, "files": len(paths)}).Info("Records backed up")
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		result := s.rewriteFile(ctx, path, path == aboutPath, req.DryRun)
		resp.Results = append(resp.Results, result)
		resp.Processed++
		if result.Err != nil {
			resp.Failed++
		} else if result.Modified {
			resp.Modified++
		}

		if req.OnResult != nil {
			req.OnResult(result)
		}
	}

	return resp, nil
}

func (s *RewriteService) rewriteFile(ctx context.Context, path string, isAbout, dryRun bool) domain.RecordResult {
	result := domain.RecordResult{Path: path}
	log := s.log.WithField("record", path)

	record, err := s.repo.Read(ctx, path)
	if err != nil {
		log.WithError(err).Warn("Skipping record")
		result.Err = err
		return result
	}

	if isAbout {
		result.Changes, result.AlreadyOptimized = s.RewriteAbout(record.Root)
	} else {
		result.Changes, result.AlreadyOptimized = s.RewriteProject(record.Root)
	}
	result.Modified = len(result.Changes) > 0

	if !result.Modified || dryRun {
		return result
	}

	if err := s.repo.Write(ctx, record); err != nil {
		log.WithError(err).Error("Failed to write record")
		result.Err = err
	}
	return result
}

// RewriteProject rewrites the URL fields of a project record in place and
// returns the changes plus the number of CDN URLs that were already optimized
func (s *RewriteService) RewriteProject(root *domain.Object) ([]domain.URLChange, int) {
	var changes []domain.URLChange
	already := 0

	track := func(field domain.URLField, index int, before, after string, width int) {
		if before != after {
			changes = append(changes, domain.URLChange{Field: field, Index: index, Before: before, After: after, Width: width})
		} else if s.rewriter.IsCDNURL(before) && IsOptimized(before) {
			already++
		}
	}

	if src, ok := root.StringAt("previewImage"); ok && s.rewriter.IsCDNURL(src) {
		after := s.rewriter.Rewrite(src, s.widths.Preview)
		root.Set("previewImage", after)
		track(domain.FieldPreviewImage, -1, src, after, s.widths.Preview)
	}

	content, ok := root.Object("content")
	if !ok {
		return changes, already
	}

	if media, ok := content.Array("media"); ok {
		for i, item := range media {
			entry, ok := item.(*domain.Object)
			if !ok {
				continue
			}
			src, ok := entry.StringAt("src")
			if !ok || !s.rewriter.IsCDNURL(src) {
				continue
			}
			mediaType, _ := entry.StringAt("type")
			width := s.widths.ContentImage
			if IsVideoSrc(src, mediaType) {
				width = s.widths.ContentVideo
			}
			after := s.rewriter.Rewrite(src, width)
			entry.Set("src", after)
			track(domain.FieldContentMedia, i, src, after, width)
		}
	}

	if images, ok := content.Array("images"); ok {
		for i, item := range images {
			entry, ok := item.(*domain.Object)
			if !ok {
				continue
			}
			src, ok := entry.StringAt("src")
			if !ok || !s.rewriter.IsCDNURL(src) {
				continue
			}
			after := s.rewriter.Rewrite(src, s.widths.ContentImage)
			entry.Set("src", after)
			track(domain.FieldContentImage, i, src, after, s.widths.ContentImage)
		}
	}

	return changes, already
}

// RewriteAbout rewrites profile.image of the about record
func (s *RewriteService) RewriteAbout(root *domain.Object) ([]domain.URLChange, int) {
	profile, ok := root.Object("profile")
	if !ok {
		return nil, 0
	}
	src, ok := profile.StringAt("image")
	if !ok || !s.rewriter.IsCDNURL(src) {
		return nil, 0
	}

	after := s.rewriter.Rewrite(src, s.widths.Profile)
	if after == src {
		if IsOptimized(src) {
			return nil, 1
		}
		return nil, 0
	}
	profile.Set("image", after)
	return []domain.URLChange{{Field: domain.FieldProfileImage, Index: -1, Before: src, After: after, Width: s.widths.Profile}}, 0
}

// PruneBackups removes all but the newest keep backup directories and
// returns the removed ones
func (s *RewriteService) PruneBackups(ctx context.Context, keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	dirs, err := s.repo.ListBackups(ctx)
	if err != nil {
		return nil, err
	}
	if len(dirs) <= keep {
		return nil, nil
	}

	var removed []string
	for _, dir := range dirs[:len(dirs)-keep] {
		if err := s.repo.RemoveBackup(ctx, dir); err != nil {
			return removed, err
		}
		s.log.WithField("dir", dir).Debug("Backup removed")
		removed = append(removed, dir)
	}
	return removed, nil
}
