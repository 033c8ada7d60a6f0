package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// errContentIsVideo marks a file whose extension lied about its content
var errContentIsVideo = errors.New("content is a video container")

// OptimizeService runs the scaler over files and directories
type OptimizeService struct {
	fs      afero.Fs
	codecs  ports.CodecRegistry
	sniffer ports.Sniffer
	scaler  *Scaler
	log     logrus.FieldLogger
}

// NewOptimizeService creates a new optimize service
func NewOptimizeService(fs afero.Fs, codecs ports.CodecRegistry, sniffer ports.Sniffer, scaler *Scaler, log logrus.FieldLogger) *OptimizeService {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &OptimizeService{
		fs:      fs,
		codecs:  codecs,
		sniffer: sniffer,
		scaler:  scaler,
		log:     log,
	}
}

// OptimizeRequest represents a request to optimize a file or directory
type OptimizeRequest struct {
	InputPath    string
	OutputDir    string
	MaxDimension int
	MaxGIFBytes  int64
	Naming       domain.Naming

	// OnResult is called after each file, in processing order
	OnResult func(domain.FileResult)
}

// OptimizeResponse represents the outcome of a batch
type OptimizeResponse struct {
	Results []domain.FileResult
	Summary domain.BatchSummary
}

// Videos returns the paths of skipped video files
func (r *OptimizeResponse) Videos() []string {
	var videos []string
	for _, res := range r.Results {
		if res.Kind == domain.KindVideo {
			videos = append(videos, res.Path)
		}
	}
	return videos
}

// Execute processes every candidate file sequentially. A failing file is
// recorded and the batch moves on; only an unusable output directory or
// an unreadable input path aborts the whole run.
func (s *OptimizeService) Execute(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	files, err := s.Discover(req.InputPath)
	if err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDestinationUnwritable, req.OutputDir, err)
	}

	resp := &OptimizeResponse{}
	for _, path := range files {
		// Cancellation is honoured between files only
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		result := s.ProcessFile(path, req)
		resp.Results = append(resp.Results, result)
		resp.Summary.Add(result)

		if req.OnResult != nil {
			req.OnResult(result)
		}
	}

	return resp, nil
}

func (s *OptimizeService) validate(req OptimizeRequest) error {
	if req.InputPath == "" {
		return errors.New("input path is required")
	}
	if req.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if req.MaxDimension <= 0 {
		return fmt.Errorf("max dimension must be positive, got %d", req.MaxDimension)
	}
	if req.MaxGIFBytes <= 0 {
		return fmt.Errorf("max gif size must be positive, got %d", req.MaxGIFBytes)
	}
	if req.Naming != "" && !req.Naming.IsValid() {
		return fmt.Errorf("unknown naming convention %q", req.Naming)
	}
	return nil
}

// Discover lists the files to consider. A directory is scanned one level
// deep in name order; a file is returned as-is.
func (s *OptimizeService) Discover(inputPath string) ([]string, error) {
	info, err := s.fs.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreadable, err)
	}
	if !info.IsDir() {
		return []string{inputPath}, nil
	}

	entries, err := afero.ReadDir(s.fs, inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(inputPath, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Candidates filters discovered files down to those the registry can process
func (s *OptimizeService) Candidates(inputPath string) ([]string, error) {
	files, err := s.Discover(inputPath)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, f := range files {
		switch s.codecs.Classify(filepath.Ext(f)) {
		case domain.KindImage, domain.KindAnimated:
			out = append(out, f)
		}
	}
	return out, nil
}

// ProcessFile optimizes a single file. Errors are reported in the result,
// never returned, so callers can continue with the next file.
func (s *OptimizeService) ProcessFile(path string, req OptimizeRequest) domain.FileResult {
	return s.run(path, req, s.process, "File optimized")
}

// InspectFile decodes a file and computes the output size it would get,
// without writing anything
func (s *OptimizeService) InspectFile(path string, req OptimizeRequest) domain.FileResult {
	return s.run(path, req, s.inspect, "File inspected")
}

// Inspect runs InspectFile over every discovered file
func (s *OptimizeService) Inspect(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	files, err := s.Discover(req.InputPath)
	if err != nil {
		return nil, err
	}

	resp := &OptimizeResponse{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		result := s.InspectFile(path, req)
		resp.Results = append(resp.Results, result)
		resp.Summary.Add(result)
	}
	return resp, nil
}

type stepFunc func(path string, req OptimizeRequest, result *domain.FileResult, log logrus.FieldLogger) error

func (s *OptimizeService) run(path string, req OptimizeRequest, step stepFunc, done string) domain.FileResult {
	ext := filepath.Ext(path)
	result := domain.FileResult{
		Path:   path,
		Kind:   s.codecs.Classify(ext),
		Factor: 1,
	}
	log := s.log.WithField("file", path)

	switch result.Kind {
	case domain.KindVideo:
		log.Info("Skipping video file")
		result.Status = domain.StatusSkipped
		return result
	case domain.KindUnsupported:
		log.Debug("Skipping unsupported file")
		result.Status = domain.StatusSkipped
		result.Err = fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
		return result
	}

	if err := step(path, req, &result, log); err != nil {
		if errors.Is(err, errContentIsVideo) {
			log.Warn("Skipping file with video content")
			result.Kind = domain.KindVideo
			result.Status = domain.StatusSkipped
			result.Err = err
			return result
		}
		log.WithError(err).Error("Failed to read or write file")
		result.Status = domain.StatusFailed
		result.Err = err
		return result
	}

	result.Status = domain.StatusProcessed
	log.WithFields(logrus.Fields{
		"factor": result.Factor,
		"frames": result.Frames,
		"bytes":  result.OutputBytes,
	}).Debug(done)
	return result
}

func (s *OptimizeService) process(path string, req OptimizeRequest, result *domain.FileResult, log logrus.FieldLogger) error {
	dest := filepath.Join(req.OutputDir, req.Naming.OutputName(path))
	if filepath.Clean(dest) == filepath.Clean(path) {
		return fmt.Errorf("output %s would overwrite the source", dest)
	}

	// 1. Read, sniff and decode
	codec, asset, constraint, err := s.load(path, req, result)
	if err != nil {
		return err
	}

	// 2. Scale
	out, plan, err := s.scaler.Fit(asset, constraint, result.InputBytes)
	if err != nil {
		return err
	}
	result.Factor = plan.Factor
	result.OutWidth, result.OutHeight = out.Bounds()

	log.WithFields(logrus.Fields{
		"constraint": constraint.String(),
		"factor":     plan.Factor,
	}).Debug("Scale planned")

	// 3. Encode into the output directory
	if err := s.write(codec, out, dest); err != nil {
		return err
	}
	result.OutputPath = dest

	if info, err := s.fs.Stat(dest); err == nil {
		result.OutputBytes = info.Size()
	}

	return nil
}

func (s *OptimizeService) inspect(path string, req OptimizeRequest, result *domain.FileResult, log logrus.FieldLogger) error {
	_, asset, constraint, err := s.load(path, req, result)
	if err != nil {
		return err
	}

	plan, err := s.scaler.Plan(asset, constraint, result.InputBytes)
	if err != nil {
		return err
	}
	result.Factor = plan.Factor
	result.OutWidth, result.OutHeight = result.InWidth, result.InHeight
	if !plan.IsIdentity() {
		result.OutWidth, result.OutHeight = ScaledSize(result.InWidth, result.InHeight, plan.Factor)
	}
	return nil
}

// load reads, sniffs and decodes a source file and picks its constraint
func (s *OptimizeService) load(path string, req OptimizeRequest, result *domain.FileResult) (ports.Codec, *domain.RasterAsset, domain.SizeConstraint, error) {
	codec, ok := s.codecs.Lookup(filepath.Ext(path))
	if !ok {
		return nil, nil, domain.SizeConstraint{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, nil, domain.SizeConstraint{}, fmt.Errorf("%w: %v", domain.ErrSourceUnreadable, err)
	}
	result.InputBytes = int64(len(data))

	if s.sniffer.Sniff(data) == domain.KindVideo {
		return nil, nil, domain.SizeConstraint{}, errContentIsVideo
	}

	asset, err := s.decode(codec, data)
	if err != nil {
		return nil, nil, domain.SizeConstraint{}, err
	}
	result.Frames = len(asset.Frames)
	result.InWidth, result.InHeight = asset.Bounds()

	constraint := domain.MaxDimensionConstraint(req.MaxDimension)
	if codec.Kind() == domain.KindAnimated {
		constraint = domain.MaxByteSizeConstraint(req.MaxGIFBytes)
	}
	return codec, asset, constraint, nil
}

func (s *OptimizeService) decode(codec ports.Codec, data []byte) (*domain.RasterAsset, error) {
	src, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnreadable, err)
	}
	defer src.Close()

	return CollectFrames(src)
}

// write encodes into a temporary file beside dest and renames it into
// place, so a failed encode leaves no partial output
func (s *OptimizeService) write(codec ports.Codec, asset *domain.RasterAsset, dest string) (err error) {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(dest), ".folio-*"+filepath.Ext(dest))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if err = codec.Encode(tmp, asset); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(dest), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	if err = s.fs.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func isHidden(name string) bool {
	return len(name) > 0 && (name[0] == '.' || name[0] == '~')
}
