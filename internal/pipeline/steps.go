package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/imgmeta/internal/config"
	"github.com/nao1215/imgmeta/internal/extract"
	"github.com/nao1215/imgmeta/internal/imageinfo"
	"github.com/nao1215/imgmeta/internal/metadata"
	"github.com/nao1215/imgmeta/internal/model"
)

var (
	// ErrFileNotFound is returned by LoadStep when the path does not exist.
	// The wrapping error reads "the file <path> does not exist".
	ErrFileNotFound = errors.New("does not exist")

	// ErrNotRegularFile is returned when the path names a directory or
	// device.
	ErrNotRegularFile = errors.New("is not a regular file")

	// ErrFileTooLarge is returned when the file exceeds the size limit.
	ErrFileTooLarge = errors.New("exceeds the maximum file size")
)

// LoadStep reads the file into memory and hashes it.
//
// Design decision: The whole file is read once and shared by later steps.
// Both EXIF decoders and image.DecodeConfig need random access or a fresh
// reader, and images are small compared to the size limit.
type LoadStep struct {
	maxFileSize int64
	logger      *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithMaxFileSize rejects files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) LoadStepOption {
	return func(s *LoadStep) {
		s.maxFileSize = n
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		maxFileSize: config.DefaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do reads report.Path.
func (s *LoadStep) Do(_ context.Context, report *model.ImageReport) error {
	info, err := os.Stat(report.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("the file %s %w", report.Path, ErrFileNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", report.Path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s %w", report.Path, ErrNotRegularFile)
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return fmt.Errorf("%s (%d bytes) %w of %d bytes", report.Path, info.Size(), ErrFileTooLarge, s.maxFileSize)
	}

	data, err := os.ReadFile(report.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", report.Path, err)
	}

	sum := sha3.Sum256(data)
	report.Data = data
	report.FileSize = int64(len(data))
	report.Hash = hex.EncodeToString(sum[:])

	s.logger.Debug("file loaded", "file", report.Path, "size", report.FileSize)
	return nil
}

// PropertiesStep reads format-level image properties.
type PropertiesStep struct{}

// NewPropertiesStep creates a new properties step.
func NewPropertiesStep() *PropertiesStep {
	return &PropertiesStep{}
}

// Name returns the step name.
func (s *PropertiesStep) Name() string {
	return "properties"
}

// Do fills report.Properties. A file no decoder recognises is an error;
// a recognised but damaged header only produces a warning.
func (s *PropertiesStep) Do(_ context.Context, report *model.ImageReport) error {
	props, err := imageinfo.Read(report.Data)
	if err != nil {
		if errors.Is(err, imageinfo.ErrUnknownFormat) {
			return fmt.Errorf("%s: %w", report.Path, err)
		}
		report.AddWarning(err.Error())
	}
	report.Properties = &props
	return nil
}

// TagsStep decodes EXIF tags.
type TagsStep struct {
	fallback bool
	logger   *slog.Logger
}

// TagsStepOption configures a TagsStep.
type TagsStepOption func(*TagsStep)

// WithFallback enables or disables the lenient fallback decoder.
func WithFallback(enabled bool) TagsStepOption {
	return func(s *TagsStep) {
		s.fallback = enabled
	}
}

// WithTagsLogger sets a custom logger for the tags step.
func WithTagsLogger(logger *slog.Logger) TagsStepOption {
	return func(s *TagsStep) {
		s.logger = logger
	}
}

// NewTagsStep creates a new tags step.
func NewTagsStep(opts ...TagsStepOption) *TagsStep {
	s := &TagsStep{
		fallback: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *TagsStep) Name() string {
	return "tags"
}

// Do fills report.Tags. Missing or unreadable EXIF never fails the step.
func (s *TagsStep) Do(_ context.Context, report *model.ImageReport) error {
	opts := []metadata.Option{metadata.WithLogger(s.logger)}
	if !s.fallback {
		opts = append(opts, metadata.WithoutFallback())
	}

	tags, decoder, err := metadata.Extract(report.Data, opts...)
	switch {
	case errors.Is(err, metadata.ErrNoEXIF), errors.Is(err, metadata.ErrEmptyData):
		s.logger.Debug("no EXIF data", "file", report.Path)
		return nil
	case err != nil:
		report.AddWarning(err.Error())
		return nil
	}

	report.Decoder = decoder
	report.SetTags(tags)
	s.logger.Debug("tags decoded", "file", report.Path, "decoder", decoder, "count", tags.Len())
	return nil
}

// SectionsStep builds the printable sections and privacy findings, then
// drops the file contents from the report.
type SectionsStep struct {
	hideGPS bool
}

// NewSectionsStep creates a new sections step.
func NewSectionsStep(hideGPS bool) *SectionsStep {
	return &SectionsStep{hideGPS: hideGPS}
}

// Name returns the step name.
func (s *SectionsStep) Name() string {
	return "sections"
}

// Do fills report.Sections and report.Findings.
func (s *SectionsStep) Do(_ context.Context, report *model.ImageReport) error {
	extract.Build(report, extract.WithHideGPS(s.hideGPS))
	report.Data = nil
	return nil
}

// DefaultPipelineConfig holds the settings of the default pipeline.
type DefaultPipelineConfig struct {
	// MaxFileSize is the largest file LoadStep accepts, in bytes.
	MaxFileSize int64

	// Fallback enables the lenient EXIF decoder.
	Fallback bool

	// HideGPS redacts the GPS section.
	HideGPS bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMaxFileSize sets the file size limit.
func WithPipelineMaxFileSize(n int64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxFileSize = n
	}
}

// WithPipelineFallback enables or disables the fallback decoder.
func WithPipelineFallback(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Fallback = enabled
	}
}

// WithPipelineHideGPS redacts GPS output.
func WithPipelineHideGPS(hide bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.HideGPS = hide
	}
}

// DefaultPipeline creates the standard inspection pipeline:
// load, properties, tags, sections.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The rest configure the steps.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		MaxFileSize: config.DefaultMaxFileSize,
		Fallback:    true,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewLoadStep(WithMaxFileSize(cfg.MaxFileSize), WithLoadLogger(p.logger)),
		NewPropertiesStep(),
		NewTagsStep(WithFallback(cfg.Fallback), WithTagsLogger(p.logger)),
		NewSectionsStep(cfg.HideGPS),
	)
	return p
}
