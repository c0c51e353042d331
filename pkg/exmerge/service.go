package exmerge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/codec"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/models"
	"github.com/ukaji3/exmerge-go/pkg/exmerge/store"
)

// Logger is the logging surface the service needs.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{}) {}
func (nopLogger) Warn(string, map[string]interface{}) {}

// ServiceOptions wires the collaborators of a Service.
type ServiceOptions struct {
	Store   store.Store
	Options Options
	// Names generates result file names. Defaults to RandomName.
	Names NameGenerator
	// Logger defaults to a no-op logger.
	Logger Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service implements the template upload, delete and merge operations on top
// of a template store.
type Service struct {
	store store.Store
	opts  Options
	names NameGenerator
	log   Logger
	now   func() time.Time
}

// NewService creates a Service.
func NewService(o ServiceOptions) (*Service, error) {
	if o.Store == nil {
		return nil, errors.New("exmerge: template store is required")
	}
	s := &Service{
		store: o.Store,
		opts:  o.Options,
		names: o.Names,
		log:   o.Logger,
		now:   o.Now,
	}
	if s.names == nil {
		s.names = RandomName
	}
	if s.log == nil {
		s.log = nopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// TargetSheet returns the template sheet merges write into.
func (s *Service) TargetSheet() string {
	return s.opts.targetSheet()
}

// UploadTemplate validates data as a workbook containing the target sheet and
// stores it, replacing any previous template. An invalid upload leaves the
// stored template untouched.
func (s *Service) UploadTemplate(ctx context.Context, data []byte, filename string) (models.Template, error) {
	if len(data) == 0 {
		return models.Template{}, &MissingFileError{Field: "template"}
	}

	wb, err := codec.Decode(data)
	if err != nil {
		return models.Template{}, &DecodeError{Input: "template", Err: err}
	}
	hasSheet := wb.HasSheet(s.TargetSheet())
	wb.Close()
	if !hasSheet {
		return models.Template{}, &SheetMissingError{Sheet: s.TargetSheet()}
	}

	tpl := models.Template{
		ID:         uuid.NewString(),
		Name:       SanitizeFilename(filename),
		Data:       append([]byte(nil), data...),
		UploadedAt: s.now().UTC(),
	}
	if err := s.store.Set(ctx, tpl); err != nil {
		return models.Template{}, fmt.Errorf("store template: %w", err)
	}

	s.log.Info("template uploaded", map[string]interface{}{
		"id":       tpl.ID,
		"filename": tpl.Name,
		"bytes":    len(tpl.Data),
	})
	return tpl, nil
}

// DeleteTemplate removes the stored template. Deleting when nothing is stored is not an error.
func (s *Service) DeleteTemplate(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear template: %w", err)
	}
	s.log.Info("template deleted", nil)
	return nil
}

// CurrentTemplate returns the stored template or ErrNoTemplate.
func (s *Service) CurrentTemplate(ctx context.Context) (models.Template, error) {
	tpl, err := s.store.Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return models.Template{}, ErrNoTemplate
	}
	if err != nil {
		return models.Template{}, fmt.Errorf("load template: %w", err)
	}
	return tpl, nil
}

// HasTemplate reports whether a template is stored.
func (s *Service) HasTemplate(ctx context.Context) (bool, error) {
	return s.store.Has(ctx)
}

// Merge merges file1 and file2 into the stored template.
func (s *Service) Merge(ctx context.Context, file1, file2 []byte) (*models.MergeResult, error) {
	tpl, err := s.CurrentTemplate(ctx)
	if err != nil {
		return nil, err
	}
	if len(file1) == 0 {
		return nil, &MissingFileError{Field: "file1"}
	}
	if len(file2) == 0 {
		return nil, &MissingFileError{Field: "file2"}
	}

	result, err := MergeContext(ctx, tpl.Data, file1, file2, s.TargetSheet())
	if err != nil {
		s.log.Warn("merge failed", map[string]interface{}{
			"template": tpl.Name,
			"code":     string(CodeOf(err)),
			"error":    err.Error(),
		})
		return nil, err
	}

	name, err := s.names()
	if err != nil {
		return nil, fmt.Errorf("generate file name: %w", err)
	}
	result.FileName = name

	s.log.Info("files merged", map[string]interface{}{
		"template":  tpl.Name,
		"filename":  name,
		"rowsFile1": result.RowsFromSource1,
		"rowsFile2": result.RowsFromSource2,
	})
	return result, nil
}

// Ready reports whether the template store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("template store unavailable: %w", err)
	}
	return nil
}

// Health reports liveness. It never fails.
func (s *Service) Health() string {
	return "healthy"
}
