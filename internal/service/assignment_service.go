package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/extract"
	"github.com/simcheck/simcheck/internal/model"
	appErr "github.com/simcheck/simcheck/internal/pkg/errors"
	"github.com/simcheck/simcheck/internal/repo"
)

// archiveMimes are container formats that legitimately back office
// documents; sniffing a docx yields application/zip.
var archiveMimes = map[string]struct{}{
	"application/zip":           {},
	"application/x-ole-storage": {},
}

type AssignmentService struct {
	assignments *repo.AssignmentRepo
	uploadDir   string
	maxSize     int64
}

func NewAssignmentService(assignments *repo.AssignmentRepo, uploadDir string, maxSizeMB int64) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		uploadDir:   uploadDir,
		maxSize:     maxSizeMB << 20,
	}
}

// Upload validates and persists one submitted document, returning the
// stored record. Validation rejects unsupported extensions, oversized
// files and payloads whose sniffed type contradicts the extension.
func (s *AssignmentService) Upload(ctx context.Context, title string, header *multipart.FileHeader) (*model.Assignment, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !extract.SupportedExt(ext) {
		return nil, fmt.Errorf("%w: unsupported extension .%s", appErr.ErrInvalidFile, ext)
	}
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit", appErr.ErrFileTooLarge, header.Size)
	}
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: payload exceeds limit", appErr.ErrFileTooLarge)
	}
	if err := checkMime(data, ext); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	storedName := id + "_" + sanitizeFilename(header.Filename)
	path := filepath.Join(s.uploadDir, storedName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}
	assignment := &model.Assignment{
		ID:       id,
		Title:    title,
		Filename: header.Filename,
		FilePath: path,
		Ext:      ext,
		Size:     int64(len(data)),
		Ctime:    time.Now().Unix(),
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		os.Remove(path)
		return nil, err
	}
	logutil.GetLogger(ctx).Info("assignment uploaded",
		zap.String("id", id), zap.String("filename", header.Filename), zap.Int64("size", assignment.Size))
	return assignment, nil
}

func (s *AssignmentService) Get(ctx context.Context, id string) (*model.Assignment, error) {
	return s.assignments.Get(ctx, id)
}

func (s *AssignmentService) List(ctx context.Context) ([]*model.Assignment, error) {
	return s.assignments.List(ctx)
}

// Delete removes the record and its stored file. A missing file on disk is
// logged, not fatal: the record is the source of truth.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	assignment, err := s.assignments.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	if err := os.Remove(assignment.FilePath); err != nil && !os.IsNotExist(err) {
		logutil.GetLogger(ctx).Warn("remove assignment file failed",
			zap.String("path", assignment.FilePath), zap.Error(err))
	}
	return nil
}

// checkMime sniffs the payload and rejects obvious mismatches, e.g. an
// executable renamed to .pdf. Text-like formats sniff loosely, so only
// clearly binary contradictions fail.
func checkMime(data []byte, ext string) error {
	detected := mimetype.Detect(data)
	switch ext {
	case "pdf":
		if !detected.Is("application/pdf") {
			return fmt.Errorf("%w: content is %s, not pdf", appErr.ErrInvalidFile, detected.String())
		}
	case "docx", "doc":
		if _, ok := archiveMimes[detected.String()]; !ok && !strings.HasPrefix(detected.String(), "application/vnd") {
			return fmt.Errorf("%w: content is %s, not an office document", appErr.ErrInvalidFile, detected.String())
		}
	case "txt", "md":
		if !strings.HasPrefix(detected.String(), "text/") && detected.String() != "application/octet-stream" {
			return fmt.Errorf("%w: content is %s, not text", appErr.ErrInvalidFile, detected.String())
		}
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
