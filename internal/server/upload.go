package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/analyzer"
	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/resume/extract"
)

const formField = "resume"

var (
	errNoFile       = echo.NewHTTPError(http.StatusBadRequest, "No resume file provided")
	errNoSelection  = echo.NewHTTPError(http.StatusBadRequest, "No file selected")
	errInvalidType  = echo.NewHTTPError(http.StatusBadRequest, "Invalid file type. Only PDF and DOCX allowed")
	errFileTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge)
)

func (s *Server) analyzeResume(c echo.Context) error {
	header, err := s.uploadedFile(c)
	if err != nil {
		return err
	}

	filename := filepath.Base(header.Filename)
	kind, err := extract.KindFromFilename(filename)
	if err != nil || !s.allowed(kind) {
		return errInvalidType
	}

	log := logger.WithDocumentFields(s.logger,
		c.Response().Header().Get(echo.HeaderXRequestID), filename, string(kind))

	data, err := s.spool(header, kind)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return errFileTooLarge
		}
		return &analysisError{code: http.StatusInternalServerError, err: err}
	}

	report, err := s.analyzer.AnalyzeFile(c.Request().Context(), filename, data)
	if err != nil {
		return classify(err)
	}

	log.Info("resume analyzed",
		zap.Int("ats_score", report.ATSScore),
		zap.Int("word_count", report.WordCount),
		zap.String("suggestion_source", report.SuggestionSource),
	)

	return c.JSON(http.StatusOK, report)
}

func (s *Server) uploadedFile(c echo.Context) (*multipart.FileHeader, error) {
	header, err := c.FormFile(formField)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile):
		// A part sent without a file name is parsed as a plain value.
		if form := c.Request().MultipartForm; form != nil {
			if _, ok := form.Value[formField]; ok {
				return nil, errNoSelection
			}
		}
		return nil, errNoFile
	case isTooLarge(err):
		return nil, errFileTooLarge
	default:
		return nil, errNoFile
	}

	if strings.TrimSpace(header.Filename) == "" {
		return nil, errNoSelection
	}
	if s.cfg.MaxFileSize > 0 && header.Size > s.cfg.MaxFileSize {
		return nil, errFileTooLarge
	}
	return header, nil
}

// spool copies the upload into a temporary file under the upload directory,
// reads it back and removes it.
func (s *Server) spool(header *multipart.FileHeader, kind extract.Kind) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := s.cfg.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.CreateTemp(dir, "resume-*."+string(kind))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(dst.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Warn("remove temp file", zap.String("path", dst.Name()), zap.Error(rmErr))
		}
	}()

	var reader io.Reader = src
	if s.cfg.MaxFileSize > 0 {
		reader = io.LimitReader(src, s.cfg.MaxFileSize+1)
	}
	written, err := io.Copy(dst, reader)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if s.cfg.MaxFileSize > 0 && written > s.cfg.MaxFileSize {
		return nil, errFileTooLarge
	}

	data, err := os.ReadFile(dst.Name())
	if err != nil {
		return nil, fmt.Errorf("read temp file: %w", err)
	}
	return data, nil
}

func (s *Server) allowed(kind extract.Kind) bool {
	return len(s.cfg.AllowedKinds) == 0 || slices.Contains(s.cfg.AllowedKinds, kind)
}

func classify(err error) error {
	var (
		inputErr   *analyzer.InputError
		extractErr *extract.ExtractionError
	)

	switch {
	case errors.As(err, &inputErr):
		return echo.NewHTTPError(http.StatusBadRequest, inputErr.Reason).SetInternal(err)
	case errors.As(err, &extractErr), errors.Is(err, extract.ErrUnsupportedFormat):
		return &analysisError{code: http.StatusBadRequest, err: err}
	default:
		return &analysisError{code: http.StatusInternalServerError, err: err}
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.Is(err, echo.ErrStatusRequestEntityTooLarge) || errors.As(err, &maxErr)
}
