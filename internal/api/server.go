package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"niftislice/internal/logger"
	"niftislice/pkg/nifti"
	"niftislice/pkg/normalize"
	"niftislice/pkg/slicer"
	"niftislice/pkg/visualization"
	"niftislice/pkg/volume"
)

// VolumeResponse describes the active volume
type VolumeResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name,omitempty"`
	LoadedAt time.Time   `json:"loadedAt"`
	Info     volume.Info `json:"info"`
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error details
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Server exposes slice rendering over HTTP
type Server struct {
	store          *VolumeStore
	log            logger.Logger
	maxUploadBytes int64
}

// NewServer creates a server over store. A maxUploadBytes of zero or less
// disables the upload limit.
func NewServer(store *VolumeStore, log logger.Logger, maxUploadBytes int64) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		store:          store,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register mounts the routes on e
func (s *Server) Register(e *echo.Echo) {
	e.GET("/api/volume", s.handleGetVolume)
	e.PUT("/api/volume", s.handlePutVolume)
	e.DELETE("/api/volume", s.handleDeleteVolume)
	e.GET("/api/volume/slices/:orientation/:index", s.handleGetSlice)
	e.GET("/api/volume/montage/:index", s.handleGetMontage)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, ErrorResponse{Error: ErrorBody{Type: errType, Message: msg}})
}

func writeNoVolume(c *echo.Context) error {
	return writeError(c, http.StatusNotFound, "not_found_error", slicer.ErrNoVolume.Error())
}

func writePNG(c *echo.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func volumeResponse(entry *Entry) VolumeResponse {
	return VolumeResponse{
		ID:       entry.ID,
		Name:     entry.Name,
		LoadedAt: entry.LoadedAt,
		Info:     entry.Volume.Describe(),
	}
}

func (s *Server) handleGetVolume(c *echo.Context) error {
	entry, ok := s.store.Active()
	if !ok {
		return writeNoVolume(c)
	}
	return c.JSON(http.StatusOK, volumeResponse(entry))
}

func (s *Server) handlePutVolume(c *echo.Context) error {
	req := c.Request()
	body := io.Reader(req.Body)
	if s.maxUploadBytes > 0 {
		body = io.LimitReader(req.Body, s.maxUploadBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
	}
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error",
			fmt.Sprintf("volume exceeds %d bytes", s.maxUploadBytes))
	}

	vol, err := volume.LoadBytes(data)
	if err != nil {
		errType := "invalid_request_error"
		switch {
		case errors.Is(err, nifti.ErrFormat), errors.Is(err, nifti.ErrDetachedImage):
			errType = "format_error"
		case errors.Is(err, normalize.ErrUnsupportedDatatype):
			errType = "unsupported_datatype_error"
		case errors.Is(err, normalize.ErrEmptyInput), errors.Is(err, volume.ErrShortBuffer):
			errType = "empty_input_error"
		}
		s.log.Warn("rejected volume upload", "error", err, "bytes", len(data))
		return writeError(c, http.StatusBadRequest, errType, err.Error())
	}

	entry := s.store.Replace(req.URL.Query().Get("name"), vol)
	s.log.Info("volume loaded", "id", entry.ID, "cols", vol.Cols(), "rows", vol.Rows(), "slices", vol.Slices())
	return c.JSON(http.StatusCreated, volumeResponse(entry))
}

func (s *Server) handleDeleteVolume(c *echo.Context) error {
	if !s.store.Clear() {
		return writeNoVolume(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// sliceIndex parses the :index parameter; "mid" selects the middle slice
func sliceIndex(c *echo.Context, vol *volume.Volume) (int, error) {
	raw := c.Param("index")
	if raw == "mid" {
		return vol.MiddleSlice(), nil
	}
	s, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", slicer.ErrInvalidSliceIndex, raw)
	}
	return s, nil
}

func (s *Server) handleGetSlice(c *echo.Context) error {
	entry, ok := s.store.Active()
	if !ok {
		return writeNoVolume(c)
	}

	o, err := slicer.ParseOrientation(c.Param("orientation"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
	}
	idx, err := sliceIndex(c, entry.Volume)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_slice_index_error", err.Error())
	}

	img, err := slicer.RenderSlice(entry.Volume, o, idx)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_slice_index_error", err.Error())
	}
	return writePNG(c, img)
}

func (s *Server) handleGetMontage(c *echo.Context) error {
	entry, ok := s.store.Active()
	if !ok {
		return writeNoVolume(c)
	}
	idx, err := sliceIndex(c, entry.Volume)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_slice_index_error", err.Error())
	}

	viewer := visualization.NewViewer(entry.Volume, visualization.Options{Label: c.QueryParam("label") == "true"})
	img, err := viewer.Montage(idx)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_slice_index_error", err.Error())
	}
	return writePNG(c, img)
}
