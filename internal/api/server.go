package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ripo/internal/logger"
	"github.com/samcharles93/ripo/internal/report"
	"github.com/samcharles93/ripo/internal/thin"
	"github.com/samcharles93/ripo/pkg/fat"
)

// DefaultMaxUploadBytes bounds request bodies when Config leaves it unset.
const DefaultMaxUploadBytes int64 = 256 << 20

const mimeOctetStream = "application/octet-stream"

type Config struct {
	MaxUploadBytes int64
	Logger         logger.Logger
}

type Server struct {
	store     *ContainerStore
	maxUpload int64
	log       logger.Logger
	clock     func() time.Time
}

func NewServer(store *ContainerStore, cfg Config) *Server {
	if store == nil {
		store = NewContainerStore()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &Server{
		store:     store,
		maxUpload: cfg.MaxUploadBytes,
		log:       cfg.Logger.With("component", "api"),
		clock:     time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/containers", s.handleUpload)
	e.GET("/v1/containers", s.handleList)
	e.GET("/v1/containers/:id", s.handleGet)
	e.DELETE("/v1/containers/:id", s.handleDelete)
	e.GET("/v1/containers/:id/slices/:arch", s.handleSlice)
	e.POST("/v1/build", s.handleBuild)
}

func (s *Server) handleUpload(c *echo.Context) error {
	data, err := s.readBody(c)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error",
				fmt.Sprintf("container larger than %d bytes", s.maxUpload))
		}
		return writeBadRequest(c, err.Error())
	}
	name := c.Request().Header.Get("X-Ripo-Name")
	rec, err := s.store.Add(name, data, s.clock())
	if err != nil {
		return writeFatError(c, err)
	}
	s.log.Info("stored container", "id", rec.ID, "name", name, "size", len(data), "arches", len(rec.File.Arches))
	return c.JSON(http.StatusOK, containerResponse(rec))
}

func (s *Server) handleList(c *echo.Context) error {
	recs := s.store.List()
	list := ContainerList{Object: "list", Data: make([]ContainerSummary, 0, len(recs))}
	for _, rec := range recs {
		names := make([]string, len(rec.File.Arches))
		for i, a := range rec.File.Arches {
			names[i] = a.String()
		}
		list.Data = append(list.Data, ContainerSummary{
			ID:        rec.ID,
			Object:    "container",
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt.Unix(),
			Size:      int64(len(rec.Data)),
			Arches:    names,
		})
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGet(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "container not found")
	}
	return c.JSON(http.StatusOK, containerResponse(rec))
}

func (s *Server) handleDelete(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "container not found")
	}
	return c.JSON(http.StatusOK, DeleteContainerResp{
		ID:      id,
		Object:  "container",
		Deleted: true,
	})
}

func (s *Server) handleSlice(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "container not found")
	}
	idx, err := thin.Find(rec.File.Arches, c.Param("arch"))
	if err != nil {
		if errors.Is(err, thin.ErrArchNotFound) {
			return writeNotFound(c, err.Error())
		}
		// Unparseable selector.
		return writeBadRequest(c, err.Error())
	}
	a := rec.File.Arches[idx]
	// Own reader per request: downloads never share a cursor.
	data, err := fat.Extract(bytes.NewReader(rec.Data), a)
	if err != nil {
		return writeFatError(c, err)
	}
	filename := a.String()
	if rec.Name != "" {
		filename = rec.Name + "." + filename
	}
	return writeBytes(c, filename, data)
}

func (s *Server) handleBuild(c *echo.Context) error {
	body, err := s.readBody(c)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", "build request too large")
		}
		return writeBadRequest(c, err.Error())
	}
	req, err := decodeJSON[BuildRequest](bytes.NewReader(body))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	entries, err := buildEntries(req)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	out, err := fat.Build(entries)
	if err != nil {
		return writeFatError(c, err)
	}
	s.log.Info("built container", "arches", len(entries), "size", len(out))
	return writeBytes(c, "universal", out)
}

func buildEntries(req BuildRequest) ([]fat.Entry, error) {
	entries := make([]fat.Entry, 0, len(req.Entries))
	for i, be := range req.Entries {
		fam, err := fat.ParseCPUFamily(be.Arch)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		align := fat.DefaultAlign(fam)
		if be.Align != nil {
			align = fat.Align(*be.Align)
		}
		entries = append(entries, fat.Entry{
			Family:  fam,
			Subtype: be.Subtype,
			Align:   align,
			Payload: be.Payload,
		})
	}
	return entries, nil
}

func containerResponse(rec *containerRecord) ContainerResponse {
	r := report.New(rec.Name, rec.File)
	return ContainerResponse{
		ID:        rec.ID,
		Object:    "container",
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt.Unix(),
		Size:      r.Size,
		Magic:     r.Magic,
		Arches:    r.Arches,
	}
}

var errBodyTooLarge = newInvalidRequest("request body too large")

func (s *Server) readBody(c *echo.Context) ([]byte, error) {
	body := c.Request().Body
	if body == nil {
		return nil, newInvalidRequest("empty request body")
	}
	data, err := io.ReadAll(io.LimitReader(body, s.maxUpload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxUpload {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeBytes(c *echo.Context, filename string, data []byte) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, mimeOctetStream)
	res.Header().Set("Content-Length", strconv.Itoa(len(data)))
	res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)
	_, err := res.Write(data)
	return err
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
