package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sushant12/vdisk/internal/firecracker"
	"github.com/sushant12/vdisk/pkg/drive"
	"github.com/sushant12/vdisk/pkg/manifest"
	"github.com/sushant12/vdisk/pkg/script"
)

const (
	ContentTypeScript = "text/x-shellscript"
	ContentTypeText   = "text/plain; charset=utf-8"
	ContentTypeJSON   = "application/json"

	maxBodySize = 1 << 20
)

type GenerateRequest struct {
	Drives    []string `json:"drives"`
	LibPath   string   `json:"lib_path"`
	RootDrive string   `json:"root_drive,omitempty"`
}

// Generate renders artifacts in memory; nothing is written to disk.
type Generate struct {
	fcOpts []firecracker.Option
	log    logrus.FieldLogger
}

func NewGenerate(log logrus.FieldLogger, fcOpts ...firecracker.Option) *Generate {
	return &Generate{
		fcOpts: fcOpts,
		log:    log.WithField("item", "GenerateHandler"),
	}
}

func (h *Generate) Script(w http.ResponseWriter, r *http.Request) {
	req, layout, ok := h.decode(w, r)
	if !ok {
		return
	}

	h.write(w, r, ContentTypeScript, []byte(script.Render(layout, req.LibPath)))
}

func (h *Generate) Manifest(w http.ResponseWriter, r *http.Request) {
	_, layout, ok := h.decode(w, r)
	if !ok {
		return
	}

	h.write(w, r, ContentTypeText, []byte(manifest.Render(layout)))
}

func (h *Generate) Firecracker(w http.ResponseWriter, r *http.Request) {
	req, layout, ok := h.decode(w, r)
	if !ok {
		return
	}

	opts := h.fcOpts
	if req.RootDrive != "" {
		opts = append(opts[:len(opts):len(opts)], firecracker.WithRootDrive(req.RootDrive))
	}

	data, err := firecracker.Render(layout, opts...)
	if err != nil {
		if errors.Is(err, firecracker.ErrUnknownRootDrive) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger(r).WithError(err).Error("Failed to render firecracker config")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.write(w, r, ContentTypeJSON, data)
}

func (h *Generate) decode(w http.ResponseWriter, r *http.Request) (*GenerateRequest, drive.Layout, bool) {
	var req GenerateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		h.logger(r).WithError(err).Warn("Failed to decode JSON")
		http.Error(w, "Bad request: "+err.Error(), http.StatusBadRequest)
		return nil, drive.Layout{}, false
	}

	specs, err := drive.ParseAll(req.Drives)
	if err != nil {
		h.logger(r).WithError(err).Warn("Invalid drive list")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, drive.Layout{}, false
	}

	return &req, drive.Partition(specs), true
}

func (h *Generate) write(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger(r).WithError(err).Warn("Failed to write response")
	}
}

func (h *Generate) logger(r *http.Request) logrus.FieldLogger {
	if id := RequestID(r.Context()); id != "" {
		return h.log.WithField("request_id", id)
	}

	return h.log
}
