package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/humantools/internal/meme"
	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/pipeline"
	"github.com/dgallion1/humantools/internal/slideshow"
	"github.com/dgallion1/humantools/internal/tools"
)

func (s *Server) handleEditPhotos(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := s.uploads(r, "files")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	if len(inputs) == 0 {
		s.toolError(w, r, pdfops.ErrNoImages)
		return
	}
	settings, err := decodeSettings(r.FormValue("settings"))
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	if len(settings) > 1 && len(settings) != len(inputs) {
		s.toolError(w, r, fmt.Errorf("%w: got %d for %d images", tools.ErrSettingsCount, len(settings), len(inputs)))
		return
	}
	for i, st := range settings {
		if err := st.Validate(); err != nil {
			s.toolError(w, r, invalid("settings %d: %v", i+1, err))
			return
		}
	}

	s.submit(w, pipeline.NewJob(pipeline.KindEditPhotos, inputs, tools.EditParams{Settings: settings}))
}

// decodeSettings accepts one settings object or an array of them. Omitted
// fields keep their identity values.
func decodeSettings(raw string) ([]photo.Settings, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var items []json.RawMessage
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, invalid("settings: invalid JSON: %v", err)
		}
	} else {
		items = []json.RawMessage{json.RawMessage(raw)}
	}
	out := make([]photo.Settings, 0, len(items))
	for i, item := range items {
		st := photo.DefaultSettings()
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&st); err != nil {
			return nil, invalid("settings %d: invalid JSON: %v", i+1, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *Server) handleSlideshow(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := s.uploads(r, "files")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	if len(inputs) == 0 {
		s.toolError(w, r, slideshow.ErrNoSlides)
		return
	}
	arr, err := formOrder(r)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	if arr != nil {
		if arr.Empty() {
			s.toolError(w, r, slideshow.ErrNoSlides)
			return
		}
		if err := arr.Validate(len(inputs)); err != nil {
			s.toolError(w, r, err)
			return
		}
	}
	duration, err := parseDuration(r.FormValue("duration"))
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	if format != "" && format != slideshow.FormatMP4 && format != slideshow.FormatGIF {
		s.toolError(w, r, invalid("format must be mp4 or gif, got %q", format))
		return
	}

	s.submit(w, pipeline.NewJob(pipeline.KindSlideshow, inputs, tools.SlideshowParams{
		Order:    arr,
		Duration: duration,
		Format:   format,
	}))
}

// maxSlideDuration caps the time one slide stays on screen.
const maxSlideDuration = time.Hour

// parseDuration takes seconds ("1.5") or a Go duration ("1500ms").
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	var d time.Duration
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
			return 0, invalid("duration must be a positive number of seconds")
		}
		if secs > maxSlideDuration.Seconds() {
			return 0, invalid("duration %s exceeds %s", v, maxSlideDuration)
		}
		d = time.Duration(secs * float64(time.Second))
	} else if d, err = time.ParseDuration(v); err != nil {
		return 0, invalid("invalid duration %q", v)
	}
	if d <= 0 {
		return 0, invalid("duration must be positive")
	}
	if d > maxSlideDuration {
		return 0, invalid("duration %s exceeds %s", v, maxSlideDuration)
	}
	return d, nil
}

func (s *Server) submit(w http.ResponseWriter, job *pipeline.Job) {
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"kind":       job.Kind,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/jobs/%s/status", job.ID),
		"result_url": fmt.Sprintf("/api/jobs/%s/result", job.ID),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": photo.SocialSizes})
}

func (s *Server) handleMeme(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := s.uploads(r, "file")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	var m meme.Meme
	if err := formJSON(r, "meme", &m); err != nil {
		s.toolError(w, r, err)
		return
	}
	if err := m.Validate(); err != nil {
		s.toolError(w, r, badRequest{err})
		return
	}
	out, err := s.tools.Meme(inputs, m)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	writeOutput(w, out)
}
