package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/humantools/internal/pdfops"
)

func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := s.uploads(r, "files")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	arr, err := formOrder(r)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	out, err := s.tools.Combine(inputs, arr, r.FormValue("filename"))
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	writeOutput(w, out)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := s.uploads(r, "file")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	if len(in) == 0 {
		s.toolError(w, r, pdfops.ErrNoDocument)
		return
	}
	if len(in) > 1 {
		s.toolError(w, r, invalid("split takes one file, got %d", len(in)))
		return
	}
	out, err := s.tools.Split(in[0])
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	writeOutput(w, out)
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := s.uploads(r, "files")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	var marks []pdfops.Mark
	if err := formJSON(r, "marks", &marks); err != nil {
		s.toolError(w, r, err)
		return
	}
	if len(marks) == 0 {
		s.toolError(w, r, invalid("marks is required"))
		return
	}
	var sig []byte
	if sigs, err := s.uploads(r, "signature"); err != nil {
		s.toolError(w, r, err)
		return
	} else if len(sigs) > 0 {
		sig = sigs[0].Data
	}

	out, err := s.tools.Sign(inputs, marks, sig, r.FormValue("filename"))
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	writeOutput(w, out)
}

func (s *Server) handleImagesToPDF(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	inputs, err := s.uploads(r, "files")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	arr, err := formOrder(r)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	out, skipped, err := s.tools.ImagesToPDF(inputs, arr, r.FormValue("filename"))
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	if len(skipped) > 0 {
		w.Header().Set("X-Skipped-Files", strings.Join(skipped, ","))
	}
	writeOutput(w, out)
}

func (s *Server) handleDocToPDF(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := s.upload(r, "file")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	opts, err := formTypeset(r)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	out, err := s.tools.DocToPDF(in, opts)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	writeOutput(w, out)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := s.upload(r, "file")
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	info, err := s.tools.Inspect(in)
	if err != nil {
		s.toolError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
