package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/cover-letter/internal/export"
	"github.com/jonathan/cover-letter/internal/fetch"
	"github.com/jonathan/cover-letter/internal/form"
	"github.com/jonathan/cover-letter/internal/types"
)

// FieldsRequest is the body of PUT /api/fields. Absent members are left
// unchanged.
type FieldsRequest struct {
	CandidateName  *string `json:"candidate_name,omitempty"`
	CompanyName    *string `json:"company_name,omitempty"`
	CompanyAddress *string `json:"company_address,omitempty"`
	HiringManager  *string `json:"hiring_manager,omitempty"`
	JobDescription *string `json:"job_description,omitempty"`
	UseCustomCV    *bool   `json:"use_custom_cv,omitempty"`
	Letter         *string `json:"letter,omitempty"`
}

// JobDescriptionRequest is the body of POST /api/job-description.
type JobDescriptionRequest struct {
	URL string `json:"url"`
}

// CopyResponse carries the letter for the browser to put on the clipboard.
type CopyResponse struct {
	Letter string `json:"letter"`
	Copied bool   `json:"copied"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.view())
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	var req FieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	_, err := s.store.Update(func(st form.State) (form.State, error) {
		// the toggle resets the name, so apply it before the text fields
		if req.UseCustomCV != nil && *req.UseCustomCV != st.UseCustomCV {
			st = st.ToggleCustomCV(*req.UseCustomCV)
		}
		for field, value := range map[form.Field]*string{
			form.FieldCandidateName:  req.CandidateName,
			form.FieldCompanyName:    req.CompanyName,
			form.FieldCompanyAddress: req.CompanyAddress,
			form.FieldHiringManager:  req.HiringManager,
			form.FieldJobDescription: req.JobDescription,
		} {
			if value == nil {
				continue
			}
			next, err := st.SetField(field, *value)
			if err != nil {
				return st, err
			}
			st = next
		}
		if req.Letter != nil {
			st = st.EditLetter(*req.Letter)
		}
		return st, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.view())
}

func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = &ErrValidation{Field: "file", Message: err.Error()}
		}
		s.fail(w, err)
		return
	}
	defer file.Close()

	if _, err := s.store.Update(func(st form.State) (form.State, error) {
		return st.BeginUpload(header.Filename)
	}); err != nil {
		s.fail(w, err)
		return
	}

	data, err := io.ReadAll(file)
	if err == nil {
		var text string
		text, err = s.extractor.Extract(r.Context(), header.Filename, data)
		if err == nil {
			s.store.Apply(func(st form.State) form.State { return st.UploadSucceeded(text) })
			log.Printf("[extract] %s %s: %d chars", requestID(r.Context()), header.Filename, len(text))
			s.jsonResponse(w, http.StatusOK, s.view())
			return
		}
	}

	s.store.Apply(func(st form.State) form.State { return st.UploadFailed(err) })
	s.fail(w, err)
}

func (s *Server) handleJobDescription(w http.ResponseWriter, r *http.Request) {
	var req JobDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if err := fetch.ValidateURL(req.URL); err != nil {
		s.fail(w, &ErrValidation{Field: "url", Message: "an http or https URL is required"})
		return
	}

	text, err := s.fetchJob(r.Context(), req.URL)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.store.Update(func(st form.State) (form.State, error) { //nolint:errcheck
		return st.SetField(form.FieldJobDescription, text)
	})
	s.jsonResponse(w, http.StatusOK, s.view())
}

// generate runs one generation outside the store lock and records its
// outcome.
func (s *Server) generate(r *http.Request) (string, error) {
	var req types.GenerationRequest
	if _, err := s.store.Update(func(st form.State) (form.State, error) {
		next, built, err := st.BeginGenerate()
		req = built
		return next, err
	}); err != nil {
		return "", err
	}

	id := requestID(r.Context())
	log.Printf("[generate] %s started for %q", id, req.CompanyName)

	letter, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		log.Printf("[generate] %s failed: %v", id, err)
		s.store.Apply(func(st form.State) form.State { return st.GenerateFailed(err) })
		return "", err
	}

	log.Printf("[generate] %s completed: %d chars", id, len(letter))
	s.store.Apply(func(st form.State) form.State { return st.GenerateSucceeded(letter) })
	return letter, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.generate(r); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.view())
}

func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.fail(w, err)
		return
	}

	sse.WriteStarted(requestID(r.Context()))
	letter, err := s.generate(r)
	if err != nil {
		sse.WriteError(HTTPStatus(err), err.Error())
		return
	}
	sse.WriteComplete(letter)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}

	st := s.store.Snapshot()
	if err := st.CanExport(); err != nil {
		s.fail(w, err)
		return
	}

	doc, err := export.Letter(format, st.Letter, st.CompanyName, st.CandidateName)
	if err != nil {
		log.Printf("[export] %s %s failed: %v", requestID(r.Context()), format, err)
		s.fail(w, err)
		return
	}
	s.store.Apply(form.State.CloseDownloadMenu)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		log.Printf("[export] write failed: %v", err)
	}
}

func (s *Server) handleToggleDownloadMenu(w http.ResponseWriter, _ *http.Request) {
	s.store.Apply(form.State.ToggleDownloadMenu)
	s.jsonResponse(w, http.StatusOK, s.view())
}

func (s *Server) handleCopy(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	st, err := s.store.Update(func(st form.State) (form.State, error) {
		return st.MarkCopied(now)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CopyResponse{Letter: st.Letter, Copied: st.Copied(now)})
}

func (s *Server) view() form.View {
	return s.store.Snapshot().View(s.now())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to its status and writes it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}
	message := err.Error()
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(HTTPStatus(err))
	}
	s.errorResponse(w, HTTPStatus(err), message)
}
