package httpapi

import (
	"errors"
	"net/http"

	"musicbox/internal/upload"
)

// multipartMemory is how much of a multipart body is buffered before spilling to disk.
const multipartMemory = 8 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if s.svc.Uploads == nil {
		writeError(w, r, errors.New("uploads are not configured"))
		return
	}
	kind, err := upload.ParseKind(pathVar(r, "kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Leave room for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.svc.Uploads.MaxBytes+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, upload.ErrTooLarge)
			return
		}
		writeError(w, r, badRequest{msg: "invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(string(kind))
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, r, upload.ErrMissingFile)
		return
	}
	if err != nil {
		writeError(w, r, badRequest{msg: "invalid multipart form"})
		return
	}
	defer file.Close()

	result, err := s.svc.Uploads.Save(kind, file, header)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logFor(r).Info().
		Str("kind", string(kind)).
		Str("filename", result.Filename).
		Int64("size", result.Size).
		Msg("file uploaded")
	writeJSON(w, http.StatusCreated, struct {
		Message string `json:"message"`
		*upload.Result
	}{Message: "file uploaded successfully", Result: result})
}
