package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"runtrack/internal/domain/entities"
)

const maxUploadSize = 8 << 20 // 8 MiB

// handleUploadImage stores the user's profile photo on disk under a uuid
// filename and upserts the media row.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if _, err := s.users.GetUserByID(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	filename := uuid.NewString() + filepath.Ext(header.Filename)
	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		s.logger.Error().Err(err).Msg("create media dir")
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	dst, err := os.Create(filepath.Join(s.mediaDir, filename))
	if err != nil {
		s.logger.Error().Err(err).Msg("create media file")
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "upload failed")
		return
	}

	media := &entities.Media{
		UserID:       userID,
		Filename:     filename,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         size,
	}
	if err := s.mediaRepo.Create(r.Context(), media); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":  media.ID,
		"url": fmt.Sprintf("/media/%d", media.ID),
	})
}

// handleServeMedia streams a stored image.
func (s *Server) handleServeMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	media, err := s.mediaRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if media.ContentType != "" {
		w.Header().Set("Content-Type", media.ContentType)
	}
	http.ServeFile(w, r, filepath.Join(s.mediaDir, filepath.Base(media.Filename)))
}
