package controllers

import (
	"net/http"
	"path/filepath"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"
)

const maxMultipartMemoryBytes = 10 << 20

func requestIDFromContext(r *http.Request) (string, error) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		return "", exceptions.ErrMissingRequestID(nil)
	}
	return requestID, nil
}

func actorFromContext(r *http.Request) (contracts.Actor, error) {
	actorID, _ := r.Context().Value(constvars.CONTEXT_ACTOR_ID_KEY).(string)
	actorRole, _ := r.Context().Value(constvars.CONTEXT_ACTOR_ROLE_KEY).(string)
	if actorID == "" || actorRole == "" {
		return contracts.Actor{}, exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return contracts.Actor{ID: actorID, Role: actorRole}, nil
}

// uploadFormImage stores the optional "image" part of a multipart form and
// returns its object name. An absent file part is not an error.
func uploadFormImage(r *http.Request, storage contracts.StorageService, prefix string) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", exceptions.ErrCannotParseMultipartForm(err)
	}
	defer file.Close()

	contentType := header.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = mimeFromFilename(header.Filename)
	}
	return storage.UploadImage(r.Context(), file, header.Size, contentType, prefix)
}

func mimeFromFilename(filename string) string {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return constvars.MIMEOctetStream
	}
}
