package adaptor

import (
	"bufio"
	"errors"
	"io"
	"net/http"

	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const sniffLen = 3072

type ImageHandler struct {
	store  storage.ObjectStore
	signer *storage.URLSigner
	log    *zap.Logger
}

func NewImageHandler(store storage.ObjectStore, signer *storage.URLSigner, log *zap.Logger) *ImageHandler {
	return &ImageHandler{
		store:  store,
		signer: signer,
		log:    log.With(zap.String("handler", "image")),
	}
}

// Serve handles GET /api/images/*?token=
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if err := h.signer.Verify(key, r.URL.Query().Get("token")); err != nil {
		utils.ResponseForbidden(w, "Invalid or expired image link")
		return
	}

	rc, err := h.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			utils.ResponseNotFound(w, "Image not found")
			return
		}
		h.log.Error("Failed to open image", zap.Error(err), zap.String("key", key))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, sniffLen)
	head, _ := br.Peek(sniffLen)

	header := w.Header()
	header.Set("Content-Type", storage.ContentType(head))
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Content-Security-Policy", "default-src 'none'")
	header.Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, br); err != nil {
		h.log.Warn("Failed to stream image", zap.Error(err), zap.String("key", key))
	}
}
