package httpserver

import (
	"net/http"
	"time"

	"farmdirect/internal/domain"
	"farmdirect/internal/upload"
)

// @Summary      Upload signature
// @Description  Issue a short-lived signature for a direct client upload
// @Tags         uploads
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  upload.Signature
// @Failure      503  {object}  map[string]string
// @Router       /uploads/request-cloudinary-signature [post]
func handleUploadSignature(signer *upload.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !signer.Configured() {
			writeError(w, domain.E(domain.ErrUnavailable, "Cloudinary not configured"))
			return
		}
		writeJSON(w, http.StatusOK, signer.SignUpload(time.Now()))
	}
}
