package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/media"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

const (
	imagesFormField     = "images"
	MaxImagesPerRequest = 10
	multipartMemory     = 8 << 20
)

// AdminUploadImages stores the "images" parts of a multipart form and returns
// the URLs of those that made it. Individual failures are left out of the
// response.
func AdminUploadImages(svc ImageUploader, maxRequestBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxRequestBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File[imagesFormField]
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "images is required").
				WithDetails(map[string]string{imagesFormField: "is required"}))
			return
		}
		if len(headers) > MaxImagesPerRequest {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "at most %d images per upload", MaxImagesPerRequest))
			return
		}

		files := make([]media.File, 0, len(headers))
		opened := make([]multipart.File, 0, len(headers))
		defer func() {
			for _, f := range opened {
				_ = f.Close()
			}
		}()
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "file", header.Filename), "media.open_failed")
				}
				continue
			}
			opened = append(opened, f)
			files = append(files, media.File{Name: header.Filename, Body: f})
		}

		responses.WriteSuccess(w, svc.Upload(r.Context(), files))
	}
}
