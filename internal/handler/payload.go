package handler

import (
	"errors"
	"net/http"
	"strings"

	"agenda/internal/apperr"
	"agenda/internal/storage"
	"agenda/internal/validation"

	"github.com/gin-gonic/gin"
)

const (
	photoField     = "photo"
	maxMultipartMB = 32
)

// readPayload returns the request fields as a raw map, plus the optional
// photo of a multipart request. The caller must invoke done when finished
// with the photo.
func readPayload(c *gin.Context) (fields map[string]any, photo *storage.Upload, done func(), err error) {
	done = func() {}
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return readMultipart(c)
	}

	fields = map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		return nil, nil, done, apperr.Validation("", validation.MsgInvalidBody)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil, done, nil
}

func readMultipart(c *gin.Context) (map[string]any, *storage.Upload, func(), error) {
	done := func() {}
	if err := c.Request.ParseMultipartForm(maxMultipartMB << 20); err != nil {
		return nil, nil, done, apperr.Validation("", validation.MsgInvalidBody)
	}

	fields := map[string]any{}
	for key, values := range c.Request.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	header, err := c.FormFile(photoField)
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, done, nil
	}
	if err != nil {
		return nil, nil, done, apperr.Validation(photoField, validation.MsgInvalidBody)
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, done, apperr.Internal("failed to open uploaded photo", err)
	}
	photo := &storage.Upload{Filename: header.Filename, Size: header.Size, Body: file}
	return fields, photo, func() { file.Close() }, nil
}
