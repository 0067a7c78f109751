package services

import (
	"errors"
	"fmt"

	"github.com/querocurso/marketplace/database"
)

var (
	ErrNotFound      = database.ErrNotFound
	ErrValidation    = errors.New("validation failed")
	ErrTemplateFetch = errors.New("template fetch failed")
	ErrAssetFetch    = errors.New("asset fetch failed")
	ErrCompose       = errors.New("pdf composition failed")
	ErrUpload        = errors.New("certificate upload failed")
	ErrPersist       = errors.New("certificate update failed")
	ErrStorageRemove = errors.New("storage removal failed")
)

// RenderError reports which step of a certificate render failed. errors.Is
// matches both Kind and the underlying cause.
type RenderError struct {
	CertificateID string
	Step          string
	Kind          error
	Err           error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render certificate %s: %s: %v", e.CertificateID, e.Step, e.Err)
}

func (e *RenderError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func renderErr(id, step string, kind, err error) error {
	return &RenderError{CertificateID: id, Step: step, Kind: kind, Err: err}
}
