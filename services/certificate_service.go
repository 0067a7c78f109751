package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/querocurso/marketplace/database"
	"github.com/querocurso/marketplace/models"
	"github.com/querocurso/marketplace/pdf"
	"github.com/querocurso/marketplace/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultCertificateBucket = "certificates"

type CertificateStore interface {
	GetCertificateWithJoins(ctx context.Context, id string) (models.CertificateProjection, error)
	UpdateCertificate(ctx context.Context, id, certificateURL, storagePath string) error
	ListExpired(ctx context.Context, now time.Time) ([]models.ExpiredCertificate, error)
	DeleteCertificates(ctx context.Context, ids []uuid.UUID) error
	ListPending(ctx context.Context, limit int) ([]uuid.UUID, error)
	RecordRenderFailure(ctx context.Context, id, reason string) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Certificate, error)
	CompleteEnrollment(ctx context.Context, enrollmentID string, issuedAt time.Time, expiresAt *time.Time) (models.Certificate, error)
}

// Notifier is told about every freshly rendered certificate. Failures are
// the notifier's to log.
type Notifier interface {
	CertificateIssued(ctx context.Context, cert models.CertificateProjection, url string)
}

type CertificateOptions struct {
	Bucket string
	// RetentionDays sets expires_at on new certificates; 0 keeps them forever.
	RetentionDays int
	// StrictCleanup keeps database rows whose storage objects could not be
	// removed, so they are retried on the next sweep.
	StrictCleanup bool
	RenderTimeout time.Duration
	Location      *time.Location
	Now           func() time.Time
}

type CertificateService struct {
	store    CertificateStore
	storage  storage.ObjectStorage
	fetcher  AssetFetcher
	composer pdf.Composer
	notifier Notifier
	logger   *zap.Logger
	opts     CertificateOptions
}

func NewCertificateService(
	store CertificateStore,
	objects storage.ObjectStorage,
	fetcher AssetFetcher,
	composer pdf.Composer,
	notifier Notifier,
	logger *zap.Logger,
	opts CertificateOptions,
) *CertificateService {
	if opts.Bucket == "" {
		opts.Bucket = DefaultCertificateBucket
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 2 * time.Minute
	}
	return &CertificateService{
		store:    store,
		storage:  objects,
		fetcher:  fetcher,
		composer: composer,
		notifier: notifier,
		logger:   logger.With(zap.String("service", "certificate_service")),
		opts:     opts,
	}
}

// StoragePath is where the PDF for a certificate lives. It is deterministic so
// re-rendering replaces the previous artifact.
func StoragePath(studentID, certificateID uuid.UUID) string {
	return fmt.Sprintf("issued/%s/%s.pdf", studentID, certificateID)
}

// Render draws the certificate, uploads it and records its public URL. Nothing
// is written to the database unless every earlier step succeeded.
func (s *CertificateService) Render(ctx context.Context, certificateID string) (string, error) {
	cert, err := s.store.GetCertificateWithJoins(ctx, certificateID)
	if err != nil {
		if errors.Is(err, database.ErrMalformedProjection) {
			return "", renderErr(certificateID, "load", ErrValidation, err)
		}
		if errors.Is(err, database.ErrNotFound) {
			return "", renderErr(certificateID, "load", ErrNotFound, err)
		}
		return "", renderErr(certificateID, "load", ErrPersist, err)
	}

	template, signature, err := s.fetchAssets(ctx, cert)
	if err != nil {
		return "", renderErr(certificateID, "fetch template", ErrTemplateFetch, err)
	}

	doc, err := s.layout(cert, template, signature)
	if err != nil {
		return "", renderErr(certificateID, "decode template", ErrTemplateFetch, err)
	}

	pdfBytes, err := s.composer.Compose(ctx, doc)
	if err != nil {
		return "", renderErr(certificateID, "compose", ErrCompose, err)
	}

	path := StoragePath(cert.StudentID, cert.CertificateID)
	err = s.storage.Upload(ctx, s.opts.Bucket, path, pdfBytes, storage.UploadOptions{
		ContentType: "application/pdf",
		Overwrite:   true,
	})
	if err != nil {
		return "", renderErr(certificateID, "upload", ErrUpload, err)
	}

	publicURL := s.storage.PublicURL(s.opts.Bucket, path)
	if err := s.store.UpdateCertificate(ctx, certificateID, publicURL, path); err != nil {
		return "", renderErr(certificateID, "update record", ErrPersist, err)
	}

	s.logger.Info("✅ Certificate rendered",
		zap.String("certificate_id", certificateID),
		zap.String("storage_path", path),
		zap.Int("bytes", len(pdfBytes)))

	if s.notifier != nil {
		s.notifier.CertificateIssued(ctx, cert, publicURL)
	}
	return publicURL, nil
}

// fetchAssets downloads the template and the optional signature in parallel.
// Only a template failure is returned; a failed signature comes back nil.
func (s *CertificateService) fetchAssets(ctx context.Context, cert models.CertificateProjection) (template, signature []byte, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.fetcher.Fetch(gctx, cert.TemplateURL)
		if err != nil {
			return err
		}
		template = data
		return nil
	})
	if cert.SignatureURL != "" {
		// Independent of gctx so a template failure does not log a spurious
		// signature error.
		g.Go(func() error {
			data, err := s.fetcher.Fetch(ctx, cert.SignatureURL)
			if err != nil {
				s.logger.Warn("signature fetch failed, rendering without signature",
					zap.String("certificate_id", cert.CertificateID.String()),
					zap.String("url", cert.SignatureURL),
					zap.Error(err))
				return nil
			}
			signature = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return template, signature, nil
}

func (s *CertificateService) layout(cert models.CertificateProjection, template, signature []byte) (pdf.Document, error) {
	width, height, format, err := pdf.Inspect(template)
	if err != nil {
		return pdf.Document{}, err
	}

	doc := pdf.Document{
		Width:  width,
		Height: height,
		Background: pdf.Image{
			Data:   template,
			Format: format,
			Width:  float64(width),
			Height: float64(height),
		},
	}

	issueDate := cert.IssueDate.In(s.opts.Location).Format("02/01/2006")
	doc.Texts = append(doc.Texts,
		pdf.Text{Content: strings.ToUpper(cert.StudentName), Size: nameSize, Weight: pdf.Bold, Color: accentColor, Y: nameY},
		pdf.Text{Content: fmt.Sprintf(courseLine, cert.CourseName), Size: courseSize, Weight: pdf.Regular, Color: pdf.Black, Y: courseY},
		pdf.Text{Content: fmt.Sprintf(detailsLine, cert.Workload, issueDate), Size: detailsSize, Weight: pdf.Regular, Color: pdf.Black, Y: detailsY},
	)

	if signature != nil {
		s.addSignature(&doc, cert, signature)
	}
	return doc, nil
}

func (s *CertificateService) addSignature(doc *pdf.Document, cert models.CertificateProjection, signature []byte) {
	scaled, w, h, err := pdf.ScaleToWidth(signature, signatureWidth)
	if err != nil {
		s.logger.Warn("signature image unusable, rendering without signature",
			zap.String("certificate_id", cert.CertificateID.String()),
			zap.Error(err))
		return
	}

	doc.Images = append(doc.Images, pdf.Image{
		Data:   scaled,
		Format: "png",
		X:      doc.CenteredX(float64(w)),
		Y:      float64(doc.Height) * signatureY,
		Width:  float64(w),
		Height: float64(h),
	})

	if cert.ProfessorName != "" {
		doc.Texts = append(doc.Texts,
			pdf.Text{Content: cert.ProfessorName, Size: professorSize, Weight: pdf.Bold, Color: pdf.Black, Y: professorY},
			pdf.Text{Content: signatureCaption, Size: captionSize, Weight: pdf.Regular, Color: captionColor, Y: captionY},
		)
	}
}

// CompleteEnrollment concludes an enrollment, creates its certificate and
// renders it in the background.
func (s *CertificateService) CompleteEnrollment(ctx context.Context, enrollmentID string) (models.Certificate, error) {
	now := s.opts.Now().In(s.opts.Location)
	var expires *time.Time
	if s.opts.RetentionDays > 0 {
		t := now.AddDate(0, 0, s.opts.RetentionDays)
		expires = &t
	}

	cert, err := s.store.CompleteEnrollment(ctx, enrollmentID, now, expires)
	if err != nil {
		return cert, err
	}
	if !cert.Rendered() {
		go s.renderDetached(cert.ID.String())
	}
	return cert, nil
}

func (s *CertificateService) renderDetached(certificateID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RenderTimeout)
	defer cancel()
	if _, err := s.Render(ctx, certificateID); err != nil {
		s.logger.Error("🔥 Failed to render certificate", zap.String("certificate_id", certificateID), zap.Error(err))
		s.recordFailure(ctx, certificateID, err)
	}
}

// recordFailure counts a failed render against the row. A missing row has
// nothing to count against.
func (s *CertificateService) recordFailure(ctx context.Context, certificateID string, renderErr error) {
	if errors.Is(renderErr, ErrNotFound) {
		return
	}
	if err := s.store.RecordRenderFailure(context.WithoutCancel(ctx), certificateID, renderErr.Error()); err != nil {
		s.logger.Warn("failed to record render failure", zap.String("certificate_id", certificateID), zap.Error(err))
	}
}

func (s *CertificateService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Certificate, error) {
	return s.store.ListByStudent(ctx, studentID)
}

type PendingResult struct {
	Rendered int `json:"rendered"`
	Failed   int `json:"failed"`
}

// RenderPending retries certificates that have no PDF yet. One failure does
// not stop the batch.
func (s *CertificateService) RenderPending(ctx context.Context, limit int) (PendingResult, error) {
	var res PendingResult
	ids, err := s.store.ListPending(ctx, limit)
	if err != nil {
		return res, err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		renderCtx, cancel := context.WithTimeout(ctx, s.opts.RenderTimeout)
		_, err := s.Render(renderCtx, id.String())
		cancel()
		if err != nil {
			res.Failed++
			s.logger.Error("🔥 Pending certificate render failed", zap.String("certificate_id", id.String()), zap.Error(err))
			s.recordFailure(ctx, id.String(), err)
			continue
		}
		res.Rendered++
	}
	return res, nil
}

type CleanupResult struct {
	Deleted       int  `json:"deleted_count"`
	StorageFailed bool `json:"storage_failed"`
}

// CleanupExpired deletes certificates past their expires_at, storage objects
// first. A storage failure is logged and the rows are deleted anyway unless
// StrictCleanup is set.
func (s *CertificateService) CleanupExpired(ctx context.Context) (CleanupResult, error) {
	var res CleanupResult

	expired, err := s.store.ListExpired(ctx, s.opts.Now())
	if err != nil {
		return res, err
	}
	if len(expired) == 0 {
		s.logger.Info("No expired certificates found")
		return res, nil
	}

	paths := make([]string, 0, len(expired))
	ids := make([]uuid.UUID, 0, len(expired))
	for _, c := range expired {
		ids = append(ids, c.ID)
		if c.StoragePath != nil && *c.StoragePath != "" {
			paths = append(paths, *c.StoragePath)
		}
	}

	if len(paths) > 0 {
		if err := s.storage.Remove(ctx, s.opts.Bucket, paths); err != nil {
			res.StorageFailed = true
			s.logger.Error("🔥 Error deleting expired certificates from storage",
				zap.Int("paths", len(paths)), zap.Error(err))
			if s.opts.StrictCleanup {
				return res, fmt.Errorf("%w: %v", ErrStorageRemove, err)
			}
		}
	}

	if err := s.store.DeleteCertificates(ctx, ids); err != nil {
		return res, err
	}
	res.Deleted = len(ids)
	s.logger.Info("✅ Expired certificates deleted", zap.Int("count", res.Deleted))
	return res, nil
}

// Notifiers fans a certificate event out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) CertificateIssued(ctx context.Context, cert models.CertificateProjection, url string) {
	for _, n := range ns {
		if n != nil {
			n.CertificateIssued(ctx, cert, url)
		}
	}
}
