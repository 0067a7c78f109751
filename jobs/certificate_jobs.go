package jobs

import (
	"context"

	"github.com/querocurso/marketplace/services"
	"go.uber.org/zap"
)

const pendingBatchSize = 50

type CertificateSweeper interface {
	CleanupExpired(ctx context.Context) (services.CleanupResult, error)
	RenderPending(ctx context.Context, limit int) (services.PendingResult, error)
}

// CleanupExpiredCertificates removes certificates past their expiry date.
func CleanupExpiredCertificates(svc CertificateSweeper, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		res, err := svc.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		if res.Deleted > 0 {
			logger.Info("Deleted expired certificates",
				zap.Int("count", res.Deleted),
				zap.Bool("storage_failed", res.StorageFailed))
		}
		return nil
	}
}

// IssuePendingCertificates renders certificates whose first render failed or
// never ran.
func IssuePendingCertificates(svc CertificateSweeper, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		res, err := svc.RenderPending(ctx, pendingBatchSize)
		if err != nil {
			return err
		}
		if res.Rendered+res.Failed > 0 {
			logger.Info("Issued pending certificates",
				zap.Int("rendered", res.Rendered),
				zap.Int("failed", res.Failed))
		}
		return nil
	}
}
