package input

import (
	"context"

	"runtrack/internal/domain/entities"
)

// FinishUseCase is the scan input boundary: one operation turning the raw
// text of a scanned code into a recorded arrival. The returned message is
// localized operator feedback and is set on both success and failure.
type FinishUseCase interface {
	RegisterFinish(ctx context.Context, locale, rawValue string) (*entities.Participation, string, error)
}
