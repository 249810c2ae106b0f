package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin so every query becomes a child span
// of the request span. Query variables are never attached to spans.
func RegisterDBTracing(db *gorm.DB, enabled bool, logger *zap.Logger) error {
	if !enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(db.Dialector.Name()),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		if errors.Is(err, gorm.ErrRegistered) {
			return nil
		}
		return err
	}

	logger.Info("Database tracing enabled", zap.String("dialect", db.Dialector.Name()))
	return nil
}
