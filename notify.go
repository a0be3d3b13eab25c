package storefront

import (
	"context"

	"go.uber.org/zap"

	"gofalre.io/storefront/models/enum"
)

// Notifier shows a short, non-blocking message to the shopper.
type Notifier interface {
	Notify(ctx context.Context, level enum.NoticeLevel, message string)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes notices to logger; it is the default Notifier.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(_ context.Context, level enum.NoticeLevel, message string) {
	if level == enum.NoticeError {
		n.logger.Warn(message, zap.String("notice", string(level)))
		return
	}
	n.logger.Info(message, zap.String("notice", string(level)))
}
