package driver

import (
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	natsReconnectWait  = 2 * time.Second
	natsMaxReconnects  = 60
	natsConnectTimeout = 5 * time.Second
)

// ConnectNATS connects to the server publishing auth state changes.
// Disconnects and reconnects are logged; the subscription survives them.
func ConnectNATS(url string, logger *zap.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("storefront-cart"),
		nats.Timeout(natsConnectTimeout),
		nats.ReconnectWait(natsReconnectWait),
		nats.MaxReconnects(natsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		logger.Error("NATS connection error", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	return nc, nil
}
