package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/config"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// Gateway is the payment collaborator. The current implementation only
// accepts the configured mock methods synchronously; anything else is
// rejected before inventory is touched.
type Gateway interface {
	Charge(ctx context.Context, method string, amount decimal.Decimal) error
	Refund(ctx context.Context, method string, amount decimal.Decimal) error
}

type mockGateway struct {
	cfg    config.PaymentConfig
	logger *zap.Logger
}

// NewMockGateway builds the gateway used until a real processor is wired in.
func NewMockGateway(cfg config.PaymentConfig, logger *zap.Logger) Gateway {
	return &mockGateway{cfg: cfg, logger: logger}
}

func (g *mockGateway) Charge(_ context.Context, method string, amount decimal.Decimal) error {
	if !g.cfg.Accepts(method) {
		return apperrors.NewUnsupportedPaymentMethod(method)
	}
	g.logger.Info("payment accepted",
		zap.String("method", method),
		zap.String("amount", amount.StringFixed(2)))
	return nil
}

// Refund is fire-and-forget in the current design; failures are logged by
// the caller and never surfaced to the buyer.
func (g *mockGateway) Refund(_ context.Context, method string, amount decimal.Decimal) error {
	g.logger.Info("refund issued",
		zap.String("method", method),
		zap.String("amount", amount.StringFixed(2)))
	return nil
}
