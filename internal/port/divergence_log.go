package port

import (
	"context"

	"github.com/rl1809/stockledger/internal/core/domain"
)

type DivergenceLog interface {
	// Record keeps d until Clear is called
	Record(ctx context.Context, d domain.Divergence) error

	// List returns recorded divergences, oldest first
	List(ctx context.Context) ([]domain.Divergence, error)

	Clear(ctx context.Context) error
}
