package port

import (
	"context"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/valueobject"
)

// SimulationMetrics records the outcome of each create-simulation request.
type SimulationMetrics interface {
	SimulationFinished(ctx context.Context, outcome valueobject.SimulationOutcome, elapsed time.Duration)
}
