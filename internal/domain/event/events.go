package event

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	// SimulationCreatedType is the event type of SimulationCreated.
	SimulationCreatedType = "SimulacaoCriada"
	// Source names this service on every outgoing event.
	Source = "simulacao-credito"

	aggregateSimulation = "Simulation"
)

// SimulationCreated is raised once a simulation and its installments are durable.
type SimulationCreated struct {
	events.BaseEvent
	SimulationID int64           `json:"simulation_id"`
	Value        decimal.Decimal `json:"value"`
	Term         int             `json:"term"`
	ProductCode  int             `json:"product_code"`
}

// NewSimulationCreated stamps the event with the simulation's creation time.
func NewSimulationCreated(
	simulationID int64,
	value decimal.Decimal,
	term, productCode int,
	createdAt time.Time,
) SimulationCreated {
	return SimulationCreated{
		BaseEvent: events.NewBaseEventAt(
			SimulationCreatedType, strconv.FormatInt(simulationID, 10), aggregateSimulation, createdAt,
		),
		SimulationID: simulationID,
		Value:        value,
		Term:         term,
		ProductCode:  productCode,
	}
}
