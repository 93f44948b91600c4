package usecase

import (
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
)

// Places used when rendering aggregated averages.
const (
	ratePlaces    = 11
	percentPlaces = 2
)

func toSimulationResponse(sim model.Simulation) dto.SimulationResponse {
	product := sim.Product()
	schedules := sim.Schedules()

	out := make([]dto.ScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		rows := make([]dto.InstallmentResponse, len(s.Installments))
		for i, in := range s.Installments {
			rows[i] = dto.InstallmentResponse{
				Number:       in.Number,
				Amortization: in.Amortization,
				Interest:     in.Interest,
				Payment:      in.Payment,
			}
		}
		out = append(out, dto.ScheduleResponse{
			Type:         s.Type.String(),
			Installments: rows,
		})
	}

	return dto.SimulationResponse{
		ID:                sim.ID(),
		CreatedAt:         sim.CreatedAt(),
		Value:             sim.Value(),
		Term:              sim.Term(),
		ProductCode:       product.Code,
		ProductName:       product.Name,
		AnnualRate:        product.AnnualRate,
		TotalInstallments: sim.TotalInstallments(),
		Schedules:         out,
	}
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Code:       p.Code,
		Name:       p.Name,
		AnnualRate: p.AnnualRate,
		MinTerm:    p.MinTerm,
		MaxTerm:    p.MaxTerm,
		MinValue:   p.MinValue,
		MaxValue:   p.MaxValue,
	}
}

func toProductResponses(products []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toProductVolumeResponse(v model.ProductVolume) dto.ProductVolumeResponse {
	return dto.ProductVolumeResponse{
		ProductCode:        v.ProductCode,
		ProductName:        v.ProductName,
		AverageRate:        v.AverageRate.Round(ratePlaces),
		AverageInstallment: v.AverageInstallment.Round(model.MoneyPlaces),
		TotalValue:         v.TotalValue,
		TotalInstallments:  v.TotalInstallments,
	}
}

func toEndpointTelemetryResponse(e model.EndpointTelemetry) dto.EndpointTelemetryResponse {
	return dto.EndpointTelemetryResponse{
		Endpoint:   e.Endpoint,
		Requests:   e.Requests,
		AverageMs:  e.AverageMs.Round(model.MoneyPlaces),
		MinMs:      e.MinMs,
		MaxMs:      e.MaxMs,
		SuccessPct: e.SuccessPct.Round(percentPlaces),
	}
}
