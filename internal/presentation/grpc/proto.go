package grpc

// proto.go hand-writes the service descriptor and messages of
// simulacao.v1.SimulationService. Messages travel with the JSON codec
// registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "simulacao.v1.SimulationService"

// Full method names, as seen by interceptors.
const (
	MethodCreateSimulation     = "/" + ServiceName + "/CreateSimulation"
	MethodGetSimulation        = "/" + ServiceName + "/GetSimulation"
	MethodListSimulations      = "/" + ServiceName + "/ListSimulations"
	MethodGetDailyVolume       = "/" + ServiceName + "/GetDailyVolume"
	MethodListProducts         = "/" + ServiceName + "/ListProducts"
	MethodListEligibleProducts = "/" + ServiceName + "/ListEligibleProducts"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// CreateSimulationRequest carries the amount as a decimal string.
type CreateSimulationRequest struct {
	Value string `json:"value"`
	Term  int32  `json:"term"`
}

type CreateSimulationResponse struct {
	Simulation dto.SimulationResponse `json:"simulation"`
}

type GetSimulationRequest struct {
	ID int64 `json:"id"`
}

type GetSimulationResponse struct {
	Simulation dto.SimulationResponse `json:"simulation"`
}

// ListSimulationsRequest selects a 1-based page. Zero fields take the defaults.
type ListSimulationsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type ListSimulationsResponse struct {
	dto.ListSimulationsResponse
}

// GetDailyVolumeRequest names the day as YYYY-MM-DD.
type GetDailyVolumeRequest struct {
	ReferenceDate string `json:"reference_date"`
}

type GetDailyVolumeResponse struct {
	dto.DailyVolumeResponse
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []dto.ProductResponse `json:"products"`
}

type ListEligibleProductsRequest struct {
	Value string `json:"value"`
	Term  int32  `json:"term"`
}

type ListEligibleProductsResponse struct {
	Products []dto.ProductResponse `json:"products"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// SimulationServiceServer is the server API for SimulationService.
type SimulationServiceServer interface {
	CreateSimulation(context.Context, *CreateSimulationRequest) (*CreateSimulationResponse, error)
	GetSimulation(context.Context, *GetSimulationRequest) (*GetSimulationResponse, error)
	ListSimulations(context.Context, *ListSimulationsRequest) (*ListSimulationsResponse, error)
	GetDailyVolume(context.Context, *GetDailyVolumeRequest) (*GetDailyVolumeResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	ListEligibleProducts(context.Context, *ListEligibleProductsRequest) (*ListEligibleProductsResponse, error)
	mustEmbedUnimplementedSimulationServiceServer()
}

// UnimplementedSimulationServiceServer provides forward-compatible default implementations.
type UnimplementedSimulationServiceServer struct{}

func (UnimplementedSimulationServiceServer) CreateSimulation(context.Context, *CreateSimulationRequest) (*CreateSimulationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) GetSimulation(context.Context, *GetSimulationRequest) (*GetSimulationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) ListSimulations(context.Context, *ListSimulationsRequest) (*ListSimulationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListSimulations not implemented")
}
func (UnimplementedSimulationServiceServer) GetDailyVolume(context.Context, *GetDailyVolumeRequest) (*GetDailyVolumeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDailyVolume not implemented")
}
func (UnimplementedSimulationServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListProducts not implemented")
}
func (UnimplementedSimulationServiceServer) ListEligibleProducts(context.Context, *ListEligibleProductsRequest) (*ListEligibleProductsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListEligibleProducts not implemented")
}
func (UnimplementedSimulationServiceServer) mustEmbedUnimplementedSimulationServiceServer() {}

// RegisterSimulationServiceServer registers srv with the gRPC server.
func RegisterSimulationServiceServer(s grpclib.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&simulationServiceDesc, srv)
}

var simulationServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateSimulation", Handler: unaryHandler(MethodCreateSimulation, SimulationServiceServer.CreateSimulation)},
		{MethodName: "GetSimulation", Handler: unaryHandler(MethodGetSimulation, SimulationServiceServer.GetSimulation)},
		{MethodName: "ListSimulations", Handler: unaryHandler(MethodListSimulations, SimulationServiceServer.ListSimulations)},
		{MethodName: "GetDailyVolume", Handler: unaryHandler(MethodGetDailyVolume, SimulationServiceServer.GetDailyVolume)},
		{MethodName: "ListProducts", Handler: unaryHandler(MethodListProducts, SimulationServiceServer.ListProducts)},
		{MethodName: "ListEligibleProducts", Handler: unaryHandler(MethodListEligibleProducts, SimulationServiceServer.ListEligibleProducts)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unaryHandler adapts one typed service method to the generic method handler
// gRPC dispatches to.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(SimulationServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulationServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SimulationServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
