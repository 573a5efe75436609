package grpc

// service.go defines the gRPC server interface for bib.loan_decision.v1.LoanDecisionService.
// Messages are the application DTOs, carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loan-decision-service/internal/application/dto"
)

const ServiceName = "bib.loan_decision.v1.LoanDecisionService"

// Full method names, used by interceptors.
const (
	MethodEvaluateApplication     = "/" + ServiceName + "/EvaluateApplication"
	MethodSubmitApplication       = "/" + ServiceName + "/SubmitApplication"
	MethodGetApplication          = "/" + ServiceName + "/GetApplication"
	MethodListApplications        = "/" + ServiceName + "/ListApplications"
	MethodUpdateApplicationStatus = "/" + ServiceName + "/UpdateApplicationStatus"
)

// LoanDecisionServiceServer is the server API for LoanDecisionService.
type LoanDecisionServiceServer interface {
	EvaluateApplication(context.Context, *dto.EvaluateApplicationRequest) (*dto.EvaluationResponse, error)
	SubmitApplication(context.Context, *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	GetApplication(context.Context, *dto.GetApplicationRequest) (*dto.ApplicationResponse, error)
	ListApplications(context.Context, *dto.ListApplicationsRequest) (*dto.ListApplicationsResponse, error)
	UpdateApplicationStatus(context.Context, *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error)
	mustEmbedUnimplementedLoanDecisionServiceServer()
}

// UnimplementedLoanDecisionServiceServer provides forward-compatible default implementations.
type UnimplementedLoanDecisionServiceServer struct{}

func (UnimplementedLoanDecisionServiceServer) EvaluateApplication(context.Context, *dto.EvaluateApplicationRequest) (*dto.EvaluationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateApplication not implemented")
}
func (UnimplementedLoanDecisionServiceServer) SubmitApplication(context.Context, *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitApplication not implemented")
}
func (UnimplementedLoanDecisionServiceServer) GetApplication(context.Context, *dto.GetApplicationRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplication not implemented")
}
func (UnimplementedLoanDecisionServiceServer) ListApplications(context.Context, *dto.ListApplicationsRequest) (*dto.ListApplicationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListApplications not implemented")
}
func (UnimplementedLoanDecisionServiceServer) UpdateApplicationStatus(context.Context, *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateApplicationStatus not implemented")
}
func (UnimplementedLoanDecisionServiceServer) mustEmbedUnimplementedLoanDecisionServiceServer() {}

// RegisterLoanDecisionServiceServer registers srv with the gRPC server.
func RegisterLoanDecisionServiceServer(s grpclib.ServiceRegistrar, srv LoanDecisionServiceServer) {
	s.RegisterService(&loanDecisionServiceDesc, srv)
}

var loanDecisionServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LoanDecisionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluateApplication", Handler: evaluateApplicationHandler},
		{MethodName: "SubmitApplication", Handler: submitApplicationHandler},
		{MethodName: "GetApplication", Handler: getApplicationHandler},
		{MethodName: "ListApplications", Handler: listApplicationsHandler},
		{MethodName: "UpdateApplicationStatus", Handler: updateApplicationStatusHandler},
	},
	Streams: []grpclib.StreamDesc{},
}

// unary decodes the request and runs call, through the interceptor chain when
// one is installed.
func unary[Req any](
	srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor,
	fullMethod string, call func(LoanDecisionServiceServer, context.Context, *Req) (any, error),
) (any, error) {
	in := new(Req)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(LoanDecisionServiceServer)
	if interceptor == nil {
		return call(s, ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return call(s, ctx, req.(*Req))
	}
	return interceptor(ctx, in, info, handler)
}

func evaluateApplicationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return unary(srv, ctx, dec, interceptor, MethodEvaluateApplication,
		func(s LoanDecisionServiceServer, ctx context.Context, in *dto.EvaluateApplicationRequest) (any, error) {
			return s.EvaluateApplication(ctx, in)
		})
}

func submitApplicationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return unary(srv, ctx, dec, interceptor, MethodSubmitApplication,
		func(s LoanDecisionServiceServer, ctx context.Context, in *dto.SubmitApplicationRequest) (any, error) {
			return s.SubmitApplication(ctx, in)
		})
}

func getApplicationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return unary(srv, ctx, dec, interceptor, MethodGetApplication,
		func(s LoanDecisionServiceServer, ctx context.Context, in *dto.GetApplicationRequest) (any, error) {
			return s.GetApplication(ctx, in)
		})
}

func listApplicationsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return unary(srv, ctx, dec, interceptor, MethodListApplications,
		func(s LoanDecisionServiceServer, ctx context.Context, in *dto.ListApplicationsRequest) (any, error) {
			return s.ListApplications(ctx, in)
		})
}

func updateApplicationStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return unary(srv, ctx, dec, interceptor, MethodUpdateApplicationStatus,
		func(s LoanDecisionServiceServer, ctx context.Context, in *dto.UpdateStatusRequest) (any, error) {
			return s.UpdateApplicationStatus(ctx, in)
		})
}
