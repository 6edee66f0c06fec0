package reservation

import (
	"context"

	"github.com/msto63/mTix/api/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ReservationService_MakeReservation_FullMethodName         = "/mtix.reservation.v1.ReservationService/MakeReservation"
	ReservationService_CancelReservation_FullMethodName       = "/mtix.reservation.v1.ReservationService/CancelReservation"
	ReservationService_GetReservation_FullMethodName          = "/mtix.reservation.v1.ReservationService/GetReservation"
	ReservationService_MakeBulkReservation_FullMethodName     = "/mtix.reservation.v1.ReservationService/MakeBulkReservation"
	ReservationService_CancelBulkReservation_FullMethodName   = "/mtix.reservation.v1.ReservationService/CancelBulkReservation"
	ReservationService_GetBulkReservation_FullMethodName      = "/mtix.reservation.v1.ReservationService/GetBulkReservation"
	ReservationService_ListBulkReservations_FullMethodName    = "/mtix.reservation.v1.ReservationService/ListBulkReservations"
	ReservationService_GetCustomerReservations_FullMethodName = "/mtix.reservation.v1.ReservationService/GetCustomerReservations"
	ReservationService_GetConcertReservations_FullMethodName  = "/mtix.reservation.v1.ReservationService/GetConcertReservations"
)

// ReservationServiceClient is the client API for ReservationService.
type ReservationServiceClient interface {
	MakeReservation(ctx context.Context, in *ReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error)
	CancelReservation(ctx context.Context, in *CancelReservationRequest, opts ...grpc.CallOption) (*CancelReservationResponse, error)
	GetReservation(ctx context.Context, in *GetReservationRequest, opts ...grpc.CallOption) (*GetReservationResponse, error)
	MakeBulkReservation(ctx context.Context, in *BulkReservationRequest, opts ...grpc.CallOption) (*BulkReservationResponse, error)
	CancelBulkReservation(ctx context.Context, in *CancelBulkReservationRequest, opts ...grpc.CallOption) (*CancelBulkReservationResponse, error)
	GetBulkReservation(ctx context.Context, in *GetBulkReservationRequest, opts ...grpc.CallOption) (*GetBulkReservationResponse, error)
	ListBulkReservations(ctx context.Context, in *ListBulkReservationsRequest, opts ...grpc.CallOption) (*ListBulkReservationsResponse, error)
	GetCustomerReservations(ctx context.Context, in *GetCustomerReservationsRequest, opts ...grpc.CallOption) (*GetCustomerReservationsResponse, error)
	GetConcertReservations(ctx context.Context, in *ConcertReservationsRequest, opts ...grpc.CallOption) (ReservationService_GetConcertReservationsClient, error)
}

type reservationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReservationServiceClient(cc grpc.ClientConnInterface) ReservationServiceClient {
	return &reservationServiceClient{cc}
}

func (c *reservationServiceClient) MakeReservation(ctx context.Context, in *ReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	out := new(ReservationResponse)
	err := c.cc.Invoke(ctx, ReservationService_MakeReservation_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) CancelReservation(ctx context.Context, in *CancelReservationRequest, opts ...grpc.CallOption) (*CancelReservationResponse, error) {
	out := new(CancelReservationResponse)
	err := c.cc.Invoke(ctx, ReservationService_CancelReservation_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) GetReservation(ctx context.Context, in *GetReservationRequest, opts ...grpc.CallOption) (*GetReservationResponse, error) {
	out := new(GetReservationResponse)
	err := c.cc.Invoke(ctx, ReservationService_GetReservation_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) MakeBulkReservation(ctx context.Context, in *BulkReservationRequest, opts ...grpc.CallOption) (*BulkReservationResponse, error) {
	out := new(BulkReservationResponse)
	err := c.cc.Invoke(ctx, ReservationService_MakeBulkReservation_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) CancelBulkReservation(ctx context.Context, in *CancelBulkReservationRequest, opts ...grpc.CallOption) (*CancelBulkReservationResponse, error) {
	out := new(CancelBulkReservationResponse)
	err := c.cc.Invoke(ctx, ReservationService_CancelBulkReservation_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) GetBulkReservation(ctx context.Context, in *GetBulkReservationRequest, opts ...grpc.CallOption) (*GetBulkReservationResponse, error) {
	out := new(GetBulkReservationResponse)
	err := c.cc.Invoke(ctx, ReservationService_GetBulkReservation_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) ListBulkReservations(ctx context.Context, in *ListBulkReservationsRequest, opts ...grpc.CallOption) (*ListBulkReservationsResponse, error) {
	out := new(ListBulkReservationsResponse)
	err := c.cc.Invoke(ctx, ReservationService_ListBulkReservations_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) GetCustomerReservations(ctx context.Context, in *GetCustomerReservationsRequest, opts ...grpc.CallOption) (*GetCustomerReservationsResponse, error) {
	out := new(GetCustomerReservationsResponse)
	err := c.cc.Invoke(ctx, ReservationService_GetCustomerReservations_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) GetConcertReservations(ctx context.Context, in *ConcertReservationsRequest, opts ...grpc.CallOption) (ReservationService_GetConcertReservationsClient, error) {
	stream, err := c.cc.NewStream(ctx, &ReservationService_ServiceDesc.Streams[0], ReservationService_GetConcertReservations_FullMethodName, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	x := &reservationServiceGetConcertReservationsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type ReservationService_GetConcertReservationsClient interface {
	Recv() (*ConcertReservationsResponse, error)
	grpc.ClientStream
}

type reservationServiceGetConcertReservationsClient struct {
	grpc.ClientStream
}

func (x *reservationServiceGetConcertReservationsClient) Recv() (*ConcertReservationsResponse, error) {
	m := new(ConcertReservationsResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReservationServiceServer is the server API for ReservationService.
type ReservationServiceServer interface {
	MakeReservation(context.Context, *ReservationRequest) (*ReservationResponse, error)
	CancelReservation(context.Context, *CancelReservationRequest) (*CancelReservationResponse, error)
	GetReservation(context.Context, *GetReservationRequest) (*GetReservationResponse, error)
	MakeBulkReservation(context.Context, *BulkReservationRequest) (*BulkReservationResponse, error)
	CancelBulkReservation(context.Context, *CancelBulkReservationRequest) (*CancelBulkReservationResponse, error)
	GetBulkReservation(context.Context, *GetBulkReservationRequest) (*GetBulkReservationResponse, error)
	ListBulkReservations(context.Context, *ListBulkReservationsRequest) (*ListBulkReservationsResponse, error)
	GetCustomerReservations(context.Context, *GetCustomerReservationsRequest) (*GetCustomerReservationsResponse, error)
	GetConcertReservations(*ConcertReservationsRequest, ReservationService_GetConcertReservationsServer) error
}

// UnimplementedReservationServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedReservationServiceServer struct{}

func (UnimplementedReservationServiceServer) MakeReservation(context.Context, *ReservationRequest) (*ReservationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MakeReservation not implemented")
}
func (UnimplementedReservationServiceServer) CancelReservation(context.Context, *CancelReservationRequest) (*CancelReservationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelReservation not implemented")
}
func (UnimplementedReservationServiceServer) GetReservation(context.Context, *GetReservationRequest) (*GetReservationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetReservation not implemented")
}
func (UnimplementedReservationServiceServer) MakeBulkReservation(context.Context, *BulkReservationRequest) (*BulkReservationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MakeBulkReservation not implemented")
}
func (UnimplementedReservationServiceServer) CancelBulkReservation(context.Context, *CancelBulkReservationRequest) (*CancelBulkReservationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelBulkReservation not implemented")
}
func (UnimplementedReservationServiceServer) GetBulkReservation(context.Context, *GetBulkReservationRequest) (*GetBulkReservationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBulkReservation not implemented")
}
func (UnimplementedReservationServiceServer) ListBulkReservations(context.Context, *ListBulkReservationsRequest) (*ListBulkReservationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListBulkReservations not implemented")
}
func (UnimplementedReservationServiceServer) GetCustomerReservations(context.Context, *GetCustomerReservationsRequest) (*GetCustomerReservationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCustomerReservations not implemented")
}
func (UnimplementedReservationServiceServer) GetConcertReservations(*ConcertReservationsRequest, ReservationService_GetConcertReservationsServer) error {
	return status.Errorf(codes.Unimplemented, "method GetConcertReservations not implemented")
}

func RegisterReservationServiceServer(s grpc.ServiceRegistrar, srv ReservationServiceServer) {
	s.RegisterService(&ReservationService_ServiceDesc, srv)
}

func _ReservationService_MakeReservation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).MakeReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_MakeReservation_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).MakeReservation(ctx, req.(*ReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_CancelReservation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).CancelReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_CancelReservation_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).CancelReservation(ctx, req.(*CancelReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_GetReservation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).GetReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_GetReservation_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).GetReservation(ctx, req.(*GetReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_MakeBulkReservation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(BulkReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).MakeBulkReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_MakeBulkReservation_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).MakeBulkReservation(ctx, req.(*BulkReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_CancelBulkReservation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelBulkReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).CancelBulkReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_CancelBulkReservation_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).CancelBulkReservation(ctx, req.(*CancelBulkReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_GetBulkReservation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBulkReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).GetBulkReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_GetBulkReservation_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).GetBulkReservation(ctx, req.(*GetBulkReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_ListBulkReservations_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListBulkReservationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).ListBulkReservations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_ListBulkReservations_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).ListBulkReservations(ctx, req.(*ListBulkReservationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_GetCustomerReservations_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetCustomerReservationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).GetCustomerReservations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReservationService_GetCustomerReservations_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).GetCustomerReservations(ctx, req.(*GetCustomerReservationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_GetConcertReservations_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ConcertReservationsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ReservationServiceServer).GetConcertReservations(m, &reservationServiceGetConcertReservationsServer{stream})
}

type ReservationService_GetConcertReservationsServer interface {
	Send(*ConcertReservationsResponse) error
	grpc.ServerStream
}

type reservationServiceGetConcertReservationsServer struct {
	grpc.ServerStream
}

func (x *reservationServiceGetConcertReservationsServer) Send(m *ConcertReservationsResponse) error {
	return x.ServerStream.SendMsg(m)
}

// ReservationService_ServiceDesc is the grpc.ServiceDesc for ReservationService.
var ReservationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "mtix.reservation.v1.ReservationService",
	HandlerType: (*ReservationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "MakeReservation", Handler: _ReservationService_MakeReservation_Handler},
		{MethodName: "CancelReservation", Handler: _ReservationService_CancelReservation_Handler},
		{MethodName: "GetReservation", Handler: _ReservationService_GetReservation_Handler},
		{MethodName: "MakeBulkReservation", Handler: _ReservationService_MakeBulkReservation_Handler},
		{MethodName: "CancelBulkReservation", Handler: _ReservationService_CancelBulkReservation_Handler},
		{MethodName: "GetBulkReservation", Handler: _ReservationService_GetBulkReservation_Handler},
		{MethodName: "ListBulkReservations", Handler: _ReservationService_ListBulkReservations_Handler},
		{MethodName: "GetCustomerReservations", Handler: _ReservationService_GetCustomerReservations_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetConcertReservations",
			Handler:       _ReservationService_GetConcertReservations_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "mtix/reservation/v1/reservation.proto",
}
