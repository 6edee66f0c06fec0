package concert

import (
	"context"

	"github.com/msto63/mTix/api/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ConcertService_AddConcert_FullMethodName    = "/mtix.concert.v1.ConcertService/AddConcert"
	ConcertService_UpdateConcert_FullMethodName = "/mtix.concert.v1.ConcertService/UpdateConcert"
	ConcertService_CancelConcert_FullMethodName = "/mtix.concert.v1.ConcertService/CancelConcert"
	ConcertService_GetConcert_FullMethodName    = "/mtix.concert.v1.ConcertService/GetConcert"
	ConcertService_ListConcerts_FullMethodName  = "/mtix.concert.v1.ConcertService/ListConcerts"
)

// ConcertServiceClient is the client API for ConcertService.
type ConcertServiceClient interface {
	AddConcert(ctx context.Context, in *AddConcertRequest, opts ...grpc.CallOption) (*AddConcertResponse, error)
	UpdateConcert(ctx context.Context, in *UpdateConcertRequest, opts ...grpc.CallOption) (*UpdateConcertResponse, error)
	CancelConcert(ctx context.Context, in *CancelConcertRequest, opts ...grpc.CallOption) (*CancelConcertResponse, error)
	GetConcert(ctx context.Context, in *GetConcertRequest, opts ...grpc.CallOption) (*GetConcertResponse, error)
	ListConcerts(ctx context.Context, in *ListConcertsRequest, opts ...grpc.CallOption) (*ListConcertsResponse, error)
}

type concertServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewConcertServiceClient(cc grpc.ClientConnInterface) ConcertServiceClient {
	return &concertServiceClient{cc}
}

func (c *concertServiceClient) AddConcert(ctx context.Context, in *AddConcertRequest, opts ...grpc.CallOption) (*AddConcertResponse, error) {
	out := new(AddConcertResponse)
	err := c.cc.Invoke(ctx, ConcertService_AddConcert_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *concertServiceClient) UpdateConcert(ctx context.Context, in *UpdateConcertRequest, opts ...grpc.CallOption) (*UpdateConcertResponse, error) {
	out := new(UpdateConcertResponse)
	err := c.cc.Invoke(ctx, ConcertService_UpdateConcert_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *concertServiceClient) CancelConcert(ctx context.Context, in *CancelConcertRequest, opts ...grpc.CallOption) (*CancelConcertResponse, error) {
	out := new(CancelConcertResponse)
	err := c.cc.Invoke(ctx, ConcertService_CancelConcert_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *concertServiceClient) GetConcert(ctx context.Context, in *GetConcertRequest, opts ...grpc.CallOption) (*GetConcertResponse, error) {
	out := new(GetConcertResponse)
	err := c.cc.Invoke(ctx, ConcertService_GetConcert_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *concertServiceClient) ListConcerts(ctx context.Context, in *ListConcertsRequest, opts ...grpc.CallOption) (*ListConcertsResponse, error) {
	out := new(ListConcertsResponse)
	err := c.cc.Invoke(ctx, ConcertService_ListConcerts_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConcertServiceServer is the server API for ConcertService.
type ConcertServiceServer interface {
	AddConcert(context.Context, *AddConcertRequest) (*AddConcertResponse, error)
	UpdateConcert(context.Context, *UpdateConcertRequest) (*UpdateConcertResponse, error)
	CancelConcert(context.Context, *CancelConcertRequest) (*CancelConcertResponse, error)
	GetConcert(context.Context, *GetConcertRequest) (*GetConcertResponse, error)
	ListConcerts(context.Context, *ListConcertsRequest) (*ListConcertsResponse, error)
}

// UnimplementedConcertServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedConcertServiceServer struct{}

func (UnimplementedConcertServiceServer) AddConcert(context.Context, *AddConcertRequest) (*AddConcertResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddConcert not implemented")
}
func (UnimplementedConcertServiceServer) UpdateConcert(context.Context, *UpdateConcertRequest) (*UpdateConcertResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateConcert not implemented")
}
func (UnimplementedConcertServiceServer) CancelConcert(context.Context, *CancelConcertRequest) (*CancelConcertResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelConcert not implemented")
}
func (UnimplementedConcertServiceServer) GetConcert(context.Context, *GetConcertRequest) (*GetConcertResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetConcert not implemented")
}
func (UnimplementedConcertServiceServer) ListConcerts(context.Context, *ListConcertsRequest) (*ListConcertsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListConcerts not implemented")
}

func RegisterConcertServiceServer(s grpc.ServiceRegistrar, srv ConcertServiceServer) {
	s.RegisterService(&ConcertService_ServiceDesc, srv)
}

func _ConcertService_AddConcert_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddConcertRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConcertServiceServer).AddConcert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ConcertService_AddConcert_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConcertServiceServer).AddConcert(ctx, req.(*AddConcertRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ConcertService_UpdateConcert_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateConcertRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConcertServiceServer).UpdateConcert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ConcertService_UpdateConcert_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConcertServiceServer).UpdateConcert(ctx, req.(*UpdateConcertRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ConcertService_CancelConcert_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelConcertRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConcertServiceServer).CancelConcert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ConcertService_CancelConcert_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConcertServiceServer).CancelConcert(ctx, req.(*CancelConcertRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ConcertService_GetConcert_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetConcertRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConcertServiceServer).GetConcert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ConcertService_GetConcert_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConcertServiceServer).GetConcert(ctx, req.(*GetConcertRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ConcertService_ListConcerts_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListConcertsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConcertServiceServer).ListConcerts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ConcertService_ListConcerts_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConcertServiceServer).ListConcerts(ctx, req.(*ListConcertsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ConcertService_ServiceDesc is the grpc.ServiceDesc for ConcertService.
var ConcertService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "mtix.concert.v1.ConcertService",
	HandlerType: (*ConcertServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddConcert", Handler: _ConcertService_AddConcert_Handler},
		{MethodName: "UpdateConcert", Handler: _ConcertService_UpdateConcert_Handler},
		{MethodName: "CancelConcert", Handler: _ConcertService_CancelConcert_Handler},
		{MethodName: "GetConcert", Handler: _ConcertService_GetConcert_Handler},
		{MethodName: "ListConcerts", Handler: _ConcertService_ListConcerts_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mtix/concert/v1/concert.proto",
}
