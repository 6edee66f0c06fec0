package ticket

import (
	"context"

	"github.com/msto63/mTix/api/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	TicketInventoryService_GetTicketInventory_FullMethodName        = "/mtix.ticket.v1.TicketInventoryService/GetTicketInventory"
	TicketInventoryService_UpdateTicketInventory_FullMethodName     = "/mtix.ticket.v1.TicketInventoryService/UpdateTicketInventory"
	TicketInventoryService_UpdateAfterPartyInventory_FullMethodName = "/mtix.ticket.v1.TicketInventoryService/UpdateAfterPartyInventory"
	TicketInventoryService_CheckAvailability_FullMethodName         = "/mtix.ticket.v1.TicketInventoryService/CheckAvailability"
)

// TicketInventoryServiceClient is the client API for TicketInventoryService.
type TicketInventoryServiceClient interface {
	GetTicketInventory(ctx context.Context, in *GetTicketInventoryRequest, opts ...grpc.CallOption) (*GetTicketInventoryResponse, error)
	UpdateTicketInventory(ctx context.Context, in *UpdateTicketInventoryRequest, opts ...grpc.CallOption) (*UpdateTicketInventoryResponse, error)
	UpdateAfterPartyInventory(ctx context.Context, in *UpdateAfterPartyInventoryRequest, opts ...grpc.CallOption) (*UpdateAfterPartyInventoryResponse, error)
	CheckAvailability(ctx context.Context, in *CheckAvailabilityRequest, opts ...grpc.CallOption) (*CheckAvailabilityResponse, error)
}

type ticketInventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTicketInventoryServiceClient(cc grpc.ClientConnInterface) TicketInventoryServiceClient {
	return &ticketInventoryServiceClient{cc}
}

func (c *ticketInventoryServiceClient) GetTicketInventory(ctx context.Context, in *GetTicketInventoryRequest, opts ...grpc.CallOption) (*GetTicketInventoryResponse, error) {
	out := new(GetTicketInventoryResponse)
	err := c.cc.Invoke(ctx, TicketInventoryService_GetTicketInventory_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ticketInventoryServiceClient) UpdateTicketInventory(ctx context.Context, in *UpdateTicketInventoryRequest, opts ...grpc.CallOption) (*UpdateTicketInventoryResponse, error) {
	out := new(UpdateTicketInventoryResponse)
	err := c.cc.Invoke(ctx, TicketInventoryService_UpdateTicketInventory_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ticketInventoryServiceClient) UpdateAfterPartyInventory(ctx context.Context, in *UpdateAfterPartyInventoryRequest, opts ...grpc.CallOption) (*UpdateAfterPartyInventoryResponse, error) {
	out := new(UpdateAfterPartyInventoryResponse)
	err := c.cc.Invoke(ctx, TicketInventoryService_UpdateAfterPartyInventory_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ticketInventoryServiceClient) CheckAvailability(ctx context.Context, in *CheckAvailabilityRequest, opts ...grpc.CallOption) (*CheckAvailabilityResponse, error) {
	out := new(CheckAvailabilityResponse)
	err := c.cc.Invoke(ctx, TicketInventoryService_CheckAvailability_FullMethodName, in, out, common.CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TicketInventoryServiceServer is the server API for TicketInventoryService.
type TicketInventoryServiceServer interface {
	GetTicketInventory(context.Context, *GetTicketInventoryRequest) (*GetTicketInventoryResponse, error)
	UpdateTicketInventory(context.Context, *UpdateTicketInventoryRequest) (*UpdateTicketInventoryResponse, error)
	UpdateAfterPartyInventory(context.Context, *UpdateAfterPartyInventoryRequest) (*UpdateAfterPartyInventoryResponse, error)
	CheckAvailability(context.Context, *CheckAvailabilityRequest) (*CheckAvailabilityResponse, error)
}

// UnimplementedTicketInventoryServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedTicketInventoryServiceServer struct{}

func (UnimplementedTicketInventoryServiceServer) GetTicketInventory(context.Context, *GetTicketInventoryRequest) (*GetTicketInventoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTicketInventory not implemented")
}
func (UnimplementedTicketInventoryServiceServer) UpdateTicketInventory(context.Context, *UpdateTicketInventoryRequest) (*UpdateTicketInventoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateTicketInventory not implemented")
}
func (UnimplementedTicketInventoryServiceServer) UpdateAfterPartyInventory(context.Context, *UpdateAfterPartyInventoryRequest) (*UpdateAfterPartyInventoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateAfterPartyInventory not implemented")
}
func (UnimplementedTicketInventoryServiceServer) CheckAvailability(context.Context, *CheckAvailabilityRequest) (*CheckAvailabilityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckAvailability not implemented")
}

func RegisterTicketInventoryServiceServer(s grpc.ServiceRegistrar, srv TicketInventoryServiceServer) {
	s.RegisterService(&TicketInventoryService_ServiceDesc, srv)
}

func _TicketInventoryService_GetTicketInventory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTicketInventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketInventoryServiceServer).GetTicketInventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TicketInventoryService_GetTicketInventory_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TicketInventoryServiceServer).GetTicketInventory(ctx, req.(*GetTicketInventoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TicketInventoryService_UpdateTicketInventory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateTicketInventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketInventoryServiceServer).UpdateTicketInventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TicketInventoryService_UpdateTicketInventory_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TicketInventoryServiceServer).UpdateTicketInventory(ctx, req.(*UpdateTicketInventoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TicketInventoryService_UpdateAfterPartyInventory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateAfterPartyInventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketInventoryServiceServer).UpdateAfterPartyInventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TicketInventoryService_UpdateAfterPartyInventory_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TicketInventoryServiceServer).UpdateAfterPartyInventory(ctx, req.(*UpdateAfterPartyInventoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TicketInventoryService_CheckAvailability_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckAvailabilityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketInventoryServiceServer).CheckAvailability(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TicketInventoryService_CheckAvailability_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TicketInventoryServiceServer).CheckAvailability(ctx, req.(*CheckAvailabilityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// TicketInventoryService_ServiceDesc is the grpc.ServiceDesc for TicketInventoryService.
var TicketInventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "mtix.ticket.v1.TicketInventoryService",
	HandlerType: (*TicketInventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetTicketInventory", Handler: _TicketInventoryService_GetTicketInventory_Handler},
		{MethodName: "UpdateTicketInventory", Handler: _TicketInventoryService_UpdateTicketInventory_Handler},
		{MethodName: "UpdateAfterPartyInventory", Handler: _TicketInventoryService_UpdateAfterPartyInventory_Handler},
		{MethodName: "CheckAvailability", Handler: _TicketInventoryService_CheckAvailability_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mtix/ticket/v1/ticket.proto",
}
