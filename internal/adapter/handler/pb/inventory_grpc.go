package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "inventory.v1.InventoryService"

const (
	InventoryService_SearchParts_FullMethodName    = "/" + serviceName + "/SearchParts"
	InventoryService_SearchProducts_FullMethodName = "/" + serviceName + "/SearchProducts"
	InventoryService_GetPart_FullMethodName        = "/" + serviceName + "/GetPart"
	InventoryService_GetProduct_FullMethodName     = "/" + serviceName + "/GetProduct"
	InventoryService_DeletePart_FullMethodName     = "/" + serviceName + "/DeletePart"
	InventoryService_DeleteProduct_FullMethodName  = "/" + serviceName + "/DeleteProduct"
	InventoryService_AssociatePart_FullMethodName  = "/" + serviceName + "/AssociatePart"
	InventoryService_DissociatePart_FullMethodName = "/" + serviceName + "/DissociatePart"
)

type InventoryServiceServer interface {
	SearchParts(context.Context, *SearchRequest) (*SearchPartsResponse, error)
	SearchProducts(context.Context, *SearchRequest) (*SearchProductsResponse, error)
	GetPart(context.Context, *IdRequest) (*PartResponse, error)
	GetProduct(context.Context, *IdRequest) (*ProductResponse, error)
	DeletePart(context.Context, *IdRequest) (*StatusResponse, error)
	DeleteProduct(context.Context, *IdRequest) (*StatusResponse, error)
	AssociatePart(context.Context, *AssociationRequest) (*StatusResponse, error)
	DissociatePart(context.Context, *AssociationRequest) (*StatusResponse, error)
}

// UnimplementedInventoryServiceServer can be embedded to stay forward
// compatible with new methods.
type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) SearchParts(context.Context, *SearchRequest) (*SearchPartsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchParts not implemented")
}
func (UnimplementedInventoryServiceServer) SearchProducts(context.Context, *SearchRequest) (*SearchProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchProducts not implemented")
}
func (UnimplementedInventoryServiceServer) GetPart(context.Context, *IdRequest) (*PartResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPart not implemented")
}
func (UnimplementedInventoryServiceServer) GetProduct(context.Context, *IdRequest) (*ProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}
func (UnimplementedInventoryServiceServer) DeletePart(context.Context, *IdRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeletePart not implemented")
}
func (UnimplementedInventoryServiceServer) DeleteProduct(context.Context, *IdRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteProduct not implemented")
}
func (UnimplementedInventoryServiceServer) AssociatePart(context.Context, *AssociationRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AssociatePart not implemented")
}
func (UnimplementedInventoryServiceServer) DissociatePart(context.Context, *AssociationRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DissociatePart not implemented")
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(InventoryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchParts", Handler: unary(InventoryService_SearchParts_FullMethodName, InventoryServiceServer.SearchParts)},
		{MethodName: "SearchProducts", Handler: unary(InventoryService_SearchProducts_FullMethodName, InventoryServiceServer.SearchProducts)},
		{MethodName: "GetPart", Handler: unary(InventoryService_GetPart_FullMethodName, InventoryServiceServer.GetPart)},
		{MethodName: "GetProduct", Handler: unary(InventoryService_GetProduct_FullMethodName, InventoryServiceServer.GetProduct)},
		{MethodName: "DeletePart", Handler: unary(InventoryService_DeletePart_FullMethodName, InventoryServiceServer.DeletePart)},
		{MethodName: "DeleteProduct", Handler: unary(InventoryService_DeleteProduct_FullMethodName, InventoryServiceServer.DeleteProduct)},
		{MethodName: "AssociatePart", Handler: unary(InventoryService_AssociatePart_FullMethodName, InventoryServiceServer.AssociatePart)},
		{MethodName: "DissociatePart", Handler: unary(InventoryService_DissociatePart_FullMethodName, InventoryServiceServer.DissociatePart)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.proto",
}

type InventoryServiceClient interface {
	SearchParts(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchPartsResponse, error)
	SearchProducts(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchProductsResponse, error)
	GetPart(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*PartResponse, error)
	GetProduct(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*ProductResponse, error)
	DeletePart(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	DeleteProduct(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	AssociatePart(ctx context.Context, in *AssociationRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	DissociatePart(ctx context.Context, in *AssociationRequest, opts ...grpc.CallOption) (*StatusResponse, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) SearchParts(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchPartsResponse, error) {
	return invoke[SearchPartsResponse](ctx, c.cc, InventoryService_SearchParts_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) SearchProducts(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchProductsResponse, error) {
	return invoke[SearchProductsResponse](ctx, c.cc, InventoryService_SearchProducts_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) GetPart(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*PartResponse, error) {
	return invoke[PartResponse](ctx, c.cc, InventoryService_GetPart_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) GetProduct(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	return invoke[ProductResponse](ctx, c.cc, InventoryService_GetProduct_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) DeletePart(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, InventoryService_DeletePart_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) DeleteProduct(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, InventoryService_DeleteProduct_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) AssociatePart(ctx context.Context, in *AssociationRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, InventoryService_AssociatePart_FullMethodName, in, opts)
}

func (c *inventoryServiceClient) DissociatePart(ctx context.Context, in *AssociationRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, InventoryService_DissociatePart_FullMethodName, in, opts)
}
