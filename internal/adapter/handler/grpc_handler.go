package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/parts-inventory/internal/adapter/handler/pb"
	"github.com/rl1809/parts-inventory/internal/core/domain"
	"github.com/rl1809/parts-inventory/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedInventoryServiceServer
	inventory *service.InventoryService
	logger    *zap.SugaredLogger
}

func NewGRPCHandler(inventory *service.InventoryService, logger *zap.SugaredLogger) *GRPCHandler {
	return &GRPCHandler{inventory: inventory, logger: logger}
}

func (h *GRPCHandler) SearchParts(ctx context.Context, req *pb.SearchRequest) (*pb.SearchPartsResponse, error) {
	records := h.inventory.SearchParts(req.GetQuery())
	parts := make([]*pb.Part, 0, len(records))
	for _, r := range records {
		parts = append(parts, toPBPart(r))
	}
	return &pb.SearchPartsResponse{Parts: parts}, nil
}

func (h *GRPCHandler) SearchProducts(ctx context.Context, req *pb.SearchRequest) (*pb.SearchProductsResponse, error) {
	records := h.inventory.SearchProducts(req.GetQuery())
	products := make([]*pb.Product, 0, len(records))
	for _, r := range records {
		products = append(products, toPBProduct(r))
	}
	return &pb.SearchProductsResponse{Products: products}, nil
}

func (h *GRPCHandler) GetPart(ctx context.Context, req *pb.IdRequest) (*pb.PartResponse, error) {
	part, err := h.inventory.Part(int(req.GetId()))
	if err != nil {
		return &pb.PartResponse{Success: false, Message: h.message(err)}, nil
	}
	return &pb.PartResponse{Success: true, Message: "ok", Part: toPBPart(part)}, nil
}

func (h *GRPCHandler) GetProduct(ctx context.Context, req *pb.IdRequest) (*pb.ProductResponse, error) {
	product, err := h.inventory.Product(int(req.GetId()))
	if err != nil {
		return &pb.ProductResponse{Success: false, Message: h.message(err)}, nil
	}
	return &pb.ProductResponse{Success: true, Message: "ok", Product: toPBProduct(product)}, nil
}

func (h *GRPCHandler) DeletePart(ctx context.Context, req *pb.IdRequest) (*pb.StatusResponse, error) {
	return h.status(h.inventory.DeletePart(ctx, int(req.GetId())), "part deleted"), nil
}

func (h *GRPCHandler) DeleteProduct(ctx context.Context, req *pb.IdRequest) (*pb.StatusResponse, error) {
	return h.status(h.inventory.DeleteProduct(ctx, int(req.GetId())), "product deleted"), nil
}

func (h *GRPCHandler) AssociatePart(ctx context.Context, req *pb.AssociationRequest) (*pb.StatusResponse, error) {
	err := h.inventory.AssociatePart(ctx, int(req.GetProductId()), int(req.GetPartId()))
	return h.status(err, "part associated"), nil
}

func (h *GRPCHandler) DissociatePart(ctx context.Context, req *pb.AssociationRequest) (*pb.StatusResponse, error) {
	err := h.inventory.DissociatePart(ctx, int(req.GetProductId()), int(req.GetPartId()))
	return h.status(err, "part removed"), nil
}

func (h *GRPCHandler) status(err error, okMessage string) *pb.StatusResponse {
	if err != nil {
		return &pb.StatusResponse{Success: false, Message: h.message(err)}
	}
	return &pb.StatusResponse{Success: true, Message: okMessage}
}

func (h *GRPCHandler) message(err error) string {
	msg := errorMessage(err)
	if msg == "internal error" {
		h.logger.Errorw("rpc failed", "error", err)
	}
	return msg
}

func toPBPart(r domain.PartRecord) *pb.Part {
	p := &pb.Part{
		Id:          int64(r.ID),
		Kind:        string(r.Kind),
		Name:        r.Name,
		Price:       r.Price,
		Stock:       int64(r.Stock),
		Min:         int64(r.Min),
		Max:         int64(r.Max),
		CompanyName: r.CompanyName,
	}
	if r.MachineID != nil {
		machineID := int64(*r.MachineID)
		p.MachineId = &machineID
	}
	return p
}

func toPBProduct(r domain.ProductRecord) *pb.Product {
	ids := make([]int64, 0, len(r.PartIDs))
	for _, id := range r.PartIDs {
		ids = append(ids, int64(id))
	}
	return &pb.Product{
		Id:      int64(r.ID),
		Name:    r.Name,
		Price:   r.Price,
		Stock:   int64(r.Stock),
		Min:     int64(r.Min),
		Max:     int64(r.Max),
		PartIds: ids,
	}
}
