package grpc

import (
	"context"
	"strings"

	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const pricingServiceName = "store.v1.PricingService"

// PricingServiceServer отдаёт расчёт цены товара внутренним сервисам (корзина, выгрузки).
type PricingServiceServer interface {
	QuoteProduct(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// PricingServiceDesc описывает сервис без сгенерированного кода: запрос и ответ
// используют well-known типы, поэтому отдельный .proto не нужен.
var PricingServiceDesc = grpc.ServiceDesc{
	ServiceName: pricingServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "QuoteProduct",
			Handler:    quoteProductHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "store/v1/pricing.proto",
}

func quoteProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).QuoteProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + pricingServiceName + "/QuoteProduct",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServiceServer).QuoteProduct(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type PricingService struct {
	prUC   usecase.ProductUC
	logger logger.Logger
}

func NewPricingService(prUC usecase.ProductUC, logger logger.Logger) *PricingService {
	return &PricingService{prUC: prUC, logger: logger}
}

// QuoteProduct возвращает цену товара с учётом действующей оферты.
func (g *PricingService) QuoteProduct(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "grpc.QuoteProduct"

	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, GRPCErrorResponse(e.ErrInvalidQueryParam)
	}

	res, err := g.prUC.GetPricedProduct(ctx, id)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	out, err := toGRPCQuote(res)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return out, nil
}

// toGRPCQuote собирает ответ. Денежные значения передаются строками, чтобы не терять точность.
func toGRPCQuote(p *usecase.PricedProduct) (*structpb.Struct, error) {
	q := p.Quote
	fields := map[string]any{
		"product_id":       p.Product.ID,
		"name":             p.Product.Name,
		"original_price":   q.OriginalPrice.String(),
		"final_price":      q.FinalPrice.String(),
		"savings":          q.Savings.String(),
		"discount_percent": q.DiscountPercent.String(),
		"has_offer":        q.HasOffer(),
		"formatted_price":  pricing.FormatPrice(q.FinalPrice),
	}

	if q.HasOffer() {
		fields["offer_id"] = q.Offer.ID
		fields["offer_name"] = q.Offer.Name
		fields["offer_kind"] = string(q.Offer.Kind())
		fields["badge"] = pricing.BadgeText(q.DiscountPercent)
	}

	return structpb.NewStruct(fields)
}
