package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/pricing"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// productUCStub реализует только GetPricedProduct, остальное сервису не нужно.
type productUCStub struct {
	usecase.ProductUC
	priced map[string]*usecase.PricedProduct
}

func (s *productUCStub) GetPricedProduct(_ context.Context, id string) (*usecase.PricedProduct, error) {
	if p, ok := s.priced[id]; ok {
		return p, nil
	}
	return nil, e.Wrap("stub", e.ErrProductNotFound)
}

func dialPricing(t *testing.T, uc usecase.ProductUC) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(nil, logger.NewNopLogger())
	srv.RegisterServices(uc)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func quote(t *testing.T, conn *grpc.ClientConn, id string) (*structpb.Struct, error) {
	t.Helper()
	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), "/"+pricingServiceName+"/QuoteProduct", wrapperspb.String(id), out)
	return out, err
}

func TestQuoteProduct(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	offer := &domain.Offer{
		ID:              "o1",
		Name:            "Verano",
		Target:          domain.CategoryTarget{CategoryID: "film"},
		DiscountPercent: decimal.NewFromInt(15),
		StartAt:         &start,
		Enabled:         true,
	}

	uc := &productUCStub{priced: map[string]*usecase.PricedProduct{
		"p1": {
			Product: domain.Product{ID: "p1", Name: "Film 50cm", Price: decimal.NewFromInt(10000), CategoryID: "film"},
			Quote: pricing.Quote{
				Offer:           offer,
				OriginalPrice:   decimal.NewFromInt(10000),
				FinalPrice:      decimal.NewFromInt(8500),
				Savings:         decimal.NewFromInt(1500),
				DiscountPercent: decimal.NewFromInt(15),
			},
		},
		"p2": {
			Product: domain.Product{ID: "p2", Name: "Cinta", Price: decimal.NewFromInt(2990)},
			Quote: pricing.Quote{
				OriginalPrice:   decimal.NewFromInt(2990),
				FinalPrice:      decimal.NewFromInt(2990),
				Savings:         decimal.Zero,
				DiscountPercent: decimal.Zero,
			},
		},
	}}

	conn := dialPricing(t, uc)

	t.Run("with offer", func(t *testing.T) {
		out, err := quote(t, conn, "p1")
		require.NoError(t, err)

		f := out.GetFields()
		assert.Equal(t, "8500", f["final_price"].GetStringValue())
		assert.Equal(t, "1500", f["savings"].GetStringValue())
		assert.True(t, f["has_offer"].GetBoolValue())
		assert.Equal(t, "o1", f["offer_id"].GetStringValue())
		assert.Equal(t, "category", f["offer_kind"].GetStringValue())
		assert.Equal(t, "$8.500", f["formatted_price"].GetStringValue())
	})

	t.Run("without offer", func(t *testing.T) {
		out, err := quote(t, conn, "p2")
		require.NoError(t, err)

		f := out.GetFields()
		assert.False(t, f["has_offer"].GetBoolValue())
		assert.Equal(t, "2990", f["final_price"].GetStringValue())
		assert.NotContains(t, f, "offer_id")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := quote(t, conn, "missing")
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := quote(t, conn, "  ")
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestHealth(t *testing.T) {
	conn := dialPricing(t, &productUCStub{})

	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: pricingServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}

func TestGRPCErrorResponse_HidesInternals(t *testing.T) {
	err := GRPCErrorResponse(e.Wrap("repo", assert.AnError))

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, e.ErrInternalServerError.Error(), st.Message())
}
