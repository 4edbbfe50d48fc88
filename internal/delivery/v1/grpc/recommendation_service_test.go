package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeUC struct {
	usecase.RecommendationUC
	err    error
	items  []domain.ScoredProduct
	gotReq *usecase.RecommendReq
}

func (f *fakeUC) Recommend(_ context.Context, req *usecase.RecommendReq) (*usecase.RecommendRes, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return usecase.NewRecommendRes(req.UserID, domain.VariantPreferences, f.items), nil
}

func dial(t *testing.T, uc usecase.RecommendationUC) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(&cfg.GRPCConfig{}, logger.NewNopLogger())
	srv.RegisterServices(uc, string(domain.VariantPreferences))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, in map[string]any) (*structpb.Struct, error) {
	t.Helper()

	req, err := structpb.NewStruct(in)
	if err != nil {
		t.Fatal(err)
	}
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), recommendFullName, req, out)
	return out, err
}

func TestRecommend_Success(t *testing.T) {
	item := domain.ScoredProduct{
		Product: *domain.NewProduct(4, "jeans", "pants", "blue denim", decimal.RequireFromString("19.90")),
		Score:   0.8,
	}
	uc := &fakeUC{items: []domain.ScoredProduct{item}}
	conn := dial(t, uc)

	out, err := invoke(t, conn, map[string]any{"user_id": 12, "top_n": 1, "detailed": true})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if uc.gotReq.UserID != 12 || uc.gotReq.TopN == nil || *uc.gotReq.TopN != 1 {
		t.Errorf("usecase got %+v", uc.gotReq)
	}

	fields := out.GetFields()
	if fields["status"].GetStringValue() != "success" {
		t.Errorf("status = %v", fields["status"])
	}
	ids := fields["recommendations"].GetListValue().GetValues()
	if len(ids) != 1 || ids[0].GetNumberValue() != 4 {
		t.Errorf("recommendations = %v, want [4]", ids)
	}
	items := fields["items"].GetListValue().GetValues()
	if len(items) != 1 {
		t.Fatalf("items = %v, want 1", items)
	}
	price := items[0].GetStructValue().GetFields()["price"].GetNumberValue()
	if price != 19.9 {
		t.Errorf("price = %v, want 19.9", price)
	}
}

func TestRecommend_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    map[string]any
		ucErr error
		want  codes.Code
	}{
		{name: "missing user id", in: map[string]any{}, want: codes.InvalidArgument},
		{name: "fractional user id", in: map[string]any{"user_id": 1.5}, want: codes.InvalidArgument},
		{name: "string top_n", in: map[string]any{"user_id": 1, "top_n": "five"}, want: codes.InvalidArgument},
		{name: "no profile", in: map[string]any{"user_id": 1}, ucErr: e.ErrNoProfile, want: codes.FailedPrecondition},
		{name: "unknown user", in: map[string]any{"user_id": 1}, ucErr: e.ErrUserNotFound, want: codes.NotFound},
		{name: "shop down", in: map[string]any{"user_id": 1}, ucErr: e.Wrap("op", e.ErrUpstreamFetch), want: codes.Unavailable},
		{name: "unexpected", in: map[string]any{"user_id": 1}, ucErr: context.Canceled, want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, &fakeUC{err: tt.ucErr})

			_, err := invoke(t, conn, tt.in)
			if got := status.Code(err); got != tt.want {
				t.Errorf("code = %v, want %v (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestParseRecommendRequest_NullTopN(t *testing.T) {
	in, err := structpb.NewStruct(map[string]any{"user_id": 3, "top_n": nil})
	if err != nil {
		t.Fatal(err)
	}

	req, err := parseRecommendRequest(in)
	if err != nil {
		t.Fatalf("parseRecommendRequest() error = %v", err)
	}
	if req.topN != nil {
		t.Errorf("topN = %v, want nil for null", *req.topN)
	}
}
