package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/metrics"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName       = "recommender.v1.RecommendationService"
	recommendFullName = "/" + serviceName + "/Recommend"
	transportGRPC     = "grpc"
)

// RecommendationServiceServer: серверная часть recommender.v1.RecommendationService.
// Сообщения передаются как google.protobuf.Struct, поэтому сгенерированные стабы не нужны.
type RecommendationServiceServer interface {
	Recommend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var recommendationServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RecommendationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Recommend",
			Handler:    recommendHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recommender/v1/recommender.proto",
}

func recommendHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecommendationServiceServer).Recommend(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: recommendFullName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RecommendationServiceServer).Recommend(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type RecommendationService struct {
	uc      usecase.RecommendationUC
	variant string
	logger  logger.Logger
}

func NewRecommendationService(uc usecase.RecommendationUC, variant string, logger logger.Logger) *RecommendationService {
	return &RecommendationService{uc: uc, variant: variant, logger: logger}
}

func (g *RecommendationService) Recommend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.Recommend"
	start := time.Now()

	req, err := parseRecommendRequest(in)
	if err != nil {
		return nil, g.fail(op, err, start)
	}

	res, err := g.uc.Recommend(ctx, usecase.NewRecommendReq(req.userID, req.topN))
	if err != nil {
		return nil, g.fail(op, err, start)
	}

	out, err := toRecommendResponse(res, req.detailed)
	if err != nil {
		return nil, g.fail(op, err, start)
	}

	metrics.RecordRecommendation(g.variant, transportGRPC, metrics.StatusSuccess, len(res.Items), time.Since(start))
	return out, nil
}

func (g *RecommendationService) fail(op string, err error, start time.Time) error {
	grpcErr := GRPCErrorResponse(err)

	var outcome string
	switch status.Code(grpcErr) {
	case codes.Unavailable:
		outcome = metrics.StatusUpstream
	case codes.Internal:
		outcome = metrics.StatusError
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
	default:
		outcome = metrics.StatusRejected
		g.logger.Warnf("%s: %s", op, err.Error())
	}
	metrics.RecordRecommendation(g.variant, transportGRPC, outcome, 0, time.Since(start))

	return grpcErr
}
