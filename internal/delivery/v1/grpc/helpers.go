package grpc

import (
	"errors"
	"fmt"
	"math"

	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	statusSuccess = "success"
)

// GRPCErrorResponse сопоставляет доменную ошибку gRPC-статусу.
func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrInvalidUserID),
		errors.Is(err, e.ErrInvalidTopN),
		errors.Is(err, e.ErrInvalidRequestBody):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrNoProfile):
		return status.Error(codes.FailedPrecondition, e.ErrNoProfile.Error())
	case errors.Is(err, e.ErrUserNotFound):
		return status.Error(codes.NotFound, e.ErrUserNotFound.Error())
	case errors.Is(err, e.ErrUpstreamFetch),
		errors.Is(err, e.ErrCatalogUnavailable),
		errors.Is(err, e.ErrNotConfigured):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// recommendRequest: разобранное содержимое входного Struct.
type recommendRequest struct {
	userID   int64
	topN     *int
	detailed bool
}

// parseRecommendRequest читает поля user_id, top_n и detailed.
// Числа в Struct хранятся как double, поэтому дробные значения отклоняются.
func parseRecommendRequest(in *structpb.Struct) (*recommendRequest, error) {
	fields := in.GetFields()

	userID, ok := integerField(fields["user_id"])
	if !ok || userID <= 0 {
		return nil, e.ErrInvalidUserID
	}

	req := &recommendRequest{userID: userID}

	if v, present := fields["top_n"]; present {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
			n, ok := integerField(v)
			if !ok {
				return nil, e.ErrInvalidTopN
			}
			topN := int(n)
			req.topN = &topN
		}
	}

	if v, present := fields["detailed"]; present {
		b, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return nil, fmt.Errorf("%w: detailed must be a bool", e.ErrInvalidRequestBody)
		}
		req.detailed = b.BoolValue
	}

	return req, nil
}

func integerField(v *structpb.Value) (int64, bool) {
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := num.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// toRecommendResponse собирает ответ. structpb не принимает []int64, поэтому списки строятся вручную.
func toRecommendResponse(res *usecase.RecommendRes, detailed bool) (*structpb.Struct, error) {
	ids := make([]any, len(res.Items))
	for i, item := range res.Items {
		ids[i] = float64(item.ID)
	}

	out := map[string]any{
		"status":          statusSuccess,
		"user_id":         float64(res.UserID),
		"variant":         string(res.Variant),
		"recommendations": ids,
	}

	if detailed {
		items := make([]any, len(res.Items))
		for i, item := range res.Items {
			price, _ := item.Price.Float64()
			items[i] = map[string]any{
				"id":          float64(item.ID),
				"name":        item.Name,
				"category":    item.Category,
				"description": item.Description,
				"price":       price,
				"image_url":   item.ImageURL,
				"similarity":  item.Score,
			}
		}
		out["items"] = items
	}

	return structpb.NewStruct(out)
}
