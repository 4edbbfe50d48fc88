package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/metrics"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const transportHTTP = "http"

type RecommendationHandler struct {
	uc      usecase.RecommendationUC
	variant string
	logger  logger.Logger
}

func NewRecommendationHandler(uc usecase.RecommendationUC, variant string, logger logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{uc: uc, variant: variant, logger: logger}
}

// legacyRecommend
//
//	@Summary		Рекомендации (совместимый формат)
//	@Description	Возвращает идентификаторы рекомендованных товаров. Любая ошибка построения профиля даёт 400.
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecommendRequest		true	"user_id и необязательный top_n"
//	@Success		200		{object}	LegacyRecommendResponse	"Рекомендации"
//	@Failure		400		{object}	ErrorResponse			"Нет профиля или неверный запрос"
//	@Failure		502		{object}	ErrorResponse			"API магазина недоступно"
//	@Router			/recommend [post]
func (h *RecommendationHandler) legacyRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.reject(w, err, time.Now())
		return
	}

	res, ok := h.recommend(w, r, &req)
	if !ok {
		return
	}

	WriteSuccess(w, http.StatusOK, NewLegacyRecommendResponse(res))
}

// recommendByBody
//
//	@Summary		Рекомендации
//	@Description	Возвращает рекомендации; при detailed=true добавляет карточки товаров с оценкой.
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecommendRequest	true	"Параметры запроса"
//	@Success		200		{object}	RecommendResponse	"Рекомендации"
//	@Failure		400		{object}	ErrorResponse		"Нет профиля или неверный запрос"
//	@Failure		502		{object}	ErrorResponse		"API магазина недоступно"
//	@Router			/api/v1/recommendations [post]
func (h *RecommendationHandler) recommendByBody(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.reject(w, err, time.Now())
		return
	}

	res, ok := h.recommend(w, r, &req)
	if !ok {
		return
	}

	WriteSuccess(w, http.StatusOK, NewRecommendResponse(res, req.Detailed))
}

// recommendForUser
//
//	@Summary		Рекомендации пользователю
//	@Tags			recommendations
//	@Produce		json
//	@Param			userID		path		int					true	"ID пользователя"
//	@Param			top_n		query		int					false	"Сколько товаров вернуть"
//	@Param			detailed	query		bool				false	"Вернуть карточки товаров"
//	@Success		200			{object}	RecommendResponse	"Рекомендации"
//	@Failure		400			{object}	ErrorResponse		"Нет профиля или неверный запрос"
//	@Failure		502			{object}	ErrorResponse		"API магазина недоступно"
//	@Router			/api/v1/users/{userID}/recommendations [get]
func (h *RecommendationHandler) recommendForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		h.reject(w, err, time.Now())
		return
	}

	query := r.URL.Query()
	topN, err := parseTopN(query.Get("top_n"))
	if err != nil {
		h.reject(w, err, time.Now())
		return
	}

	req := RecommendRequest{UserID: userID, TopN: topN, Detailed: parseBool(query.Get("detailed"))}
	res, ok := h.recommend(w, r, &req)
	if !ok {
		return
	}

	WriteSuccess(w, http.StatusOK, NewRecommendResponse(res, req.Detailed))
}

// recommend вызывает usecase и пишет ошибку в ответ, если она есть.
func (h *RecommendationHandler) recommend(w http.ResponseWriter, r *http.Request, req *RecommendRequest) (*usecase.RecommendRes, bool) {
	start := time.Now()

	res, err := h.uc.Recommend(r.Context(), usecase.NewRecommendReq(req.UserID, req.TopN))
	if err != nil {
		h.reject(w, err, start)
		return nil, false
	}

	metrics.RecordRecommendation(h.variant, transportHTTP, metrics.StatusSuccess, len(res.Items), time.Since(start))
	return res, true
}

func (h *RecommendationHandler) reject(w http.ResponseWriter, err error, start time.Time) {
	code, _ := ToHTTPResponse(err)
	metrics.RecordRecommendation(h.variant, transportHTTP, metricStatus(code), 0, time.Since(start))

	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "%d recommendation failed", code)
	} else {
		h.logger.Warnf("%d %s", code, err.Error())
	}
	WriteError(w, err)
}

func metricStatus(code int) string {
	switch {
	case code < http.StatusBadRequest:
		return metrics.StatusSuccess
	case code == http.StatusBadGateway:
		return metrics.StatusUpstream
	case code < http.StatusInternalServerError:
		return metrics.StatusRejected
	default:
		return metrics.StatusError
	}
}
