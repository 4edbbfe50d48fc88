package http

import (
	"errors"
	"net/http"

	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type PreferencesHandler struct {
	uc     usecase.RecommendationUC
	logger logger.Logger
}

func NewPreferencesHandler(uc usecase.RecommendationUC, logger logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{uc: uc, logger: logger}
}

// upsertPreferences
//
//	@Summary		Сохранение предпочтений
//	@Description	Поля задаются строками через запятую и сохраняются как есть.
//	@Tags			preferences
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int					true	"ID пользователя"
//	@Param			request	body		PreferencesRequest	true	"Предпочтения"
//	@Success		200		{object}	PreferencesResponse	"Сохранённые предпочтения"
//	@Failure		400		{object}	ErrorResponse		"Неверный запрос"
//	@Failure		503		{object}	ErrorResponse		"Хранилище не настроено"
//	@Router			/api/v1/users/{userID}/preferences [put]
func (h *PreferencesHandler) upsertPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, err)
		return
	}

	var req PreferencesRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.uc.UpsertPreferences(r.Context(), usecase.NewUpsertPreferencesReq(
		userID, req.FavoriteColors, req.PreferredStyles, req.PreferredCategories,
	))
	if err != nil {
		h.fail(w, err)
		return
	}

	changed := !res.NoChanges
	WriteSuccess(w, http.StatusOK, NewPreferencesResponse(res.Preferences, &changed))
}

// getPreferences
//
//	@Summary	Предпочтения пользователя
//	@Tags		preferences
//	@Produce	json
//	@Param		userID	path		int					true	"ID пользователя"
//	@Success	200		{object}	PreferencesResponse	"Предпочтения"
//	@Failure	404		{object}	ErrorResponse		"Пользователь не найден"
//	@Router		/api/v1/users/{userID}/preferences [get]
func (h *PreferencesHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, err)
		return
	}

	prefs, err := h.uc.GetPreferences(r.Context(), userID)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			WriteErrorCode(w, http.StatusNotFound, e.ErrUserNotFound.Error())
			return
		}
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewPreferencesResponse(prefs, nil))
}

func (h *PreferencesHandler) fail(w http.ResponseWriter, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "%d preferences request failed", code)
	} else {
		h.logger.Warnf("%d %s", code, err.Error())
	}
	WriteError(w, err)
}
