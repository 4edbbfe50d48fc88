package http

import (
	"net/http"

	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
)

type CatalogHandler struct {
	uc     usecase.RecommendationUC
	logger logger.Logger
}

func NewCatalogHandler(uc usecase.RecommendationUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: logger}
}

// exportSnapshot
//
//	@Summary		Выгрузка снимка каталога
//	@Description	Читает каталог из источника и сохраняет JSON-снимок в MinIO.
//	@Tags			catalog
//	@Produce		json
//	@Success		201	{object}	SnapshotResponse	"Снимок сохранён"
//	@Failure		502	{object}	ErrorResponse		"Источник каталога недоступен"
//	@Failure		503	{object}	ErrorResponse		"MinIO не настроен"
//	@Router			/api/v1/catalog/snapshot [post]
func (h *CatalogHandler) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.uc.ExportCatalogSnapshot(r.Context())
	if err != nil {
		h.logger.Errorf(err, "catalog snapshot export failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewSnapshotResponse(info))
}

// healthz
//
//	@Summary	Проверка живости
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/healthz [get]
func healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
