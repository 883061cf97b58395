package api

import (
	"context"
	"net/http"

	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"

	"github.com/gin-gonic/gin"
)

// CatalogSource is what the catalog endpoints need; *catalog.Client
// implements it.
type CatalogSource interface {
	catalog.PageFetcher
	FetchCategories(ctx context.Context) ([]domain.ExerciseCategory, error)
}

// CatalogHandler proxies the public exercise catalog.
type CatalogHandler struct {
	source CatalogSource
	log    logging.Logger
}

func NewCatalogHandler(source CatalogSource, log logging.Logger) *CatalogHandler {
	return &CatalogHandler{source: source, log: log}
}

// ExercisePageQuery mirrors catalog.Query in query-string form.
type ExercisePageQuery struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
	Search   string `form:"search"`
	Category int    `form:"category" binding:"omitempty,min=0"`
	Focus    string `form:"focus"`
}

// GetCategories godoc
// @Summary List catalog categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.ExerciseCategory
// @Failure 502 {object} gin.H "Catalog unavailable"
// @Router /catalog/categories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	cats, err := h.source.FetchCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve categories.")
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GetExercises godoc
// @Summary Page through catalog exercises
// @Description Pass nextOffset from the previous page as offset to continue.
// @Tags Catalog
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Cursor from the previous page"
// @Param search query string false "Name or description contains"
// @Param category query int false "Category ID"
// @Param focus query string false "Focus group contains"
// @Success 200 {object} domain.ExercisePage
// @Failure 502 {object} gin.H "Catalog unavailable"
// @Router /catalog/exercises [get]
func (h *CatalogHandler) GetExercises(c *gin.Context) {
	var q ExercisePageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	page, err := h.source.FetchExercisePage(c.Request.Context(), catalog.Query{
		Limit:      q.Limit,
		Offset:     q.Offset,
		Search:     q.Search,
		CategoryID: q.Category,
		Focus:      q.Focus,
	})
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve exercises.")
		return
	}
	if page.Items == nil {
		page.Items = []domain.ExerciseCardData{}
	}
	c.JSON(http.StatusOK, page)
}
