package documenti

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cartotec/gestionale/internal/api"
)

// Handler espone le viste documentali e le esportazioni
type Handler struct {
	service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{service: svc}
}

// GetOrdine vista documentale risolta di un ordine
// GET /api/v1/documenti/ordini/:id
func (h *Handler) GetOrdine(c *gin.Context) {
	doc, err := h.service.RisolviOrdine(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, doc)
}

// ExportOrdine esporta un ordine in XLSX
// GET /api/v1/documenti/ordini/:id/xlsx
func (h *Handler) ExportOrdine(c *gin.Context) {
	f, filename, err := h.service.EsportaOrdineXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		api.InternalError(c, "scrittura excel: "+err.Error())
	}
}

// ExportGiacenza esporta la giacenza cartoni in XLSX
// GET /api/v1/documenti/giacenza/xlsx
func (h *Handler) ExportGiacenza(c *gin.Context) {
	f, filename, err := h.service.EsportaGiacenzaXLSX(c.Request.Context())
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		api.InternalError(c, "scrittura excel: "+err.Error())
	}
}
