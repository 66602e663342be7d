package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cartotec/gestionale/internal/api"
	"github.com/cartotec/gestionale/internal/magazzino/entity"
	"github.com/cartotec/gestionale/internal/magazzino/service"
)

// Handler espone le API REST del magazzino
type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// ListArrivi cartoni in arrivo
// GET /api/v1/magazzino/arrivi
func (h *Handler) ListArrivi(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	arrivi, total, err := h.service.ListArrivi(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: arrivi,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// ListGiacenze cartoni in giacenza
// GET /api/v1/magazzino/giacenza
func (h *Handler) ListGiacenze(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	giacenze, total, err := h.service.ListGiacenze(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: giacenze,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// ListEsauriti cartoni esauriti
// GET /api/v1/magazzino/esauriti
func (h *Handler) ListEsauriti(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	esauriti, total, err := h.service.ListEsauriti(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: esauriti,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// ListFustelle fustelle di magazzino
// GET /api/v1/magazzino/fustelle?disponibile=true
func (h *Handler) ListFustelle(c *gin.Context) {
	page, pageSize := api.GetPagination(c)

	var disponibile *bool
	switch c.Query("disponibile") {
	case "true":
		v := true
		disponibile = &v
	case "false":
		v := false
		disponibile = &v
	}

	fustelle, total, err := h.service.ListFustelle(c.Request.Context(), c.Query("search"), disponibile, page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: fustelle,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// ListStorico movimenti di un codice (o di tutti)
// GET /api/v1/magazzino/storico?codice=CTN-001
func (h *Handler) ListStorico(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	movimenti, total, err := h.service.ListStorico(c.Request.Context(), c.Query("codice"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: movimenti,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// ConfermaArrivo imposta o revoca la conferma su un cartone in arrivo
// PUT /api/v1/magazzino/arrivi/:codice/conferma
func (h *Handler) ConfermaArrivo(c *gin.Context) {
	var req struct {
		Confermato bool `json:"confermato"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Dati non validi")
		return
	}

	err := h.service.ConfermaArrivo(c.Request.Context(), c.Param("codice"), req.Confermato, api.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartoneNonTrovato) {
			api.NotFound(c, "Cartone non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// SpostaInGiacenza riceve un cartone in arrivo
// POST /api/v1/magazzino/arrivi/:codice/ricevi
func (h *Handler) SpostaInGiacenza(c *gin.Context) {
	var dati service.DatiArrivo
	if err := c.ShouldBindJSON(&dati); err != nil {
		api.BadRequest(c, "Dati di arrivo non validi")
		return
	}

	err := h.service.SpostaInGiacenza(c.Request.Context(), c.Param("codice"), dati, api.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartoneNonTrovato) {
			api.NotFound(c, "Cartone non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// ScaricaFogli aggiorna i fogli residui di un cartone in giacenza
// PUT /api/v1/magazzino/giacenza/:codice/fogli
func (h *Handler) ScaricaFogli(c *gin.Context) {
	var req struct {
		Fogli int    `json:"fogli"`
		Note  string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Dati non validi")
		return
	}

	err := h.service.ScaricaFogli(c.Request.Context(), c.Param("codice"), req.Fogli, req.Note, api.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartoneNonTrovato) {
			api.NotFound(c, "Cartone non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// Esaurisci porta un cartone da giacenza a esauriti
// POST /api/v1/magazzino/giacenza/:codice/esaurisci
func (h *Handler) Esaurisci(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	err := h.service.Esaurisci(c.Request.Context(), c.Param("codice"), req.Note, api.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartoneNonTrovato) {
			api.NotFound(c, "Cartone non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// RipristinaDaEsauriti riporta in giacenza un cartone esaurito
// POST /api/v1/magazzino/esauriti/:codice/ripristina
func (h *Handler) RipristinaDaEsauriti(c *gin.Context) {
	var req struct {
		Fogli int    `json:"fogli"`
		Note  string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Dati non validi")
		return
	}

	err := h.service.RipristinaDaEsauriti(c.Request.Context(), c.Param("codice"), req.Fogli, req.Note, api.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartoneNonTrovato) {
			api.NotFound(c, "Cartone non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// RiportaInArrivo rimanda un cartone da giacenza agli arrivi
// POST /api/v1/magazzino/giacenza/:codice/riporta-in-arrivo
func (h *Handler) RiportaInArrivo(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	err := h.service.RiportaInArrivo(c.Request.Context(), c.Param("codice"), req.Note, api.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCartoneNonTrovato) {
			api.NotFound(c, "Cartone non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// GetFustella dettaglio fustella
// GET /api/v1/magazzino/fustelle/:codice
func (h *Handler) GetFustella(c *gin.Context) {
	fustella, err := h.service.GetFustella(c.Request.Context(), c.Param("codice"))
	if err != nil {
		if errors.Is(err, service.ErrFustellaNonTrovata) {
			api.NotFound(c, "Fustella non trovata")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, fustella)
}

// UpdateFustella modifica manuale di una fustella
// PUT /api/v1/magazzino/fustelle/:codice
func (h *Handler) UpdateFustella(c *gin.Context) {
	var fustella entity.Fustella
	if err := c.ShouldBindJSON(&fustella); err != nil {
		api.BadRequest(c, "Dati fustella non validi")
		return
	}
	fustella.Codice = c.Param("codice")

	if err := h.service.UpdateFustella(c.Request.Context(), &fustella); err != nil {
		if errors.Is(err, service.ErrFustellaNonTrovata) {
			api.NotFound(c, "Fustella non trovata")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, fustella)
}
