package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cartotec/gestionale/internal/api"
	"github.com/cartotec/gestionale/internal/ordini/entity"
	"github.com/cartotec/gestionale/internal/ordini/service"
)

// Handler espone le API REST degli ordini di acquisto
type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Create crea un ordine di acquisto
// POST /api/v1/ordini-acquisto
func (h *Handler) Create(c *gin.Context) {
	var ordine entity.OrdineAcquisto
	if err := c.ShouldBindJSON(&ordine); err != nil {
		api.BadRequest(c, "Dati ordine non validi: "+err.Error())
		return
	}

	if err := h.service.Create(c.Request.Context(), &ordine); err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	api.Created(c, ordine)
}

// Update aggiorna testata e righe di un ordine
// PUT /api/v1/ordini-acquisto/:id
func (h *Handler) Update(c *gin.Context) {
	var ordine entity.OrdineAcquisto
	if err := c.ShouldBindJSON(&ordine); err != nil {
		api.BadRequest(c, "Dati ordine non validi: "+err.Error())
		return
	}
	ordine.ID = c.Param("id")

	if err := h.service.Update(c.Request.Context(), &ordine); err != nil {
		if errors.Is(err, service.ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		if errors.Is(err, service.ErrStatoNonValido) {
			api.BadRequest(c, err.Error())
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, ordine)
}

// Delete elimina definitivamente un ordine e le righe di magazzino
// derivate
// DELETE /api/v1/ordini-acquisto/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// Get dettaglio ordine
// GET /api/v1/ordini-acquisto/:id
func (h *Handler) Get(c *gin.Context) {
	ordine, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, ordine)
}

// List elenco ordini con filtri e paginazione
// GET /api/v1/ordini-acquisto?search=xxx&stato=inviato&fornitore_id=yyy
func (h *Handler) List(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	ordini, total, err := h.service.List(c.Request.Context(),
		c.Query("search"), c.Query("stato"), c.Query("fornitore_id"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: ordini,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// UpdateStato cambia lo stato di testata di un ordine
// PUT /api/v1/ordini-acquisto/:id/stato
func (h *Handler) UpdateStato(c *gin.Context) {
	var req struct {
		Stato string `json:"stato" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Stato mancante")
		return
	}

	if err := h.service.AggiornaStatoOrdine(c.Request.Context(), c.Param("id"), req.Stato); err != nil {
		if errors.Is(err, service.ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		if errors.Is(err, service.ErrStatoNonValido) {
			api.BadRequest(c, err.Error())
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// UpdateStatoArticolo cambia lo stato di una singola riga
// PUT /api/v1/ordini-acquisto/:id/articoli/stato
func (h *Handler) UpdateStatoArticolo(c *gin.Context) {
	var req struct {
		Identificativo string `json:"identificativo" binding:"required"`
		Stato          string `json:"stato" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, "Identificativo e stato sono obbligatori")
		return
	}

	ordine, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrdineNonTrovato) {
			api.NotFound(c, "Ordine non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}

	err = h.service.AggiornaStatoArticolo(c.Request.Context(), ordine.NumeroOrdine, req.Identificativo, req.Stato)
	if err != nil {
		if errors.Is(err, service.ErrArticoloNonTrovato) {
			api.NotFound(c, "Articolo non trovato")
			return
		}
		if errors.Is(err, service.ErrStatoNonValido) {
			api.BadRequest(c, err.Error())
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// ProssimoCodice propone il prossimo codice libero per la famiglia
// richiesta
// GET /api/v1/codici/:famiglia (cartone | fustella | pulitore)
func (h *Handler) ProssimoCodice(c *gin.Context) {
	var codice string
	var err error

	switch c.Param("famiglia") {
	case "cartone":
		codice, err = h.service.ProssimoCodiceCartone(c.Request.Context())
	case "fustella":
		codice, err = h.service.ProssimoCodiceFustella(c.Request.Context())
	case "pulitore":
		codice, err = h.service.ProssimoCodicePulitore(c.Request.Context())
	default:
		api.BadRequest(c, "Famiglia di codici sconosciuta")
		return
	}
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, gin.H{"codice": codice})
}
