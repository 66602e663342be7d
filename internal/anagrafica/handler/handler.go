package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cartotec/gestionale/internal/anagrafica/entity"
	"github.com/cartotec/gestionale/internal/anagrafica/service"
	"github.com/cartotec/gestionale/internal/api"
)

// Handler espone le API REST delle anagrafiche
type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// CreateCliente crea un cliente
// POST /api/v1/clienti
func (h *Handler) CreateCliente(c *gin.Context) {
	var cliente entity.Cliente
	if err := c.ShouldBindJSON(&cliente); err != nil {
		api.BadRequest(c, "Dati cliente non validi: "+err.Error())
		return
	}

	if err := h.service.CreateCliente(c.Request.Context(), &cliente); err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	api.Created(c, cliente)
}

// UpdateCliente aggiorna un cliente
// PUT /api/v1/clienti/:id
func (h *Handler) UpdateCliente(c *gin.Context) {
	var cliente entity.Cliente
	if err := c.ShouldBindJSON(&cliente); err != nil {
		api.BadRequest(c, "Dati cliente non validi: "+err.Error())
		return
	}
	cliente.ID = c.Param("id")

	if err := h.service.UpdateCliente(c.Request.Context(), &cliente); err != nil {
		if errors.Is(err, service.ErrClienteNonTrovato) {
			api.NotFound(c, "Cliente non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, cliente)
}

// DeleteCliente elimina un cliente
// DELETE /api/v1/clienti/:id
func (h *Handler) DeleteCliente(c *gin.Context) {
	if err := h.service.DeleteCliente(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrClienteNonTrovato) {
			api.NotFound(c, "Cliente non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// GetCliente dettaglio cliente
// GET /api/v1/clienti/:id
func (h *Handler) GetCliente(c *gin.Context) {
	cliente, err := h.service.GetCliente(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrClienteNonTrovato) {
			api.NotFound(c, "Cliente non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, cliente)
}

// ListClienti elenco clienti con ricerca e paginazione
// GET /api/v1/clienti?search=xxx&page=1&page_size=20
func (h *Handler) ListClienti(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	clienti, total, err := h.service.ListClienti(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: clienti,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}

// CreateFornitore crea un fornitore
// POST /api/v1/fornitori
func (h *Handler) CreateFornitore(c *gin.Context) {
	var fornitore entity.Fornitore
	if err := c.ShouldBindJSON(&fornitore); err != nil {
		api.BadRequest(c, "Dati fornitore non validi: "+err.Error())
		return
	}

	if err := h.service.CreateFornitore(c.Request.Context(), &fornitore); err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	api.Created(c, fornitore)
}

// UpdateFornitore aggiorna un fornitore
// PUT /api/v1/fornitori/:id
func (h *Handler) UpdateFornitore(c *gin.Context) {
	var fornitore entity.Fornitore
	if err := c.ShouldBindJSON(&fornitore); err != nil {
		api.BadRequest(c, "Dati fornitore non validi: "+err.Error())
		return
	}
	fornitore.ID = c.Param("id")

	if err := h.service.UpdateFornitore(c.Request.Context(), &fornitore); err != nil {
		if errors.Is(err, service.ErrFornitoreNonTrovato) {
			api.NotFound(c, "Fornitore non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, fornitore)
}

// DeleteFornitore elimina un fornitore
// DELETE /api/v1/fornitori/:id
func (h *Handler) DeleteFornitore(c *gin.Context) {
	if err := h.service.DeleteFornitore(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrFornitoreNonTrovato) {
			api.NotFound(c, "Fornitore non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, nil)
}

// GetFornitore dettaglio fornitore
// GET /api/v1/fornitori/:id
func (h *Handler) GetFornitore(c *gin.Context) {
	fornitore, err := h.service.GetFornitore(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFornitoreNonTrovato) {
			api.NotFound(c, "Fornitore non trovato")
			return
		}
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, fornitore)
}

// ListFornitori elenco fornitori con ricerca, filtro tipo e paginazione
// GET /api/v1/fornitori?search=xxx&tipo=cartone&page=1&page_size=20
func (h *Handler) ListFornitori(c *gin.Context) {
	page, pageSize := api.GetPagination(c)
	fornitori, total, err := h.service.ListFornitori(c.Request.Context(), c.Query("search"), c.Query("tipo"), page, pageSize)
	if err != nil {
		api.InternalError(c, err.Error())
		return
	}
	api.Success(c, api.ListResponse{
		Items: fornitori,
		Pagination: &api.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: api.ListPages(total, pageSize),
		},
	})
}
