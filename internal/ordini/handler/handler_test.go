package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	anagrafica "github.com/cartotec/gestionale/internal/anagrafica/entity"
	anagraficarepo "github.com/cartotec/gestionale/internal/anagrafica/repository"
	magazzinorepo "github.com/cartotec/gestionale/internal/magazzino/repository"
	"github.com/cartotec/gestionale/internal/ordini/repository"
	"github.com/cartotec/gestionale/internal/ordini/service"
	"github.com/cartotec/gestionale/internal/testutil"
)

func setupHandler(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	svc := service.NewService(
		repository.NewOrdineRepo(db),
		anagraficarepo.NewFornitoreRepo(db),
		magazzinorepo.NewRepo(db),
		testutil.TestLogger(),
	)
	h := NewHandler(svc)

	r := testutil.SetupRouter()
	v1 := testutil.AuthGroup(r, "/api/v1")
	ordini := v1.Group("/ordini-acquisto")
	{
		ordini.POST("", h.Create)
		ordini.GET("", h.List)
		ordini.GET("/:id", h.Get)
		ordini.PUT("/:id/stato", h.UpdateStato)
	}
	v1.GET("/codici/:famiglia", h.ProssimoCodice)

	fornitore := testutil.SeedFornitore(t, db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)
	return r, fornitore.ID
}

func corpoOrdine(fornitoreID string) map[string]interface{} {
	return map[string]interface{}{
		"fornitore_id": fornitoreID,
		"data_ordine":  "2026-02-10T00:00:00Z",
		"articoli": []map[string]interface{}{
			{
				"categoria":       "cartone",
				"quantita":        1000,
				"prezzo_unitario": 0.5,
				"cartone": map[string]interface{}{
					"codice_ctn":   "CTN-001",
					"formato":      "100x100cm",
					"grammatura":   "300 g/m²",
					"numero_fogli": 1000,
				},
			},
		},
	}
}

func TestCreateOrdineSenzaToken(t *testing.T) {
	r, fornitoreID := setupHandler(t)
	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/ordini-acquisto", corpoOrdine(fornitoreID), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status senza token = %d, atteso 401", w.Code)
	}
}

func TestCreateOrdine(t *testing.T) {
	r, fornitoreID := setupHandler(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/ordini-acquisto", corpoOrdine(fornitoreID), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, atteso 201, corpo: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("busta di risposta inattesa: %v", resp)
	}
	if data["numero_ordine"] != "ORD-2026-001" {
		t.Fatalf("numero_ordine = %v, atteso ORD-2026-001", data["numero_ordine"])
	}
	if data["importo_totale"].(float64) != 500 {
		t.Fatalf("importo_totale = %v, atteso 500", data["importo_totale"])
	}
}

func TestCreateOrdineCorpoNonValido(t *testing.T) {
	r, _ := setupHandler(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, http.MethodPost, "/api/v1/ordini-acquisto",
		map[string]interface{}{"data_ordine": "non-una-data"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status con corpo invalido = %d, atteso 400", w.Code)
	}
}

func TestListOrdini(t *testing.T) {
	r, fornitoreID := setupHandler(t)
	token := testutil.DefaultTestToken()

	if w := testutil.DoRequest(r, http.MethodPost, "/api/v1/ordini-acquisto", corpoOrdine(fornitoreID), token); w.Code != http.StatusCreated {
		t.Fatalf("creazione fallita: %s", w.Body.String())
	}

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/ordini-acquisto", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status lista = %d, atteso 200", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items = %d, atteso 1", len(items))
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 1 {
		t.Fatalf("total = %v, atteso 1", pagination["total"])
	}
}

func TestProssimoCodice(t *testing.T) {
	r, fornitoreID := setupHandler(t)
	token := testutil.DefaultTestToken()

	if w := testutil.DoRequest(r, http.MethodPost, "/api/v1/ordini-acquisto", corpoOrdine(fornitoreID), token); w.Code != http.StatusCreated {
		t.Fatalf("creazione fallita: %s", w.Body.String())
	}

	w := testutil.DoRequest(r, http.MethodGet, "/api/v1/codici/cartone", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, atteso 200", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["codice"] != "CTN-002" {
		t.Fatalf("prossimo codice = %v, atteso CTN-002", data["codice"])
	}

	if w := testutil.DoRequest(r, http.MethodGet, "/api/v1/codici/viti", nil, token); w.Code != http.StatusBadRequest {
		t.Fatalf("famiglia sconosciuta: status = %d, atteso 400", w.Code)
	}
}
