package service

import (
	"context"
	"testing"

	"github.com/cartotec/gestionale/internal/anagrafica/entity"
	"github.com/cartotec/gestionale/internal/anagrafica/repository"
	"github.com/cartotec/gestionale/internal/testutil"
)

func setup(t *testing.T) *Service {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(repository.NewClienteRepo(db), repository.NewFornitoreRepo(db), testutil.TestLogger())
}

func TestCreateClienteAssegnaCodiciProgressivi(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	primo := &entity.Cliente{RagioneSociale: "Scatolificio Alfa"}
	secondo := &entity.Cliente{RagioneSociale: "Scatolificio Beta"}
	if err := svc.CreateCliente(ctx, primo); err != nil {
		t.Fatalf("creazione primo cliente: %v", err)
	}
	if err := svc.CreateCliente(ctx, secondo); err != nil {
		t.Fatalf("creazione secondo cliente: %v", err)
	}

	if primo.Codice != "CLI-001" || secondo.Codice != "CLI-002" {
		t.Fatalf("codici assegnati %s, %s, attesi CLI-001 e CLI-002", primo.Codice, secondo.Codice)
	}
}

func TestCreateClienteSenzaRagioneSociale(t *testing.T) {
	svc := setup(t)
	if err := svc.CreateCliente(context.Background(), &entity.Cliente{}); err == nil {
		t.Fatal("atteso errore per ragione sociale mancante")
	}
}

func TestCreateFornitore(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	fornitore := &entity.Fornitore{
		RagioneSociale: "Cartiere Rossi",
		Tipo:           entity.TipoFornitoreCartone,
	}
	if err := svc.CreateFornitore(ctx, fornitore); err != nil {
		t.Fatalf("creazione fornitore: %v", err)
	}
	if fornitore.Codice != "FOR-001" {
		t.Fatalf("codice fornitore = %s, atteso FOR-001", fornitore.Codice)
	}

	riletto, err := svc.GetFornitore(ctx, fornitore.ID)
	if err != nil {
		t.Fatalf("rilettura: %v", err)
	}
	if !riletto.ConsideraIVA {
		t.Fatal("ConsideraIVA deve valere true per default")
	}
}

func TestCreateFornitoreTipoNonValido(t *testing.T) {
	svc := setup(t)
	fornitore := &entity.Fornitore{RagioneSociale: "X", Tipo: "legno"}
	if err := svc.CreateFornitore(context.Background(), fornitore); err == nil {
		t.Fatal("atteso errore per tipo fornitore non valido")
	}
}

func TestCreateFornitoreSenzaTipo(t *testing.T) {
	svc := setup(t)
	fornitore := &entity.Fornitore{RagioneSociale: "Varie Srl"}
	if err := svc.CreateFornitore(context.Background(), fornitore); err != nil {
		t.Fatalf("creazione fornitore senza tipo: %v", err)
	}
	if fornitore.Tipo != entity.TipoFornitoreAltro {
		t.Fatalf("tipo di default = %s, atteso altro", fornitore.Tipo)
	}
}

func TestUpdateClienteNonCambiaCodice(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	cliente := &entity.Cliente{RagioneSociale: "Scatolificio Alfa"}
	if err := svc.CreateCliente(ctx, cliente); err != nil {
		t.Fatalf("creazione: %v", err)
	}

	cliente.RagioneSociale = "Scatolificio Alfa Srl"
	cliente.Codice = "CLI-999"
	if err := svc.UpdateCliente(ctx, cliente); err != nil {
		t.Fatalf("aggiornamento: %v", err)
	}

	riletto, err := svc.GetCliente(ctx, cliente.ID)
	if err != nil {
		t.Fatalf("rilettura: %v", err)
	}
	if riletto.Codice != "CLI-001" {
		t.Fatalf("codice dopo l'aggiornamento = %s, atteso CLI-001 (immutabile)", riletto.Codice)
	}
	if riletto.RagioneSociale != "Scatolificio Alfa Srl" {
		t.Fatalf("ragione sociale non aggiornata: %s", riletto.RagioneSociale)
	}
}

func TestDeleteFornitore(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	fornitore := &entity.Fornitore{RagioneSociale: "Cartiere Rossi", Tipo: entity.TipoFornitoreCartone}
	if err := svc.CreateFornitore(ctx, fornitore); err != nil {
		t.Fatalf("creazione: %v", err)
	}
	if err := svc.DeleteFornitore(ctx, fornitore.ID); err != nil {
		t.Fatalf("eliminazione: %v", err)
	}
	if _, err := svc.GetFornitore(ctx, fornitore.ID); err != ErrFornitoreNonTrovato {
		t.Fatalf("atteso ErrFornitoreNonTrovato, ottenuto %v", err)
	}
}
