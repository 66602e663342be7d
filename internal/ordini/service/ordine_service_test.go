package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	anagrafica "github.com/cartotec/gestionale/internal/anagrafica/entity"
	anagraficarepo "github.com/cartotec/gestionale/internal/anagrafica/repository"
	magazzinoentity "github.com/cartotec/gestionale/internal/magazzino/entity"
	magazzinorepo "github.com/cartotec/gestionale/internal/magazzino/repository"
	"github.com/cartotec/gestionale/internal/ordini/entity"
	"github.com/cartotec/gestionale/internal/ordini/repository"
	"github.com/cartotec/gestionale/internal/testutil"
)

type testEnv struct {
	db        *gorm.DB
	service   *Service
	magazzino *magazzinorepo.Repo
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ordineRepo := repository.NewOrdineRepo(db)
	fornitoreRepo := anagraficarepo.NewFornitoreRepo(db)
	magazzino := magazzinorepo.NewRepo(db)
	svc := NewService(ordineRepo, fornitoreRepo, magazzino, testutil.TestLogger())
	return &testEnv{db: db, service: svc, magazzino: magazzino}
}

func rigaCartone(codice, stato string, fogli int, quantita, prezzo float64) entity.Articolo {
	return entity.Articolo{
		Categoria:      entity.CategoriaCartone,
		Stato:          stato,
		Quantita:       quantita,
		PrezzoUnitario: prezzo,
		Cartone: &entity.CartoneDettagli{
			CodiceCTN:   codice,
			Tipologia:   "teso",
			Formato:     "100x100cm",
			Grammatura:  "100 g/m²",
			NumeroFogli: fogli,
		},
	}
}

func (e *testEnv) creaOrdineCartone(t *testing.T, fornitoreID string, articoli ...entity.Articolo) *entity.OrdineAcquisto {
	t.Helper()
	ordine := &entity.OrdineAcquisto{
		FornitoreID: fornitoreID,
		DataOrdine:  time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Articoli:    articoli,
	}
	if err := e.service.Create(context.Background(), ordine); err != nil {
		t.Fatalf("creazione ordine: %v", err)
	}
	return ordine
}

func (e *testEnv) contaRighe(t *testing.T, model interface{}, codice string) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Where("codice = ?", codice).Count(&n).Error; err != nil {
		t.Fatalf("conteggio righe: %v", err)
	}
	return n
}

func TestCreateOrdineNumeroProgressivo(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	primo := env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-001", entity.StatoInAttesa, 100, 100, 0.5))
	secondo := env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-002", entity.StatoInAttesa, 100, 100, 0.5))

	if primo.NumeroOrdine != "ORD-2026-001" {
		t.Fatalf("primo numero = %s, atteso ORD-2026-001", primo.NumeroOrdine)
	}
	if secondo.NumeroOrdine != "ORD-2026-002" {
		t.Fatalf("secondo numero = %s, atteso ORD-2026-002", secondo.NumeroOrdine)
	}
}

func TestRoutingCartoneInArrivo(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-001", entity.StatoInAttesa, 1000, 1000, 0.5))

	if n := env.contaRighe(t, &magazzinoentity.CartoneArrivo{}, "CTN-001"); n != 1 {
		t.Fatalf("righe in arrivo = %d, attesa 1", n)
	}
	if n := env.contaRighe(t, &magazzinoentity.CartoneGiacenza{}, "CTN-001"); n != 0 {
		t.Fatalf("righe in giacenza = %d, attese 0", n)
	}
	if n := env.contaRighe(t, &magazzinoentity.CartoneEsaurito{}, "CTN-001"); n != 0 {
		t.Fatalf("righe esaurite = %d, attese 0", n)
	}
}

func TestRoutingCartoneRicevuto(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-001", entity.StatoRicevuto, 1000, 1000, 0.5))

	giacenza, err := env.magazzino.FindGiacenza(context.Background(), "CTN-001")
	if err != nil {
		t.Fatalf("cartone ricevuto non in giacenza: %v", err)
	}
	if giacenza.NumeroFogli != 1000 {
		t.Fatalf("fogli in giacenza = %d, attesi 1000", giacenza.NumeroFogli)
	}
	// 1000 fogli × 1 m² × 100 g/m² / 1000 = 100 kg
	if giacenza.QuantitaKg < 99.999 || giacenza.QuantitaKg > 100.001 {
		t.Fatalf("kg in giacenza = %f, attesi 100", giacenza.QuantitaKg)
	}
	if n := env.contaRighe(t, &magazzinoentity.CartoneArrivo{}, "CTN-001"); n != 0 {
		t.Fatalf("righe in arrivo = %d, attese 0", n)
	}
	if n := env.contaRighe(t, &magazzinoentity.CartoneEsaurito{}, "CTN-001"); n != 0 {
		t.Fatalf("righe esaurite = %d, attese 0", n)
	}
}

func TestRoutingCartoneRicevutoSenzaFogli(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-001", entity.StatoRicevuto, 0, 100, 0.5))

	if n := env.contaRighe(t, &magazzinoentity.CartoneEsaurito{}, "CTN-001"); n != 1 {
		t.Fatalf("righe esaurite = %d, attesa 1", n)
	}
	if n := env.contaRighe(t, &magazzinoentity.CartoneGiacenza{}, "CTN-001"); n != 0 {
		t.Fatalf("righe in giacenza = %d, attese 0", n)
	}
}

func TestRigaCartoneSenzaCodiceSaltata(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	ordine := env.creaOrdineCartone(t, fornitore.ID,
		rigaCartone("", entity.StatoInAttesa, 100, 100, 0.5),
		rigaCartone("CTN-002", entity.StatoInAttesa, 100, 100, 0.5),
	)

	// la riga malformata viene saltata, la gemella sana arriva a destinazione
	var n int64
	env.db.Model(&magazzinoentity.CartoneArrivo{}).Where("ordine = ?", ordine.NumeroOrdine).Count(&n)
	if n != 1 {
		t.Fatalf("righe in arrivo = %d, attesa 1", n)
	}
}

func TestSincronizzaIdempotente(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	ordine := env.creaOrdineCartone(t, fornitore.ID,
		rigaCartone("CTN-001", entity.StatoInAttesa, 100, 100, 0.5),
		rigaCartone("CTN-002", entity.StatoRicevuto, 500, 500, 0.4),
	)

	conta := func() [3]int64 {
		var arrivi, giacenze, esauriti int64
		env.db.Model(&magazzinoentity.CartoneArrivo{}).Count(&arrivi)
		env.db.Model(&magazzinoentity.CartoneGiacenza{}).Count(&giacenze)
		env.db.Model(&magazzinoentity.CartoneEsaurito{}).Count(&esauriti)
		return [3]int64{arrivi, giacenze, esauriti}
	}

	prima := conta()
	if err := env.service.SincronizzaMagazzino(context.Background(), ordine); err != nil {
		t.Fatalf("seconda sincronizzazione: %v", err)
	}
	dopo := conta()

	if prima != dopo {
		t.Fatalf("la sincronizzazione non è idempotente: prima %v, dopo %v", prima, dopo)
	}
	if prima != [3]int64{1, 1, 0} {
		t.Fatalf("contenuto tabelle = %v, atteso [1 1 0]", prima)
	}
}

func TestAggiornaStatoArticoloRicalcolaTotale(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	ordine := env.creaOrdineCartone(t, fornitore.ID,
		rigaCartone("CTN-001", entity.StatoInviato, 100, 3, 10),
		rigaCartone("CTN-002", entity.StatoInviato, 100, 1, 20),
	)
	if ordine.ImportoTotale != 50 {
		t.Fatalf("totale iniziale = %f, atteso 50", ordine.ImportoTotale)
	}

	ctx := context.Background()
	if err := env.service.AggiornaStatoArticolo(ctx, ordine.NumeroOrdine, "CTN-002", entity.StatoAnnullato); err != nil {
		t.Fatalf("annullamento riga: %v", err)
	}

	aggiornato, err := env.service.GetByNumero(ctx, ordine.NumeroOrdine)
	if err != nil {
		t.Fatalf("rilettura ordine: %v", err)
	}
	if aggiornato.ImportoTotale != 30 {
		t.Fatalf("totale dopo annullamento = %f, atteso 30", aggiornato.ImportoTotale)
	}
	if aggiornato.Stato == entity.StatoAnnullato {
		t.Fatal("ordine annullato con una riga ancora attiva")
	}
	// la riga annullata sparisce dal magazzino
	if n := env.contaRighe(t, &magazzinoentity.CartoneArrivo{}, "CTN-002"); n != 0 {
		t.Fatalf("riga annullata ancora in arrivo (%d)", n)
	}

	// annullando anche l'ultima riga l'ordine si annulla da solo
	if err := env.service.AggiornaStatoArticolo(ctx, ordine.NumeroOrdine, "CTN-001", entity.StatoAnnullato); err != nil {
		t.Fatalf("annullamento ultima riga: %v", err)
	}
	aggiornato, _ = env.service.GetByNumero(ctx, ordine.NumeroOrdine)
	if aggiornato.Stato != entity.StatoAnnullato {
		t.Fatalf("stato ordine = %s, atteso annullato", aggiornato.Stato)
	}
	if aggiornato.ImportoTotale != 0 {
		t.Fatalf("totale con tutte le righe annullate = %f, atteso 0", aggiornato.ImportoTotale)
	}
}

func TestAggiornaStatoArticoloNonTrovato(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)
	ordine := env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-001", entity.StatoInviato, 100, 1, 10))

	err := env.service.AggiornaStatoArticolo(context.Background(), ordine.NumeroOrdine, "CTN-999", entity.StatoRicevuto)
	if err == nil {
		t.Fatal("atteso errore per articolo inesistente")
	}
}

func TestAggiornaStatoOrdineContagioso(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)
	ordine := env.creaOrdineCartone(t, fornitore.ID,
		rigaCartone("CTN-001", entity.StatoInAttesa, 100, 1, 10),
		rigaCartone("CTN-002", entity.StatoConfermato, 100, 1, 10),
	)

	ctx := context.Background()

	// inviato si propaga a tutte le righe
	if err := env.service.AggiornaStatoOrdine(ctx, ordine.ID, entity.StatoInviato); err != nil {
		t.Fatalf("aggiornamento stato ordine: %v", err)
	}
	aggiornato, _ := env.service.Get(ctx, ordine.ID)
	for i := range aggiornato.Articoli {
		if aggiornato.Articoli[i].Stato != entity.StatoInviato {
			t.Fatalf("riga %d in stato %s, atteso inviato", i, aggiornato.Articoli[i].Stato)
		}
	}

	// confermato non si propaga: si raggiunge riga per riga dal magazzino
	if err := env.service.AggiornaStatoOrdine(ctx, ordine.ID, entity.StatoConfermato); err != nil {
		t.Fatalf("aggiornamento stato ordine: %v", err)
	}
	aggiornato, _ = env.service.Get(ctx, ordine.ID)
	if aggiornato.Stato != entity.StatoConfermato {
		t.Fatalf("stato testata = %s, atteso confermato", aggiornato.Stato)
	}
	for i := range aggiornato.Articoli {
		if aggiornato.Articoli[i].Stato != entity.StatoInviato {
			t.Fatalf("riga %d in stato %s: confermato non doveva propagarsi", i, aggiornato.Articoli[i].Stato)
		}
	}
}

func TestFustellaUpsertDisponibilita(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-002", "Fustellificio Bianchi", anagrafica.TipoFornitoreFustelle)

	ordine := env.creaOrdineCartone(t, fornitore.ID, entity.Articolo{
		Categoria:      entity.CategoriaFustella,
		Stato:          entity.StatoInviato,
		Quantita:       1,
		PrezzoUnitario: 500,
		Fustella: &entity.FustellaDettagli{
			FustellaCodice:  "FST-001",
			CodiceFornitore: "XF-12",
		},
	})

	ctx := context.Background()
	fustella, err := env.magazzino.FindFustella(ctx, "FST-001")
	if err != nil {
		t.Fatalf("fustella non derivata: %v", err)
	}
	if fustella.Disponibile {
		t.Fatal("fustella disponibile prima del ricevimento")
	}

	if err := env.service.AggiornaStatoArticolo(ctx, ordine.NumeroOrdine, "FST-001", entity.StatoRicevuto); err != nil {
		t.Fatalf("ricevimento fustella: %v", err)
	}
	fustella, _ = env.magazzino.FindFustella(ctx, "FST-001")
	if !fustella.Disponibile {
		t.Fatal("fustella non disponibile dopo il ricevimento")
	}
}

func TestPulitoreAutonomoAggiornaFustellaMadre(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-002", "Fustellificio Bianchi", anagrafica.TipoFornitoreFustelle)

	// prima l'ordine della fustella madre
	env.creaOrdineCartone(t, fornitore.ID, entity.Articolo{
		Categoria:      entity.CategoriaFustella,
		Stato:          entity.StatoRicevuto,
		Quantita:       1,
		PrezzoUnitario: 500,
		Fustella: &entity.FustellaDettagli{
			FustellaCodice:  "FST-001",
			CodiceFornitore: "XF-12",
		},
	})

	// poi il pulitore che la riferisce per codice fornitore
	env.creaOrdineCartone(t, fornitore.ID, entity.Articolo{
		Categoria:      entity.CategoriaPulitore,
		Stato:          entity.StatoRicevuto,
		Quantita:       1,
		PrezzoUnitario: 80,
		Pulitore: &entity.PulitoreDettagli{
			PulitoreCodice:          "PU-001",
			CodiceFornitoreFustella: "XF-12",
		},
	})

	ctx := context.Background()
	fustella, err := env.magazzino.FindFustella(ctx, "FST-001")
	if err != nil {
		t.Fatalf("fustella madre: %v", err)
	}
	if fustella.PulitoreCodice != "PU-001" {
		t.Fatalf("pulitore_codice = %s, atteso PU-001", fustella.PulitoreCodice)
	}

	// nessuna riga fustella in più: il pulitore non crea righe proprie
	var n int64
	env.db.Model(&magazzinoentity.Fustella{}).Count(&n)
	if n != 1 {
		t.Fatalf("righe fustelle = %d, attesa 1", n)
	}
}

func TestPulitoreSenzaFustellaMadreNonFallisce(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-002", "Fustellificio Bianchi", anagrafica.TipoFornitoreFustelle)

	ordine := &entity.OrdineAcquisto{
		FornitoreID: fornitore.ID,
		DataOrdine:  time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Articoli: entity.Articoli{{
			Categoria:      entity.CategoriaPulitore,
			Stato:          entity.StatoRicevuto,
			Quantita:       1,
			PrezzoUnitario: 80,
			Pulitore: &entity.PulitoreDettagli{
				PulitoreCodice:          "PU-001",
				CodiceFornitoreFustella: "XF-99",
			},
		}},
	}
	if err := env.service.Create(context.Background(), ordine); err != nil {
		t.Fatalf("l'ordine deve riuscire anche senza fustella madre: %v", err)
	}
}

func TestAssegnaRiferimentoFSC(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	riga := rigaCartone("CTN-001", entity.StatoInAttesa, 100, 100, 0.5)
	riga.Cartone.FSC = true
	ordine := env.creaOrdineCartone(t, fornitore.ID, riga)

	if rif := ordine.Articoli[0].Cartone.RifCommessaFSC; rif != "1/26" {
		t.Fatalf("riferimento FSC = %q, atteso 1/26", rif)
	}

	// il secondo ordine certificato prosegue la numerazione annuale
	riga2 := rigaCartone("CTN-002", entity.StatoInAttesa, 100, 100, 0.5)
	riga2.Cartone.FSC = true
	ordine2 := env.creaOrdineCartone(t, fornitore.ID, riga2)
	if rif := ordine2.Articoli[0].Cartone.RifCommessaFSC; rif != "2/26" {
		t.Fatalf("secondo riferimento FSC = %q, atteso 2/26", rif)
	}
}

func TestDeleteOrdineRimuoveDerivati(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)
	ordine := env.creaOrdineCartone(t, fornitore.ID,
		rigaCartone("CTN-001", entity.StatoInAttesa, 100, 100, 0.5),
		rigaCartone("CTN-002", entity.StatoRicevuto, 100, 100, 0.5),
	)

	if err := env.service.Delete(context.Background(), ordine.ID); err != nil {
		t.Fatalf("eliminazione ordine: %v", err)
	}

	for _, codice := range []string{"CTN-001", "CTN-002"} {
		tot := env.contaRighe(t, &magazzinoentity.CartoneArrivo{}, codice) +
			env.contaRighe(t, &magazzinoentity.CartoneGiacenza{}, codice) +
			env.contaRighe(t, &magazzinoentity.CartoneEsaurito{}, codice)
		if tot != 0 {
			t.Fatalf("righe derivate di %s sopravvissute all'eliminazione", codice)
		}
	}
}

func TestFornitoreGenericoNessunaDerivazione(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-003", "Inchiostri Verdi", anagrafica.TipoFornitoreInchiostri)

	env.creaOrdineCartone(t, fornitore.ID, entity.Articolo{
		Categoria:      entity.CategoriaGenerico,
		Stato:          entity.StatoInAttesa,
		Descrizione:    "Inchiostro ciano",
		Quantita:       10,
		PrezzoUnitario: 12,
	})

	var arrivi int64
	env.db.Model(&magazzinoentity.CartoneArrivo{}).Count(&arrivi)
	if arrivi != 0 {
		t.Fatalf("derivate %d righe per un fornitore senza magazzino", arrivi)
	}
}

func TestProssimoCodiceCartoneScandisceOrdini(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	// CTN-005 vive solo nella riga d'ordine (annullata, quindi senza
	// righe di magazzino): la scansione deve vederla comunque
	riga := rigaCartone("CTN-005", entity.StatoAnnullato, 100, 100, 0.5)
	riga2 := rigaCartone("CTN-002", entity.StatoInAttesa, 100, 100, 0.5)
	env.creaOrdineCartone(t, fornitore.ID, riga, riga2)

	codice, err := env.service.ProssimoCodiceCartone(context.Background())
	if err != nil {
		t.Fatalf("proposta codice: %v", err)
	}
	if codice != "CTN-006" {
		t.Fatalf("prossimo codice = %s, atteso CTN-006", codice)
	}
}

func TestProssimoCodiceFustellaRiempieIBuchi(t *testing.T) {
	env := setup(t)

	ctx := context.Background()
	for _, codice := range []string{"FST-001", "FST-002", "FST-004"} {
		err := env.magazzino.UpsertFustella(ctx, &magazzinoentity.Fustella{Codice: codice})
		if err != nil {
			t.Fatalf("inserimento fustella %s: %v", codice, err)
		}
	}

	codice, err := env.service.ProssimoCodiceFustella(ctx)
	if err != nil {
		t.Fatalf("proposta codice: %v", err)
	}
	if codice != "FST-003" {
		t.Fatalf("prossimo codice = %s, atteso FST-003 (gap-fill)", codice)
	}
}

func TestCreateOrdineTotaleAnnullati(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	ordine := env.creaOrdineCartone(t, fornitore.ID,
		rigaCartone("CTN-001", entity.StatoInviato, 100, 3, 10),
		rigaCartone("CTN-002", entity.StatoAnnullato, 100, 1, 20),
	)
	if ordine.ImportoTotale != 30 {
		t.Fatalf("totale = %f, atteso 30 (righe annullate escluse)", ordine.ImportoTotale)
	}
}

func TestStatoNonValido(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)
	ordine := env.creaOrdineCartone(t, fornitore.ID, rigaCartone("CTN-001", entity.StatoInviato, 100, 1, 10))

	err := env.service.AggiornaStatoOrdine(context.Background(), ordine.ID, "spedito")
	if err == nil {
		t.Fatal("stato inesistente accettato")
	}
}

func TestNumeriOrdinePerAnniDiversi(t *testing.T) {
	env := setup(t)
	fornitore := testutil.SeedFornitore(t, env.db, "FOR-001", "Cartiere Rossi", anagrafica.TipoFornitoreCartone)

	for anno := 2025; anno <= 2026; anno++ {
		ordine := &entity.OrdineAcquisto{
			FornitoreID: fornitore.ID,
			DataOrdine:  time.Date(anno, 5, 1, 0, 0, 0, 0, time.UTC),
			Articoli:    entity.Articoli{rigaCartone("CTN-00"+fmt.Sprint(anno-2024), entity.StatoInAttesa, 10, 10, 1)},
		}
		if err := env.service.Create(context.Background(), ordine); err != nil {
			t.Fatalf("creazione ordine %d: %v", anno, err)
		}
		atteso := fmt.Sprintf("ORD-%d-001", anno)
		if ordine.NumeroOrdine != atteso {
			t.Fatalf("numero = %s, atteso %s (la numerazione è per anno)", ordine.NumeroOrdine, atteso)
		}
	}
}
