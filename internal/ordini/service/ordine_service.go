package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	anagrafica "github.com/cartotec/gestionale/internal/anagrafica/entity"
	anagraficarepo "github.com/cartotec/gestionale/internal/anagrafica/repository"
	"github.com/cartotec/gestionale/internal/codegen"
	magazzinoentity "github.com/cartotec/gestionale/internal/magazzino/entity"
	magazzinorepo "github.com/cartotec/gestionale/internal/magazzino/repository"
	"github.com/cartotec/gestionale/internal/ordini/entity"
	"github.com/cartotec/gestionale/internal/ordini/repository"
	"github.com/cartotec/gestionale/internal/sse"
)

var (
	ErrOrdineNonTrovato   = errors.New("ordine non trovato")
	ErrArticoloNonTrovato = errors.New("articolo non trovato")
	ErrStatoNonValido     = errors.New("stato non valido")
)

// Service gestisce gli ordini di acquisto e tiene allineate le tabelle
// di magazzino derivate dalle righe d'ordine
type Service struct {
	ordineRepo    *repository.OrdineRepo
	fornitoreRepo *anagraficarepo.FornitoreRepo
	magazzino     *magazzinorepo.Repo
	fscGen        *codegen.GeneratoreFSC
	logger        *zap.Logger
}

func NewService(ordineRepo *repository.OrdineRepo, fornitoreRepo *anagraficarepo.FornitoreRepo, magazzino *magazzinorepo.Repo, logger *zap.Logger) *Service {
	return &Service{
		ordineRepo:    ordineRepo,
		fornitoreRepo: fornitoreRepo,
		magazzino:     magazzino,
		fscGen:        codegen.NewGeneratoreFSC(),
		logger:        logger,
	}
}

// Create crea un ordine: assegna numero ordine e riferimenti FSC,
// normalizza le righe, calcola il totale e deriva il magazzino
func (s *Service) Create(ctx context.Context, ordine *entity.OrdineAcquisto) error {
	fornitore, err := s.fornitoreRepo.FindByID(ctx, ordine.FornitoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("fornitore non trovato")
		}
		return err
	}

	if ordine.DataOrdine.IsZero() {
		ordine.DataOrdine = time.Now()
	}
	for i := range ordine.Articoli {
		ordine.Articoli[i].Normalizza()
		if !entity.StatoValido(ordine.Articoli[i].Stato) {
			return fmt.Errorf("%w: %s", ErrStatoNonValido, ordine.Articoli[i].Stato)
		}
	}

	if err := s.assegnaRiferimentiFSC(ctx, ordine); err != nil {
		return err
	}

	numero, err := s.ordineRepo.GenerateNumero(ctx, ordine.DataOrdine)
	if err != nil {
		return fmt.Errorf("generazione numero ordine: %w", err)
	}
	ordine.ID = uuid.New().String()
	ordine.NumeroOrdine = numero
	if ordine.Stato == "" {
		ordine.Stato = entity.StatoInAttesa
	}
	ordine.ImportoTotale = ordine.CalcolaImporto()

	if err := s.ordineRepo.Create(ctx, ordine); err != nil {
		return fmt.Errorf("creazione ordine: %w", err)
	}

	s.logger.Info("ordine creato",
		zap.String("numero_ordine", ordine.NumeroOrdine),
		zap.String("fornitore", fornitore.RagioneSociale),
		zap.Int("righe", len(ordine.Articoli)))

	if err := s.SincronizzaMagazzino(ctx, ordine); err != nil {
		return err
	}
	sse.PublishTableUpdate("ordini_acquisto", "create", ordine.NumeroOrdine)
	return nil
}

// Update aggiorna testata e righe di un ordine esistente; il numero
// ordine non cambia mai
func (s *Service) Update(ctx context.Context, ordine *entity.OrdineAcquisto) error {
	esistente, err := s.ordineRepo.FindByID(ctx, ordine.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrdineNonTrovato
		}
		return err
	}
	ordine.NumeroOrdine = esistente.NumeroOrdine
	ordine.CreatedAt = esistente.CreatedAt

	for i := range ordine.Articoli {
		ordine.Articoli[i].Normalizza()
		if !entity.StatoValido(ordine.Articoli[i].Stato) {
			return fmt.Errorf("%w: %s", ErrStatoNonValido, ordine.Articoli[i].Stato)
		}
	}
	if err := s.assegnaRiferimentiFSC(ctx, ordine); err != nil {
		return err
	}

	ordine.ImportoTotale = ordine.CalcolaImporto()
	if ordine.TuttiAnnullati() {
		ordine.Stato = entity.StatoAnnullato
	}

	if err := s.ordineRepo.Update(ctx, ordine); err != nil {
		return fmt.Errorf("aggiornamento ordine: %w", err)
	}

	if err := s.SincronizzaMagazzino(ctx, ordine); err != nil {
		return err
	}
	sse.PublishTableUpdate("ordini_acquisto", "update", ordine.NumeroOrdine)
	return nil
}

// Delete elimina definitivamente un ordine insieme a tutte le righe di
// magazzino derivate
func (s *Service) Delete(ctx context.Context, id string) error {
	ordine, err := s.ordineRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrdineNonTrovato
		}
		return err
	}

	err = s.ordineRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mag := s.magazzino.WithTx(tx)
		if err := mag.DeleteArriviByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		if err := mag.DeleteGiacenzeByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		if err := mag.DeleteEsauritiByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		if err := mag.DeleteFustelleByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		return s.ordineRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("eliminazione ordine: %w", err)
	}

	s.logger.Info("ordine eliminato", zap.String("numero_ordine", ordine.NumeroOrdine))
	sse.PublishTableUpdate("ordini_acquisto", "delete", ordine.NumeroOrdine)
	sse.PublishTableUpdate("ordini", "reload", ordine.NumeroOrdine)
	sse.PublishTableUpdate("giacenza", "reload", ordine.NumeroOrdine)
	sse.PublishTableUpdate("esauriti", "reload", ordine.NumeroOrdine)
	sse.PublishTableUpdate("fustelle", "reload", ordine.NumeroOrdine)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.OrdineAcquisto, error) {
	ordine, err := s.ordineRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrdineNonTrovato
		}
		return nil, err
	}
	return ordine, nil
}

func (s *Service) GetByNumero(ctx context.Context, numeroOrdine string) (*entity.OrdineAcquisto, error) {
	ordine, err := s.ordineRepo.FindByNumero(ctx, numeroOrdine)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrdineNonTrovato
		}
		return nil, err
	}
	return ordine, nil
}

func (s *Service) List(ctx context.Context, search, stato, fornitoreID string, page, pageSize int) ([]entity.OrdineAcquisto, int64, error) {
	return s.ordineRepo.FindAll(ctx, search, stato, fornitoreID, page, pageSize)
}

// AggiornaStatoArticolo cambia lo stato di una sola riga, identificata
// dal suo codice (o dalla descrizione per il generico), ricalcola il
// totale e riallinea il magazzino. Se tutte le righe risultano annullate
// anche l'ordine passa ad annullato.
func (s *Service) AggiornaStatoArticolo(ctx context.Context, numeroOrdine, identificativo, nuovoStato string) error {
	ordine, err := s.aggiornaStatoRiga(ctx, numeroOrdine, identificativo, nuovoStato)
	if err != nil {
		return err
	}
	if err := s.SincronizzaMagazzino(ctx, ordine); err != nil {
		return err
	}
	sse.PublishTableUpdate("ordini_acquisto", "update", numeroOrdine)
	return nil
}

// AggiornaStatoRiga è la variante usata dalle azioni di magazzino: la
// riga cambia stato e il totale viene ricalcolato, ma il magazzino non
// viene riallineato perché le tabelle sono già state mosse dall'azione
// chiamante.
func (s *Service) AggiornaStatoRiga(ctx context.Context, numeroOrdine, identificativo, nuovoStato string) error {
	if _, err := s.aggiornaStatoRiga(ctx, numeroOrdine, identificativo, nuovoStato); err != nil {
		return err
	}
	sse.PublishTableUpdate("ordini_acquisto", "update", numeroOrdine)
	return nil
}

func (s *Service) aggiornaStatoRiga(ctx context.Context, numeroOrdine, identificativo, nuovoStato string) (*entity.OrdineAcquisto, error) {
	if !entity.StatoValido(nuovoStato) {
		return nil, fmt.Errorf("%w: %s", ErrStatoNonValido, nuovoStato)
	}

	ordine, err := s.ordineRepo.FindByNumero(ctx, numeroOrdine)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrdineNonTrovato
		}
		return nil, err
	}

	idx := ordine.TrovaArticolo(identificativo)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrArticoloNonTrovato, identificativo)
	}

	ordine.Articoli[idx].Stato = nuovoStato
	ordine.ImportoTotale = ordine.CalcolaImporto()
	if ordine.TuttiAnnullati() {
		ordine.Stato = entity.StatoAnnullato
	}

	if err := s.ordineRepo.Update(ctx, ordine); err != nil {
		return nil, fmt.Errorf("aggiornamento stato articolo: %w", err)
	}

	s.logger.Info("stato articolo aggiornato",
		zap.String("numero_ordine", numeroOrdine),
		zap.String("articolo", identificativo),
		zap.String("stato", nuovoStato))
	return ordine, nil
}

// AggiornaStatoOrdine cambia lo stato di testata. Annullato, inviato e
// in_attesa si propagano a tutte le righe; confermato e ricevuto no,
// perché si raggiungono riga per riga dalle azioni di magazzino.
func (s *Service) AggiornaStatoOrdine(ctx context.Context, id, nuovoStato string) error {
	if !entity.StatoValido(nuovoStato) {
		return fmt.Errorf("%w: %s", ErrStatoNonValido, nuovoStato)
	}

	ordine, err := s.ordineRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrdineNonTrovato
		}
		return err
	}

	ordine.Stato = nuovoStato
	switch nuovoStato {
	case entity.StatoAnnullato, entity.StatoInviato, entity.StatoInAttesa:
		for i := range ordine.Articoli {
			ordine.Articoli[i].Stato = nuovoStato
		}
	}
	ordine.ImportoTotale = ordine.CalcolaImporto()

	if err := s.ordineRepo.Update(ctx, ordine); err != nil {
		return fmt.Errorf("aggiornamento stato ordine: %w", err)
	}

	s.logger.Info("stato ordine aggiornato",
		zap.String("numero_ordine", ordine.NumeroOrdine),
		zap.String("stato", nuovoStato))

	if err := s.SincronizzaMagazzino(ctx, ordine); err != nil {
		return err
	}
	sse.PublishTableUpdate("ordini_acquisto", "update", ordine.NumeroOrdine)
	return nil
}

// StatoOrdine restituisce lo stato di testata di un ordine, usato dal
// magazzino per riportare una riga allo stato di default dell'ordine
func (s *Service) StatoOrdine(ctx context.Context, numeroOrdine string) (string, error) {
	ordine, err := s.ordineRepo.FindByNumero(ctx, numeroOrdine)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrdineNonTrovato
		}
		return "", err
	}
	return ordine.Stato, nil
}

// SincronizzaMagazzino riallinea le tabelle derivate (arrivo, giacenza,
// esauriti, fustelle) alle righe correnti dell'ordine: cancella tutto
// ciò che riferisce l'ordine e lo ricostruisce da zero in una sola
// transazione. Per i fornitori non cartone/fustelle non c'è nulla da
// derivare.
func (s *Service) SincronizzaMagazzino(ctx context.Context, ordine *entity.OrdineAcquisto) error {
	fornitore, err := s.fornitoreRepo.FindByID(ctx, ordine.FornitoreID)
	if err != nil {
		return fmt.Errorf("risoluzione fornitore dell'ordine %s: %w", ordine.NumeroOrdine, err)
	}

	switch fornitore.Tipo {
	case anagrafica.TipoFornitoreCartone, anagrafica.TipoFornitoreFustelle:
	default:
		return nil
	}

	err = s.ordineRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mag := s.magazzino.WithTx(tx)

		// i dati di arrivo (ddt, data, magazzino) vivono solo nelle
		// righe derivate: vanno salvati prima del delete e riapplicati
		// alle righe ricostruite
		arrivi, err := s.snapshotArrivi(ctx, mag, ordine.NumeroOrdine)
		if err != nil {
			return err
		}

		if err := mag.DeleteArriviByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		if err := mag.DeleteGiacenzeByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		if err := mag.DeleteEsauritiByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}
		if err := mag.DeleteFustelleByOrdine(ctx, ordine.NumeroOrdine); err != nil {
			return err
		}

		for i := range ordine.Articoli {
			articolo := &ordine.Articoli[i]
			if articolo.Stato == entity.StatoAnnullato {
				continue
			}
			if articolo.Categoria == "" && articolo.Codice() == "" {
				continue
			}

			switch fornitore.Tipo {
			case anagrafica.TipoFornitoreCartone:
				if articolo.Categoria != entity.CategoriaCartone {
					continue
				}
				if err := s.sincronizzaCartone(ctx, mag, ordine, fornitore, articolo, arrivi); err != nil {
					return err
				}
			case anagrafica.TipoFornitoreFustelle:
				switch articolo.Categoria {
				case entity.CategoriaFustella:
					if err := s.sincronizzaFustella(ctx, mag, ordine, fornitore, articolo); err != nil {
						return err
					}
				case entity.CategoriaPulitore:
					if err := s.sincronizzaPulitore(ctx, mag, ordine, articolo); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sincronizzazione magazzino dell'ordine %s: %w", ordine.NumeroOrdine, err)
	}

	sse.PublishTableUpdate("ordini", "reload", ordine.NumeroOrdine)
	sse.PublishTableUpdate("giacenza", "reload", ordine.NumeroOrdine)
	sse.PublishTableUpdate("esauriti", "reload", ordine.NumeroOrdine)
	sse.PublishTableUpdate("fustelle", "reload", ordine.NumeroOrdine)
	return nil
}

// datiArrivo metadati di magazzino di una riga cartone già ricevuta
type datiArrivo struct {
	ddt        string
	dataArrivo string
	magazzino  string
}

// snapshotArrivi raccoglie i metadati di arrivo delle righe derivate
// esistenti prima della loro cancellazione
func (s *Service) snapshotArrivi(ctx context.Context, mag *magazzinorepo.Repo, numeroOrdine string) (map[string]datiArrivo, error) {
	arrivi := make(map[string]datiArrivo)

	giacenze, err := mag.FindGiacenzeByOrdine(ctx, numeroOrdine)
	if err != nil {
		return nil, err
	}
	for i := range giacenze {
		arrivi[giacenze[i].Codice] = datiArrivo{
			ddt:        giacenze[i].DDT,
			dataArrivo: giacenze[i].DataArrivo,
			magazzino:  giacenze[i].Magazzino,
		}
	}

	esauriti, err := mag.FindEsauritiByOrdine(ctx, numeroOrdine)
	if err != nil {
		return nil, err
	}
	for i := range esauriti {
		arrivi[esauriti[i].Codice] = datiArrivo{
			ddt:        esauriti[i].DDT,
			dataArrivo: esauriti[i].DataArrivo,
			magazzino:  esauriti[i].Magazzino,
		}
	}
	return arrivi, nil
}

// sincronizzaCartone instrada una riga cartone nella tabella determinata
// da stato e numero fogli. Le righe senza codice o con fogli non
// plausibili vengono saltate con un warning, senza far fallire l'ordine.
func (s *Service) sincronizzaCartone(ctx context.Context, mag *magazzinorepo.Repo, ordine *entity.OrdineAcquisto, fornitore *anagrafica.Fornitore, articolo *entity.Articolo, arrivi map[string]datiArrivo) error {
	dettagli := articolo.Cartone
	if dettagli == nil || dettagli.CodiceCTN == "" {
		s.logger.Warn("riga cartone senza codice, saltata",
			zap.String("numero_ordine", ordine.NumeroOrdine))
		return nil
	}
	if dettagli.NumeroFogli < 0 {
		s.logger.Warn("riga cartone con fogli negativi, saltata",
			zap.String("numero_ordine", ordine.NumeroOrdine),
			zap.String("codice", dettagli.CodiceCTN))
		return nil
	}
	if dettagli.NumeroFogli == 0 && articolo.Stato != entity.StatoRicevuto {
		s.logger.Warn("riga cartone senza fogli, saltata",
			zap.String("numero_ordine", ordine.NumeroOrdine),
			zap.String("codice", dettagli.CodiceCTN))
		return nil
	}

	base := nuovaBaseCartone(ordine, fornitore, articolo)

	switch articolo.Stato {
	case entity.StatoInAttesa, entity.StatoInviato, entity.StatoConfermato:
		return mag.CreateArrivo(ctx, &magazzinoentity.CartoneArrivo{
			CartoneBase:          base,
			DataConsegnaPrevista: articolo.DataConsegnaPrevista,
			Confermato:           articolo.Stato == entity.StatoConfermato,
		})
	case entity.StatoRicevuto:
		dati := arrivi[dettagli.CodiceCTN]
		if dettagli.NumeroFogli > 0 {
			return mag.CreateGiacenza(ctx, &magazzinoentity.CartoneGiacenza{
				CartoneBase: base,
				DDT:         dati.ddt,
				DataArrivo:  dati.dataArrivo,
				Magazzino:   dati.magazzino,
			})
		}
		return mag.CreateEsaurito(ctx, &magazzinoentity.CartoneEsaurito{
			CartoneBase: base,
			DDT:         dati.ddt,
			DataArrivo:  dati.dataArrivo,
			Magazzino:   dati.magazzino,
		})
	}
	return nil
}

func nuovaBaseCartone(ordine *entity.OrdineAcquisto, fornitore *anagrafica.Fornitore, articolo *entity.Articolo) magazzinoentity.CartoneBase {
	dettagli := articolo.Cartone
	return magazzinoentity.CartoneBase{
		Codice:         dettagli.CodiceCTN,
		Fornitore:      fornitore.RagioneSociale,
		Ordine:         ordine.NumeroOrdine,
		Tipologia:      dettagli.Tipologia,
		Formato:        dettagli.Formato,
		Grammatura:     dettagli.Grammatura,
		NumeroFogli:    dettagli.NumeroFogli,
		QuantitaKg:     articolo.QuantitaKg(),
		FSC:            dettagli.FSC,
		Alimentare:     dettagli.Alimentare,
		RifCommessaFSC: dettagli.RifCommessaFSC,
		Cliente:        articolo.Cliente,
		Lavoro:         articolo.Lavoro,
	}
}

func (s *Service) sincronizzaFustella(ctx context.Context, mag *magazzinorepo.Repo, ordine *entity.OrdineAcquisto, fornitore *anagrafica.Fornitore, articolo *entity.Articolo) error {
	dettagli := articolo.Fustella
	if dettagli == nil || dettagli.FustellaCodice == "" {
		s.logger.Warn("riga fustella senza codice, saltata",
			zap.String("numero_ordine", ordine.NumeroOrdine))
		return nil
	}

	fustella := &magazzinoentity.Fustella{
		Codice:                  dettagli.FustellaCodice,
		CodiceFornitore:         dettagli.CodiceFornitore,
		Fornitore:               fornitore.RagioneSociale,
		OrdineAcquistoNumero:    ordine.NumeroOrdine,
		Fustellatrice:           dettagli.Fustellatrice,
		Resa:                    dettagli.Resa,
		PinzaTagliata:           dettagli.PinzaTagliata,
		TasselliIntercambiabili: dettagli.TasselliIntercambiabili,
		NrTasselli:              dettagli.NrTasselli,
		Incollatura:             dettagli.Incollatura,
		Incollatrice:            dettagli.Incollatrice,
		TipoIncollatura:         dettagli.TipoIncollatura,
		Cliente:                 articolo.Cliente,
		Lavoro:                  articolo.Lavoro,
		Disponibile:             articolo.Stato == entity.StatoRicevuto,
	}
	if dettagli.HasPulitore {
		fustella.PulitoreCodice = dettagli.PulitoreCodice
	}
	return mag.UpsertFustella(ctx, fustella)
}

// sincronizzaPulitore gestisce la riga pulitore autonoma: individua la
// fustella madre per codice fornitore e ne aggiorna solo il codice
// pulitore. Se la fustella non esiste ancora la riga resta in attesa del
// suo ordine, senza errore.
func (s *Service) sincronizzaPulitore(ctx context.Context, mag *magazzinorepo.Repo, ordine *entity.OrdineAcquisto, articolo *entity.Articolo) error {
	dettagli := articolo.Pulitore
	if dettagli == nil || dettagli.PulitoreCodice == "" || dettagli.CodiceFornitoreFustella == "" {
		s.logger.Warn("riga pulitore incompleta, saltata",
			zap.String("numero_ordine", ordine.NumeroOrdine))
		return nil
	}

	fustella, err := mag.FindFustellaByCodiceFornitore(ctx, dettagli.CodiceFornitoreFustella)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("fustella madre non trovata per il pulitore",
				zap.String("numero_ordine", ordine.NumeroOrdine),
				zap.String("pulitore", dettagli.PulitoreCodice),
				zap.String("codice_fornitore", dettagli.CodiceFornitoreFustella))
			return nil
		}
		return err
	}

	if fustella.PulitoreCodice == dettagli.PulitoreCodice {
		return nil
	}
	fustella.PulitoreCodice = dettagli.PulitoreCodice
	return mag.UpdateFustella(ctx, fustella)
}

// assegnaRiferimentiFSC assegna il riferimento commessa FSC alle righe
// cartone certificate che non ne hanno ancora uno. Il contatore è per
// anno solare e viene ricostruito dagli ordini esistenti.
func (s *Service) assegnaRiferimentiFSC(ctx context.Context, ordine *entity.OrdineAcquisto) error {
	mancanti := false
	for i := range ordine.Articoli {
		a := &ordine.Articoli[i]
		if a.Categoria == entity.CategoriaCartone && a.Cartone != nil && a.Cartone.FSC && a.Cartone.RifCommessaFSC == "" {
			mancanti = true
			break
		}
	}
	if !mancanti {
		return nil
	}

	data := ordine.DataOrdine
	if data.IsZero() {
		data = time.Now()
	}

	tutti, err := s.ordineRepo.FindAllRaw(ctx)
	if err != nil {
		return fmt.Errorf("ricostruzione contatore FSC: %w", err)
	}
	var riferimenti []string
	for i := range tutti {
		for j := range tutti[i].Articoli {
			c := tutti[i].Articoli[j].Cartone
			if c != nil && c.RifCommessaFSC != "" {
				riferimenti = append(riferimenti, c.RifCommessaFSC)
			}
		}
	}
	s.fscGen.ResetDaRiferimenti(data.Year(), riferimenti)

	for i := range ordine.Articoli {
		a := &ordine.Articoli[i]
		if a.Categoria == entity.CategoriaCartone && a.Cartone != nil && a.Cartone.FSC && a.Cartone.RifCommessaFSC == "" {
			a.Cartone.RifCommessaFSC = s.fscGen.Next(data)
		}
	}
	return nil
}
