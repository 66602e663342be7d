package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cartotec/gestionale/internal/magazzino/entity"
	"github.com/cartotec/gestionale/internal/magazzino/repository"
	ordinientity "github.com/cartotec/gestionale/internal/ordini/entity"
	"github.com/cartotec/gestionale/internal/sse"
)

var (
	ErrCartoneNonTrovato  = errors.New("cartone non trovato")
	ErrFustellaNonTrovata = errors.New("fustella non trovata")
)

// OrdineUpdater riporta verso l'ordine lo stato raggiunto da una riga
// con un'azione di magazzino. L'implementazione vive nel modulo ordini
// e viene agganciata in fase di avvio per evitare il ciclo tra i due
// servizi.
type OrdineUpdater interface {
	// AggiornaStatoRiga cambia lo stato della riga e ricalcola il
	// totale senza riallineare il magazzino: le tabelle sono già state
	// mosse dall'azione chiamante
	AggiornaStatoRiga(ctx context.Context, numeroOrdine, identificativo, nuovoStato string) error
	// StatoOrdine stato di testata, usato per riportare una riga allo
	// stato di default dell'ordine
	StatoOrdine(ctx context.Context, numeroOrdine string) (string, error)
}

// Service azioni di magazzino sui cartoni e sulle fustelle. Ogni azione
// muove le tabelle, accoda un movimento allo storico e propaga lo stato
// alla riga d'ordine corrispondente.
type Service struct {
	repo   *repository.Repo
	ordini OrdineUpdater
	logger *zap.Logger
}

func NewService(repo *repository.Repo, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SetOrdini aggancia il servizio ordini per la propagazione inversa
func (s *Service) SetOrdini(ordini OrdineUpdater) {
	s.ordini = ordini
}

// DatiArrivo metadati registrati quando un cartone entra in giacenza
type DatiArrivo struct {
	DDT        string `json:"ddt"`
	DataArrivo string `json:"data_arrivo"`
	Magazzino  string `json:"magazzino"`
	Note       string `json:"note"`
}

// ConfermaArrivo imposta o toglie la conferma su un cartone in arrivo.
// Alla conferma la riga d'ordine passa a confermato; alla revoca torna
// allo stato di default dell'ordine (inviato o in_attesa), non a un
// valore fisso.
func (s *Service) ConfermaArrivo(ctx context.Context, codice string, confermato bool, userID string) error {
	arrivo, err := s.repo.FindArrivo(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartoneNonTrovato
		}
		return err
	}

	nota := "Conferma arrivo"
	if !confermato {
		nota = "Conferma arrivo revocata"
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		arrivo.Confermato = confermato
		if err := repo.UpdateArrivo(ctx, arrivo); err != nil {
			return err
		}
		return repo.AppendMovimento(ctx, &entity.MovimentoStorico{
			Codice:               codice,
			Tipo:                 entity.MovimentoModifica,
			Quantita:             arrivo.NumeroFogli,
			Data:                 time.Now(),
			Note:                 nota,
			UserID:               userID,
			NumeroOrdineAcquisto: arrivo.Ordine,
		})
	})
	if err != nil {
		return fmt.Errorf("conferma arrivo %s: %w", codice, err)
	}

	if s.ordini != nil && arrivo.Ordine != "" {
		nuovoStato := ordinientity.StatoConfermato
		if !confermato {
			statoOrdine, err := s.ordini.StatoOrdine(ctx, arrivo.Ordine)
			if err != nil {
				return err
			}
			if statoOrdine == ordinientity.StatoInviato {
				nuovoStato = ordinientity.StatoInviato
			} else {
				nuovoStato = ordinientity.StatoInAttesa
			}
		}
		if err := s.ordini.AggiornaStatoRiga(ctx, arrivo.Ordine, codice, nuovoStato); err != nil {
			return err
		}
	}

	sse.PublishTableUpdate("ordini", "update", codice)
	return nil
}

// SpostaInGiacenza riceve un cartone: lo toglie dagli arrivi, lo mette
// in giacenza con i dati di arrivo e porta la riga d'ordine a ricevuto
func (s *Service) SpostaInGiacenza(ctx context.Context, codice string, dati DatiArrivo, userID string) error {
	arrivo, err := s.repo.FindArrivo(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartoneNonTrovato
		}
		return err
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteArrivo(ctx, codice); err != nil {
			return err
		}
		if err := repo.CreateGiacenza(ctx, &entity.CartoneGiacenza{
			CartoneBase: arrivo.CartoneBase,
			DDT:         dati.DDT,
			DataArrivo:  dati.DataArrivo,
			Magazzino:   dati.Magazzino,
		}); err != nil {
			return err
		}
		return repo.AppendMovimento(ctx, &entity.MovimentoStorico{
			Codice:               codice,
			Tipo:                 entity.MovimentoCarico,
			Quantita:             arrivo.NumeroFogli,
			Data:                 time.Now(),
			Note:                 dati.Note,
			UserID:               userID,
			NumeroOrdineAcquisto: arrivo.Ordine,
		})
	})
	if err != nil {
		return fmt.Errorf("spostamento in giacenza di %s: %w", codice, err)
	}

	s.logger.Info("cartone in giacenza",
		zap.String("codice", codice),
		zap.Int("fogli", arrivo.NumeroFogli),
		zap.String("magazzino", dati.Magazzino))

	if s.ordini != nil && arrivo.Ordine != "" {
		if err := s.ordini.AggiornaStatoRiga(ctx, arrivo.Ordine, codice, ordinientity.StatoRicevuto); err != nil {
			return err
		}
	}

	sse.PublishTableUpdate("ordini", "delete", codice)
	sse.PublishTableUpdate("giacenza", "create", codice)
	return nil
}

// ScaricaFogli aggiorna i fogli residui di un cartone in giacenza; a
// zero il cartone passa tra gli esauriti
func (s *Service) ScaricaFogli(ctx context.Context, codice string, fogliResidui int, note, userID string) error {
	if fogliResidui <= 0 {
		return s.Esaurisci(ctx, codice, note, userID)
	}

	giacenza, err := s.repo.FindGiacenza(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartoneNonTrovato
		}
		return err
	}

	tipo := entity.MovimentoScarico
	quantita := giacenza.NumeroFogli - fogliResidui
	if quantita <= 0 {
		tipo = entity.MovimentoModifica
		quantita = fogliResidui - giacenza.NumeroFogli
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		giacenza.NumeroFogli = fogliResidui
		giacenza.QuantitaKg = quantitaKg(giacenza.Formato, giacenza.Grammatura, fogliResidui)
		if err := repo.UpdateGiacenza(ctx, giacenza); err != nil {
			return err
		}
		return repo.AppendMovimento(ctx, &entity.MovimentoStorico{
			Codice:               codice,
			Tipo:                 tipo,
			Quantita:             quantita,
			Data:                 time.Now(),
			Note:                 note,
			UserID:               userID,
			NumeroOrdineAcquisto: giacenza.Ordine,
		})
	})
	if err != nil {
		return fmt.Errorf("scarico fogli di %s: %w", codice, err)
	}

	sse.PublishTableUpdate("giacenza", "update", codice)
	return nil
}

// Esaurisci porta un cartone da giacenza a esauriti con fogli a zero.
// L'esaurimento è un evento di scorta, non di ordine: nessuna
// propagazione di stato.
func (s *Service) Esaurisci(ctx context.Context, codice, note, userID string) error {
	giacenza, err := s.repo.FindGiacenza(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartoneNonTrovato
		}
		return err
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteGiacenza(ctx, codice); err != nil {
			return err
		}
		esaurito := &entity.CartoneEsaurito{
			CartoneBase: giacenza.CartoneBase,
			DDT:         giacenza.DDT,
			DataArrivo:  giacenza.DataArrivo,
			Magazzino:   giacenza.Magazzino,
		}
		esaurito.NumeroFogli = 0
		esaurito.QuantitaKg = 0
		if err := repo.CreateEsaurito(ctx, esaurito); err != nil {
			return err
		}
		return repo.AppendMovimento(ctx, &entity.MovimentoStorico{
			Codice:               codice,
			Tipo:                 entity.MovimentoScarico,
			Quantita:             giacenza.NumeroFogli,
			Data:                 time.Now(),
			Note:                 note,
			UserID:               userID,
			NumeroOrdineAcquisto: giacenza.Ordine,
		})
	})
	if err != nil {
		return fmt.Errorf("esaurimento di %s: %w", codice, err)
	}

	s.logger.Info("cartone esaurito", zap.String("codice", codice))
	sse.PublishTableUpdate("giacenza", "delete", codice)
	sse.PublishTableUpdate("esauriti", "create", codice)
	return nil
}

// RipristinaDaEsauriti riporta in giacenza un cartone esaurito con
// almeno un foglio; la riga d'ordine torna a confermato
func (s *Service) RipristinaDaEsauriti(ctx context.Context, codice string, fogli int, note, userID string) error {
	esaurito, err := s.repo.FindEsaurito(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartoneNonTrovato
		}
		return err
	}

	if fogli < 1 {
		fogli = 1
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteEsaurito(ctx, codice); err != nil {
			return err
		}
		giacenza := &entity.CartoneGiacenza{
			CartoneBase: esaurito.CartoneBase,
			DDT:         esaurito.DDT,
			DataArrivo:  esaurito.DataArrivo,
			Magazzino:   esaurito.Magazzino,
		}
		giacenza.NumeroFogli = fogli
		giacenza.QuantitaKg = quantitaKg(giacenza.Formato, giacenza.Grammatura, fogli)
		if err := repo.CreateGiacenza(ctx, giacenza); err != nil {
			return err
		}
		return repo.AppendMovimento(ctx, &entity.MovimentoStorico{
			Codice:               codice,
			Tipo:                 entity.MovimentoCarico,
			Quantita:             fogli,
			Data:                 time.Now(),
			Note:                 note,
			UserID:               userID,
			NumeroOrdineAcquisto: esaurito.Ordine,
		})
	})
	if err != nil {
		return fmt.Errorf("ripristino di %s: %w", codice, err)
	}

	if s.ordini != nil && esaurito.Ordine != "" {
		if err := s.ordini.AggiornaStatoRiga(ctx, esaurito.Ordine, codice, ordinientity.StatoConfermato); err != nil {
			return err
		}
	}

	sse.PublishTableUpdate("esauriti", "delete", codice)
	sse.PublishTableUpdate("giacenza", "create", codice)
	return nil
}

// RiportaInArrivo rimanda un cartone da giacenza agli arrivi, già
// confermato; la riga d'ordine torna a confermato
func (s *Service) RiportaInArrivo(ctx context.Context, codice, note, userID string) error {
	giacenza, err := s.repo.FindGiacenza(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartoneNonTrovato
		}
		return err
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteGiacenza(ctx, codice); err != nil {
			return err
		}
		if err := repo.CreateArrivo(ctx, &entity.CartoneArrivo{
			CartoneBase: giacenza.CartoneBase,
			Confermato:  true,
		}); err != nil {
			return err
		}
		return repo.AppendMovimento(ctx, &entity.MovimentoStorico{
			Codice:               codice,
			Tipo:                 entity.MovimentoModifica,
			Quantita:             giacenza.NumeroFogli,
			Data:                 time.Now(),
			Note:                 note,
			UserID:               userID,
			NumeroOrdineAcquisto: giacenza.Ordine,
		})
	})
	if err != nil {
		return fmt.Errorf("ritorno in arrivo di %s: %w", codice, err)
	}

	if s.ordini != nil && giacenza.Ordine != "" {
		if err := s.ordini.AggiornaStatoRiga(ctx, giacenza.Ordine, codice, ordinientity.StatoConfermato); err != nil {
			return err
		}
	}

	sse.PublishTableUpdate("giacenza", "delete", codice)
	sse.PublishTableUpdate("ordini", "create", codice)
	return nil
}

// ---- letture ----

func (s *Service) ListArrivi(ctx context.Context, search string, page, pageSize int) ([]entity.CartoneArrivo, int64, error) {
	return s.repo.ListArrivi(ctx, search, page, pageSize)
}

func (s *Service) ListGiacenze(ctx context.Context, search string, page, pageSize int) ([]entity.CartoneGiacenza, int64, error) {
	return s.repo.ListGiacenze(ctx, search, page, pageSize)
}

func (s *Service) ListEsauriti(ctx context.Context, search string, page, pageSize int) ([]entity.CartoneEsaurito, int64, error) {
	return s.repo.ListEsauriti(ctx, search, page, pageSize)
}

func (s *Service) ListFustelle(ctx context.Context, search string, disponibile *bool, page, pageSize int) ([]entity.Fustella, int64, error) {
	return s.repo.ListFustelle(ctx, search, disponibile, page, pageSize)
}

func (s *Service) ListStorico(ctx context.Context, codice string, page, pageSize int) ([]entity.MovimentoStorico, int64, error) {
	return s.repo.ListStorico(ctx, codice, page, pageSize)
}

func (s *Service) GetFustella(ctx context.Context, codice string) (*entity.Fustella, error) {
	fustella, err := s.repo.FindFustella(ctx, codice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFustellaNonTrovata
		}
		return nil, err
	}
	return fustella, nil
}

// UpdateFustella modifica manuale di una fustella di magazzino
func (s *Service) UpdateFustella(ctx context.Context, fustella *entity.Fustella) error {
	if _, err := s.GetFustella(ctx, fustella.Codice); err != nil {
		return err
	}
	if err := s.repo.UpdateFustella(ctx, fustella); err != nil {
		return fmt.Errorf("aggiornamento fustella %s: %w", fustella.Codice, err)
	}
	sse.PublishTableUpdate("fustelle", "update", fustella.Codice)
	return nil
}

// quantitaKg ricalcola il peso dai fogli correnti; 0 se formato o
// grammatura non sono interpretabili
func quantitaKg(formato, grammatura string, fogli int) float64 {
	area, err := ordinientity.AreaFormato(formato)
	if err != nil {
		return 0
	}
	g, err := ordinientity.ParseGrammatura(grammatura)
	if err != nil {
		return 0
	}
	return float64(fogli) * area * g / 1000
}
