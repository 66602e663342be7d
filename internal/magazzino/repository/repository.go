package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cartotec/gestionale/internal/magazzino/entity"
)

// Repo accesso dati magazzino: tabelle cartone (arrivo, giacenza,
// esauriti), fustelle e storico movimenti
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// DB restituisce la connessione, usata dai servizi per le transazioni
func (r *Repo) DB() *gorm.DB {
	return r.db
}

// WithTx restituisce un repo legato alla transazione data
func (r *Repo) WithTx(tx *gorm.DB) *Repo {
	return &Repo{db: tx}
}

// ---- cartoni in arrivo ----

func (r *Repo) CreateArrivo(ctx context.Context, arrivo *entity.CartoneArrivo) error {
	return r.db.WithContext(ctx).Create(arrivo).Error
}

func (r *Repo) UpdateArrivo(ctx context.Context, arrivo *entity.CartoneArrivo) error {
	return r.db.WithContext(ctx).Save(arrivo).Error
}

func (r *Repo) FindArrivo(ctx context.Context, codice string) (*entity.CartoneArrivo, error) {
	var arrivo entity.CartoneArrivo
	if err := r.db.WithContext(ctx).First(&arrivo, "codice = ?", codice).Error; err != nil {
		return nil, err
	}
	return &arrivo, nil
}

func (r *Repo) DeleteArrivo(ctx context.Context, codice string) error {
	return r.db.WithContext(ctx).Delete(&entity.CartoneArrivo{}, "codice = ?", codice).Error
}

func (r *Repo) DeleteArriviByOrdine(ctx context.Context, numeroOrdine string) error {
	return r.db.WithContext(ctx).Delete(&entity.CartoneArrivo{}, "ordine = ?", numeroOrdine).Error
}

func (r *Repo) ListArrivi(ctx context.Context, search string, page, pageSize int) ([]entity.CartoneArrivo, int64, error) {
	var arrivi []entity.CartoneArrivo
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CartoneArrivo{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("codice ILIKE ? OR fornitore ILIKE ? OR cliente ILIKE ? OR lavoro ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("codice").Offset(offset).Limit(pageSize).Find(&arrivi).Error; err != nil {
		return nil, 0, err
	}
	return arrivi, total, nil
}

// ---- giacenza ----

func (r *Repo) CreateGiacenza(ctx context.Context, giacenza *entity.CartoneGiacenza) error {
	return r.db.WithContext(ctx).Create(giacenza).Error
}

func (r *Repo) UpdateGiacenza(ctx context.Context, giacenza *entity.CartoneGiacenza) error {
	return r.db.WithContext(ctx).Save(giacenza).Error
}

func (r *Repo) FindGiacenza(ctx context.Context, codice string) (*entity.CartoneGiacenza, error) {
	var giacenza entity.CartoneGiacenza
	if err := r.db.WithContext(ctx).First(&giacenza, "codice = ?", codice).Error; err != nil {
		return nil, err
	}
	return &giacenza, nil
}

func (r *Repo) DeleteGiacenza(ctx context.Context, codice string) error {
	return r.db.WithContext(ctx).Delete(&entity.CartoneGiacenza{}, "codice = ?", codice).Error
}

func (r *Repo) FindGiacenzeByOrdine(ctx context.Context, numeroOrdine string) ([]entity.CartoneGiacenza, error) {
	var giacenze []entity.CartoneGiacenza
	if err := r.db.WithContext(ctx).Find(&giacenze, "ordine = ?", numeroOrdine).Error; err != nil {
		return nil, err
	}
	return giacenze, nil
}

func (r *Repo) DeleteGiacenzeByOrdine(ctx context.Context, numeroOrdine string) error {
	return r.db.WithContext(ctx).Delete(&entity.CartoneGiacenza{}, "ordine = ?", numeroOrdine).Error
}

func (r *Repo) ListGiacenze(ctx context.Context, search string, page, pageSize int) ([]entity.CartoneGiacenza, int64, error) {
	var giacenze []entity.CartoneGiacenza
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CartoneGiacenza{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("codice ILIKE ? OR fornitore ILIKE ? OR cliente ILIKE ? OR lavoro ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("codice").Offset(offset).Limit(pageSize).Find(&giacenze).Error; err != nil {
		return nil, 0, err
	}
	return giacenze, total, nil
}

func (r *Repo) AllGiacenze(ctx context.Context) ([]entity.CartoneGiacenza, error) {
	var giacenze []entity.CartoneGiacenza
	if err := r.db.WithContext(ctx).Order("codice").Find(&giacenze).Error; err != nil {
		return nil, err
	}
	return giacenze, nil
}

// ---- esauriti ----

func (r *Repo) CreateEsaurito(ctx context.Context, esaurito *entity.CartoneEsaurito) error {
	return r.db.WithContext(ctx).Create(esaurito).Error
}

func (r *Repo) FindEsaurito(ctx context.Context, codice string) (*entity.CartoneEsaurito, error) {
	var esaurito entity.CartoneEsaurito
	if err := r.db.WithContext(ctx).First(&esaurito, "codice = ?", codice).Error; err != nil {
		return nil, err
	}
	return &esaurito, nil
}

func (r *Repo) DeleteEsaurito(ctx context.Context, codice string) error {
	return r.db.WithContext(ctx).Delete(&entity.CartoneEsaurito{}, "codice = ?", codice).Error
}

func (r *Repo) FindEsauritiByOrdine(ctx context.Context, numeroOrdine string) ([]entity.CartoneEsaurito, error) {
	var esauriti []entity.CartoneEsaurito
	if err := r.db.WithContext(ctx).Find(&esauriti, "ordine = ?", numeroOrdine).Error; err != nil {
		return nil, err
	}
	return esauriti, nil
}

func (r *Repo) DeleteEsauritiByOrdine(ctx context.Context, numeroOrdine string) error {
	return r.db.WithContext(ctx).Delete(&entity.CartoneEsaurito{}, "ordine = ?", numeroOrdine).Error
}

func (r *Repo) ListEsauriti(ctx context.Context, search string, page, pageSize int) ([]entity.CartoneEsaurito, int64, error) {
	var esauriti []entity.CartoneEsaurito
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CartoneEsaurito{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("codice ILIKE ? OR fornitore ILIKE ? OR cliente ILIKE ? OR lavoro ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("codice").Offset(offset).Limit(pageSize).Find(&esauriti).Error; err != nil {
		return nil, 0, err
	}
	return esauriti, total, nil
}

// ---- fustelle ----

// UpsertFustella inserisce o aggiorna la fustella per codice
func (r *Repo) UpsertFustella(ctx context.Context, fustella *entity.Fustella) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "codice"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"codice_fornitore", "fornitore", "ordine_acquisto_numero",
			"fustellatrice", "resa", "pinza_tagliata",
			"tasselli_intercambiabili", "nr_tasselli",
			"incollatura", "incollatrice", "tipo_incollatura",
			"pulitore_codice", "cliente", "lavoro", "disponibile", "updated_at",
		}),
	}).Create(fustella).Error
}

func (r *Repo) UpdateFustella(ctx context.Context, fustella *entity.Fustella) error {
	return r.db.WithContext(ctx).Save(fustella).Error
}

func (r *Repo) FindFustella(ctx context.Context, codice string) (*entity.Fustella, error) {
	var fustella entity.Fustella
	if err := r.db.WithContext(ctx).First(&fustella, "codice = ?", codice).Error; err != nil {
		return nil, err
	}
	return &fustella, nil
}

func (r *Repo) FindFustellaByCodiceFornitore(ctx context.Context, codiceFornitore string) (*entity.Fustella, error) {
	var fustella entity.Fustella
	if err := r.db.WithContext(ctx).First(&fustella, "codice_fornitore = ?", codiceFornitore).Error; err != nil {
		return nil, err
	}
	return &fustella, nil
}

func (r *Repo) DeleteFustella(ctx context.Context, codice string) error {
	return r.db.WithContext(ctx).Delete(&entity.Fustella{}, "codice = ?", codice).Error
}

func (r *Repo) DeleteFustelleByOrdine(ctx context.Context, numeroOrdine string) error {
	return r.db.WithContext(ctx).Delete(&entity.Fustella{}, "ordine_acquisto_numero = ?", numeroOrdine).Error
}

func (r *Repo) ListFustelle(ctx context.Context, search string, disponibile *bool, page, pageSize int) ([]entity.Fustella, int64, error) {
	var fustelle []entity.Fustella
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Fustella{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("codice ILIKE ? OR codice_fornitore ILIKE ? OR cliente ILIKE ? OR lavoro ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if disponibile != nil {
		query = query.Where("disponibile = ?", *disponibile)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("codice").Offset(offset).Limit(pageSize).Find(&fustelle).Error; err != nil {
		return nil, 0, err
	}
	return fustelle, total, nil
}

// ---- storico ----

// AppendMovimento accoda un movimento; lo storico non si riscrive mai
func (r *Repo) AppendMovimento(ctx context.Context, movimento *entity.MovimentoStorico) error {
	return r.db.WithContext(ctx).Create(movimento).Error
}

func (r *Repo) ListStorico(ctx context.Context, codice string, page, pageSize int) ([]entity.MovimentoStorico, int64, error) {
	var movimenti []entity.MovimentoStorico
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MovimentoStorico{})
	if codice != "" {
		query = query.Where("codice = ?", codice)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if err := query.Order("data DESC, id DESC").Offset(offset).Limit(pageSize).Find(&movimenti).Error; err != nil {
		return nil, 0, err
	}
	return movimenti, total, nil
}

// ---- codici in uso ----

// UsedCartoneCodici raccoglie i codici CTN presenti nelle tre tabelle
func (r *Repo) UsedCartoneCodici(ctx context.Context) ([]string, error) {
	var codici []string
	for _, model := range []interface{}{
		&entity.CartoneArrivo{}, &entity.CartoneGiacenza{}, &entity.CartoneEsaurito{},
	} {
		var parte []string
		if err := r.db.WithContext(ctx).Model(model).Pluck("codice", &parte).Error; err != nil {
			return nil, err
		}
		codici = append(codici, parte...)
	}
	return codici, nil
}

// UsedFustellaCodici raccoglie i codici FST della tabella fustelle
func (r *Repo) UsedFustellaCodici(ctx context.Context) ([]string, error) {
	var codici []string
	if err := r.db.WithContext(ctx).Model(&entity.Fustella{}).Pluck("codice", &codici).Error; err != nil {
		return nil, err
	}
	return codici, nil
}

// UsedPulitoreCodici raccoglie i codici PU assegnati alle fustelle
func (r *Repo) UsedPulitoreCodici(ctx context.Context) ([]string, error) {
	var codici []string
	if err := r.db.WithContext(ctx).Model(&entity.Fustella{}).
		Where("pulitore_codice <> ''").Pluck("pulitore_codice", &codici).Error; err != nil {
		return nil, err
	}
	return codici, nil
}
