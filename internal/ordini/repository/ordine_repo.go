package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cartotec/gestionale/internal/codegen"
	"github.com/cartotec/gestionale/internal/ordini/entity"
)

// OrdineRepo accesso dati ordini di acquisto
type OrdineRepo struct {
	db *gorm.DB
}

func NewOrdineRepo(db *gorm.DB) *OrdineRepo {
	return &OrdineRepo{db: db}
}

// DB restituisce la connessione, usata dai servizi per le transazioni
func (r *OrdineRepo) DB() *gorm.DB {
	return r.db
}

// WithTx restituisce un repo legato alla transazione data
func (r *OrdineRepo) WithTx(tx *gorm.DB) *OrdineRepo {
	return &OrdineRepo{db: tx}
}

func (r *OrdineRepo) Create(ctx context.Context, ordine *entity.OrdineAcquisto) error {
	return r.db.WithContext(ctx).Create(ordine).Error
}

func (r *OrdineRepo) Update(ctx context.Context, ordine *entity.OrdineAcquisto) error {
	return r.db.WithContext(ctx).Save(ordine).Error
}

func (r *OrdineRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.OrdineAcquisto{}, "id = ?", id).Error
}

func (r *OrdineRepo) FindByID(ctx context.Context, id string) (*entity.OrdineAcquisto, error) {
	var ordine entity.OrdineAcquisto
	if err := r.db.WithContext(ctx).First(&ordine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ordine, nil
}

func (r *OrdineRepo) FindByNumero(ctx context.Context, numeroOrdine string) (*entity.OrdineAcquisto, error) {
	var ordine entity.OrdineAcquisto
	if err := r.db.WithContext(ctx).First(&ordine, "numero_ordine = ?", numeroOrdine).Error; err != nil {
		return nil, err
	}
	return &ordine, nil
}

func (r *OrdineRepo) FindAll(ctx context.Context, search, stato, fornitoreID string, page, pageSize int) ([]entity.OrdineAcquisto, int64, error) {
	var ordini []entity.OrdineAcquisto
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.OrdineAcquisto{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("numero_ordine ILIKE ? OR note ILIKE ?", pattern, pattern)
	}
	if stato != "" {
		query = query.Where("stato = ?", stato)
	}
	if fornitoreID != "" {
		query = query.Where("fornitore_id = ?", fornitoreID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("data_ordine DESC, numero_ordine DESC").Offset(offset).Limit(pageSize).Find(&ordini).Error; err != nil {
		return nil, 0, err
	}
	return ordini, total, nil
}

// FindAllRaw restituisce tutti gli ordini, usato per ricostruire i
// contatori dei codici che vivono dentro le righe JSON
func (r *OrdineRepo) FindAllRaw(ctx context.Context) ([]entity.OrdineAcquisto, error) {
	var ordini []entity.OrdineAcquisto
	if err := r.db.WithContext(ctx).Find(&ordini).Error; err != nil {
		return nil, err
	}
	return ordini, nil
}

// GenerateNumero genera il prossimo numero ordine ORD-YYYY-### per
// l'anno della data indicata
func (r *OrdineRepo) GenerateNumero(ctx context.Context, data time.Time) (string, error) {
	prefisso := fmt.Sprintf("ORD-%d-", data.Year())

	var numeri []string
	if err := r.db.WithContext(ctx).Model(&entity.OrdineAcquisto{}).
		Where("numero_ordine LIKE ?", prefisso+"%").
		Pluck("numero_ordine", &numeri).Error; err != nil {
		return "", err
	}

	gen := codegen.NewGeneratore(prefisso, 3)
	gen.ResetDaCodici(numeri)
	return gen.Next(), nil
}
