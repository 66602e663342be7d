package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cartotec/gestionale/internal/anagrafica/entity"
	"github.com/cartotec/gestionale/internal/codegen"
)

// ClienteRepo accesso dati clienti
type ClienteRepo struct {
	db *gorm.DB
}

func NewClienteRepo(db *gorm.DB) *ClienteRepo {
	return &ClienteRepo{db: db}
}

func (r *ClienteRepo) Create(ctx context.Context, cliente *entity.Cliente) error {
	return r.db.WithContext(ctx).Create(cliente).Error
}

func (r *ClienteRepo) Update(ctx context.Context, cliente *entity.Cliente) error {
	return r.db.WithContext(ctx).Save(cliente).Error
}

func (r *ClienteRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Cliente{}, "id = ?", id).Error
}

func (r *ClienteRepo) FindByID(ctx context.Context, id string) (*entity.Cliente, error) {
	var cliente entity.Cliente
	if err := r.db.WithContext(ctx).First(&cliente, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *ClienteRepo) FindByCodice(ctx context.Context, codice string) (*entity.Cliente, error) {
	var cliente entity.Cliente
	if err := r.db.WithContext(ctx).First(&cliente, "codice = ?", codice).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *ClienteRepo) FindAll(ctx context.Context, search string, page, pageSize int) ([]entity.Cliente, int64, error) {
	var clienti []entity.Cliente
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Cliente{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("ragione_sociale ILIKE ? OR codice ILIKE ? OR partita_iva ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("codice").Offset(offset).Limit(pageSize).Find(&clienti).Error; err != nil {
		return nil, 0, err
	}
	return clienti, total, nil
}

// GenerateCodice genera il prossimo codice cliente CLI-###
func (r *ClienteRepo) GenerateCodice(ctx context.Context) (string, error) {
	var codici []string
	if err := r.db.WithContext(ctx).Model(&entity.Cliente{}).Pluck("codice", &codici).Error; err != nil {
		return "", err
	}
	gen := codegen.NewGeneratore(codegen.PrefissoCliente, 3)
	gen.ResetDaCodici(codici)
	return gen.Next(), nil
}

// FornitoreRepo accesso dati fornitori
type FornitoreRepo struct {
	db *gorm.DB
}

func NewFornitoreRepo(db *gorm.DB) *FornitoreRepo {
	return &FornitoreRepo{db: db}
}

func (r *FornitoreRepo) Create(ctx context.Context, fornitore *entity.Fornitore) error {
	return r.db.WithContext(ctx).Create(fornitore).Error
}

func (r *FornitoreRepo) Update(ctx context.Context, fornitore *entity.Fornitore) error {
	return r.db.WithContext(ctx).Save(fornitore).Error
}

func (r *FornitoreRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Fornitore{}, "id = ?", id).Error
}

func (r *FornitoreRepo) FindByID(ctx context.Context, id string) (*entity.Fornitore, error) {
	var fornitore entity.Fornitore
	if err := r.db.WithContext(ctx).First(&fornitore, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fornitore, nil
}

func (r *FornitoreRepo) FindByCodice(ctx context.Context, codice string) (*entity.Fornitore, error) {
	var fornitore entity.Fornitore
	if err := r.db.WithContext(ctx).First(&fornitore, "codice = ?", codice).Error; err != nil {
		return nil, err
	}
	return &fornitore, nil
}

// FindByRagioneSociale ricerca esatta per ragione sociale, usata per
// risolvere il fornitore di un ordine di acquisto
func (r *FornitoreRepo) FindByRagioneSociale(ctx context.Context, ragioneSociale string) (*entity.Fornitore, error) {
	var fornitore entity.Fornitore
	if err := r.db.WithContext(ctx).First(&fornitore, "ragione_sociale = ?", ragioneSociale).Error; err != nil {
		return nil, err
	}
	return &fornitore, nil
}

func (r *FornitoreRepo) FindAll(ctx context.Context, search, tipo string, page, pageSize int) ([]entity.Fornitore, int64, error) {
	var fornitori []entity.Fornitore
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Fornitore{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("ragione_sociale ILIKE ? OR codice ILIKE ? OR partita_iva ILIKE ?", pattern, pattern, pattern)
	}
	if tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("codice").Offset(offset).Limit(pageSize).Find(&fornitori).Error; err != nil {
		return nil, 0, err
	}
	return fornitori, total, nil
}

// GenerateCodice genera il prossimo codice fornitore FOR-###
func (r *FornitoreRepo) GenerateCodice(ctx context.Context) (string, error) {
	var codici []string
	if err := r.db.WithContext(ctx).Model(&entity.Fornitore{}).Pluck("codice", &codici).Error; err != nil {
		return "", err
	}
	gen := codegen.NewGeneratore(codegen.PrefissoFornitore, 3)
	gen.ResetDaCodici(codici)
	return gen.Next(), nil
}
