package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cartotec/gestionale/internal/anagrafica/entity"
	"github.com/cartotec/gestionale/internal/anagrafica/repository"
	"github.com/cartotec/gestionale/internal/sse"
)

var (
	ErrClienteNonTrovato   = errors.New("cliente non trovato")
	ErrFornitoreNonTrovato = errors.New("fornitore non trovato")
)

// Service gestisce le anagrafiche clienti e fornitori
type Service struct {
	clienteRepo   *repository.ClienteRepo
	fornitoreRepo *repository.FornitoreRepo
	logger        *zap.Logger
}

func NewService(clienteRepo *repository.ClienteRepo, fornitoreRepo *repository.FornitoreRepo, logger *zap.Logger) *Service {
	return &Service{
		clienteRepo:   clienteRepo,
		fornitoreRepo: fornitoreRepo,
		logger:        logger,
	}
}

// CreateCliente crea un cliente assegnando il codice CLI-###
func (s *Service) CreateCliente(ctx context.Context, cliente *entity.Cliente) error {
	if cliente.RagioneSociale == "" {
		return errors.New("ragione sociale obbligatoria")
	}

	codice, err := s.clienteRepo.GenerateCodice(ctx)
	if err != nil {
		return fmt.Errorf("generazione codice cliente: %w", err)
	}
	cliente.ID = uuid.New().String()
	cliente.Codice = codice

	if err := s.clienteRepo.Create(ctx, cliente); err != nil {
		return fmt.Errorf("creazione cliente: %w", err)
	}

	s.logger.Info("cliente creato", zap.String("codice", cliente.Codice), zap.String("ragione_sociale", cliente.RagioneSociale))
	sse.PublishTableUpdate("clienti", "create", cliente.Codice)
	return nil
}

func (s *Service) UpdateCliente(ctx context.Context, cliente *entity.Cliente) error {
	esistente, err := s.clienteRepo.FindByID(ctx, cliente.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClienteNonTrovato
		}
		return err
	}
	// il codice assegnato non si cambia
	cliente.Codice = esistente.Codice
	cliente.CreatedAt = esistente.CreatedAt

	if err := s.clienteRepo.Update(ctx, cliente); err != nil {
		return fmt.Errorf("aggiornamento cliente: %w", err)
	}
	sse.PublishTableUpdate("clienti", "update", cliente.Codice)
	return nil
}

func (s *Service) DeleteCliente(ctx context.Context, id string) error {
	cliente, err := s.clienteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClienteNonTrovato
		}
		return err
	}
	if err := s.clienteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminazione cliente: %w", err)
	}
	sse.PublishTableUpdate("clienti", "delete", cliente.Codice)
	return nil
}

func (s *Service) GetCliente(ctx context.Context, id string) (*entity.Cliente, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClienteNonTrovato
		}
		return nil, err
	}
	return cliente, nil
}

func (s *Service) ListClienti(ctx context.Context, search string, page, pageSize int) ([]entity.Cliente, int64, error) {
	return s.clienteRepo.FindAll(ctx, search, page, pageSize)
}

// CreateFornitore crea un fornitore assegnando il codice FOR-###
func (s *Service) CreateFornitore(ctx context.Context, fornitore *entity.Fornitore) error {
	if fornitore.RagioneSociale == "" {
		return errors.New("ragione sociale obbligatoria")
	}
	if fornitore.Tipo == "" {
		fornitore.Tipo = entity.TipoFornitoreAltro
	}
	if !entity.TipoValido(fornitore.Tipo) {
		return fmt.Errorf("tipo fornitore non valido: %s", fornitore.Tipo)
	}

	codice, err := s.fornitoreRepo.GenerateCodice(ctx)
	if err != nil {
		return fmt.Errorf("generazione codice fornitore: %w", err)
	}
	fornitore.ID = uuid.New().String()
	fornitore.Codice = codice

	if err := s.fornitoreRepo.Create(ctx, fornitore); err != nil {
		return fmt.Errorf("creazione fornitore: %w", err)
	}

	s.logger.Info("fornitore creato", zap.String("codice", fornitore.Codice), zap.String("tipo", fornitore.Tipo))
	sse.PublishTableUpdate("fornitori", "create", fornitore.Codice)
	return nil
}

func (s *Service) UpdateFornitore(ctx context.Context, fornitore *entity.Fornitore) error {
	esistente, err := s.fornitoreRepo.FindByID(ctx, fornitore.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFornitoreNonTrovato
		}
		return err
	}
	if fornitore.Tipo != "" && !entity.TipoValido(fornitore.Tipo) {
		return fmt.Errorf("tipo fornitore non valido: %s", fornitore.Tipo)
	}
	fornitore.Codice = esistente.Codice
	fornitore.CreatedAt = esistente.CreatedAt

	if err := s.fornitoreRepo.Update(ctx, fornitore); err != nil {
		return fmt.Errorf("aggiornamento fornitore: %w", err)
	}
	sse.PublishTableUpdate("fornitori", "update", fornitore.Codice)
	return nil
}

func (s *Service) DeleteFornitore(ctx context.Context, id string) error {
	fornitore, err := s.fornitoreRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFornitoreNonTrovato
		}
		return err
	}
	if err := s.fornitoreRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminazione fornitore: %w", err)
	}
	sse.PublishTableUpdate("fornitori", "delete", fornitore.Codice)
	return nil
}

func (s *Service) GetFornitore(ctx context.Context, id string) (*entity.Fornitore, error) {
	fornitore, err := s.fornitoreRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFornitoreNonTrovato
		}
		return nil, err
	}
	return fornitore, nil
}

func (s *Service) ListFornitori(ctx context.Context, search, tipo string, page, pageSize int) ([]entity.Fornitore, int64, error) {
	return s.fornitoreRepo.FindAll(ctx, search, tipo, page, pageSize)
}
