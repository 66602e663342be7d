package service

import (
	"context"
	"fmt"

	"github.com/cartotec/gestionale/internal/codegen"
	"github.com/cartotec/gestionale/internal/ordini/entity"
)

// Le proposte di codice scandiscono tutte le tabelle dove la famiglia
// può comparire, righe d'ordine comprese: il contatore in memoria viene
// ricostruito a ogni richiesta per restringere la finestra di collisione
// tra sessioni concorrenti. L'arbitro finale resta l'indice univoco.

// ProssimoCodiceCartone propone il prossimo CTN-### (max+1)
func (s *Service) ProssimoCodiceCartone(ctx context.Context) (string, error) {
	usati, err := s.magazzino.UsedCartoneCodici(ctx)
	if err != nil {
		return "", fmt.Errorf("scansione codici cartone: %w", err)
	}
	daOrdini, err := s.codiciDaRighe(ctx, func(a *entity.Articolo) string {
		if a.Cartone != nil {
			return a.Cartone.CodiceCTN
		}
		return ""
	})
	if err != nil {
		return "", err
	}

	gen := codegen.NewGeneratore(codegen.PrefissoCartone, 3)
	gen.ResetDaCodici(append(usati, daOrdini...))
	return gen.Next(), nil
}

// ProssimoCodiceFustella propone il prossimo FST-###: a differenza delle
// altre famiglie riempie il più piccolo buco nella numerazione
func (s *Service) ProssimoCodiceFustella(ctx context.Context) (string, error) {
	usati, err := s.magazzino.UsedFustellaCodici(ctx)
	if err != nil {
		return "", fmt.Errorf("scansione codici fustella: %w", err)
	}
	daOrdini, err := s.codiciDaRighe(ctx, func(a *entity.Articolo) string {
		if a.Fustella != nil {
			return a.Fustella.FustellaCodice
		}
		return ""
	})
	if err != nil {
		return "", err
	}

	gen := codegen.NewGeneratoreGapFill(codegen.PrefissoFustella, 3)
	gen.ResetDaCodici(append(usati, daOrdini...))
	return gen.Next(), nil
}

// ProssimoCodicePulitore propone il prossimo PU-### (max+1)
func (s *Service) ProssimoCodicePulitore(ctx context.Context) (string, error) {
	usati, err := s.magazzino.UsedPulitoreCodici(ctx)
	if err != nil {
		return "", fmt.Errorf("scansione codici pulitore: %w", err)
	}
	daOrdini, err := s.codiciDaRighe(ctx, func(a *entity.Articolo) string {
		if a.Pulitore != nil {
			return a.Pulitore.PulitoreCodice
		}
		if a.Fustella != nil && a.Fustella.HasPulitore {
			return a.Fustella.PulitoreCodice
		}
		return ""
	})
	if err != nil {
		return "", err
	}

	gen := codegen.NewGeneratore(codegen.PrefissoPulitore, 3)
	gen.ResetDaCodici(append(usati, daOrdini...))
	return gen.Next(), nil
}

func (s *Service) codiciDaRighe(ctx context.Context, estrai func(*entity.Articolo) string) ([]string, error) {
	ordini, err := s.ordineRepo.FindAllRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("scansione righe d'ordine: %w", err)
	}
	var codici []string
	for i := range ordini {
		for j := range ordini[i].Articoli {
			if codice := estrai(&ordini[i].Articoli[j]); codice != "" {
				codici = append(codici, codice)
			}
		}
	}
	return codici, nil
}
