package entity

import "time"

// OrdineAcquisto testata di un ordine di acquisto. Le righe vivono nella
// colonna JSON articoli: l'ordine è l'unica verità scrivibile sul loro
// stato, le tabelle di magazzino sono una proiezione derivata.
type OrdineAcquisto struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	NumeroOrdine  string    `json:"numero_ordine" gorm:"size:32;uniqueIndex;not null"` // ORD-YYYY-###
	FornitoreID   string    `json:"fornitore_id" gorm:"size:32;index;not null"`
	DataOrdine    time.Time `json:"data_ordine"`
	Stato         string    `json:"stato" gorm:"size:20;not null;default:in_attesa"`
	ImportoTotale float64   `json:"importo_totale"`
	Note          string    `json:"note" gorm:"type:text"`
	Articoli      Articoli  `json:"articoli" gorm:"type:jsonb"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (OrdineAcquisto) TableName() string {
	return "ordini_acquisto"
}

// CalcolaImporto somma gli importi delle righe non annullate
func (o *OrdineAcquisto) CalcolaImporto() float64 {
	totale := 0.0
	for i := range o.Articoli {
		if o.Articoli[i].Stato == StatoAnnullato {
			continue
		}
		totale += o.Articoli[i].Importo()
	}
	return totale
}

// TuttiAnnullati vero se l'ordine ha righe e sono tutte annullate
func (o *OrdineAcquisto) TuttiAnnullati() bool {
	if len(o.Articoli) == 0 {
		return false
	}
	for i := range o.Articoli {
		if o.Articoli[i].Stato != StatoAnnullato {
			return false
		}
	}
	return true
}

// TrovaArticolo individua la riga con l'identificativo dato (codice di
// variante, o descrizione per il generico). Restituisce -1 se assente.
func (o *OrdineAcquisto) TrovaArticolo(identificativo string) int {
	for i := range o.Articoli {
		if o.Articoli[i].Codice() == identificativo {
			return i
		}
	}
	return -1
}
