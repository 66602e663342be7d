package entity

import "time"

// Tipi di movimento dello storico
const (
	MovimentoCarico   = "carico"
	MovimentoScarico  = "scarico"
	MovimentoModifica = "modifica"
)

// MovimentoStorico registro movimenti, solo scrittura: nessuna modifica o
// cancellazione dopo l'inserimento
type MovimentoStorico struct {
	ID                    uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Codice                string    `json:"codice" gorm:"size:32;index;not null"`
	Tipo                  string    `json:"tipo" gorm:"size:20;not null"` // carico | scarico | modifica
	Quantita              int       `json:"quantita"`
	Data                  time.Time `json:"data"`
	Note                  string    `json:"note" gorm:"type:text"`
	UserID                string    `json:"user_id" gorm:"size:32"`
	NumeroOrdineAcquisto  string    `json:"numero_ordine_acquisto" gorm:"size:32;index"`
	CreatedAt             time.Time `json:"created_at"`
}

func (MovimentoStorico) TableName() string {
	return "storico"
}
