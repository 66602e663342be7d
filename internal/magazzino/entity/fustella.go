package entity

import "time"

// Fustella asset di magazzino fustelle. Disponibile è vero solo se la
// riga d'ordine che la riguarda è in stato ricevuto.
type Fustella struct {
	Codice                  string    `json:"codice" gorm:"primaryKey;size:32"` // FST-###
	CodiceFornitore         string    `json:"codice_fornitore" gorm:"size:50;index"`
	Fornitore               string    `json:"fornitore" gorm:"size:200"`
	OrdineAcquistoNumero    string    `json:"ordine_acquisto_numero" gorm:"size:32;index"`
	Fustellatrice           string    `json:"fustellatrice" gorm:"size:100"`
	Resa                    string    `json:"resa" gorm:"size:50"`
	PinzaTagliata           bool      `json:"pinza_tagliata"`
	TasselliIntercambiabili bool      `json:"tasselli_intercambiabili"`
	NrTasselli              int       `json:"nr_tasselli"`
	Incollatura             bool      `json:"incollatura"`
	Incollatrice            string    `json:"incollatrice" gorm:"size:100"`
	TipoIncollatura         string    `json:"tipo_incollatura" gorm:"size:100"`
	PulitoreCodice          string    `json:"pulitore_codice" gorm:"size:32"` // PU-###
	Cliente                 string    `json:"cliente" gorm:"size:200"`
	Lavoro                  string    `json:"lavoro" gorm:"size:200"`
	Disponibile             bool      `json:"disponibile"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (Fustella) TableName() string {
	return "fustelle"
}
