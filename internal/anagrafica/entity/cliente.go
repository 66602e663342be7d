package entity

import "time"

// Cliente anagrafica cliente
type Cliente struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	Codice         string `json:"codice" gorm:"size:32;uniqueIndex;not null"` // CLI-###
	RagioneSociale string `json:"ragione_sociale" gorm:"size:200;not null"`
	PartitaIVA     string `json:"partita_iva" gorm:"size:20"`
	Indirizzo      string `json:"indirizzo" gorm:"size:300"`
	CAP            string `json:"cap" gorm:"size:10"`
	Citta          string `json:"citta" gorm:"size:100"`
	Provincia      string `json:"provincia" gorm:"size:5"`
	Telefono       string `json:"telefono" gorm:"size:30"`
	Email          string `json:"email" gorm:"size:200"`
	PEC            string `json:"pec" gorm:"size:200"`
	Referente      string `json:"referente" gorm:"size:100"`

	ConsideraIVA bool `json:"considera_iva" gorm:"default:true"`

	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cliente) TableName() string {
	return "clienti"
}
