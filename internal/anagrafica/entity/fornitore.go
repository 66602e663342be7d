package entity

import "time"

// Tipo fornitore: determina quali varianti di articolo sono ammesse
// negli ordini di acquisto verso quel fornitore
const (
	TipoFornitoreCartone    = "cartone"
	TipoFornitoreInchiostri = "inchiostri"
	TipoFornitoreColla      = "colla"
	TipoFornitoreFustelle   = "fustelle"
	TipoFornitoreAltro      = "altro"
)

// Fornitore anagrafica fornitore
type Fornitore struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	Codice         string `json:"codice" gorm:"size:32;uniqueIndex;not null"` // FOR-###
	RagioneSociale string `json:"ragione_sociale" gorm:"size:200;not null"`
	Tipo           string `json:"tipo_fornitore" gorm:"size:20;not null;default:altro"`
	PartitaIVA     string `json:"partita_iva" gorm:"size:20"`
	Indirizzo      string `json:"indirizzo" gorm:"size:300"`
	CAP            string `json:"cap" gorm:"size:10"`
	Citta          string `json:"citta" gorm:"size:100"`
	Provincia      string `json:"provincia" gorm:"size:5"`
	Telefono       string `json:"telefono" gorm:"size:30"`
	Email          string `json:"email" gorm:"size:200"`
	PEC            string `json:"pec" gorm:"size:200"`
	Referente      string `json:"referente" gorm:"size:100"`

	// ConsideraIVA: se true i documenti generati espongono l'IVA
	ConsideraIVA bool `json:"considera_iva" gorm:"default:true"`

	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Fornitore) TableName() string {
	return "fornitori"
}

// TipoValido verifica che il tipo fornitore sia uno di quelli ammessi
func TipoValido(tipo string) bool {
	switch tipo {
	case TipoFornitoreCartone, TipoFornitoreInchiostri, TipoFornitoreColla,
		TipoFornitoreFustelle, TipoFornitoreAltro:
		return true
	}
	return false
}
