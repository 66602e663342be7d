package entity

import "time"

// CartoneBase colonne comuni alle tre tabelle cartone (arrivo, giacenza,
// esauriti): copia denormalizzata della riga d'ordine che le ha generate
type CartoneBase struct {
	Codice         string  `json:"codice" gorm:"primaryKey;size:32"` // CTN-###
	Fornitore      string  `json:"fornitore" gorm:"size:200"`
	Ordine         string  `json:"ordine" gorm:"size:32;index"` // numero ordine di acquisto
	Tipologia      string  `json:"tipologia" gorm:"size:100"`
	Formato        string  `json:"formato" gorm:"size:50"`
	Grammatura     string  `json:"grammatura" gorm:"size:50"`
	NumeroFogli    int     `json:"numero_fogli"`
	QuantitaKg     float64 `json:"quantita_kg"`
	FSC            bool    `json:"fsc"`
	Alimentare     bool    `json:"alimentare"`
	RifCommessaFSC string  `json:"rif_commessa_fsc" gorm:"size:20"`
	Cliente        string  `json:"cliente" gorm:"size:200"`
	Lavoro         string  `json:"lavoro" gorm:"size:200"`
}

// CartoneArrivo cartone ordinato non ancora a magazzino (tabella "ordini")
type CartoneArrivo struct {
	CartoneBase
	DataConsegnaPrevista string    `json:"data_consegna_prevista" gorm:"size:20"`
	Confermato           bool      `json:"confermato"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (CartoneArrivo) TableName() string {
	return "ordini"
}

// CartoneGiacenza cartone presente a magazzino
type CartoneGiacenza struct {
	CartoneBase
	DDT        string    `json:"ddt" gorm:"size:50"`
	DataArrivo string    `json:"data_arrivo" gorm:"size:20"`
	Magazzino  string    `json:"magazzino" gorm:"size:100"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CartoneGiacenza) TableName() string {
	return "giacenza"
}

// CartoneEsaurito cartone a fogli zero
type CartoneEsaurito struct {
	CartoneBase
	DDT        string    `json:"ddt" gorm:"size:50"`
	DataArrivo string    `json:"data_arrivo" gorm:"size:20"`
	Magazzino  string    `json:"magazzino" gorm:"size:100"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CartoneEsaurito) TableName() string {
	return "esauriti"
}
