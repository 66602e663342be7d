package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stati di riga e di ordine
const (
	StatoInAttesa   = "in_attesa"
	StatoInviato    = "inviato"
	StatoConfermato = "confermato"
	StatoRicevuto   = "ricevuto"
	StatoAnnullato  = "annullato"
)

// Categorie di riga: discriminante della variante di articolo
const (
	CategoriaCartone  = "cartone"
	CategoriaFustella = "fustella"
	CategoriaPulitore = "pulitore"
	CategoriaGenerico = "generico"
)

// StatoValido verifica che lo stato sia uno di quelli ammessi
func StatoValido(stato string) bool {
	switch stato {
	case StatoInAttesa, StatoInviato, StatoConfermato, StatoRicevuto, StatoAnnullato:
		return true
	}
	return false
}

// CartoneDettagli variante cartone di una riga d'ordine
type CartoneDettagli struct {
	CodiceCTN      string `json:"codice_ctn"`
	Tipologia      string `json:"tipologia_cartone,omitempty"`
	Formato        string `json:"formato,omitempty"`    // es. "100x70cm"
	Grammatura     string `json:"grammatura,omitempty"` // es. "300 g/m²"
	NumeroFogli    int    `json:"numero_fogli"`
	FSC            bool   `json:"fsc,omitempty"`
	Alimentare     bool   `json:"alimentare,omitempty"`
	RifCommessaFSC string `json:"rif_commessa_fsc,omitempty"`
}

// FustellaDettagli variante fustella di una riga d'ordine
type FustellaDettagli struct {
	FustellaCodice          string  `json:"fustella_codice"`
	CodiceFornitore         string  `json:"codice_fornitore_fustella,omitempty"`
	Fustellatrice           string  `json:"fustellatrice,omitempty"`
	Resa                    string  `json:"resa_fustella,omitempty"`
	PinzaTagliata           bool    `json:"pinza_tagliata,omitempty"`
	TasselliIntercambiabili bool    `json:"tasselli_intercambiabili,omitempty"`
	NrTasselli              int     `json:"nr_tasselli,omitempty"`
	Incollatura             bool    `json:"incollatura,omitempty"`
	Incollatrice            string  `json:"incollatrice,omitempty"`
	TipoIncollatura         string  `json:"tipo_incollatura,omitempty"`
	HasPulitore             bool    `json:"has_pulitore,omitempty"`
	PulitoreCodice          string  `json:"pulitore_codice_fustella,omitempty"`
	PrezzoPulitore          float64 `json:"prezzo_pulitore,omitempty"`
}

// PulitoreDettagli variante pulitore autonomo: riferisce la fustella madre
// tramite il codice fornitore, quantità sempre 1
type PulitoreDettagli struct {
	PulitoreCodice          string `json:"pulitore_codice"`
	CodiceFornitoreFustella string `json:"codice_fornitore_fustella"`
}

// Articolo riga di un ordine di acquisto. La categoria discrimina quale
// blocco di dettagli è valorizzato: gli altri devono restare vuoti.
type Articolo struct {
	Categoria            string  `json:"categoria"`
	Stato                string  `json:"stato"`
	Quantita             float64 `json:"quantita"`
	PrezzoUnitario       float64 `json:"prezzo_unitario"`
	DataConsegnaPrevista string  `json:"data_consegna_prevista,omitempty"`
	Cliente              string  `json:"cliente,omitempty"`
	Lavoro               string  `json:"lavoro,omitempty"`

	Cartone  *CartoneDettagli  `json:"cartone,omitempty"`
	Fustella *FustellaDettagli `json:"fustella,omitempty"`
	Pulitore *PulitoreDettagli `json:"pulitore,omitempty"`

	// Descrizione libera, usata dalla variante generico
	Descrizione string `json:"descrizione,omitempty"`
}

// Codice restituisce l'identificativo della riga secondo la variante;
// per il generico è la descrizione
func (a *Articolo) Codice() string {
	switch a.Categoria {
	case CategoriaCartone:
		if a.Cartone != nil {
			return a.Cartone.CodiceCTN
		}
	case CategoriaFustella:
		if a.Fustella != nil {
			return a.Fustella.FustellaCodice
		}
	case CategoriaPulitore:
		if a.Pulitore != nil {
			return a.Pulitore.PulitoreCodice
		}
	}
	return a.Descrizione
}

// Importo restituisce quantita × prezzo unitario, più l'eventuale
// sovrapprezzo del pulitore abbinato alla fustella
func (a *Articolo) Importo() float64 {
	importo := a.Quantita * a.PrezzoUnitario
	if a.Categoria == CategoriaFustella && a.Fustella != nil && a.Fustella.HasPulitore {
		importo += a.Fustella.PrezzoPulitore
	}
	return importo
}

// Normalizza forza gli invarianti di variante: azzera i dettagli delle
// altre varianti e, per il pulitore, la quantità a 1
func (a *Articolo) Normalizza() {
	switch a.Categoria {
	case CategoriaCartone:
		a.Fustella = nil
		a.Pulitore = nil
		a.Descrizione = ""
	case CategoriaFustella:
		a.Cartone = nil
		a.Pulitore = nil
		a.Descrizione = ""
	case CategoriaPulitore:
		a.Cartone = nil
		a.Fustella = nil
		a.Descrizione = ""
		a.Quantita = 1
	default:
		a.Cartone = nil
		a.Fustella = nil
		a.Pulitore = nil
	}
	if a.Stato == "" {
		a.Stato = StatoInAttesa
	}
}

// QuantitaKg deriva il peso di una riga cartone da numero fogli, formato
// e grammatura: fogli × area(m²) × grammatura(g/m²) / 1000. Restituisce 0
// se la riga non è un cartone o i dati non sono interpretabili.
func (a *Articolo) QuantitaKg() float64 {
	if a.Categoria != CategoriaCartone || a.Cartone == nil {
		return 0
	}
	area, err := AreaFormato(a.Cartone.Formato)
	if err != nil {
		return 0
	}
	grammatura, err := ParseGrammatura(a.Cartone.Grammatura)
	if err != nil {
		return 0
	}
	return float64(a.Cartone.NumeroFogli) * area * grammatura / 1000
}

// AreaFormato interpreta un formato "LxHcm" (dimensioni in centimetri)
// e restituisce l'area in metri quadrati
func AreaFormato(formato string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(formato))
	s = strings.TrimSuffix(s, "cm")
	s = strings.ReplaceAll(s, " ", "")
	parti := strings.SplitN(s, "x", 2)
	if len(parti) != 2 {
		return 0, fmt.Errorf("formato non interpretabile: %q", formato)
	}
	base, err := strconv.ParseFloat(strings.ReplaceAll(parti[0], ",", "."), 64)
	if err != nil || base <= 0 {
		return 0, fmt.Errorf("formato non interpretabile: %q", formato)
	}
	altezza, err := strconv.ParseFloat(strings.ReplaceAll(parti[1], ",", "."), 64)
	if err != nil || altezza <= 0 {
		return 0, fmt.Errorf("formato non interpretabile: %q", formato)
	}
	return (base / 100) * (altezza / 100), nil
}

// ParseGrammatura interpreta una grammatura "300 g/m²" e restituisce il
// valore numerico in g/m²
func ParseGrammatura(grammatura string) (float64, error) {
	s := strings.TrimSpace(grammatura)
	fine := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			fine = i
			break
		}
	}
	if fine == 0 {
		return 0, fmt.Errorf("grammatura non interpretabile: %q", grammatura)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s[:fine], ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("grammatura non interpretabile: %q", grammatura)
	}
	return v, nil
}

// Articoli colonna JSON delle righe d'ordine
type Articoli []Articolo

func (a Articoli) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Articoli) Scan(value interface{}) error {
	if value == nil {
		*a = Articoli{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("tipo non supportato per articoli: %T", value)
	}
	if len(data) == 0 {
		*a = Articoli{}
		return nil
	}
	return json.Unmarshal(data, a)
}
