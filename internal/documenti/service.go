package documenti

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	anagrafica "github.com/cartotec/gestionale/internal/anagrafica/entity"
	anagraficarepo "github.com/cartotec/gestionale/internal/anagrafica/repository"
	magazzinorepo "github.com/cartotec/gestionale/internal/magazzino/repository"
	"github.com/cartotec/gestionale/internal/ordini/entity"
	ordinirepo "github.com/cartotec/gestionale/internal/ordini/repository"
)

// AliquotaIVA aliquota applicata nei documenti quando il fornitore ha
// considera_iva attivo
const AliquotaIVA = 0.22

var ErrOrdineNonTrovato = errors.New("ordine non trovato")

// RigaDocumento riga di un documento d'ordine risolto
type RigaDocumento struct {
	Codice           string  `json:"codice"`
	Descrizione      string  `json:"descrizione"`
	Quantita         float64 `json:"quantita"`
	PrezzoUnitario   float64 `json:"prezzo_unitario"`
	Importo          float64 `json:"importo"`
	Stato            string  `json:"stato"`
	ConsegnaPrevista string  `json:"consegna_prevista,omitempty"`
	Cliente          string  `json:"cliente,omitempty"`
	Lavoro           string  `json:"lavoro,omitempty"`
}

// DocumentoOrdine vista risolta di un ordine pronta per il renderer:
// righe non annullate con campi descrittivi per categoria e totali
type DocumentoOrdine struct {
	NumeroOrdine  string          `json:"numero_ordine"`
	DataOrdine    string          `json:"data_ordine"`
	Fornitore     string          `json:"fornitore"`
	IndirizzoF    string          `json:"indirizzo_fornitore,omitempty"`
	PartitaIVA    string          `json:"partita_iva,omitempty"`
	Note          string          `json:"note,omitempty"`
	Righe         []RigaDocumento `json:"righe"`
	Imponibile    float64         `json:"imponibile"`
	IVA           float64         `json:"iva"`
	Totale        float64         `json:"totale"`
	ConsideraIVA  bool            `json:"considera_iva"`
}

// Service produce viste documentali ed esportazioni XLSX
type Service struct {
	ordineRepo    *ordinirepo.OrdineRepo
	fornitoreRepo *anagraficarepo.FornitoreRepo
	magazzino     *magazzinorepo.Repo
}

func NewService(ordineRepo *ordinirepo.OrdineRepo, fornitoreRepo *anagraficarepo.FornitoreRepo, magazzino *magazzinorepo.Repo) *Service {
	return &Service{
		ordineRepo:    ordineRepo,
		fornitoreRepo: fornitoreRepo,
		magazzino:     magazzino,
	}
}

// RisolviOrdine costruisce la vista documentale di un ordine
func (s *Service) RisolviOrdine(ctx context.Context, ordineID string) (*DocumentoOrdine, error) {
	ordine, err := s.ordineRepo.FindByID(ctx, ordineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrdineNonTrovato
		}
		return nil, err
	}

	fornitore, err := s.fornitoreRepo.FindByID(ctx, ordine.FornitoreID)
	if err != nil {
		return nil, fmt.Errorf("risoluzione fornitore: %w", err)
	}

	doc := &DocumentoOrdine{
		NumeroOrdine: ordine.NumeroOrdine,
		DataOrdine:   ordine.DataOrdine.Format("02/01/2006"),
		Fornitore:    fornitore.RagioneSociale,
		IndirizzoF:   indirizzoCompleto(fornitore),
		PartitaIVA:   fornitore.PartitaIVA,
		Note:         ordine.Note,
		ConsideraIVA: fornitore.ConsideraIVA,
	}

	for i := range ordine.Articoli {
		articolo := &ordine.Articoli[i]
		if articolo.Stato == entity.StatoAnnullato {
			continue
		}
		riga := RigaDocumento{
			Codice:           articolo.Codice(),
			Descrizione:      descriviArticolo(articolo),
			Quantita:         articolo.Quantita,
			PrezzoUnitario:   articolo.PrezzoUnitario,
			Importo:          articolo.Importo(),
			Stato:            articolo.Stato,
			ConsegnaPrevista: articolo.DataConsegnaPrevista,
			Cliente:          articolo.Cliente,
			Lavoro:           articolo.Lavoro,
		}
		doc.Righe = append(doc.Righe, riga)
		doc.Imponibile += riga.Importo
	}

	if doc.ConsideraIVA {
		doc.IVA = doc.Imponibile * AliquotaIVA
	}
	doc.Totale = doc.Imponibile + doc.IVA
	return doc, nil
}

// descriviArticolo compone la descrizione della riga secondo la variante
func descriviArticolo(articolo *entity.Articolo) string {
	switch articolo.Categoria {
	case entity.CategoriaCartone:
		c := articolo.Cartone
		if c == nil {
			return ""
		}
		parti := []string{"Cartone"}
		if c.Tipologia != "" {
			parti = append(parti, c.Tipologia)
		}
		if c.Formato != "" {
			parti = append(parti, c.Formato)
		}
		if c.Grammatura != "" {
			parti = append(parti, c.Grammatura)
		}
		descr := strings.Join(parti, " ")
		if c.NumeroFogli > 0 {
			descr += fmt.Sprintf(" - %d fogli", c.NumeroFogli)
		}
		if kg := articolo.QuantitaKg(); kg > 0 {
			descr += fmt.Sprintf(" (%.1f kg)", kg)
		}
		if c.FSC {
			descr += " - FSC"
			if c.RifCommessaFSC != "" {
				descr += " " + c.RifCommessaFSC
			}
		}
		if c.Alimentare {
			descr += " - uso alimentare"
		}
		return descr
	case entity.CategoriaFustella:
		f := articolo.Fustella
		if f == nil {
			return ""
		}
		descr := "Fustella"
		if f.CodiceFornitore != "" {
			descr += " rif. " + f.CodiceFornitore
		}
		if f.Fustellatrice != "" {
			descr += " per " + f.Fustellatrice
		}
		if f.Resa != "" {
			descr += " - resa " + f.Resa
		}
		if f.HasPulitore {
			descr += " con pulitore"
			if f.PulitoreCodice != "" {
				descr += " " + f.PulitoreCodice
			}
		}
		return descr
	case entity.CategoriaPulitore:
		p := articolo.Pulitore
		if p == nil {
			return ""
		}
		return "Pulitore per fustella rif. " + p.CodiceFornitoreFustella
	default:
		return articolo.Descrizione
	}
}

func indirizzoCompleto(fornitore *anagrafica.Fornitore) string {
	parti := make([]string, 0, 3)
	if fornitore.Indirizzo != "" {
		parti = append(parti, fornitore.Indirizzo)
	}
	if fornitore.CAP != "" || fornitore.Citta != "" {
		parti = append(parti, strings.TrimSpace(fornitore.CAP+" "+fornitore.Citta))
	}
	if fornitore.Provincia != "" {
		parti = append(parti, "("+fornitore.Provincia+")")
	}
	return strings.Join(parti, ", ")
}

var ordineExportHeaders = []string{
	"Codice", "Descrizione", "Quantità", "Prezzo unitario", "Importo",
	"Stato", "Consegna prevista", "Cliente", "Lavoro",
}

// EsportaOrdineXLSX esporta la vista documentale di un ordine
func (s *Service) EsportaOrdineXLSX(ctx context.Context, ordineID string) (*excelize.File, string, error) {
	doc, err := s.RisolviOrdine(ctx, ordineID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Ordine"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheet, "A1", "Ordine "+doc.NumeroOrdine)
	f.SetCellValue(sheet, "A2", "Fornitore: "+doc.Fornitore)
	f.SetCellValue(sheet, "A3", "Data: "+doc.DataOrdine)

	const headerRow = 5
	for i, h := range ordineExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, riga := range doc.Righe {
		row := headerRow + 1 + rowIdx
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), riga.Codice)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), riga.Descrizione)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), riga.Quantita)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), riga.PrezzoUnitario)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), riga.Importo)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), riga.Stato)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), riga.ConsegnaPrevista)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), riga.Cliente)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), riga.Lavoro)
	}

	totStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	totRow := headerRow + len(doc.Righe) + 2
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totRow), "Imponibile")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totRow), doc.Imponibile)
	if doc.ConsideraIVA {
		f.SetCellValue(sheet, fmt.Sprintf("D%d", totRow+1), "IVA 22%")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", totRow+1), doc.IVA)
	}
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totRow+2), "Totale")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totRow+2), doc.Totale)
	f.SetCellStyle(sheet, fmt.Sprintf("D%d", totRow), fmt.Sprintf("E%d", totRow+2), totStyle)

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 50)
	f.SetColWidth(sheet, "C", "E", 14)
	f.SetColWidth(sheet, "F", "I", 18)

	filename := fmt.Sprintf("%s.xlsx", strings.ReplaceAll(doc.NumeroOrdine, "/", "-"))
	return f, filename, nil
}

var giacenzaExportHeaders = []string{
	"Codice", "Fornitore", "Ordine", "Tipologia", "Formato", "Grammatura",
	"Fogli", "Kg", "FSC", "Rif. FSC", "Cliente", "Lavoro", "Magazzino", "DDT", "Data arrivo",
}

// EsportaGiacenzaXLSX esporta l'intera giacenza cartoni
func (s *Service) EsportaGiacenzaXLSX(ctx context.Context) (*excelize.File, string, error) {
	giacenze, err := s.magazzino.AllGiacenze(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("lettura giacenza: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Giacenza"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range giacenzaExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx := range giacenze {
		g := &giacenze[rowIdx]
		row := rowIdx + 2
		fsc := ""
		if g.FSC {
			fsc = "Sì"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.Codice)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), g.Fornitore)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), g.Ordine)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), g.Tipologia)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), g.Formato)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), g.Grammatura)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), g.NumeroFogli)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), g.QuantitaKg)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), fsc)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), g.RifCommessaFSC)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), g.Cliente)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), g.Lavoro)
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), g.Magazzino)
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), g.DDT)
		f.SetCellValue(sheet, fmt.Sprintf("O%d", row), g.DataArrivo)
	}

	f.SetColWidth(sheet, "A", "C", 14)
	f.SetColWidth(sheet, "D", "F", 16)
	f.SetColWidth(sheet, "G", "J", 10)
	f.SetColWidth(sheet, "K", "O", 18)

	return f, "giacenza.xlsx", nil
}
