package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Prefissi dei codici generati dall'applicazione
const (
	PrefissoCartone   = "CTN-"
	PrefissoFustella  = "FST-"
	PrefissoPulitore  = "PU-"
	PrefissoCliente   = "CLI-"
	PrefissoFornitore = "FOR-"
)

// Generatore produce codici progressivi con prefisso e suffisso numerico
// a larghezza fissa (es. CTN-042). In modalità gap-fill il prossimo codice
// è il più piccolo intero positivo non ancora usato, altrimenti max+1.
type Generatore struct {
	mu        sync.Mutex
	prefisso  string
	larghezza int
	gapFill   bool
	usati     map[int]bool
	max       int
}

func NewGeneratore(prefisso string, larghezza int) *Generatore {
	return &Generatore{
		prefisso:  prefisso,
		larghezza: larghezza,
		usati:     make(map[int]bool),
	}
}

func NewGeneratoreGapFill(prefisso string, larghezza int) *Generatore {
	g := NewGeneratore(prefisso, larghezza)
	g.gapFill = true
	return g
}

// Reset reinizializza il generatore con i numeri già in uso
func (g *Generatore) Reset(numeri []int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.usati = make(map[int]bool, len(numeri))
	g.max = 0
	for _, n := range numeri {
		if n <= 0 {
			continue
		}
		g.usati[n] = true
		if n > g.max {
			g.max = n
		}
	}
}

// ResetDaCodici reinizializza il generatore estraendo i numeri dai codici
// esistenti; i codici con prefisso diverso o suffisso non numerico vengono
// ignorati
func (g *Generatore) ResetDaCodici(codici []string) {
	numeri := make([]int, 0, len(codici))
	for _, codice := range codici {
		if n, ok := EstraiNumero(codice, g.prefisso); ok {
			numeri = append(numeri, n)
		}
	}
	g.Reset(numeri)
}

// Next restituisce il prossimo codice disponibile e lo marca come usato
func (g *Generatore) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var n int
	if g.gapFill {
		n = 1
		for g.usati[n] {
			n++
		}
	} else {
		n = g.max + 1
	}

	g.usati[n] = true
	if n > g.max {
		g.max = n
	}
	return g.formatta(n)
}

// Registra marca come usato il numero di un codice assegnato esternamente
func (g *Generatore) Registra(codice string) {
	n, ok := EstraiNumero(codice, g.prefisso)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.usati[n] = true
	if n > g.max {
		g.max = n
	}
}

func (g *Generatore) formatta(n int) string {
	return fmt.Sprintf("%s%0*d", g.prefisso, g.larghezza, n)
}

// EstraiNumero estrae il suffisso numerico di un codice dato il prefisso.
// Restituisce false se il prefisso non corrisponde o il suffisso non è un
// intero positivo.
func EstraiNumero(codice, prefisso string) (int, bool) {
	if !strings.HasPrefix(codice, prefisso) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(codice, prefisso))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
