package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// GeneratoreFSC produce riferimenti commessa FSC nel formato <seq>/<YY>
// (es. 14/26). Il contatore riparte da 1 al cambio di anno solare.
type GeneratoreFSC struct {
	mu   sync.Mutex
	anno int
	seq  int
}

func NewGeneratoreFSC() *GeneratoreFSC {
	return &GeneratoreFSC{}
}

// Reset reinizializza il contatore per l'anno indicato
func (g *GeneratoreFSC) Reset(anno, ultimoSeq int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.anno = anno
	g.seq = ultimoSeq
}

// ResetDaRiferimenti ricostruisce il contatore dall'elenco dei riferimenti
// già assegnati, considerando solo quelli dell'anno indicato
func (g *GeneratoreFSC) ResetDaRiferimenti(anno int, riferimenti []string) {
	ultimo := 0
	for _, rif := range riferimenti {
		seq, a, ok := ParseRiferimentoFSC(rif)
		if !ok || a != anno%100 {
			continue
		}
		if seq > ultimo {
			ultimo = seq
		}
	}
	g.Reset(anno, ultimo)
}

// Next restituisce il prossimo riferimento FSC per la data indicata
func (g *GeneratoreFSC) Next(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	anno := t.Year()
	if anno != g.anno {
		g.anno = anno
		g.seq = 0
	}
	g.seq++
	return fmt.Sprintf("%d/%02d", g.seq, anno%100)
}

// ParseRiferimentoFSC scompone un riferimento <seq>/<YY>
func ParseRiferimentoFSC(rif string) (seq, anno int, ok bool) {
	parti := strings.SplitN(rif, "/", 2)
	if len(parti) != 2 {
		return 0, 0, false
	}
	seq, err := strconv.Atoi(parti[0])
	if err != nil || seq <= 0 {
		return 0, 0, false
	}
	anno, err = strconv.Atoi(parti[1])
	if err != nil || anno < 0 {
		return 0, 0, false
	}
	return seq, anno, true
}
