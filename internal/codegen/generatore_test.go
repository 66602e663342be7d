package codegen

import (
	"testing"
	"time"
)

func TestGeneratoreProgressivo(t *testing.T) {
	gen := NewGeneratore(PrefissoCartone, 3)
	gen.Reset([]int{1, 2, 3, 41})

	attesi := []string{"CTN-042", "CTN-043", "CTN-044"}
	for _, atteso := range attesi {
		if got := gen.Next(); got != atteso {
			t.Fatalf("Next() = %s, atteso %s", got, atteso)
		}
	}
}

func TestGeneratoreSenzaNumeri(t *testing.T) {
	gen := NewGeneratore(PrefissoCliente, 3)
	if got := gen.Next(); got != "CLI-001" {
		t.Fatalf("Next() su generatore vuoto = %s, atteso CLI-001", got)
	}
}

func TestGeneratoreGapFill(t *testing.T) {
	gen := NewGeneratoreGapFill(PrefissoFustella, 3)

	gen.Reset([]int{1, 2, 4})
	if got := gen.Next(); got != "FST-003" {
		t.Fatalf("con {1,2,4} atteso FST-003, ottenuto %s", got)
	}
	// il buco è riempito, il successivo è 5
	if got := gen.Next(); got != "FST-005" {
		t.Fatalf("dopo il riempimento atteso FST-005, ottenuto %s", got)
	}

	gen.Reset([]int{1, 2, 3})
	if got := gen.Next(); got != "FST-004" {
		t.Fatalf("con {1,2,3} atteso FST-004, ottenuto %s", got)
	}
}

func TestGeneratoreResetDaCodici(t *testing.T) {
	gen := NewGeneratore(PrefissoPulitore, 3)
	gen.ResetDaCodici([]string{"PU-001", "PU-007", "FST-099", "PU-xyz", ""})

	if got := gen.Next(); got != "PU-008" {
		t.Fatalf("Next() = %s, atteso PU-008 (codici estranei ignorati)", got)
	}
}

func TestGeneratoreRegistra(t *testing.T) {
	gen := NewGeneratore(PrefissoCartone, 3)
	gen.Reset([]int{5})
	gen.Registra("CTN-010")

	if got := gen.Next(); got != "CTN-011" {
		t.Fatalf("Next() = %s, atteso CTN-011", got)
	}
}

func TestEstraiNumero(t *testing.T) {
	casi := []struct {
		codice   string
		prefisso string
		numero   int
		ok       bool
	}{
		{"CTN-042", PrefissoCartone, 42, true},
		{"FST-007", PrefissoFustella, 7, true},
		{"CTN-abc", PrefissoCartone, 0, false},
		{"FST-001", PrefissoCartone, 0, false},
		{"CTN-000", PrefissoCartone, 0, false},
		{"", PrefissoCartone, 0, false},
	}
	for _, c := range casi {
		n, ok := EstraiNumero(c.codice, c.prefisso)
		if n != c.numero || ok != c.ok {
			t.Errorf("EstraiNumero(%q, %q) = (%d, %v), atteso (%d, %v)",
				c.codice, c.prefisso, n, ok, c.numero, c.ok)
		}
	}
}

func TestGeneratoreFSC(t *testing.T) {
	gen := NewGeneratoreFSC()

	d2026 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := gen.Next(d2026); got != "1/26" {
		t.Fatalf("primo riferimento 2026 = %s, atteso 1/26", got)
	}
	if got := gen.Next(d2026); got != "2/26" {
		t.Fatalf("secondo riferimento 2026 = %s, atteso 2/26", got)
	}

	// il contatore riparte al cambio anno
	d2027 := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := gen.Next(d2027); got != "1/27" {
		t.Fatalf("primo riferimento 2027 = %s, atteso 1/27", got)
	}
}

func TestGeneratoreFSCResetDaRiferimenti(t *testing.T) {
	gen := NewGeneratoreFSC()
	gen.ResetDaRiferimenti(2026, []string{"3/26", "14/26", "9/25", "malformato", "2/26"})

	d := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := gen.Next(d); got != "15/26" {
		t.Fatalf("Next() dopo reset = %s, atteso 15/26", got)
	}
}

func TestParseRiferimentoFSC(t *testing.T) {
	seq, anno, ok := ParseRiferimentoFSC("14/26")
	if !ok || seq != 14 || anno != 26 {
		t.Fatalf("ParseRiferimentoFSC(14/26) = (%d, %d, %v)", seq, anno, ok)
	}
	if _, _, ok := ParseRiferimentoFSC("x/26"); ok {
		t.Fatal("riferimento malformato accettato")
	}
	if _, _, ok := ParseRiferimentoFSC("14"); ok {
		t.Fatal("riferimento senza anno accettato")
	}
}
