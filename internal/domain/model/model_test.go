package model

import (
	"testing"
	"time"
)

func TestClassifyDocKind(t *testing.T) {
	tests := []struct {
		raw  string
		want DocKind
	}{
		{"Video", DocKindVideo},
		{"video", DocKindVideo},
		{"Resumo Em Video", DocKindVideo},
		{"Vídeo aula", DocKindVideo},
		{"MiniGame", DocKindMiniGame},
		{"mini game", DocKindMiniGame},
		{"Mini-Game Quiz", DocKindMiniGame},
		{"Documento", DocKindDocumento},
		{"documento PDF", DocKindDocumento},
		{"", DocKindDocumento},
		{"   ", DocKindDocumento},
		{"Planilha", DocKindOutro},
		{"Outro", DocKindOutro},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ClassifyDocKind(tt.raw); got != tt.want {
				t.Errorf("ClassifyDocKind(%q) = %q, ожидалось %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses() {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, ожидалось true", s)
		}
	}

	invalid := []string{"", "aprovado", "Em andamento", "InvalidValue", "Em Analise (Diretoria de Provas)"}
	for _, s := range invalid {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, ожидалось false", s)
		}
	}
}

func TestValidStatuses_Copy(t *testing.T) {
	list := ValidStatuses()
	list[0] = "mutated"
	if !IsValidStatus(StatusEmAndamento) {
		t.Error("изменение копии не должно затрагивать перечень статусов")
	}
	if len(list) != 8 {
		t.Errorf("len(ValidStatuses()) = %d, ожидалось 8", len(list))
	}
}

func TestDay_Compare(t *testing.T) {
	base := Day{Year: 2025, Month: time.March, Day: 10}

	tests := []struct {
		name  string
		other Day
		want  int
	}{
		{"тот же день", Day{2025, time.March, 10}, 0},
		{"день раньше", Day{2025, time.March, 9}, 1},
		{"день позже", Day{2025, time.March, 11}, -1},
		{"месяц раньше", Day{2025, time.February, 28}, 1},
		{"год позже", Day{2026, time.January, 1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Compare(tt.other); got != tt.want {
				t.Errorf("Compare(%v) = %d, ожидалось %d", tt.other, got, tt.want)
			}
		})
	}

	if base.String() != "2025-03-10" {
		t.Errorf("String() = %q, ожидалось 2025-03-10", base.String())
	}
}

func TestDayOf_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	// 02:00 UTC 11 марта, ещё 10 марта в UTC-3
	ts := time.Date(2025, time.March, 11, 2, 0, 0, 0, time.UTC).In(loc)

	got := DayOf(ts)
	want := Day{Year: 2025, Month: time.March, Day: 10}
	if got != want {
		t.Errorf("DayOf() = %v, ожидалось %v", got, want)
	}
}
