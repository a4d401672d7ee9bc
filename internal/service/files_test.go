package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/repository"
)

func seedFiles(sheets *fakeSheets) {
	sheets.ranges[repository.FilesRange] = [][]any{
		repository.FileToRow(&model.File{ID: "f0", EventID: "e1", Type: "Documento", ViewCount: 1}),
		{"", ""},
		repository.FileToRow(&model.File{ID: "f1", EventID: "e1", Type: "Video", ViewCount: 5}),
	}
}

func TestIncrementViewCount_SequentialIncrements(t *testing.T) {
	sheets := newFakeSheets()
	seedFiles(sheets)
	svc := newTestServices(sheets, testNow).files
	ctx := context.Background()

	for i, want := range []int{6, 7} {
		if err := svc.IncrementViewCount(ctx, "f1", "ana@example.com"); err != nil {
			t.Fatalf("IncrementViewCount() #%d ошибка: %v", i+1, err)
		}
		if len(sheets.writes) != i+1 {
			t.Fatalf("записей = %d, ожидалось %d", len(sheets.writes), i+1)
		}
		w := sheets.writes[i]
		// f1: индекс 2 в сырых строках -> строка 4
		if w.rng != "Arquivos!H4" {
			t.Errorf("range = %q, ожидалось Arquivos!H4", w.rng)
		}
		if fmt.Sprint(w.values[0][0]) != fmt.Sprint(want) {
			t.Errorf("записано %v, ожидалось %d", w.values[0][0], want)
		}
		if len(sheets.appends) != i+1 {
			t.Fatalf("строк журнала = %d, ожидалось %d", len(sheets.appends), i+1)
		}
	}

	files, err := svc.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles() ошибка: %v", err)
	}
	for _, f := range files {
		if f.ID == "f1" && f.ViewCount != 7 {
			t.Errorf("ViewCount = %d, ожидалось 7", f.ViewCount)
		}
	}
}

func TestIncrementViewCount_LogRow(t *testing.T) {
	sheets := newFakeSheets()
	seedFiles(sheets)
	svc := newTestServices(sheets, testNow).files

	if err := svc.IncrementViewCount(context.Background(), "f1", "ana@example.com"); err != nil {
		t.Fatalf("IncrementViewCount() ошибка: %v", err)
	}

	if len(sheets.appends) != 1 {
		t.Fatalf("appends = %d, ожидался 1", len(sheets.appends))
	}
	a := sheets.appends[0]
	if a.rng != repository.LogsAppendRange {
		t.Errorf("range = %q, ожидалось %q", a.rng, repository.LogsAppendRange)
	}
	row := a.values[0]
	want := []any{"", "f1", "e1", "ana@example.com", "2025-03-11T02:30:00.000Z", "view"}
	if fmt.Sprint(row) != fmt.Sprint(want) {
		t.Errorf("строка журнала = %v, ожидалось %v", row, want)
	}
}

func TestIncrementViewCount_NotFound_NoWrites(t *testing.T) {
	sheets := newFakeSheets()
	seedFiles(sheets)
	svc := newTestServices(sheets, testNow).files

	err := svc.IncrementViewCount(context.Background(), "missing", "ana@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
	if sheets.writeCount() != 0 {
		t.Errorf("записей = %d, ожидалось 0", sheets.writeCount())
	}
}

func TestIncrementViewCount_UpstreamError(t *testing.T) {
	sheets := newFakeSheets()
	seedFiles(sheets)
	sheets.err = errors.New("network unreachable")
	svc := newTestServices(sheets, testNow).files

	err := svc.IncrementViewCount(context.Background(), "f1", "ana@example.com")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ошибка upstream, получено: %v", err)
	}
}

func TestIncrementViewCount_LogAppendFails(t *testing.T) {
	sheets := newFakeSheets()
	seedFiles(sheets)
	sheets.appendErr = errors.New("quota exceeded")
	svc := newTestServices(sheets, testNow).files

	err := svc.IncrementViewCount(context.Background(), "f1", "ana@example.com")
	if err == nil {
		t.Fatal("ожидалась ошибка записи в журнал")
	}

	// Счётчик уже увеличен и не откатывается.
	if len(sheets.writes) != 1 {
		t.Fatalf("записей = %d, ожидалась 1 без отката", len(sheets.writes))
	}
	if w := sheets.writes[0]; w.rng != "Arquivos!H4" || fmt.Sprint(w.values[0][0]) != "6" {
		t.Errorf("запись = %s %v, ожидалось Arquivos!H4 6", w.rng, w.values[0][0])
	}
	if len(sheets.appends) != 1 {
		t.Errorf("попыток append = %d, ожидалась 1", len(sheets.appends))
	}
	if got := sheets.ranges[repository.FilesRange][2][7]; fmt.Sprint(got) != "6" {
		t.Errorf("ячейка счётчика = %v, ожидалось 6", got)
	}
}

func TestListFiles_Empty(t *testing.T) {
	svc := newTestServices(newFakeSheets(), testNow).files

	files, err := svc.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles() ошибка: %v", err)
	}
	if files == nil || len(files) != 0 {
		t.Errorf("files = %v, ожидался пустой не-nil срез", files)
	}
}
