package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bigkaa/vouemprovas/internal/repository"
)

// testLogger создаёт логгер для тестов (вывод отброшен).
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testLoc = time.FixedZone("BRT", -3*60*60)

// --- Fake sheets.Client ---

type sheetCall struct {
	rng    string
	values [][]any
}

// fakeSheets реализует sheets.Client в памяти. Записи применяются к ячейкам,
// дописанные строки попадают в конец диапазона. Все вызовы фиксируются.
type fakeSheets struct {
	mu      sync.Mutex
	ranges  map[string][][]any
	reads   []string
	writes  []sheetCall
	appends []sheetCall
	err     error
	// appendErr ломает только AppendRows.
	appendErr error
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{ranges: make(map[string][][]any)}
}

func (f *fakeSheets) ReadRange(_ context.Context, rng string) ([][]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, rng)
	if f.err != nil {
		return nil, f.err
	}
	rows := f.ranges[rng]
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out, nil
}

func (f *fakeSheets) WriteRange(_ context.Context, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, sheetCall{rng: rng, values: values})
	if f.err != nil {
		return f.err
	}
	f.applyCell(rng, values[0][0])
	return nil
}

func (f *fakeSheets) AppendRows(_ context.Context, rng string, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, sheetCall{rng: rng, values: rows})
	if f.err != nil {
		return f.err
	}
	if f.appendErr != nil {
		return f.appendErr
	}
	if rng == repository.LogsAppendRange {
		f.ranges[repository.LogsRange] = append(f.ranges[repository.LogsRange], rows...)
	}
	return nil
}

// applyCell применяет запись одной ячейки вида "Arquivos!H7" к данным диапазона.
func (f *fakeSheets) applyCell(rng string, value any) {
	var sheet, col string
	var row int
	for i := 0; i < len(rng); i++ {
		if rng[i] == '!' {
			sheet = rng[:i]
			col = rng[i+1 : i+2]
			for _, c := range rng[i+2:] {
				row = row*10 + int(c-'0')
			}
			break
		}
	}
	target := map[string]string{
		repository.SheetEvents: repository.EventsRange,
		repository.SheetFiles:  repository.FilesRange,
	}[sheet]
	rows := f.ranges[target]
	idx := row - 2
	colIdx := int(col[0] - 'A')
	if idx < 0 || idx >= len(rows) {
		return
	}
	for len(rows[idx]) <= colIdx {
		rows[idx] = append(rows[idx], "")
	}
	rows[idx][colIdx] = value
}

func (f *fakeSheets) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes) + len(f.appends)
}

// fixedClock возвращает функцию, всегда отдающую t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type services struct {
	events *EventService
	files  *FileService
	status *StatusService
}

// newTestServices собирает сервисы поверх настоящих репозиториев и fakeSheets.
func newTestServices(sheets *fakeSheets, now time.Time) services {
	events := repository.NewEventRepository(sheets, testLoc)
	files := repository.NewFileRepository(sheets)
	photos := repository.NewPhotoRepository(sheets)
	logs := repository.NewLogRepository(sheets)
	logger := testLogger()

	return services{
		events: NewEventService(events, files, photos, testLoc, logger).WithClock(fixedClock(now)),
		files:  NewFileService(files, logs, logger).WithClock(fixedClock(now)),
		status: NewStatusService(events, files, logs, 10, logger),
	}
}
