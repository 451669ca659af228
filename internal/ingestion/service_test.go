package ingestion

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/aevon-lab/tripstats/internal/core/trips"
	storagemocks "github.com/aevon-lab/tripstats/internal/mocks/storage"
	"github.com/aevon-lab/tripstats/internal/source"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

const tripsCSV = "id,zone,fare,pickup,dropoff,payment\n" +
	"1,Z1,9.5,2024-01-01 09:15:00,x,y\n" +
	"2,Z2,3.0,2024-01-01 09:20:00,x,y\n" +
	"3,Z2,4.0,2024-01-01 23:59:59,x,y\n" +
	"4,Z3,4.0,2024-01-01 24:00:00,x,y\n"

func writeTrips(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestService_IngestReaderWithoutStore(t *testing.T) {
	svc := NewService(nil, Config{})

	_, ok := svc.Current()
	require.False(t, ok)

	run, err := svc.IngestReader(context.Background(), "test", strings.NewReader(tripsCSV))
	require.NoError(t, err)
	require.Equal(t, "test", run.Origin)
	require.Equal(t, 4, run.Stats.Lines)
	require.Equal(t, 3, run.Stats.Accepted)
	require.Equal(t, 1, run.Stats.BadHour)
	require.Equal(t, 2, run.Zones)
	require.False(t, run.FinishedAt.Before(run.StartedAt))

	zones, zoneRun := svc.TopZones(10)
	require.Equal(t, []trips.ZoneCount{{Zone: "Z2", Count: 2}, {Zone: "Z1", Count: 1}}, zones)
	require.Equal(t, run, zoneRun)

	slots, _ := svc.TopBusySlots(2)
	require.Equal(t, []trips.SlotCount{
		{Zone: "Z1", Hour: 9, Count: 1},
		{Zone: "Z2", Hour: 9, Count: 1},
	}, slots)

	current, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, run.ID, current.ID)
}

func TestService_IngestReaderPersistsSnapshot(t *testing.T) {
	store := storagemocks.NewSnapshotStore(t)
	svc := NewService(store, Config{})

	store.EXPECT().
		SaveSnapshot(mock.Anything, mock.MatchedBy(func(snap storage.Snapshot) bool {
			return snap.Run.Origin == "test" &&
				snap.Run.Stats.Accepted == 3 &&
				len(snap.Counts) == 3 &&
				snap.Counts[0] == trips.SlotCount{Zone: "Z1", Hour: 9, Count: 1}
		})).
		Return(nil).
		Once()

	_, err := svc.IngestReader(context.Background(), "test", strings.NewReader(tripsCSV))
	require.NoError(t, err)
}

func TestService_PersistFailureKeepsRun(t *testing.T) {
	store := storagemocks.NewSnapshotStore(t)
	svc := NewService(store, Config{})

	store.EXPECT().SaveSnapshot(mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	run, err := svc.IngestReader(context.Background(), "test", strings.NewReader(tripsCSV))
	require.ErrorIs(t, err, ErrPersist)
	require.ErrorContains(t, err, "db down")

	current, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, run.ID, current.ID)
	zones, _ := svc.TopZones(1)
	require.Equal(t, []trips.ZoneCount{{Zone: "Z2", Count: 2}}, zones)
}

func TestService_CancelledRunKeepsPrevious(t *testing.T) {
	svc := NewService(nil, Config{})

	first, err := svc.IngestReader(context.Background(), "first", strings.NewReader(tripsCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.IngestReader(ctx, "second", strings.NewReader("h\n1,Z9,a,2024-01-01 01:00,b,c\n"))
	require.ErrorIs(t, err, context.Canceled)

	current, _ := svc.Current()
	require.Equal(t, first.ID, current.ID)
	zones, _ := svc.TopZones(10)
	require.Len(t, zones, 2)
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestService_ReadFailureKeepsPartialRun(t *testing.T) {
	svc := NewService(nil, Config{})

	r := &failingReader{
		data: []byte("h\n1,Z1,a,2024-01-01 05:00,b,c\n"),
		err:  errors.New("connection reset"),
	}

	run, err := svc.IngestReader(context.Background(), "flaky", r)
	require.NoError(t, err)
	require.Equal(t, 1, run.Stats.Accepted)
}

func TestService_NilReaderIngestsEmpty(t *testing.T) {
	svc := NewService(nil, Config{})

	run, err := svc.IngestReader(context.Background(), "nil", nil)
	require.NoError(t, err)
	require.Zero(t, run.Stats.Lines)
	zones, _ := svc.TopZones(5)
	require.Empty(t, zones)
}

func TestService_IngestPathReaders(t *testing.T) {
	path := writeTrips(t, tripsCSV)

	for _, kind := range []source.ReaderKind{source.Disk, source.Mmap} {
		t.Run(string(kind), func(t *testing.T) {
			svc := NewService(nil, Config{Reader: kind})

			run, err := svc.IngestPath(context.Background(), path)
			require.NoError(t, err)
			require.Equal(t, path, run.Origin)
			require.Equal(t, 3, run.Stats.Accepted)
		})
	}
}

func TestService_IngestPathMissingFileIsEmpty(t *testing.T) {
	svc := NewService(nil, Config{})

	_, err := svc.IngestReader(context.Background(), "seed", strings.NewReader(tripsCSV))
	require.NoError(t, err)

	run, err := svc.IngestPath(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	require.Zero(t, run.Stats.Lines)
	require.Zero(t, run.Zones)

	zones, _ := svc.TopZones(10)
	require.Empty(t, zones)
}

func TestService_ReloadUsesConfiguredSource(t *testing.T) {
	path := writeTrips(t, tripsCSV)
	svc := NewService(nil, Config{SourcePath: path})

	run, err := svc.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, path, run.Origin)
	require.Equal(t, 3, run.Stats.Accepted)
}

func TestGuardedReader_RecordsFirstError(t *testing.T) {
	readErr := errors.New("boom")
	g := &guardedReader{ctx: context.Background(), r: &failingReader{err: readErr}}

	_, err := io.ReadAll(g)
	require.ErrorIs(t, err, readErr)
	require.ErrorIs(t, g.err, readErr)
}

func TestService_ConcurrentReloads(t *testing.T) {
	path := writeTrips(t, tripsCSV)
	svc := NewService(nil, Config{SourcePath: path, Reader: source.Mmap})

	const callers = 8
	runs := make(chan storage.RunRecord, callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		go func() {
			run, err := svc.Reload(context.Background())
			errs <- err
			runs <- run
		}()
	}

	ids := make(map[string]struct{})
	for i := 0; i < callers; i++ {
		require.NoError(t, <-errs)
		run := <-runs
		require.Equal(t, 3, run.Stats.Accepted)
		ids[run.ID.String()] = struct{}{}
	}

	current, ok := svc.Current()
	require.True(t, ok)
	_, seen := ids[current.ID.String()]
	require.True(t, seen)
}

func TestService_ReloadOutlivesCancelledCaller(t *testing.T) {
	// A FIFO holds the reload open until the test writes the trips.
	path := filepath.Join(t.TempDir(), "trips.fifo")
	require.NoError(t, unix.Mkfifo(path, 0o600))

	svc := NewService(nil, Config{SourcePath: path, Reader: source.Disk})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := svc.Reload(ctx)
		errc <- err
	}()

	// Opening the write end blocks until the reload has opened the read end.
	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)

	cancel()
	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller still waiting on reload")
	}

	_, err = io.WriteString(w, tripsCSV)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.Eventually(t, func() bool {
		run, ok := svc.Current()
		return ok && run.Stats.Accepted == 3
	}, 5*time.Second, 10*time.Millisecond)

	zones, _ := svc.TopZones(1)
	require.Equal(t, []trips.ZoneCount{{Zone: "Z2", Count: 2}}, zones)
}
