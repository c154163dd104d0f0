package snapshotstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/telemetry"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testTable(t *testing.T) (*neotable.Table, schema.Spec) {
	t.Helper()
	registry := schema.NewRegistry()
	spec, err := registry.Lookup(schema.RiskList)
	require.NoError(t, err)

	table := neotable.New(spec.TableColumns())
	require.NoError(t, table.AppendRow([]neotable.Value{
		neotable.TextValue("99942 Apophis"),
		neotable.FloatValue(375),
		neotable.DateValue(time.Date(2068, 10, 12, 0, 0, 0, 0, time.UTC)),
		neotable.FloatValue(6.1e-06),
		neotable.FloatValue(-2.97),
		neotable.IntValue(0),
		neotable.FloatValue(7.43),
	}))
	return table, spec
}

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:snapshotstore")
	defer cleanup()

	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer sqlite.Close()
	_, err = sqlite.Exec(Schema)
	require.NoError(t, err)
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err = store.Pull(ctx, schema.RiskList)
	require.ErrorIs(t, err, ErrNoSnapshot)

	table, spec := testTable(t)
	pushedAt := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	err = store.Push(ctx, Snapshot{
		Category: schema.RiskList,
		Time:     pushedAt,
		Record:   table.ToRecord(),
	})
	require.NoError(t, err)

	snap, err := store.Pull(ctx, schema.RiskList)
	require.NoError(t, err)
	require.Equal(t, pushedAt, snap.Time)

	back, err := snap.Table(spec)
	require.NoError(t, err)
	require.Equal(t, table.Columns, back.Columns)
	require.Equal(t, table.Rows, back.Rows)
}

func TestPushReplacesSameDaySnapshot(t *testing.T) {
	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer sqlite.Close()
	_, err = sqlite.Exec(Schema)
	require.NoError(t, err)
	store := NewStore(sqlite)

	ctx := context.Background()
	table, _ := testTable(t)

	morning := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 20, 21, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{morning, evening, nextDay} {
		err = store.Push(ctx, Snapshot{
			Category: schema.RiskList,
			Time:     at,
			Record:   table.ToRecord(),
		})
		require.NoError(t, err)
	}

	history, err := store.History(ctx, schema.RiskList)
	require.NoError(t, err)
	require.Equal(t, []time.Time{evening, nextDay}, history)
}
