package coerce

import (
	"errors"
	"testing"
	"time"

	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"

	"github.com/stretchr/testify/require"
)

func TestMissingTokens(t *testing.T) {
	kinds := []neotable.Kind{
		neotable.KindAny,
		neotable.KindInt,
		neotable.KindFloat,
		neotable.KindDate,
		neotable.KindEnum,
		neotable.KindMagnitude,
		neotable.KindText,
	}
	for _, kind := range kinds {
		for token := range MissingTokens {
			v, err := Field(token, schema.Column{Name: "X", Kind: kind})
			require.NoError(t, err)
			require.True(t, v.IsMissing(), "kind %s token %q", kind, token)
			require.Equal(t, neotable.MissingToken, v.Token())
		}
	}
}

func TestFieldNumbers(t *testing.T) {
	v, err := Field("42", schema.Column{Name: "TS", Kind: neotable.KindInt})
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int)

	v, err = Field("3.14e-2", schema.Column{Name: "IP max", Kind: neotable.KindFloat})
	require.NoError(t, err)
	require.Equal(t, 3.14e-2, v.Float)

	v, err = Field("375 m", schema.Column{Name: "Diameter", Kind: neotable.KindFloat, Unit: "m"})
	require.NoError(t, err)
	require.Equal(t, 375.0, v.Float)

	_, err = Field("large", schema.Column{Name: "Diameter", Kind: neotable.KindFloat})
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "Diameter", cerr.Column)
	require.Equal(t, "large", cerr.Token)
}

func TestFieldMagnitude(t *testing.T) {
	v, err := Field("20.61", schema.Column{Name: "H", Kind: neotable.KindMagnitude, Unit: "mag"})
	require.NoError(t, err)
	require.Equal(t, 20.61, v.Float)
	require.False(t, v.Uncertain)

	v, err = Field("26.7**", schema.Column{Name: "Max Bright", Kind: neotable.KindMagnitude})
	require.NoError(t, err)
	require.Equal(t, 26.7, v.Float)
	require.True(t, v.Uncertain)
	require.Equal(t, "26.7*", v.Token())
}

func TestFieldDates(t *testing.T) {
	col := schema.Column{Name: "Date", Kind: neotable.KindDate}

	v, err := Field("2026-08-12T04:30:00Z", col)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 12, 4, 30, 0, 0, time.UTC), v.Time)

	v, err = Field("2026/08/12 04:30", col)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 12, 4, 30, 0, 0, time.UTC), v.Time)

	// minutes-precision zulu form, the ephemerides header and t0/t1 format
	v, err = Field("2026-08-01T00:00Z", col)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), v.Time)

	// fractional day: .5 is noon
	v, err = Field("2021/05/12.5", col)
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, 5, 12, 12, 0, 0, 0, time.UTC), v.Time)

	_, err = Field("21/05/12", col)
	require.Error(t, err)
}

func TestFieldEnum(t *testing.T) {
	col := schema.Column{Name: "Priority", Kind: neotable.KindEnum, Enum: []string{"0", "1", "2", "3"}}

	v, err := Field("2", col)
	require.NoError(t, err)
	require.Equal(t, "2", v.Str)

	_, err = Field("7", col)
	require.Error(t, err)
}

func TestFieldAny(t *testing.T) {
	col := schema.Column{Name: "Values", Kind: neotable.KindAny}

	v, err := Field("30.56", col)
	require.NoError(t, err)
	require.Equal(t, neotable.KindFloat, v.Kind)
	require.Equal(t, 30.56, v.Float)

	v, err = Field("S/Sq", col)
	require.NoError(t, err)
	require.Equal(t, neotable.KindText, v.Kind)
	require.Equal(t, "S/Sq", v.Str)
}

func TestTableFromRecordRoundTrip(t *testing.T) {
	cols := []schema.Column{
		{Name: "Object Name", Kind: neotable.KindText},
		{Name: "Diameter", Kind: neotable.KindFloat, Unit: "m"},
		{Name: "Date/Time", Kind: neotable.KindDate},
		{Name: "TS", Kind: neotable.KindInt},
	}

	table := neotable.New([]neotable.Column{
		{Name: "Object Name", Kind: neotable.KindText},
		{Name: "Diameter", Kind: neotable.KindFloat, Unit: "m"},
		{Name: "Date/Time", Kind: neotable.KindDate},
		{Name: "TS", Kind: neotable.KindInt},
	})
	require.NoError(t, table.AppendRow([]neotable.Value{
		neotable.TextValue("2021 QM1"),
		neotable.FloatValue(50),
		neotable.DateValue(time.Date(2052, 4, 2, 9, 22, 0, 0, time.UTC)),
		neotable.MissingValue(neotable.KindInt),
	}))
	require.NoError(t, table.AppendRow([]neotable.Value{
		neotable.TextValue("99942 Apophis"),
		neotable.FloatValue(375),
		neotable.DateValue(time.Date(2068, 10, 12, 0, 0, 0, 0, time.UTC)),
		neotable.IntValue(0),
	}))

	rec := table.ToRecord()
	back, err := TableFromRecord(rec, cols)
	require.NoError(t, err)
	require.Equal(t, table.Columns, back.Columns)
	require.Equal(t, table.Rows, back.Rows)
}

func TestTableFromRecordColumnMismatch(t *testing.T) {
	table := neotable.New([]neotable.Column{{Name: "A", Kind: neotable.KindText}})
	rec := table.ToRecord()

	_, err := TableFromRecord(rec, []schema.Column{{Name: "B", Kind: neotable.KindText}})
	require.Error(t, err)
}
