package sections

import (
	"errors"
	"testing"

	"neocc-backend/lib/schema"

	"github.com/stretchr/testify/require"
)

const rwoFile = `version =   3
errmod  = 'vfcc17'
RMSast  =   4.39076E-01
RMSmag  =   4.69043E-01
END_OF_HEADER
! Design.  K T N YYYY MM DD.ddddddddd  Date Accuracy  RA           Accuracy  RMS  F  Resid  DEC          Accuracy  RMS  F  Resid  Mag  RMS  Resid  Catalog  Obs Code  Chi  A M
2021QM1    OC    2021 08 28.43921       1.000E-05 23 01 12.123  0.500       0.435               -0.213 -08 45 12.5   0.400       0.512               0.091  19.2                 L  J04     0.85
2021QM1    Ov    2021 08 28.91812 253.24100  34.92000   1000.0   247
2021QM1    OC    2021 08 29.51092       1.000E-05 23 02 01.882  0.500       0.388               0.105  -08 12 55.2   0.400       0.497               -0.044                      L  J04     0.41
2021QM1    Os    2021 08 30.11871 1     -3871.12345             5120.44321              -1234.55678         C51
! Object   Observ. rms
! Design.  K T YYYY MM DD hh:mm:ss        Measure   Accuracy    rms
2021QM1 R c 2021 08 29 10:14:22 13245693.442 8.000 0.435
`

func TestSplitObservations(t *testing.T) {
	spec := mustSpec(t, schema.Observations)

	parts, err := Split(RawPayload{Category: schema.Observations, Body: []byte(rwoFile)}, spec)
	require.NoError(t, err)

	byName := map[string]Section{}
	for _, s := range parts {
		byName[s.Name] = s
	}

	require.Contains(t, byName[SectionHeader].Lines, "errmod  = 'vfcc17'")
	require.Len(t, byName[SectionColumns].Lines, 1)

	data := byName[SectionData].Lines
	require.Len(t, data, 2)
	require.Equal(t,
		"2021QM1\tO\tC\t\t2021/08/28.43921\t1.000E-05\t23 01 12.123\t0.500\t0.435\t-0.213\t-08 45 12.5\t0.400\t0.512\t0.091\t19.2\tL\tJ04\t0.85",
		data[0])
	// second optical row carries no magnitude
	require.Equal(t,
		"2021QM1\tO\tC\t\t2021/08/29.51092\t1.000E-05\t23 02 01.882\t0.500\t0.388\t0.105\t-08 12 55.2\t0.400\t0.497\t-0.044\t\tL\tJ04\t0.41",
		data[1])

	require.Equal(t,
		[]string{"2021QM1\tO\tv\t\t2021/08/28.91812\t253.24100\t34.92000\t1000.0\t247"},
		byName[SectionRoving].Lines)
	require.Equal(t,
		[]string{"2021QM1\tO\ts\t\t2021/08/30.11871\t1\t-3871.12345\t5120.44321\t-1234.55678\tC51"},
		byName[SectionSatellite].Lines)
	require.Equal(t,
		[]string{"2021QM1\tR\tc\t2021-08-29 10:14:22\t13245693.442\t8.000\t0.435"},
		byName[SectionRadar].Lines)
}

func TestSplitObservationsOpticalOnly(t *testing.T) {
	spec := mustSpec(t, schema.Observations)
	body := `version =   3
errmod  = 'vfcc17'
RMSast  =   4.39076E-01
END_OF_HEADER
! Design.  K T N YYYY MM DD.dddddddddd
2021QM1    OC    2021 08 28.43921       1.000E-05 23 01 12.123  0.500       0.435               -0.213 -08 45 12.5   0.400       0.512               0.091  19.2                 L  J04     0.85
`

	parts, err := Split(RawPayload{Category: schema.Observations, Body: []byte(body)}, spec)
	require.NoError(t, err)

	for _, s := range parts {
		require.NotContains(t, []string{SectionRoving, SectionSatellite, SectionRadar}, s.Name)
	}
}

func TestSplitObservationsWithoutHeaderIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.Observations)
	body := "! Design.  K T N YYYY MM DD.dddddddddd\n2021QM1    OC    2021 08 28.43921\n"

	_, err := Split(RawPayload{Category: schema.Observations, Body: []byte(body)}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
	require.Equal(t, schema.Observations, merr.Category)
}

func TestSplitObservationsShortRadarRowIsMalformed(t *testing.T) {
	spec := mustSpec(t, schema.Observations)
	body := `version =   3
errmod  = 'vfcc17'
RMSast  =   4.39076E-01
END_OF_HEADER
! Design.  K T N YYYY MM DD.dddddddddd
2021QM1    OC    2021 08 28.43921       1.000E-05 23 01 12.123  0.500       0.435               -0.213 -08 45 12.5   0.400       0.512               0.091  19.2                 L  J04     0.85
! Object   Observ. rms
2021QM1 R c 2021 08 29
`

	_, err := Split(RawPayload{Category: schema.Observations, Body: []byte(body)}, spec)
	var merr *MalformedPayloadError
	require.True(t, errors.As(err, &merr))
}
