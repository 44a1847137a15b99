package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempus/internal/temporal"
	"github.com/roach88/tempus/internal/testutil"
)

func TestFingerprintDeterminism(t *testing.T) {
	for name, temp := range testutil.Samples(t) {
		t.Run(name, func(t *testing.T) {
			parsed, err := ParseAs(temp.BaseType(), Format(temp))
			require.NoError(t, err)

			fp := Fingerprint(temp)
			assert.Len(t, fp, 64, "SHA-256 hex is 64 characters")
			assert.Equal(t, fp, Fingerprint(parsed))
		})
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := testutil.Seq(t, true, true, temporal.Linear, testutil.Float(0, 0), testutil.Float(10, 10))
	b := testutil.Seq(t, true, false, temporal.Linear, testutil.Float(0, 0), testutil.Float(10, 10))
	c := testutil.Seq(t, true, true, temporal.Stepwise, testutil.Float(0, 0), testutil.Float(10, 10))
	d := testutil.Seq(t, true, true, temporal.Linear, testutil.Float(0, 0), testutil.Float(10, 11))

	fps := map[string]bool{}
	for _, temp := range []temporal.Temporal{a, b, c, d} {
		fps[Fingerprint(temp)] = true
	}
	assert.Len(t, fps, 4, "bounds, interpolation and timestamps all change the fingerprint")
}

func TestFingerprintDomainSeparation(t *testing.T) {
	inst := testutil.Int(5, 0)
	assert.NotEqual(t, hashWithDomain("tempus/other/v1", Encode(inst)), Fingerprint(inst))
}
