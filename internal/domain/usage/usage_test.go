package usage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(serial, name, dept string, qty float64) UsageRecord {
	return UsageRecord{
		ItemSerial: serial,
		ItemName:   name,
		Department: dept,
		Quantity:   decimal.NewFromFloat(qty),
	}
}

func TestParseIdentifier(t *testing.T) {
	assert.True(t, ParseIdentifier("10234").IsSerial())
	assert.False(t, ParseIdentifier("Flour").IsSerial())
	assert.False(t, ParseIdentifier("10a34").IsSerial())
	assert.False(t, ParseIdentifier("").IsSerial())
	assert.Equal(t, "Flour", ParseIdentifier("  Flour ").String())
}

func TestCompute_BasicProportions(t *testing.T) {
	// Kitchen used 30, Bakery used 70 -> 30% / 70%, sorted descending.
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 30),
		rec("1001", "Flour", "Bakery", 70),
	}

	props, err := Compute(records, Name("Flour"), Options{})
	require.NoError(t, err)
	require.Len(t, props, 2)

	assert.Equal(t, "Bakery", props[0].Department)
	assert.InDelta(t, 70.0, props[0].SharePercent, 1e-9)
	assert.Equal(t, "Kitchen", props[1].Department)
	assert.InDelta(t, 30.0, props[1].SharePercent, 1e-9)
}

func TestCompute_SharesSumTo100(t *testing.T) {
	records := []UsageRecord{
		rec("7", "Sugar", "Kitchen", 13.7),
		rec("7", "Sugar", "Bakery", 2.21),
		rec("7", "Sugar", "Pastry", 99.09),
		rec("7", "Sugar", "Kitchen", 0.5),
	}

	props, err := Compute(records, SerialCode("7"), Options{})
	require.NoError(t, err)

	var sum float64
	for _, p := range props {
		sum += p.SharePercent
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestCompute_CaseInsensitiveMatch(t *testing.T) {
	records := []UsageRecord{rec("1001", "Flour", "Kitchen", 10)}

	props, err := Compute(records, Name("fLoUr"), Options{})
	require.NoError(t, err)
	assert.Len(t, props, 1)

	props, err = Compute(records, SerialCode("1001"), Options{})
	require.NoError(t, err)
	assert.Len(t, props, 1)
}

func TestCompute_SerialDoesNotMatchName(t *testing.T) {
	// A serial identifier must never match against the name column.
	records := []UsageRecord{rec("9999", "1234", "Kitchen", 10)}

	_, err := Compute(records, SerialCode("1234"), Options{})
	assert.ErrorIs(t, err, ErrNoUsage)
}

func TestCompute_NotFound(t *testing.T) {
	records := []UsageRecord{rec("1001", "Flour", "Kitchen", 10)}

	_, err := Compute(records, Name("Saffron"), Options{})
	assert.ErrorIs(t, err, ErrNoUsage)

	_, err = Compute(nil, Name("Flour"), Options{})
	assert.ErrorIs(t, err, ErrNoUsage)
}

func TestCompute_ZeroTotalIsNotFound(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 0),
		rec("1001", "Flour", "Bakery", 0),
	}

	_, err := Compute(records, Name("Flour"), Options{})
	assert.ErrorIs(t, err, ErrNoUsage)
}

func TestCompute_SingleDepartment(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 12),
		rec("1001", "Flour", "Kitchen", 8),
	}

	props, err := Compute(records, Name("Flour"), Options{})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Kitchen", props[0].Department)
	assert.InDelta(t, 100.0, props[0].SharePercent, 1e-9)
	assert.True(t, props[0].RawQuantity.Equal(decimal.NewFromInt(20)))
}

func TestCompute_DepartmentFilter(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 30),
		rec("1001", "Flour", "Bakery", 70),
	}

	props, err := Compute(records, Name("Flour"), Options{Department: "Bakery"})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Bakery", props[0].Department)
	assert.InDelta(t, 100.0, props[0].SharePercent, 1e-9)

	// The sentinel means no filtering.
	props, err = Compute(records, Name("Flour"), Options{Department: AllDepartments})
	require.NoError(t, err)
	assert.Len(t, props, 2)

	// A department that never drew the item is NOT_FOUND.
	_, err = Compute(records, Name("Flour"), Options{Department: "Butchery"})
	assert.ErrorIs(t, err, ErrNoUsage)
}

func TestCompute_ThresholdDropsAndRenormalizes(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 500),
		rec("1001", "Flour", "Bakery", 497),
		rec("1001", "Flour", "Tasting", 3), // 0.3%, below the 1% default
	}

	props, err := Compute(records, Name("Flour"), Options{MinSharePercent: 1})
	require.NoError(t, err)
	require.Len(t, props, 2)

	var sum float64
	for _, p := range props {
		assert.NotEqual(t, "Tasting", p.Department)
		sum += p.SharePercent
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
	// 500/997 and 497/997 after renormalization.
	assert.InDelta(t, 100*500.0/997.0, props[0].SharePercent, 1e-9)
}

func TestCompute_ThresholdKeepsTopWhenAllBelow(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 30),
		rec("1001", "Flour", "Bakery", 70),
	}

	// A 90% threshold would drop everything; the largest survives at 100%.
	props, err := Compute(records, Name("Flour"), Options{MinSharePercent: 90})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Bakery", props[0].Department)
	assert.InDelta(t, 100.0, props[0].SharePercent, 1e-9)
}

func TestApplyThreshold_Idempotent(t *testing.T) {
	props := []Proportion{
		{Department: "Kitchen", SharePercent: 50.15},
		{Department: "Bakery", SharePercent: 49.55},
		{Department: "Tasting", SharePercent: 0.3},
	}

	once := applyThreshold(props, 1)
	twice := applyThreshold(once, 1)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].Department, twice[i].Department)
		assert.InDelta(t, once[i].SharePercent, twice[i].SharePercent, 1e-9)
	}
}

func TestCompute_InvalidThreshold(t *testing.T) {
	records := []UsageRecord{rec("1001", "Flour", "Kitchen", 10)}

	_, err := Compute(records, Name("Flour"), Options{MinSharePercent: 100})
	assert.Error(t, err)

	_, err = Compute(records, Name("Flour"), Options{MinSharePercent: -1})
	assert.Error(t, err)
}

func TestCompute_ContainsIsOptIn(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Wheat Flour", "Kitchen", 30),
		rec("1002", "Corn Flour", "Bakery", 70),
	}

	// Exact mode: "Flour" matches neither full name.
	_, err := Compute(records, Name("Flour"), Options{})
	assert.ErrorIs(t, err, ErrNoUsage)

	// Relaxed mode matches both.
	props, err := Compute(records, Name("Flour"), Options{MatchContains: true})
	require.NoError(t, err)
	assert.Len(t, props, 2)
}

func TestCompute_TieBreakByFirstAppearance(t *testing.T) {
	records := []UsageRecord{
		rec("1001", "Flour", "Kitchen", 50),
		rec("1001", "Flour", "Bakery", 50),
	}

	props, err := Compute(records, Name("Flour"), Options{})
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "Kitchen", props[0].Department)
	assert.Equal(t, "Bakery", props[1].Department)
}
