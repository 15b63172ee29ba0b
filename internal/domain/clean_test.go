package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanWildfires_DropsMissingBurnIndex(t *testing.T) {
	rows := []WildfireRecord{
		{Name: "Archie Creek", BurnIndex: ptr(62)},
		{Name: UnknownName},
		{Name: "Holiday Farm", BurnIndex: ptr(0)},
	}

	got := CleanWildfires(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "Archie Creek", got[0].Name)
	assert.Equal(t, "Holiday Farm", got[1].Name)
}

func TestCleanLandslides_DropsMissingAndNegativeCost(t *testing.T) {
	rows := []LandslideRecord{
		{Name: "Hwy 38", RepairCost: ptr(125000)},
		{Name: "Hwy 101"},
		{Name: "Hwy 18", RepairCost: ptr(-1)},
		{Name: "Hwy 20", RepairCost: ptr(0)},
	}

	got := CleanLandslides(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "Hwy 38", got[0].Name)
	assert.Equal(t, "Hwy 20", got[1].Name)
}

func TestCleanCounties_DropsMissingPrecip(t *testing.T) {
	rows := []CountyRecord{
		{Region: "grant", Group: 1, AveragePrecip: ptr(14)},
		{Region: "grant", Group: 1},
	}
	assert.Len(t, CleanCounties(rows), 1)
}
