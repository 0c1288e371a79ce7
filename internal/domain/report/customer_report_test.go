package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customer(name string, createdAt time.Time, sales ...SaleRecord) CustomerRecord {
	return CustomerRecord{ID: uuid.New(), Name: name, CreatedAt: createdAt, Sales: sales}
}

func segmentCounts(agg CustomerAggregate) map[string]int {
	counts := map[string]int{}
	for _, s := range agg.CustomerSegments {
		counts[s.Segment] = s.Count
	}
	return counts
}

func TestAggregateCustomers_Segmentation(t *testing.T) {
	old := jan1.AddDate(-1, 0, 0)
	customers := []CustomerRecord{
		customer("Ana", old, sale(15000, jan1.Add(time.Hour))),
		customer("Beto", old, sale(500, jan1.Add(time.Hour))),
		customer("Carla", old, sale(2500, jan1.Add(time.Hour))),
	}

	agg := AggregateCustomers(customers, januaryFilter(), DefaultSettings())

	counts := segmentCounts(agg)
	assert.Equal(t, 1, counts[SegmentVIP])
	assert.Equal(t, 1, counts[SegmentRegular])
	assert.Equal(t, 0, counts[SegmentNew])
	require.Len(t, agg.CustomerSegments, 3)
	assert.Equal(t, SegmentVIP, agg.CustomerSegments[0].Segment)
	assert.InDelta(t, 100.0/3, agg.CustomerSegments[0].Percentage, 1e-9)
}

func TestAggregateCustomers_Counts(t *testing.T) {
	branch := uuid.New()
	other := uuid.New()
	inBranch := sale(100, jan1.Add(time.Hour))
	inBranch.BranchID = uuidPtr(branch)
	otherBranch := sale(900, jan1.Add(time.Hour))
	otherBranch.BranchID = uuidPtr(other)
	outOfRange := sale(700, jan1.AddDate(0, -1, 0))
	outOfRange.BranchID = uuidPtr(branch)

	customers := []CustomerRecord{
		customer("Nueva", jan1.AddDate(0, 0, 5), inBranch),
		customer("Otra sucursal", jan1.AddDate(-1, 0, 0), otherBranch),
		customer("Antigua", jan1.AddDate(-1, 0, 0), outOfRange),
		customer("Sin fecha", time.Time{}),
	}
	filter := januaryFilter()
	filter.BranchID = uuidPtr(branch)

	agg := AggregateCustomers(customers, filter, DefaultSettings())

	assert.Equal(t, 4, agg.TotalCustomers)
	assert.Equal(t, 1, agg.NewCustomers)
	assert.Equal(t, 1, agg.ActiveCustomers)
	require.NotEmpty(t, agg.TopCustomers)
	assert.Equal(t, "Nueva", agg.TopCustomers[0].Name)
	assert.Equal(t, 100.0, agg.TopCustomers[0].TotalSpent)
	assert.Equal(t, 1, agg.TopCustomers[0].Orders)
	assert.Equal(t, 1, segmentCounts(agg)[SegmentNew])
}

func TestAggregateCustomers_LifetimeValueUsesTopCustomers(t *testing.T) {
	var customers []CustomerRecord
	for i := 0; i < 20; i++ {
		customers = append(customers, customer(fmt.Sprintf("C%02d", i), jan1.AddDate(-1, 0, 0), sale(100, jan1.Add(time.Hour))))
	}

	agg := AggregateCustomers(customers, januaryFilter(), DefaultSettings())

	assert.Len(t, agg.TopCustomers, 10)
	assert.Equal(t, 1000.0/20, agg.CustomerLifetimeValue)
	assert.Equal(t, 20, agg.ActiveCustomers)
}

func TestAggregateCustomers_Empty(t *testing.T) {
	agg := AggregateCustomers(nil, januaryFilter(), DefaultSettings())

	assert.True(t, agg.IsEmpty())
	assert.Equal(t, 0.0, agg.CustomerLifetimeValue)
	assert.NotNil(t, agg.TopCustomers)
	for _, s := range agg.CustomerSegments {
		assert.Equal(t, 0.0, s.Percentage)
	}
}
