package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

var segNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestSegmentClient_Reglas(t *testing.T) {
	cfg := finance.SegmentationConfig{InactivityMonths: 3}

	cases := []struct {
		name string
		h    finance.ClientHistory
		want finance.ClientTag
	}{
		{
			name: "sin compras y cliente reciente → Novo",
			h:    finance.ClientHistory{CreatedAt: segNow.AddDate(0, -1, 0)},
			want: finance.TagNew,
		},
		{
			name: "sin compras y cliente antiguo → Inativo",
			h:    finance.ClientHistory{CreatedAt: segNow.AddDate(0, -3, 0)},
			want: finance.TagInactive,
		},
		{
			name: "una compra hace 10 días → Novo",
			h: finance.ClientHistory{
				CreatedAt:     segNow.AddDate(-1, 0, 0),
				PurchaseDates: []time.Time{segNow.AddDate(0, 0, -10)},
			},
			want: finance.TagNew,
		},
		{
			name: "dos compras, la última hace 10 días → Recorrente",
			h: finance.ClientHistory{
				CreatedAt:     segNow.AddDate(-1, 0, 0),
				PurchaseDates: []time.Time{segNow.AddDate(0, -2, 0), segNow.AddDate(0, 0, -10)},
			},
			want: finance.TagRecurring,
		},
		{
			name: "una compra hace 5 meses → Inativo (recencia manda)",
			h: finance.ClientHistory{
				CreatedAt:     segNow.AddDate(-1, 0, 0),
				PurchaseDates: []time.Time{segNow.AddDate(0, -5, 0)},
			},
			want: finance.TagInactive,
		},
		{
			name: "muchas compras antiguas → Inativo",
			h: finance.ClientHistory{
				CreatedAt: segNow.AddDate(-2, 0, 0),
				PurchaseDates: []time.Time{
					segNow.AddDate(0, -9, 0), segNow.AddDate(0, -7, 0), segNow.AddDate(0, -4, 0),
				},
			},
			want: finance.TagInactive,
		},
		{
			name: "orden de las fechas irrelevante",
			h: finance.ClientHistory{
				CreatedAt:     segNow.AddDate(-1, 0, 0),
				PurchaseDates: []time.Time{segNow.AddDate(0, 0, -5), segNow.AddDate(0, -8, 0)},
			},
			want: finance.TagRecurring,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, finance.SegmentClient(tc.h, segNow, cfg))
		})
	}
}

func TestSegmentClient_UmbralConfigurable(t *testing.T) {
	h := finance.ClientHistory{
		CreatedAt:     segNow.AddDate(-1, 0, 0),
		PurchaseDates: []time.Time{segNow.AddDate(0, -5, 0), segNow.AddDate(0, -4, -1)},
	}
	assert.Equal(t, finance.TagInactive, finance.SegmentClient(h, segNow, finance.SegmentationConfig{InactivityMonths: 3}))
	assert.Equal(t, finance.TagRecurring, finance.SegmentClient(h, segNow, finance.SegmentationConfig{InactivityMonths: 6}))
}

func TestSegmentClient_UmbralInvalidoUsaDefault(t *testing.T) {
	h := finance.ClientHistory{CreatedAt: segNow.AddDate(0, -3, 0)}
	assert.Equal(t, finance.TagInactive, finance.SegmentClient(h, segNow, finance.SegmentationConfig{}))
	assert.Equal(t, finance.TagInactive, finance.SegmentClient(h, segNow, finance.SegmentationConfig{InactivityMonths: -2}))
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 0, finance.MonthsBetween(day(2026, 1, 31), day(2026, 2, 28)))
	assert.Equal(t, 1, finance.MonthsBetween(day(2026, 1, 31), day(2026, 3, 1)))
	assert.Equal(t, 5, finance.MonthsBetween(day(2026, 5, 14), day(2026, 10, 14)))
	assert.Equal(t, 0, finance.MonthsBetween(day(2026, 10, 4), day(2026, 10, 14)))
	assert.Equal(t, 12, finance.MonthsBetween(day(2025, 10, 14), day(2026, 10, 14)))
	assert.Equal(t, 0, finance.MonthsBetween(day(2026, 12, 1), day(2026, 1, 1)), "nunca negativo")
}

func TestSegmentClients_YConteos(t *testing.T) {
	histories := map[string]finance.ClientHistory{
		"a": {CreatedAt: segNow.AddDate(0, 0, -3)},
		"b": {CreatedAt: segNow.AddDate(-1, 0, 0), PurchaseDates: []time.Time{segNow.AddDate(0, 0, -1), segNow.AddDate(0, 0, -20)}},
		"c": {CreatedAt: segNow.AddDate(-1, 0, 0)},
	}
	tags := finance.SegmentClients(histories, segNow, finance.SegmentationConfig{InactivityMonths: 3})
	assert.Equal(t, finance.TagNew, tags["a"])
	assert.Equal(t, finance.TagRecurring, tags["b"])
	assert.Equal(t, finance.TagInactive, tags["c"])

	counts := finance.TagCounts(tags)
	assert.Equal(t, map[finance.ClientTag]int{finance.TagNew: 1, finance.TagRecurring: 1, finance.TagInactive: 1}, counts)
	assert.Len(t, finance.TagCounts(nil), 3)
}

func TestHistoryFromDocuments(t *testing.T) {
	docs := []finance.Document{
		simpleDoc(finance.KindSale, segNow.AddDate(0, 0, -2), 10),
		simpleDoc(finance.KindSale, segNow.AddDate(0, 0, -40), 99),
	}
	h := finance.HistoryFromDocuments(segNow.AddDate(-1, 0, 0), docs)
	assert.Len(t, h.PurchaseDates, 2)
	assert.Equal(t, finance.TagRecurring, finance.SegmentClient(h, segNow, finance.SegmentationConfig{InactivityMonths: 3}))
}
