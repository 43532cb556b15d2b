package compare

import (
	"reflect"
	"testing"

	"github.com/yurifrl/pldash/pkg/calc"
	"github.com/yurifrl/pldash/pkg/models"
	"github.com/yurifrl/pldash/pkg/tree"
)

func rec(major, mid string, ratio bool, values ...float64) models.Record {
	var monthly models.MonthlyValues
	for i, v := range values {
		monthly = monthly.With(i+1, v)
	}
	return models.Record{Major: major, Mid: mid, Monthly: monthly, IsRatio: ratio}
}

func build(records ...models.Record) []tree.Node {
	return tree.Build(records, tree.Config{})
}

func rowByKey(t *testing.T, rows []Row, key string) Row {
	t.Helper()
	for _, r := range rows {
		if r.Key == key {
			return r
		}
	}
	t.Fatalf("row %q not found", key)
	return Row{}
}

func TestFlattenOrderAndMissingSides(t *testing.T) {
	prior := build(
		rec("판관비", "광고", false, 10, 20),
		rec("판관비", "인건비", false, 1, 1),
	)
	current := build(
		rec("판관비", "광고", false, 30, 40),
		rec("판관비", "물류비", false, 5, 5),
		rec("영업외", "이자", false, 2, 2),
	)

	rows := Flatten(prior, current, 2, tree.DefaultRatioConfig())

	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	want := []string{
		tree.KeyFor("판관비"),
		tree.KeyFor("판관비", "광고"),
		tree.KeyFor("판관비", "인건비"),
		tree.KeyFor("판관비", "물류비"),
		tree.KeyFor("영업외"),
		tree.KeyFor("영업외", "이자"),
	}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v\nwant %v", keys, want)
	}

	ad := rowByKey(t, rows, tree.KeyFor("판관비", "광고"))
	if !ad.InPrior || !ad.InCurrent || !ad.Leaf {
		t.Errorf("unexpected flags: %+v", ad)
	}
	assertCol(t, "priorMonth", ad.Columns.PriorMonth, 20)
	assertCol(t, "currYTD", ad.Columns.CurrYTD, 70)
	assertCol(t, "priorYearTotal", ad.Columns.PriorYearTotal, 30)

	onlyPrior := rowByKey(t, rows, tree.KeyFor("판관비", "인건비"))
	if onlyPrior.InCurrent || onlyPrior.Columns.CurrMonth != nil || onlyPrior.Columns.CurrYTD != nil {
		t.Errorf("current side should be null: %+v", onlyPrior)
	}
	assertCol(t, "priorMonth", onlyPrior.Columns.PriorMonth, 1)

	onlyCurrent := rowByKey(t, rows, tree.KeyFor("영업외"))
	if onlyCurrent.InPrior || onlyCurrent.Columns.PriorMonth != nil || onlyCurrent.Leaf {
		t.Errorf("prior side should be null: %+v", onlyCurrent)
	}
}

func TestFlattenRatioCategory(t *testing.T) {
	prior := build(
		rec("TAG매출", "A", false, 100, 100),
		rec("매출원가", "A", false, 10, 30),
		rec("TAG대비 원가율", "A", true, 99, 99),
	)
	current := build(
		rec("TAG매출", "A", false, 200, 200),
		rec("매출원가", "A", false, 50, 50),
		rec("TAG대비 원가율", "A", true, 99, 99),
	)

	rows := Flatten(prior, current, 2, tree.DefaultRatioConfig())
	ratio := rowByKey(t, rows, tree.KeyFor("TAG대비 원가율", "A"))
	if !ratio.IsRatio {
		t.Fatalf("expected ratio row")
	}
	assertCol(t, "priorMonth", ratio.Columns.PriorMonth, 30)
	assertCol(t, "currMonth", ratio.Columns.CurrMonth, 25)
	assertCol(t, "priorYTD", ratio.Columns.PriorYTD, 20)
	assertCol(t, "currYearTotal", ratio.Columns.CurrYearTotal, 25)

	top := rowByKey(t, rows, tree.KeyFor("TAG대비 원가율"))
	assertCol(t, "top priorYTD", top.Columns.PriorYTD, 20)
}

func TestFlattenRatioCategoryOneSidedInputs(t *testing.T) {
	prior := build(
		rec("TAG매출", "A", false, 100, 100),
		rec("TAG대비 원가율", "A", true, 40, 40),
	)
	current := build(
		rec("TAG매출", "A", false, 200, 200),
		rec("매출원가", "A", false, 50, 50),
		rec("TAG대비 원가율", "A", true, 99, 99),
	)

	rows := Flatten(prior, current, 2, tree.DefaultRatioConfig())
	ratio := rowByKey(t, rows, tree.KeyFor("TAG대비 원가율", "A"))
	if !ratio.InPrior {
		t.Fatalf("ratio row exists in prior")
	}
	c := ratio.Columns
	if c.PriorMonth != nil || c.PriorYTD != nil || c.PriorYearTotal != nil {
		t.Errorf("prior figures should be null without a numerator: %+v", c)
	}
	assertCol(t, "currMonth", c.CurrMonth, 25)
	assertCol(t, "currYTD", c.CurrYTD, 25)
}

func TestFlattenRatioLeafOutsideRatioCategory(t *testing.T) {
	prior := build(rec("판관비", "광고비율", true, 5, 6))
	current := build(rec("판관비", "광고비율", true, 7, 8))

	rows := Flatten(prior, current, 2, tree.DefaultRatioConfig())
	row := rowByKey(t, rows, tree.KeyFor("판관비", "광고비율"))
	if !row.IsRatio {
		t.Fatalf("expected ratio row")
	}
	assertCol(t, "priorMonth", row.Columns.PriorMonth, 6)
	assertCol(t, "currMonth", row.Columns.CurrMonth, 8)
	if row.Columns.PriorYTD != nil || row.Columns.CurrYearTotal != nil {
		t.Errorf("ratio rows are not summed: %+v", row.Columns)
	}
}

func TestFlattenInvalidMonth(t *testing.T) {
	forest := build(rec("판관비", "광고", false, 1))
	for _, row := range Flatten(forest, forest, 13, tree.DefaultRatioConfig()) {
		if row.Columns != (calc.Columns{}) {
			t.Errorf("%s: expected null columns, got %+v", row.Key, row.Columns)
		}
	}
	if rows := Flatten(nil, nil, 1, tree.DefaultRatioConfig()); rows == nil || len(rows) != 0 {
		t.Errorf("expected empty rows, got %#v", rows)
	}
}

func assertCol(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want %v", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}
