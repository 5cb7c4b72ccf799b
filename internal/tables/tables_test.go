package tables

import (
	"testing"
	"time"

	"github.com/icevibe/pos-terminal/pkg/backend"
)

func at(minute int) time.Time {
	return time.Date(2025, 6, 1, 20, minute, 0, 0, time.UTC)
}

func TestLatestByTableKeepsNewestPerTable(t *testing.T) {
	t.Parallel()

	sales := []backend.Sale{
		{ID: 1, TableNumber: "5", SoldAt: at(10)},
		{ID: 2, TableNumber: "5", SoldAt: at(20)},
		{ID: 3, TableNumber: "7", SoldAt: at(15)},
	}

	latest := LatestByTable(sales)
	if len(latest) != 2 {
		t.Fatalf("tables = %d, want 2", len(latest))
	}
	if latest["5"].ID != 2 {
		t.Fatalf("table 5 sale = %d, want 2", latest["5"].ID)
	}
	if latest["7"].ID != 3 {
		t.Fatalf("table 7 sale = %d, want 3", latest["7"].ID)
	}
}

func TestLatestByTableSkipsTablelessSales(t *testing.T) {
	t.Parallel()

	sales := []backend.Sale{
		{ID: 1, TableNumber: "", SoldAt: at(10)},
		{ID: 2, TableNumber: "  ", SoldAt: at(11)},
		{ID: 3, TableNumber: "2", SoldAt: at(12)},
	}

	latest := LatestByTable(sales)
	if len(latest) != 1 {
		t.Fatalf("tables = %d, want 1", len(latest))
	}
}

func TestBoardPaidFlagIsLocal(t *testing.T) {
	t.Parallel()

	board := NewBoard()
	board.MarkPaid("5")

	if !board.IsPaid("5") {
		t.Fatal("expected table 5 paid")
	}
	if board.IsPaid("7") {
		t.Fatal("table 7 must not be paid")
	}

	board.ClearPaid("5")
	if board.IsPaid("5") {
		t.Fatal("expected paid flag cleared")
	}
}

func TestActiveAnnotatesAndSorts(t *testing.T) {
	t.Parallel()

	board := NewBoard()
	board.MarkPaid("7")

	sales := []backend.Sale{
		{ID: 1, TableNumber: "7", SoldAt: at(15)},
		{ID: 2, TableNumber: "5", SoldAt: at(10)},
		{ID: 3, TableNumber: "5", SoldAt: at(20)},
	}

	active := board.Active(sales)
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}
	if active[0].Sale.TableNumber != "5" || active[0].Paid {
		t.Fatalf("first = %+v, want unpaid table 5", active[0])
	}
	if active[1].Sale.TableNumber != "7" || !active[1].Paid {
		t.Fatalf("second = %+v, want paid table 7", active[1])
	}
	if active[0].Sale.ID != 3 {
		t.Fatalf("table 5 sale = %d, want newest", active[0].Sale.ID)
	}
}
