package ledger

import (
	"errors"
	"testing"
)

func TestRecordWriteOnce(t *testing.T) {
	l := New(&MemStore{})

	added, err := l.Record(42)
	if err != nil || !added {
		t.Fatalf("first Record = %v, %v; want true, nil", added, err)
	}
	added, err = l.Record(42)
	if err != nil || added {
		t.Fatalf("second Record = %v, %v; want false, nil", added, err)
	}
	m, err := l.Marker(42)
	if err != nil {
		t.Fatalf("Marker: %v", err)
	}
	if m != SeenFlag|42 {
		t.Fatalf("marker = %02X, want %02X", m, SeenFlag|42)
	}
	if seen, _ := l.Seen(41); seen {
		t.Fatal("41 seen without being recorded")
	}
}

func TestRecordKeepsExistingMarker(t *testing.T) {
	store := &MemStore{}
	store[7] = 0x55
	l := New(store)
	if added, _ := l.Record(7); added {
		t.Fatal("Record overwrote a set entry")
	}
	if store[7] != 0x55 {
		t.Fatalf("entry = %02X, want untouched 55", store[7])
	}
}

func TestIDRange(t *testing.T) {
	l := New(&MemStore{})
	if _, err := l.Record(Size); !errors.Is(err, ErrIDRange) {
		t.Fatalf("Record(%d) err = %v, want ErrIDRange", Size, err)
	}
	if _, _, _, err := l.Next(200); !errors.Is(err, ErrIDRange) {
		t.Fatalf("Next(200) err = %v, want ErrIDRange", err)
	}
}

func TestMarkerForIsNeverZero(t *testing.T) {
	for id := 0; id < Size; id++ {
		if MarkerFor(uint8(id)) == 0 {
			t.Fatalf("MarkerFor(%d) = 0", id)
		}
	}
}

func TestNext(t *testing.T) {
	l := New(&MemStore{})
	if _, _, ok, err := l.Next(0); ok || err != nil {
		t.Fatalf("Next on empty ledger = %v, %v", ok, err)
	}
	for _, id := range []uint8{3, 9, 100} {
		if _, err := l.Record(id); err != nil {
			t.Fatal(err)
		}
	}
	tests := []struct {
		from uint8
		want uint8
	}{
		{0, 3},
		{3, 9},
		{4, 9},
		{9, 100},
		{100, 3},
		{127, 3},
	}
	for _, tt := range tests {
		id, marker, ok, err := l.Next(tt.from)
		if err != nil || !ok {
			t.Fatalf("Next(%d) = %v, %v", tt.from, ok, err)
		}
		if id != tt.want || marker != MarkerFor(tt.want) {
			t.Errorf("Next(%d) = %d/%02X, want %d", tt.from, id, marker, tt.want)
		}
	}
}

func TestNextSingleEntryReturnsItself(t *testing.T) {
	l := New(&MemStore{})
	if _, err := l.Record(5); err != nil {
		t.Fatal(err)
	}
	id, _, ok, _ := l.Next(5)
	if !ok || id != 5 {
		t.Fatalf("Next(5) = %d, %v; want 5 after a full wrap", id, ok)
	}
}

func TestEntries(t *testing.T) {
	l := New(&MemStore{})
	for _, id := range []uint8{9, 3, 9} {
		if _, err := l.Record(id); err != nil {
			t.Fatal(err)
		}
	}
	got, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{3, MarkerFor(3)}, {9, MarkerFor(9)}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Entries = %+v, want %+v", got, want)
	}
}

type failingStore struct{ MemStore }

var errBroken = errors.New("broken eeprom")

func (f *failingStore) Set(int, byte) error { return errBroken }

func TestRecordStoreError(t *testing.T) {
	l := New(&failingStore{})
	if _, err := l.Record(1); !errors.Is(err, errBroken) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}
