package repository

import (
    "strings"
    "testing"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

func TestDecodeItemSeatsShapes(t *testing.T) {
    t.Parallel()
    want := model.CanonicalSeatID("ORCH", "A", 5)
    cases := []struct {
        name    string
        payload string
    }{
        {"item seatInfo", `{"seatInfo":{"section":"ORCH","row":"A","seat":5}}`},
        {"ticket seatInfo", `{"ticket":{"seatInfo":{"sectionId":"ORCH","rowLabel":"A","seatNumber":"5"}}}`},
        {"seats array", `{"seats":[{"section":"ORCH","row":"a","number":"05"}]}`},
    }
    for _, tc := range cases {
        ids := decodeItemSeats([]byte(tc.payload))
        if len(ids) != 1 {
            t.Errorf("%s: got %d seats, want 1", tc.name, len(ids))
            continue
        }
        if ids[0] != want {
            t.Errorf("%s: got %q, want %q", tc.name, ids[0], want)
        }
    }
}

func TestDecodeItemSeatsDuplicateEncodingsCollapse(t *testing.T) {
    t.Parallel()
    // The same seat encoded twice with different field spellings must
    // produce the same canonical key both times.
    payload := `{"seatInfo":{"section":"MEZZ","row":2,"seat":10},"seats":[{"sectionId":"MEZZ","rowLabel":"2","seatNumber":"10"}]}`
    ids := decodeItemSeats([]byte(payload))
    if len(ids) != 2 {
        t.Fatalf("got %d seats, want 2", len(ids))
    }
    if ids[0] != ids[1] {
        t.Fatalf("duplicate encodings did not collapse: %q vs %q", ids[0], ids[1])
    }
}

func TestDecodeItemSeatsGarbage(t *testing.T) {
    t.Parallel()
    for _, payload := range []string{"", "not json", "{}", `{"seats":[{}]}`} {
        if ids := decodeItemSeats([]byte(payload)); len(ids) != 0 {
            t.Errorf("payload %q: got %d seats, want 0", payload, len(ids))
        }
    }
}

func TestSoldStatusClauseTracksStatusList(t *testing.T) {
    t.Parallel()
    placeholders, args := soldStatusClause(7)
    if want := len(model.SoldSeatStatuses); strings.Count(placeholders, "?") != want {
        t.Errorf("placeholders %q, want %d markers", placeholders, want)
    }
    if strings.HasSuffix(placeholders, ",") {
        t.Errorf("placeholders %q has a trailing comma", placeholders)
    }
    if len(args) != len(model.SoldSeatStatuses)+1 {
        t.Fatalf("args = %d, want %d", len(args), len(model.SoldSeatStatuses)+1)
    }
    if args[0] != uint64(7) {
        t.Errorf("args[0] = %v, want the event id", args[0])
    }
    for i, status := range model.SoldSeatStatuses {
        if args[i+1] != status {
            t.Errorf("args[%d] = %v, want %q", i+1, args[i+1], status)
        }
    }
}
