package board

import (
	"sort"
	"time"

	alertmodel "github.com/Andiyp/nauticalapp/internal/alert/model"
	sosmodel "github.com/Andiyp/nauticalapp/internal/sos/model"
)

const (
	KindAlert = "alert"
	KindSOS   = "sos"
)

// Entry is one item on the message board: either an admin alert or a distress
// request, tagged so the client can render each kind differently.
type Entry struct {
	Kind      string               `json:"kind"`
	CreatedAt time.Time            `json:"created_at"`
	Alert     *alertmodel.Alert    `json:"alert,omitempty"`
	SOS       *sosmodel.SOSRequest `json:"sos,omitempty"`
}

// Merge interleaves alerts and distress requests into one feed, newest first.
// The sort is stable so entries sharing a timestamp keep their input order,
// with alerts listed before requests.
func Merge(alerts []alertmodel.Alert, requests []sosmodel.SOSRequest) []Entry {
	entries := make([]Entry, 0, len(alerts)+len(requests))
	for i := range alerts {
		entries = append(entries, Entry{
			Kind:      KindAlert,
			CreatedAt: alerts[i].CreatedAt,
			Alert:     &alerts[i],
		})
	}
	for i := range requests {
		entries = append(entries, Entry{
			Kind:      KindSOS,
			CreatedAt: requests[i].CreatedAt,
			SOS:       &requests[i],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}
