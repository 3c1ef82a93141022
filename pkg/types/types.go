// Package domain defines the core business types for the Server Bourse price watcher.
package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// WatchMeta is the state remembered for a watched server between ticks.
type WatchMeta struct {
	PreviousPrice float64 `json:"previous_price" example:"130.9" doc:"Last recorded gross monthly price"`
	Datacenter    string  `json:"datacenter"     example:"FSN1-DC14" doc:"Last seen datacenter"`
}

// WatchEntry is a single server identifier on the watch list.
type WatchEntry struct {
	ID      string    `json:"id"       example:"2165473" doc:"Server Bourse auction ID"`
	Meta    WatchMeta `json:"meta"`
	AddedAt time.Time `json:"added_at"`
}

// IPPrice is the per-IP surcharge attached to every feed record.
type IPPrice struct {
	Monthly float64 `json:"Monthly"`
	Hourly  float64 `json:"Hourly"`
	Amount  float64 `json:"Amount"`
}

// ServerDiskData groups drive sizes by drive class.
type ServerDiskData struct {
	NVMe    []int `json:"nvme"`
	SATA    []int `json:"sata"`
	HDD     []int `json:"hdd"`
	General []int `json:"general"`
}

// ServerRecord is one row of the live Server Bourse feed. Only ID, Price,
// IPPrice.Monthly and Datacenter take part in pricing and are decoded
// strictly; the remaining fields are carried for display and decoded best
// effort, so a type change in one of them leaves it zero instead of failing
// the whole snapshot.
type ServerRecord struct {
	ID                  int64          `json:"id"`
	Key                 int64          `json:"key"`
	Name                string         `json:"name"`
	Description         []string       `json:"description"`
	Information         []string       `json:"information"`
	Category            string         `json:"category"`
	CatID               int            `json:"cat_id"`
	CPU                 string         `json:"cpu"`
	CPUCount            int            `json:"cpu_count"`
	IsHighIO            bool           `json:"is_highio"`
	Traffic             string         `json:"traffic"`
	Bandwidth           int            `json:"bandwidth"`
	RAM                 []string       `json:"ram"`
	RAMSize             int            `json:"ram_size"`
	Price               float64        `json:"price"`
	SetupPrice          float64        `json:"setup_price"`
	HourlyPrice         float64        `json:"hourly_price"`
	HDDArr              []string       `json:"hdd_arr"`
	HDDHr               []string       `json:"hdd_hr"`
	HDDSize             int            `json:"hdd_size"`
	HDDCount            int            `json:"hdd_count"`
	ServerDiskData      ServerDiskData `json:"serverDiskData"`
	IsECC               bool           `json:"is_ecc"`
	Datacenter          string         `json:"datacenter"`
	DatacenterHr        string         `json:"datacenter_hr"`
	Specials            []string       `json:"specials"`
	Dist                []string       `json:"dist"`
	FixedPrice          bool           `json:"fixed_price"`
	NextReduce          int64          `json:"next_reduce"`
	NextReduceHr        bool           `json:"next_reduce_hr"`
	NextReduceTimestamp int64          `json:"next_reduce_timestamp"`
	IPPrice             IPPrice        `json:"ip_price"`
}

// Snapshot is one fetched payload of the live feed.
type Snapshot struct {
	Servers     []ServerRecord `json:"server"`
	ServerCount int            `json:"serverCount"`
}

// Find returns the record whose ID equals id, or nil.
func (s *Snapshot) Find(id int64) *ServerRecord {
	for i := range s.Servers {
		if s.Servers[i].ID == id {
			return &s.Servers[i]
		}
	}
	return nil
}

// Index builds an ID lookup table for the snapshot. Records with duplicate
// IDs resolve to the first occurrence, matching Find.
func (s *Snapshot) Index() map[int64]*ServerRecord {
	idx := make(map[int64]*ServerRecord, len(s.Servers))
	for i := range s.Servers {
		if _, ok := idx[s.Servers[i].ID]; !ok {
			idx[s.Servers[i].ID] = &s.Servers[i]
		}
	}
	return idx
}

// pricingFields are the feed fields reconciliation depends on.
type pricingFields struct {
	ID      int64   `json:"id"`
	Price   float64 `json:"price"`
	IPPrice struct {
		Monthly float64 `json:"Monthly"`
	} `json:"ip_price"`
	Datacenter string `json:"datacenter"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ServerRecord) UnmarshalJSON(data []byte) error {
	var core pricingFields
	if err := json.Unmarshal(data, &core); err != nil {
		return err
	}

	// Display fields: a mismatched value is skipped and the rest still
	// decode, so the type error is deliberately dropped.
	type displayRecord ServerRecord
	var display displayRecord
	_ = json.Unmarshal(data, &display) //nolint:errcheck // best effort

	*r = ServerRecord(display)
	r.ID = core.ID
	r.Price = core.Price
	r.IPPrice.Monthly = core.IPPrice.Monthly
	r.Datacenter = core.Datacenter
	return nil
}

// ParseID parses a watch list ID into the feed's numeric form.
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
