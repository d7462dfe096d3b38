package scenario

import (
	"encoding/json"
	"fmt"
)

// Record is the persisted form of a scenario.
type Record struct {
	Name          string         `json:"name"`
	KnownFactions *KnownFactions `json:"known_factions,omitempty"`
	Arrival       string         `json:"arrival,omitempty"`
	Init          GameInit       `json:"init"`
}

// Record captures the scenario for saving.
func (s *Scenario) Record(init GameInit) Record {
	r := Record{Name: s.Name, Init: init}
	if kf, ok := s.KnownFactions(); ok {
		copied := *kf
		r.KnownFactions = &copied
	}
	if _, ok := s.Part(KindArriveMethod).(*ArriveMethod); ok {
		r.Arrival = s.PlayerArrival().String()
	}
	return r
}

// Restore rebuilds a scenario and its game-init flags from a record.
func (r Record) Restore() (*Scenario, GameInit, error) {
	var parts []Part
	if r.KnownFactions != nil {
		kf := *r.KnownFactions
		parts = append(parts, &kf)
	}
	if r.Arrival != "" {
		method, err := ParseArrivalMethod(r.Arrival)
		if err != nil {
			return nil, GameInit{}, err
		}
		parts = append(parts, &ArriveMethod{Method: method})
	}
	s, err := New(r.Name, parts...)
	if err != nil {
		return nil, GameInit{}, err
	}
	return s, r.Init, nil
}

// MarshalRecord encodes a record as JSON.
func MarshalRecord(r Record) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal scenario: %w", err)
	}
	return string(b), nil
}

// UnmarshalRecord decodes a JSON record.
func UnmarshalRecord(data string) (Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return Record{}, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return r, nil
}
