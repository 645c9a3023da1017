// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package miq

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// collection is the envelope of every list response.
type collection struct {
	Name      string     `json:"name"`
	Count     int        `json:"count"`
	Subcount  int        `json:"subcount"`
	Resources []resource `json:"resources"`
}

// flexID accepts ids encoded as strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

type miqRequest struct {
	RequestState string `json:"request_state"`
	Status       string `json:"status"`
	CreatedOn    string `json:"created_on"`
}

// resource is the union of the fields used across collections.
type resource struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	CreatedOn   string `json:"created_on"`

	EMS *struct {
		Name    string `json:"name"`
		EmsType string `json:"emstype"`
	} `json:"ext_management_system"`
	ParentDatacenter string `json:"v_parent_datacenter"`

	MappingItems []json.RawMessage `json:"transformation_mapping_items"`

	MiqRequests           []miqRequest `json:"miq_requests"`
	TransformationMapping *struct {
		ID flexID `json:"id"`
	} `json:"transformation_mapping"`
	Options struct {
		ConfigInfo struct {
			MappingID flexID            `json:"transformation_mapping_id"`
			Actions   []json.RawMessage `json:"actions"`
		} `json:"config_info"`
	} `json:"options"`
}

func (r resource) toRecord(kind inventory.Kind) inventory.Record {
	rec := inventory.Record{
		ID:          string(r.ID),
		Name:        r.Name,
		Kind:        kind,
		Status:      r.State,
		Description: r.Description,
		Attributes:  map[string]string{},
		CreatedAt:   parseTime(r.CreatedAt, r.CreatedOn),
	}
	if r.Type != "" {
		rec.Attributes["type"] = r.Type
	}
	if r.EMS != nil {
		rec.Attributes["provider"] = r.EMS.Name
		if r.EMS.EmsType != "" {
			rec.Attributes["provider_type"] = r.EMS.EmsType
		}
	}
	if r.ParentDatacenter != "" {
		rec.Attributes["datacenter"] = r.ParentDatacenter
	}

	switch kind {
	case inventory.Mappings:
		rec.Attributes["items"] = strconv.Itoa(len(r.MappingItems))
	case inventory.Plans, inventory.ArchivedPlans:
		rec.Attributes["vms"] = strconv.Itoa(len(r.Options.ConfigInfo.Actions))
		if req, ok := latestRequest(r.MiqRequests); ok {
			rec.Attributes["request_state"] = req.RequestState
			rec.Attributes["request_status"] = req.Status
		}
		switch {
		case r.TransformationMapping != nil && r.TransformationMapping.ID != "":
			rec.Refs = []string{string(r.TransformationMapping.ID)}
		case r.Options.ConfigInfo.MappingID != "":
			rec.Refs = []string{string(r.Options.ConfigInfo.MappingID)}
		}
	}
	return rec
}

// latestRequest picks the most recently created request.
func latestRequest(reqs []miqRequest) (miqRequest, bool) {
	if len(reqs) == 0 {
		return miqRequest{}, false
	}
	sorted := append([]miqRequest(nil), reqs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseTime(sorted[i].CreatedOn).Before(parseTime(sorted[j].CreatedOn))
	})
	return sorted[len(sorted)-1], true
}

// parseTime returns the first value that parses as RFC 3339.
func parseTime(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
