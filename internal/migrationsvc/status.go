// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package migrationsvc derives migration plan and mapping state from
// inventory records. It keeps that logic out of the TUI rendering code.
package migrationsvc

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Plan states.
const (
	StatusNotStarted = "NotStarted"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// PlanStatus determines the state of a plan record. An explicit Status wins;
// otherwise the latest request's state and status attributes decide.
func PlanStatus(r inventory.Record) string {
	switch strings.ToLower(r.Status) {
	case "completed", "succeeded", "finished":
		return StatusCompleted
	case "failed", "error":
		return StatusFailed
	case "active", "running", "executing", "in-progress", "inprogress":
		return StatusInProgress
	case "not-started", "notstarted", "pending", "ready":
		return StatusNotStarted
	}

	state := strings.ToLower(r.Attr("request_state"))
	status := strings.ToLower(r.Attr("request_status"))
	switch state {
	case "":
		return StatusNotStarted
	case "finished":
		if status == "error" {
			return StatusFailed
		}
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// DetectStatus determines the state of a Forklift Plan custom resource from
// its conditions: Succeeded and Failed are terminal, Executing means a
// migration is running, anything else has not started.
func DetectStatus(obj *unstructured.Unstructured) string {
	conditions, found, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if !found {
		return StatusNotStarted
	}

	has := map[string]bool{}
	for _, c := range conditions {
		cond, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		condType, _ := cond["type"].(string)
		condStatus, _ := cond["status"].(string)
		if condStatus == "True" {
			has[condType] = true
		}
	}

	switch {
	case has["Failed"]:
		return StatusFailed
	case has["Succeeded"]:
		return StatusCompleted
	case has["Executing"], has["Running"]:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}
