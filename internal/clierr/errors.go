// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package clierr classifies fetch and command errors and formats them for
// display. The dashboard shows Short reasons next to rejected collections;
// commands print Pretty messages with hints.
package clierr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Error types.
const (
	TypeUnauthorized = "unauthorized" // Bad or missing credentials
	TypeForbidden    = "forbidden"    // RBAC access denied
	TypeNotFound     = "not_found"    // Endpoint, resource or CRD not found
	TypeUnsupported  = "unsupported"  // Source cannot serve the collection
	TypeTimeout      = "timeout"      // Deadline exceeded
	TypeNetwork      = "network"      // Connection errors
	TypeInternal     = "internal"     // Anything else
)

// Unauthorized is implemented by errors that mean the credentials were refused.
type Unauthorized interface {
	Unauthorized() bool
}

// IsUnauthorized checks for rejected credentials.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	var u Unauthorized
	if errors.As(err, &u) && u.Unauthorized() {
		return true
	}
	if apierrors.IsUnauthorized(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid token")
}

// IsForbidden checks if the error is an access denied (RBAC) error.
func IsForbidden(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsForbidden(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "access denied")
}

// IsNotFound checks if the error indicates a missing resource, endpoint or CRD.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsNotFound(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no matches for kind") ||
		strings.Contains(msg, "the server could not find")
}

// IsTimeout checks for deadline errors.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || apierrors.IsTimeout(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "client.timeout exceeded") ||
		strings.Contains(msg, "context deadline exceeded")
}

// IsNetworkError checks if the error is a connection error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "tls:")
}

// ClassifyError determines the type of error.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, inventory.ErrUnsupported):
		return TypeUnsupported
	case IsUnauthorized(err):
		return TypeUnauthorized
	case IsForbidden(err):
		return TypeForbidden
	case IsNotFound(err):
		return TypeNotFound
	case IsTimeout(err):
		return TypeTimeout
	case IsNetworkError(err):
		return TypeNetwork
	default:
		return TypeInternal
	}
}

// Short returns a one-line reason suitable for a status column.
func Short(err error) string {
	switch ClassifyError(err) {
	case "":
		return ""
	case TypeUnauthorized:
		return "not authorized"
	case TypeForbidden:
		return "access denied"
	case TypeNotFound:
		return "not found"
	case TypeUnsupported:
		return "unsupported"
	case TypeTimeout:
		return "timed out"
	case TypeNetwork:
		return "unreachable"
	default:
		msg := Unwrap(err).Error()
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		if len(msg) > 40 {
			msg = msg[:37] + "..."
		}
		return msg
	}
}

// Pretty formats an error with a user-friendly message and actionable hints.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	baseMsg := err.Error()

	switch ClassifyError(err) {
	case TypeUnauthorized:
		return fmt.Sprintf("Not authorized: %s\n\nHint: Check your credentials:\n"+
			"  - set MIQ_TOKEN or miq.token in the config file\n"+
			"  - for the kube source, check your kubeconfig user", baseMsg)

	case TypeForbidden:
		return fmt.Sprintf("Access denied: %s\n\nHint: Check your permissions. You may need:\n"+
			"  - a ManageIQ role that can view transformation mappings and plans\n"+
			"  - list access to forklift.konveyor.io resources (kubectl auth can-i list plans.forklift.konveyor.io)", baseMsg)

	case TypeNotFound:
		lower := strings.ToLower(baseMsg)
		if strings.Contains(lower, "no matches for kind") || strings.Contains(lower, "the server could not find") {
			return fmt.Sprintf("CRD not installed: %s\n\nHint: The Forklift (MTV) operator may not be installed in this cluster.", baseMsg)
		}
		return fmt.Sprintf("Not found: %s", baseMsg)

	case TypeUnsupported:
		return fmt.Sprintf("Unsupported: %s\n\nHint: Choose a source that provides this collection (source: miq).", baseMsg)

	case TypeTimeout:
		return fmt.Sprintf("Timed out: %s\n\nHint: Increase miq.timeout or check the server load.", baseMsg)

	case TypeNetwork:
		return fmt.Sprintf("Connection error: %s\n\nHint: Check connectivity:\n"+
			"  - verify miq.url (or MIQ_URL) is reachable\n"+
			"  - kubectl cluster-info for the kube source", baseMsg)

	default:
		return fmt.Sprintf("Error: %s", baseMsg)
	}
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// Unwrap returns the innermost error of a single-wrap chain.
func Unwrap(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
