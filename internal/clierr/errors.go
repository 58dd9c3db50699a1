// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package clierr provides error classification and user-friendly error formatting for the CLI.
// It helps distinguish between different error types and provides actionable hints.
package clierr

import (
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
)

// Common error types for CLI output.
const (
	TypeNotFound   = "not_found"  // Unknown resource kind or record
	TypeForbidden  = "forbidden"  // Record outside the impersonated groups' scope
	TypeCancelled  = "cancelled"  // Impersonation start superseded or stopped
	TypeInternal   = "internal"   // Internal/unexpected errors
	TypeValidation = "validation" // Input validation errors
)

// validationError marks an error caused by bad user input.
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }

// Validation marks err as an input validation error.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return &validationError{err: err}
}

// IsValidation checks if the error was caused by bad input.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var v *validationError
	return errors.As(err, &v) || errors.Is(err, perspective.ErrUnknown)
}

// IsForbidden checks if the error is an access denied error.
func IsForbidden(err error) bool {
	if err == nil {
		return false
	}
	return apierrors.IsForbidden(err)
}

// IsNotFound checks if the error indicates a missing resource kind or record.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return apierrors.IsNotFound(err) || errors.Is(err, mockdata.ErrUnknownResource)
}

// IsCancelled checks if an impersonation start was cancelled.
func IsCancelled(err error) bool {
	return err != nil && errors.Is(err, viewctx.ErrCancelled)
}

// ClassifyError determines the type of error for appropriate handling.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if IsForbidden(err) {
		return TypeForbidden
	}
	if IsNotFound(err) {
		return TypeNotFound
	}
	if IsValidation(err) {
		return TypeValidation
	}
	if IsCancelled(err) {
		return TypeCancelled
	}
	return TypeInternal
}

// Pretty formats an error with a user-friendly message and actionable hints.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	errType := ClassifyError(err)
	baseMsg := err.Error()

	switch errType {
	case TypeForbidden:
		return fmt.Sprintf("Access denied: %s\n\nHint: The impersonated groups cannot see this record.\n"+
			"  - Drop --as/--group to view it as the signed-in actor\n"+
			"  - Add a scopeRules entry for one of the groups in the config file", baseMsg)

	case TypeNotFound:
		if errors.Is(err, mockdata.ErrUnknownResource) {
			return fmt.Sprintf("Unknown resource: %s\n\nHint: Valid resources are:\n  %s",
				baseMsg, strings.Join(mockdata.ResourceNames(), ", "))
		}
		return fmt.Sprintf("Not found: %s\n\nHint: acm-console list <resource> shows the available names", baseMsg)

	case TypeValidation:
		if errors.Is(err, perspective.ErrUnknown) {
			return fmt.Sprintf("Invalid input: %s\n\nHint: Perspectives are:\n  %s", baseMsg, perspectiveNames())
		}
		return fmt.Sprintf("Invalid input: %s", baseMsg)

	case TypeCancelled:
		return fmt.Sprintf("Cancelled: %s", baseMsg)

	default:
		return fmt.Sprintf("Error: %s", baseMsg)
	}
}

func perspectiveNames() string {
	all := perspective.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// NothingFound returns a user-friendly message when a listing has no rows.
// This is different from an error - it's a valid "empty" result.
func NothingFound(resource string) string {
	return fmt.Sprintf("No %s found matching your criteria.\n\n"+
		"This might mean:\n"+
		"  - Your --where filter is too restrictive\n"+
		"  - The impersonated groups do not own any %s", resource, resource)
}

// Unwrap returns the underlying error, stripping any wrapper.
func Unwrap(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
