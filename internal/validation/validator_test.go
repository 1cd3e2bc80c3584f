// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

package validation

import (
	"strings"
	"testing"
)

type registerRequest struct {
	Handle      string `validate:"required,handle"`
	DisplayName string `validate:"required,max=80"`
	Kind        string `validate:"required,oneof=personal organization"`
	Password    string `validate:"required,min=8,max=72"`
}

func TestValidateStructValid(t *testing.T) {
	req := registerRequest{
		Handle:      "ana.silva",
		DisplayName: "Ana Silva",
		Kind:        "personal",
		Password:    "long enough password",
	}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() error = %v, want nil", err)
	}
}

func TestValidateStructFieldFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*registerRequest)
		field   string
		wantTag string
	}{
		{
			name:    "missing handle",
			mutate:  func(r *registerRequest) { r.Handle = "" },
			field:   "Handle",
			wantTag: "required",
		},
		{
			name:    "uppercase handle",
			mutate:  func(r *registerRequest) { r.Handle = "Ana" },
			field:   "Handle",
			wantTag: "handle",
		},
		{
			name:    "handle too short",
			mutate:  func(r *registerRequest) { r.Handle = "ab" },
			field:   "Handle",
			wantTag: "handle",
		},
		{
			name:    "unknown kind",
			mutate:  func(r *registerRequest) { r.Kind = "collective" },
			field:   "Kind",
			wantTag: "oneof",
		},
		{
			name:    "short password",
			mutate:  func(r *registerRequest) { r.Password = "short" },
			field:   "Password",
			wantTag: "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest{
				Handle:      "ana.silva",
				DisplayName: "Ana Silva",
				Kind:        "personal",
				Password:    "long enough password",
			}
			tt.mutate(&req)

			err := ValidateStruct(&req)
			if err == nil {
				t.Fatal("ValidateStruct() error = nil, want failure")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("Errors() len = %d, want 1", len(errs))
			}
			if errs[0].Field() != tt.field || errs[0].Tag() != tt.wantTag {
				t.Errorf("failure = (%s, %s), want (%s, %s)",
					errs[0].Field(), errs[0].Tag(), tt.field, tt.wantTag)
			}

			apiErr := err.ToAPIError()
			if apiErr.Code != "VALIDATION_ERROR" {
				t.Errorf("APIError code = %q, want VALIDATION_ERROR", apiErr.Code)
			}
		})
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	req := registerRequest{}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() of zero value error = nil, want failures")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("message = %q, want joined multi-field message", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Details missing fields list")
	}
}
