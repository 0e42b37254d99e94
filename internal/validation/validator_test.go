// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package validation

import (
	"strings"
	"testing"
)

type purchaseRequest struct {
	ItemID   int64 `validate:"required,gt=0"`
	Quantity int   `validate:"min=1,max=10"`
}

type redeemRequest struct {
	Code string `validate:"required,promocode"`
}

type profileRequest struct {
	Username string `validate:"omitempty,min=3,max=32"`
	Email    string `validate:"omitempty,email"`
}

func TestValidateStructValid(t *testing.T) {
	req := purchaseRequest{ItemID: 7, Quantity: 2}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid struct, got: %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	req := purchaseRequest{Quantity: 1}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for missing ItemID")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Field() != "ItemID" {
		t.Errorf("field = %q, want ItemID", errs[0].Field())
	}
	if errs[0].Tag() != "required" {
		t.Errorf("tag = %q, want required", errs[0].Tag())
	}
}

func TestValidateStructRange(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantErr  bool
	}{
		{"minimum", 1, false},
		{"maximum", 10, false},
		{"below minimum", 0, true},
		{"above maximum", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := purchaseRequest{ItemID: 1, Quantity: tt.quantity}
			err := ValidateStruct(&req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPromocodeValidator(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"uppercase alnum", "SUMMER2026", true},
		{"with dash", "NEW-YEAR", true},
		{"with underscore", "VIP_ONLY", true},
		{"minimum length", "ABC", true},
		{"lowercase rejected", "summer2026", false},
		{"too short", "AB", false},
		{"too long", strings.Repeat("A", 33), false},
		{"spaces rejected", "HAPPY DAY", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&redeemRequest{Code: tt.code})
			if tt.valid && err != nil {
				t.Errorf("code %q rejected: %v", tt.code, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("code %q accepted", tt.code)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&redeemRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Code") {
		t.Errorf("message %q does not name the failing field", apiErr.Message)
	}
	if apiErr.Details["field"] != "Code" {
		t.Errorf("details field = %v, want Code", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	req := profileRequest{Username: "ab", Email: "not-an-email"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("details fields has unexpected type %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("expected 2 field entries, got %d", len(fields))
	}
}

func TestErrorMessages(t *testing.T) {
	req := profileRequest{Username: "ab"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "at least 3 characters") {
		t.Errorf("message %q lacks string-specific min wording", msg)
	}
}
