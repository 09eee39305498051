package models

import (
	"testing"
)

func TestDecodeProfileDataPerRole(t *testing.T) {
	tests := []struct {
		name string
		role Role
		raw  JSONMap
	}{
		{
			name: "student shape",
			role: RoleStudent,
			raw: JSONMap{
				"first_name":  "Amina",
				"grade_level": "11",
				"subjects":    []interface{}{"math", "physics"},
			},
		},
		{
			name: "tutor shape",
			role: RoleTutor,
			raw: JSONMap{
				"first_name":       "Brian",
				"headline":         "Calculus tutor",
				"hourly_rate":      30.0,
				"years_experience": 6,
			},
		},
		{
			name: "admin shape",
			role: RoleAdmin,
			raw:  JSONMap{"first_name": "Root", "last_name": "Admin"},
		},
		{
			name: "nil data",
			role: RoleStudent,
			raw:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeProfileData(tt.role, tt.raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got == nil {
				t.Fatalf("decode returned nil map")
			}
		})
	}
}

func TestDecodeProfileDataRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		role Role
		raw  JSONMap
	}{
		{RoleStudent, JSONMap{"hourly_rate": 25.0}},
		{RoleTutor, JSONMap{"grade_level": "9"}},
		{RoleAdmin, JSONMap{"bio": "not an admin field"}},
	}
	for _, tt := range tests {
		if _, err := DecodeProfileData(tt.role, tt.raw); err == nil {
			t.Fatalf("role %s accepted foreign field %v", tt.role, tt.raw)
		}
	}
}

func TestDecodeProfileDataUnknownRole(t *testing.T) {
	if _, err := DecodeProfileData(Role("superuser"), JSONMap{"first_name": "x"}); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
}

func TestMergeProfileDataLastWriteWins(t *testing.T) {
	base := JSONMap{"first_name": "Amina", "grade_level": "10"}
	patch := JSONMap{"grade_level": "11", "time_zone": "Africa/Nairobi"}

	merged := MergeProfileData(base, patch)

	if merged["first_name"] != "Amina" {
		t.Fatalf("kept key lost: %v", merged["first_name"])
	}
	if merged["grade_level"] != "11" {
		t.Fatalf("patch did not win: %v", merged["grade_level"])
	}
	if merged["time_zone"] != "Africa/Nairobi" {
		t.Fatalf("new key missing: %v", merged["time_zone"])
	}

	// Inputs stay untouched.
	if base["grade_level"] != "10" {
		t.Fatalf("base mutated: %v", base["grade_level"])
	}
	if _, ok := base["time_zone"]; ok {
		t.Fatalf("base gained patch key")
	}
	if len(patch) != 2 {
		t.Fatalf("patch mutated: %v", patch)
	}
}
