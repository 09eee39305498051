package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Per-role shapes for the profile_data column. The column itself stays
// an open mapping so partial updates merge key-by-key, but anything
// crossing the service boundary is decoded against the role's shape
// first and unknown fields are rejected.

type StudentProfileData struct {
	FirstName     string   `json:"first_name,omitempty"`
	LastName      string   `json:"last_name,omitempty"`
	GradeLevel    string   `json:"grade_level,omitempty"`
	Subjects      []string `json:"subjects,omitempty"`
	LearningGoals string   `json:"learning_goals,omitempty"`
	TimeZone      string   `json:"time_zone,omitempty"`
}

type TutorProfileData struct {
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	Headline        string   `json:"headline,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	HourlyRate      float64  `json:"hourly_rate,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty"`
	TimeZone        string   `json:"time_zone,omitempty"`
}

type AdminProfileData struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DecodeProfileData validates raw profile data against the shape for
// the given role and returns it as a mapping ready for storage.
func DecodeProfileData(role Role, raw JSONMap) (JSONMap, error) {
	if raw == nil {
		return JSONMap{}, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode profile data: %w", err)
	}

	var shape interface{}
	switch role {
	case RoleStudent:
		shape = &StudentProfileData{}
	case RoleTutor:
		shape = &TutorProfileData{}
	case RoleAdmin:
		shape = &AdminProfileData{}
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(shape); err != nil {
		return nil, fmt.Errorf("profile data does not match %s shape: %w", role, err)
	}
	return raw, nil
}

// MergeProfileData shallow-merges patch into base, last write wins per
// key. Neither input is mutated.
func MergeProfileData(base, patch JSONMap) JSONMap {
	merged := make(JSONMap, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
