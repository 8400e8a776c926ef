// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"strings"
)

// Role is the closed set of account roles stored in the users table.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleSupervisor  Role = "supervisor"
	RoleCarer       Role = "carer"
	RoleSeniorCarer Role = "senior_carer"
	RoleTrainee     Role = "trainee"
)

// WorkerType is the class of staff a role belongs to. It is always derived
// from the role via [WorkerTypeOf] and never stored.
type WorkerType string

const (
	// WorkerTypeOffice covers staff allowed to use the web back office.
	WorkerTypeOffice WorkerType = "office_worker"
	// WorkerTypeGround covers field staff using the mobile app.
	WorkerTypeGround WorkerType = "ground_worker"
)

// ErrInvalidRole is returned when a role belongs to neither worker type.
var ErrInvalidRole = errors.New("invalid user role")

var (
	// OfficeRoles is the office_worker partition.
	OfficeRoles = []Role{RoleAdmin, RoleCoordinator, RoleSupervisor}

	// GroundRoles is the ground_worker partition.
	GroundRoles = []Role{RoleCarer, RoleSeniorCarer, RoleTrainee}

	// ManagementRoles may perform user lifecycle writes.
	ManagementRoles = []Role{RoleAdmin, RoleCoordinator, RoleSupervisor}
)

// WorkerTypeOf maps a role onto its worker type. The two partitions are
// disjoint and cover every valid role; anything else fails with
// [ErrInvalidRole].
func WorkerTypeOf(role Role) (WorkerType, error) {
	switch role {
	case RoleAdmin, RoleCoordinator, RoleSupervisor:
		return WorkerTypeOffice, nil
	case RoleCarer, RoleSeniorCarer, RoleTrainee:
		return WorkerTypeGround, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r belongs to one of the worker type partitions.
func (r Role) Valid() bool {
	_, err := WorkerTypeOf(r)
	return err == nil
}

// RolesOf returns the roles of the given worker type, or nil for an unknown type.
func RolesOf(workerType WorkerType) []Role {
	switch workerType {
	case WorkerTypeOffice:
		return OfficeRoles
	case WorkerTypeGround:
		return GroundRoles
	default:
		return nil
	}
}

// roleAliases maps the spellings used by the web forms and older imports
// onto canonical roles. Keys are normalised with normalizeToken.
var roleAliases = map[string]Role{
	"admin":              RoleAdmin,
	"administrator":      RoleAdmin,
	"coordinator":        RoleCoordinator,
	"care_coordinator":   RoleCoordinator,
	"supervisor":         RoleSupervisor,
	"team_leader":        RoleSupervisor,
	"carer":              RoleCarer,
	"care_worker":        RoleCarer,
	"caregiver":          RoleCarer,
	"senior_carer":       RoleSeniorCarer,
	"senior_care_worker": RoleSeniorCarer,
	"trainee":            RoleTrainee,
	"trainee_carer":      RoleTrainee,
}

// ParseRole maps free text onto a canonical role. Unknown input is rejected
// instead of falling back to a default role.
func ParseRole(s string) (Role, bool) {
	role, ok := roleAliases[normalizeToken(s)]
	return role, ok
}

// ParseWorkerType accepts "office_worker"/"ground_worker" as well as the
// spaced and hyphenated spellings used by the web forms.
func ParseWorkerType(s string) (WorkerType, bool) {
	switch WorkerType(normalizeToken(s)) {
	case WorkerTypeOffice:
		return WorkerTypeOffice, true
	case WorkerTypeGround:
		return WorkerTypeGround, true
	default:
		return "", false
	}
}

// Label returns the human form used in validation messages ("ground worker").
func (w WorkerType) Label() string {
	return strings.ReplaceAll(string(w), "_", " ")
}

// JoinRoles renders roles as a comma separated list.
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// JoinWorkerTypes renders worker types as a comma separated list.
func JoinWorkerTypes(types []WorkerType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}
