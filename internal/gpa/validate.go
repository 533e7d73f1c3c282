package gpa

import (
	"sort"
)

// Validate checks the roster's preconditions for aggregation. It returns a
// *SchemaError when required columns are absent and an *IdentityConflictError
// when a student id is claimed by more than one institution. It has no side effects.
func Validate(r *Roster) error {
	if err := ValidateSchema(r); err != nil {
		return err
	}
	return ValidateIdentity(r)
}

// ValidateSchema checks that every required column is present in the header.
func ValidateSchema(r *Roster) error {
	required := r.Schema.RequiredColumns()
	var missing []string
	for _, col := range required {
		if !r.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Required: required, Missing: missing}
	}
	return nil
}

// ValidateIdentity checks that each student id maps to exactly one institution.
// Blank institution cells are not counted.
func ValidateIdentity(r *Roster) error {
	owners := make(map[string][]string)
	for _, rec := range r.Records {
		if rec.InstitutionID == "" {
			continue
		}
		insts := owners[rec.StudentID]
		if !contains(insts, rec.InstitutionID) {
			owners[rec.StudentID] = append(insts, rec.InstitutionID)
		}
	}

	var conflicts []IdentityConflict
	for id, insts := range owners {
		if len(insts) > 1 {
			conflicts = append(conflicts, IdentityConflict{StudentID: id, InstitutionIDs: insts})
		}
	}
	if len(conflicts) == 0 {
		return nil
	}

	numeric := allNumeric(conflictIDs(conflicts))
	sort.Slice(conflicts, func(i, j int) bool {
		return lessStudentID(conflicts[i].StudentID, conflicts[j].StudentID, numeric)
	})
	return &IdentityConflictError{Conflicts: conflicts}
}

func conflictIDs(cs []IdentityConflict) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.StudentID
	}
	return ids
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
