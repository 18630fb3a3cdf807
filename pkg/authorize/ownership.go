package authorize

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotOwner means the caller's role permits the operation in general but
// the caller does not own this specific entity. Services translate it into
// their own not-found sentinel so the response never confirms the entity
// exists.
var ErrNotOwner = errors.New("caller does not own this entity")

// OwnerIDs carries an entity's stored owner references. Either field may be
// nil when the entity has no owner of that kind.
type OwnerIDs struct {
	PatientID      *uuid.UUID
	ProfessionalID *uuid.UUID
}

// PatientOwner is a convenience constructor for entities owned by a single
// patient.
func PatientOwner(patientID uuid.UUID) OwnerIDs {
	return OwnerIDs{PatientID: &patientID}
}

// VerifyOwner is the fine-grained gate that runs after Evaluate and after
// the entity has been fetched, since ownership can only be decided from the
// stored owner ids.
//
// Admins pass unconditionally. Professionals pass for any entity: the
// current policy does not restrict a professional to their own patients
// (patient-only operations such as recording progress are excluded at the
// role gate, before this check). Patients pass only for entities whose
// patient owner is themselves.
func VerifyOwner(owner OwnerIDs, caller Identity) error {
	switch caller.Role {
	case RoleAdmin:
		return nil
	case RoleProfessional:
		return nil
	case RolePatient:
		if owner.PatientID != nil && *owner.PatientID == caller.SubjectID {
			return nil
		}
		return ErrNotOwner
	default:
		return ErrNotOwner
	}
}
