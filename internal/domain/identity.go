package domain

import "fmt"

// SystemUserGuard refuses identity-mutating operations against the
// reserved system account. Every role change, status change, deletion
// or anonymization must pass through it first.
type SystemUserGuard struct {
	reservedID string
}

// NewSystemUserGuard creates a guard for the given reserved account id.
func NewSystemUserGuard(reservedID string) *SystemUserGuard {
	return &SystemUserGuard{reservedID: reservedID}
}

// AssertNotSystemUser returns ErrSystemUserImmutable when id is the
// reserved system account.
func (g *SystemUserGuard) AssertNotSystemUser(id, operationLabel string) error {
	if id != "" && id == g.reservedID {
		return fmt.Errorf("%s: %w", operationLabel, ErrSystemUserImmutable)
	}
	return nil
}
