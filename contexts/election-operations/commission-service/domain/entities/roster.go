package entities

import "time"

// Registrar is a principal allowed to register voters.
type Registrar struct {
	Principal string    `json:"principal"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

// Roster is the commission membership snapshot. The authority is the single
// principal allowed to run the election lifecycle; registrars may only
// register voters. The authority holds registrar rights implicitly and never
// appears in Registrars.
type Roster struct {
	Authority      string      `json:"authority"`
	AuthoritySince time.Time   `json:"authority_since"`
	Registrars     []Registrar `json:"registrars"`
}

// HasRegistrar reports whether the principal holds an explicit grant.
func (r Roster) HasRegistrar(principal string) bool {
	for _, registrar := range r.Registrars {
		if registrar.Principal == principal {
			return true
		}
	}
	return false
}
