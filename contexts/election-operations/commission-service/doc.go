// Package commission owns the election roster: the single authority principal
// and the set of registrars it has granted. Other modules consult it through
// a narrow role-check query surface; only the authority may mutate the roster.
package commission
