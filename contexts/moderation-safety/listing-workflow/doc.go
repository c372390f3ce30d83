// Package listingworkflow governs a submitted listing request from creation
// to approval or rejection: edit-while-pending, CAS-guarded admin decisions,
// time-based expiry, and the hand-off to the external publish collaborator.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package listingworkflow
