package provtemplate

import "github.com/openprovenance/provtemplate/prov"

// Re-exported sentinel errors from prov, so callers of this package's
// facade functions can use errors.Is against provtemplate.ErrXxx without
// importing the prov package directly — the same flat sentinel-error
// taxonomy the teacher exposes at its own package root in errors.go.
var (
	ErrUnboundMandatoryVariable      = prov.ErrUnboundMandatoryVariable
	ErrIncorrectBindingsForGroup     = prov.ErrIncorrectBindingsForGroup
	ErrIncorrectBindingsForStatement = prov.ErrIncorrectBindingsForStatement
	ErrBindingsFormat                = prov.ErrBindingsFormat
	ErrUnknownRelation               = prov.ErrUnknownRelation
	ErrLinkedGraphInvalid            = prov.ErrLinkedGraphInvalid
)
