package domain

import (
	dErrors "condogov/pkg/domain-errors"
)

// ProcessStatus is the lifecycle state shared by processes and their
// versions.
//
// Invariant: rascunho → em_revisao → {aprovado, rejeitado}. Rejection is
// reachable from any state because a stakeholder rejection always wins; the
// terminal states never transition back.
type ProcessStatus string

const (
	StatusDraft    ProcessStatus = "rascunho"
	StatusInReview ProcessStatus = "em_revisao"
	StatusApproved ProcessStatus = "aprovado"
	StatusRejected ProcessStatus = "rejeitado"
)

var validProcessStatuses = map[ProcessStatus]bool{
	StatusDraft:    true,
	StatusInReview: true,
	StatusApproved: true,
	StatusRejected: true,
}

// ParseProcessStatus constructs a ProcessStatus from external input.
func ParseProcessStatus(s string) (ProcessStatus, error) {
	st := ProcessStatus(s)
	if !validProcessStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid process status: "+s)
	}
	return st, nil
}

func (s ProcessStatus) IsValid() bool {
	return validProcessStatuses[s]
}

// IsTerminal reports whether the status accepts no further forward
// transitions. Rejection still applies to terminal versions (the record
// accumulates), but the approved/rejected flags themselves are final for
// the approval policy.
func (s ProcessStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s ProcessStatus) String() string { return string(s) }

// ProcessCategory is the fixed governance taxonomy for processes.
type ProcessCategory string

const (
	CategoryGovernance     ProcessCategory = "governanca"
	CategoryAccessSecurity ProcessCategory = "acesso_seguranca"
	CategoryOperations     ProcessCategory = "operacao"
	CategoryCommonAreas    ProcessCategory = "areas_comuns"
	CategoryCommunityLife  ProcessCategory = "convivencia"
	CategoryEvents         ProcessCategory = "eventos"
	CategoryEmergencies    ProcessCategory = "emergencias"
)

var validProcessCategories = map[ProcessCategory]bool{
	CategoryGovernance:     true,
	CategoryAccessSecurity: true,
	CategoryOperations:     true,
	CategoryCommonAreas:    true,
	CategoryCommunityLife:  true,
	CategoryEvents:         true,
	CategoryEmergencies:    true,
}

// ParseProcessCategory constructs a ProcessCategory from external input.
func ParseProcessCategory(s string) (ProcessCategory, error) {
	c := ProcessCategory(s)
	if !validProcessCategories[c] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid process category: "+s)
	}
	return c, nil
}

func (c ProcessCategory) IsValid() bool  { return validProcessCategories[c] }
func (c ProcessCategory) String() string { return string(c) }

// DocumentType classifies the governance document a process produces.
type DocumentType string

const (
	DocumentPOP          DocumentType = "pop"
	DocumentManual       DocumentType = "manual"
	DocumentRegulation   DocumentType = "regulamento"
	DocumentFlowchart    DocumentType = "fluxograma"
	DocumentNotice       DocumentType = "aviso"
	DocumentAnnouncement DocumentType = "comunicado"
	DocumentChecklist    DocumentType = "checklist"
	DocumentForm         DocumentType = "formulario"
	DocumentPolicy       DocumentType = "politica"
)

var validDocumentTypes = map[DocumentType]bool{
	DocumentPOP:          true,
	DocumentManual:       true,
	DocumentRegulation:   true,
	DocumentFlowchart:    true,
	DocumentNotice:       true,
	DocumentAnnouncement: true,
	DocumentChecklist:    true,
	DocumentForm:         true,
	DocumentPolicy:       true,
}

// ParseDocumentType constructs a DocumentType from external input.
func ParseDocumentType(s string) (DocumentType, error) {
	d := DocumentType(s)
	if !validDocumentTypes[d] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid document type: "+s)
	}
	return d, nil
}

func (d DocumentType) IsValid() bool  { return validDocumentTypes[d] }
func (d DocumentType) String() string { return string(d) }
