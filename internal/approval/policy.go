package approval

import id "condogov/pkg/domain"

// TransitionPolicy decides whether recording an approval moves the version
// to a new status. approvals is the total recorded for the version, the one
// just written included. The boolean reports whether to transition at all;
// the record itself always stands either way.
type TransitionPolicy interface {
	Decide(current id.ProcessStatus, approvals int) (id.ProcessStatus, bool)
}

// SingleApproverPolicy closes an in-review version on its first approval.
// Approvals on drafts or already-decided versions are recorded as opinions
// without moving status.
type SingleApproverPolicy struct{}

func (SingleApproverPolicy) Decide(current id.ProcessStatus, _ int) (id.ProcessStatus, bool) {
	if current == id.StatusInReview {
		return id.StatusApproved, true
	}
	return current, false
}

// QuorumPolicy closes an in-review version once the approval count reaches
// Required.
type QuorumPolicy struct {
	Required int
}

func (p QuorumPolicy) Decide(current id.ProcessStatus, approvals int) (id.ProcessStatus, bool) {
	if current == id.StatusInReview && approvals >= p.Required {
		return id.StatusApproved, true
	}
	return current, false
}
