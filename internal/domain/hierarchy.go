package domain

import "sort"

// Hierarchy is the fixed escalation map between organizations: every filing
// organization reports up to exactly one reviewer. It is built once from
// configuration and read-only afterwards.
type Hierarchy struct {
	reviewerOf   map[string]string
	subordinates map[string][]string
}

// NewHierarchy builds a Hierarchy from a child -> reviewer map.
func NewHierarchy(reviewerOf map[string]string) *Hierarchy {
	h := &Hierarchy{
		reviewerOf:   make(map[string]string, len(reviewerOf)),
		subordinates: make(map[string][]string),
	}
	for child, parent := range reviewerOf {
		h.reviewerOf[child] = parent
		h.subordinates[parent] = append(h.subordinates[parent], child)
	}
	for parent := range h.subordinates {
		sort.Strings(h.subordinates[parent])
	}
	return h
}

// ReviewerOf returns the fixed reviewing organization for org, if any.
func (h *Hierarchy) ReviewerOf(org string) (string, bool) {
	parent, ok := h.reviewerOf[org]
	return parent, ok
}

// Subordinates returns the organizations that report up to org, sorted.
func (h *Hierarchy) Subordinates(org string) []string {
	return h.subordinates[org]
}

// Reviews reports whether parent is the fixed reviewer of child.
func (h *Hierarchy) Reviews(parent, child string) bool {
	p, ok := h.reviewerOf[child]
	return ok && p == parent
}

// Knows reports whether org appears anywhere in the hierarchy.
func (h *Hierarchy) Knows(org string) bool {
	if _, ok := h.reviewerOf[org]; ok {
		return true
	}
	_, ok := h.subordinates[org]
	return ok
}

// Orgs returns every organization in the hierarchy, sorted.
func (h *Hierarchy) Orgs() []string {
	seen := make(map[string]struct{}, len(h.reviewerOf))
	for child, parent := range h.reviewerOf {
		seen[child] = struct{}{}
		seen[parent] = struct{}{}
	}
	orgs := make([]string, 0, len(seen))
	for org := range seen {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)
	return orgs
}

// VisibleTargets returns the set of target organizations whose events and
// deadlines org may see: itself plus every organization it reviews.
func (h *Hierarchy) VisibleTargets(org string) []string {
	targets := append([]string{org}, h.subordinates[org]...)
	return targets
}

// OrgContext carries the identity of the organization a resolution pass runs
// for. It is threaded explicitly into every resolver call; there is no
// ambient current-organization state.
type OrgContext struct {
	Organization string
	Actor        string
}
