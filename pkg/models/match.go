package models

// RelationshipTier is the specificity level at which two items' custodians
// are related. Exactly four mutually exclusive values, ordered from most to
// least specific.
type RelationshipTier string

const (
	TierSameOrganization RelationshipTier = "same_organization"
	TierSameEnterprise   RelationshipTier = "same_enterprise"
	TierSameNetwork      RelationshipTier = "same_network"
	TierCrossNetwork     RelationshipTier = "cross_network"
)

// TransferComplexity is the estimated logistics difficulty of physically
// moving a found item to its claimant.
type TransferComplexity string

const (
	ComplexityNone   TransferComplexity = "none"
	ComplexityLow    TransferComplexity = "low"
	ComplexityMedium TransferComplexity = "medium"
	ComplexityHigh   TransferComplexity = "high"
)

// MatchResult is the outcome of evaluating a single candidate against a
// source item. It is constructed fresh on every matching call and never
// persisted by the engine.
type MatchResult struct {
	MatchedItemID         string             `json:"matched_item_id"`
	CompositeScore        float64            `json:"composite_score"`
	Breakdown             map[string]float64 `json:"breakdown"`
	RelationshipTier      RelationshipTier   `json:"relationship_tier"`
	TransferComplexity    TransferComplexity `json:"transfer_complexity"`
	EstimatedTransferTime string             `json:"estimated_transfer_time"`
	RequiresVerification  bool               `json:"requires_verification"`
	VerificationReasons   []string           `json:"verification_reasons,omitempty"`
	SourceTrustScore      float64            `json:"source_trust_score"`
	CandidateTrustScore   float64            `json:"candidate_trust_score"`
}

// MatchScope identifies how far across the directory a matching call may
// reach for candidates.
type MatchScope string

const (
	ScopeAll          MatchScope = "all"
	ScopeOrganization MatchScope = "organization"
	ScopeEnterprise   MatchScope = "enterprise"
	ScopeNetwork      MatchScope = "network"
	ScopeEnterprises  MatchScope = "enterprises"
)

// ScopeConfig bounds a matching or reporting call. MinScore, when set,
// overrides the scope's default minimum composite score.
type ScopeConfig struct {
	ScopeID        string     `json:"scope_id,omitempty"`
	Scope          MatchScope `json:"scope" validate:"omitempty,oneof=all organization enterprise network enterprises"`
	OrganizationID string     `json:"organization_id,omitempty"`
	EnterpriseID   string     `json:"enterprise_id,omitempty"`
	NetworkID      string     `json:"network_id,omitempty"`
	EnterpriseIDs  []string   `json:"enterprise_ids,omitempty"`
	MinScore       *float64   `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	Limit          int        `json:"limit,omitempty" validate:"omitempty,gte=0"`
}

// CrossesEnterprises reports whether the scope can pair items held by
// different enterprises. Those scopes carry a stricter default minimum.
func (s ScopeConfig) CrossesEnterprises() bool {
	switch s.Scope {
	case ScopeOrganization, ScopeEnterprise:
		return false
	default:
		return true
	}
}

// ItemMatches pairs a source item with its ranked match results.
type ItemMatches struct {
	Item    Item          `json:"item"`
	Matches []MatchResult `json:"matches"`
}

// TopMatch is a single entry in the cross-system dashboard list: an open
// item together with its best match.
type TopMatch struct {
	ItemID    string      `json:"item_id"`
	ItemTitle string      `json:"item_title"`
	BestMatch MatchResult `json:"best_match"`
}

// MatchReport aggregates matching statistics over every open item in a scope.
type MatchReport struct {
	ScopeID                string                   `json:"scope_id"`
	ItemsAnalyzed          int                      `json:"items_analyzed"`
	MatchesFound           int                      `json:"matches_found"`
	SameEnterpriseMatches  int                      `json:"same_enterprise_matches"`
	CrossEnterpriseMatches int                      `json:"cross_enterprise_matches"`
	ItemsWithMatches       int                      `json:"items_with_matches"`
	ItemsWithoutMatches    int                      `json:"items_without_matches"`
	AverageScore           float64                  `json:"average_score"`
	TopMatches             []TopMatch               `json:"top_matches"`
	TierDistribution       map[RelationshipTier]int `json:"tier_distribution"`
}
